package dateutil

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Kind classifies a parsed date payload.
type Kind int

const (
	// KindLiteral is an unrecognized, opaque domain string (e.g.
	// "isoviha") that passes through format normalization unchanged.
	KindLiteral Kind = iota
	// KindFull is a day.month.year date, with a 2- or 4-digit year.
	KindFull
	// KindYearOnly is a bare 2- or 4-digit year.
	KindYearOnly
)

// Parsed is the result of parsing one partial-date string.
type Parsed struct {
	Original     string
	Approximate  bool // "n " or "n<yyyy>" prefix was present
	Payload      string
	Kind         Kind
	Day          int
	Month        int
	Year         int // as written: 2-digit years are stored as their 2-digit value
	TwoDigitYear bool
}

var (
	fullDatePattern  = regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})\.(\d{4})$`)
	fullDate2Pattern = regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})\.(\d{2})$`)
	year4Pattern     = regexp.MustCompile(`^\d{4}$`)
	year2Pattern     = regexp.MustCompile(`^\d{2}$`)
	approxRestPrefix = "n "
	approxCompact    = regexp.MustCompile(`^n(\d{4})$`)
)

var monthNames = [...]string{
	"", "January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// Parse recognizes the partial-date grammar: full dates, year-only forms,
// the "n " / "n<yyyy>" approximate marker, and opaque literals that fall
// through unrecognized.
func Parse(raw string) Parsed {
	trimmed := strings.TrimSpace(raw)

	if strings.HasPrefix(trimmed, approxRestPrefix) {
		payload := strings.TrimSpace(trimmed[len(approxRestPrefix):])
		inner := parsePayload(payload)
		inner.Original = trimmed
		inner.Approximate = true
		inner.Payload = payload
		return inner
	}

	if m := approxCompact.FindStringSubmatch(trimmed); m != nil {
		inner := parsePayload(m[1])
		inner.Original = trimmed
		inner.Approximate = true
		inner.Payload = m[1]
		return inner
	}

	p := parsePayload(trimmed)
	p.Original = trimmed
	p.Payload = trimmed
	return p
}

func parsePayload(payload string) Parsed {
	if m := fullDatePattern.FindStringSubmatch(payload); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		return Parsed{Kind: KindFull, Day: day, Month: month, Year: year}
	}
	if m := fullDate2Pattern.FindStringSubmatch(payload); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		return Parsed{Kind: KindFull, Day: day, Month: month, Year: year, TwoDigitYear: true}
	}
	if year4Pattern.MatchString(payload) {
		year, _ := strconv.Atoi(payload)
		return Parsed{Kind: KindYearOnly, Year: year}
	}
	if year2Pattern.MatchString(payload) {
		year, _ := strconv.Atoi(payload)
		return Parsed{Kind: KindYearOnly, Year: year, TwoDigitYear: true}
	}
	return Parsed{Kind: KindLiteral}
}

// InferCentury resolves a two-digit year yy to a full year using the
// contextual birth year B: candidates {1600+yy, 1700+yy, 1800+yy}; prefer
// the smallest candidate Y
// such that Y-B falls in the typical marriage-age window [15, 50]; if none
// qualifies, pick the candidate minimizing distance to that window. With
// no contextual birth year, default to 1700+yy.
func InferCentury(yy int, birthYear *int) int {
	candidates := []int{1600 + yy, 1700 + yy, 1800 + yy}

	if birthYear == nil {
		return 1700 + yy
	}
	b := *birthYear

	var satisfying []int
	for _, y := range candidates {
		age := y - b
		if age >= 15 && age <= 50 {
			satisfying = append(satisfying, y)
		}
	}
	if len(satisfying) > 0 {
		sort.Ints(satisfying)
		return satisfying[0]
	}

	best := candidates[0]
	bestDist := windowDistance(best, b)
	for _, y := range candidates[1:] {
		dist := windowDistance(y, b)
		if dist < bestDist || (dist == bestDist && y < best) {
			best = y
			bestDist = dist
		}
	}
	return best
}

func windowDistance(y, b int) int {
	age := y - b
	switch {
	case age < 15:
		return 15 - age
	case age > 50:
		return age - 50
	default:
		return 0
	}
}

// FormatDate normalizes raw for display with no contextual birth year
// available: two-digit years default to the 1700s.
func FormatDate(raw string) string {
	return Format(raw, nil)
}

// FormatDateWithContext normalizes raw for display using contextBirthYear
// to resolve any two-digit year via InferCentury.
func FormatDateWithContext(raw string, contextBirthYear int) string {
	return Format(raw, &contextBirthYear)
}

// Format renders raw per the display rules: full dates as "D Month YYYY",
// approximate dates as "abt <formatted payload>" (collapsing to "abt YYYY"
// when the payload is year-only), year-only values as a four-digit year,
// and unrecognized literals unchanged. Two-digit years are expanded via
// InferCentury with birthYear as context.
func Format(raw string, birthYear *int) string {
	p := Parse(raw)
	if p.Approximate {
		return "abt " + formatParsed(parsePayload(p.Payload), p.Payload, birthYear)
	}
	return formatParsed(p, raw, birthYear)
}

func formatParsed(p Parsed, fallback string, birthYear *int) string {
	switch p.Kind {
	case KindFull:
		year := p.Year
		if p.TwoDigitYear {
			year = InferCentury(p.Year, birthYear)
		}
		return fmt.Sprintf("%d %s %d", p.Day, monthNames[p.Month], year)
	case KindYearOnly:
		year := p.Year
		if p.TwoDigitYear {
			year = InferCentury(p.Year, birthYear)
		}
		return strconv.Itoa(year)
	default:
		return fallback
	}
}

// ExtractMarriageYear normalizes a marriage-date shorthand (commonly a
// bare two-digit year) to a 4-digit year string using contextBirthYear as
// the century-inference context; a contextBirthYear of 0 or less means no
// context is known. Full dates and literals pass through their
// already-resolved year or the original string unchanged.
func ExtractMarriageYear(raw string, contextBirthYear int) string {
	p := Parse(raw)
	payload := raw
	if p.Approximate {
		payload = p.Payload
		p = parsePayload(p.Payload)
	}

	switch p.Kind {
	case KindFull, KindYearOnly:
		year := p.Year
		if p.TwoDigitYear {
			var ctx *int
			if contextBirthYear > 0 {
				ctx = &contextBirthYear
			}
			year = InferCentury(p.Year, ctx)
		}
		return strconv.Itoa(year)
	default:
		return payload
	}
}

// ParseYear extracts the best-known year from raw, resolving a two-digit
// year with no contextual birth year (defaulting to the 1700s), for use
// in birth-year equality comparisons where no further context is
// available. ok is false for unrecognized literals.
func ParseYear(raw string) (year int, ok bool) {
	p := Parse(raw)
	payload := raw
	if p.Approximate {
		payload = p.Payload
		p = parsePayload(payload)
	}

	switch p.Kind {
	case KindFull, KindYearOnly:
		year := p.Year
		if p.TwoDigitYear {
			year = InferCentury(p.Year, nil)
		}
		return year, true
	default:
		return 0, false
	}
}
