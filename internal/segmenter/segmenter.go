package segmenter

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/michaelbendio/kalvian-roots/types"
)

// segmentCacheSize bounds the number of extracted family segments kept
// in memory; the source file itself is held in full regardless.
const segmentCacheSize = 64

var headerCandidate = regexp.MustCompile(`(?m)^([^,\n]+),`)

type headerLine struct {
	id     string
	offset int
}

// Segmenter extracts family-record substrings from one loaded source
// file by family identifier, and exposes file-order traversal.
type Segmenter struct {
	content string
	headers []headerLine
	cache   *lru.Cache[string, string]
}

// New loads path as the source compendium and indexes its family
// headers. It returns ErrSourceUnavailable if path cannot be read.
func New(path string) (*Segmenter, error) {
	if err := validateFile(path); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("segmenter: reading %s: %w", path, ErrSourceUnavailable)
	}

	cache, err := lru.New[string, string](segmentCacheSize)
	if err != nil {
		return nil, fmt.Errorf("segmenter: building cache: %w", err)
	}

	content := strings.ReplaceAll(string(data), "\r\n", "\n")
	s := &Segmenter{
		content: content,
		cache:   cache,
	}
	s.headers = findHeaders(content)
	return s, nil
}

func validateFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("segmenter: %s: %w", path, ErrSourceUnavailable)
	}
	if info.IsDir() {
		return fmt.Errorf("segmenter: %s is a directory: %w", path, ErrSourceUnavailable)
	}
	if info.Size() == 0 {
		return fmt.Errorf("segmenter: %s is empty: %w", path, ErrSourceUnavailable)
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("segmenter: %s: %w", path, ErrSourceUnavailable)
	}
	return f.Close()
}

func findHeaders(content string) []headerLine {
	var headers []headerLine
	for _, m := range headerCandidate.FindAllStringSubmatchIndex(content, -1) {
		candidate := content[m[2]:m[3]]
		normalized := types.NormalizeFamilyID(candidate)
		if !types.LooksLikeFamilyID(normalized) {
			continue
		}
		headers = append(headers, headerLine{id: normalized, offset: m[0]})
	}
	return headers
}

// Segment returns the substring of the source belonging to familyID
// (header through the blank-line padding preceding the next header, or
// end-of-file), and whether a matching header was found.
func (s *Segmenter) Segment(familyID string) (string, bool) {
	normalized := types.NormalizeFamilyID(familyID)
	if v, ok := s.cache.Get(normalized); ok {
		return v, true
	}

	idx := s.indexOf(normalized)
	if idx < 0 {
		return "", false
	}

	start := s.headers[idx].offset
	end := len(s.content)
	if idx+1 < len(s.headers) {
		end = s.headers[idx+1].offset
	}

	segment := strings.TrimRight(s.content[start:end], "\n\r\t ")
	s.cache.Add(normalized, segment)
	return segment, true
}

func (s *Segmenter) indexOf(normalizedID string) int {
	for i, h := range s.headers {
		if h.id == normalizedID {
			return i
		}
	}
	return -1
}

// AllFamilyIDs returns every recognized family ID in file order.
func (s *Segmenter) AllFamilyIDs() []string {
	ids := make([]string, 0, len(s.headers))
	seen := make(map[string]bool, len(s.headers))
	for _, h := range s.headers {
		if seen[h.id] {
			continue
		}
		seen[h.id] = true
		ids = append(ids, h.id)
	}
	return ids
}

// NextFamilyID returns the family ID immediately following after in
// file order, or ("", false) if after is the last family or unknown.
func (s *Segmenter) NextFamilyID(after string) (string, bool) {
	normalized := types.NormalizeFamilyID(after)
	idx := s.indexOf(normalized)
	if idx < 0 || idx+1 >= len(s.headers) {
		return "", false
	}
	return s.headers[idx+1].id, true
}
