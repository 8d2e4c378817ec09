package extractor

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/michaelbendio/kalvian-roots/types"
)

// DefaultTimeout is applied to a StructuredExtractor call when the
// caller's context carries no deadline of its own.
const DefaultTimeout = 120 * time.Second

// StructuredExtractor delegates the actual structured-extraction work
// (typically a call to an external language model) for one family's raw
// text. It returns the extractor's raw textual response, which the
// Adapter is responsible for repairing and validating.
type StructuredExtractor interface {
	Extract(ctx context.Context, familyID, text string) (string, error)
}

// Adapter turns a StructuredExtractor's raw response into a validated
// types.Family.
type Adapter struct {
	Extractor StructuredExtractor
}

// New returns an Adapter wrapping extractor. A nil extractor is valid and
// makes every call fail with ErrNotConfigured.
func New(extractor StructuredExtractor) *Adapter {
	return &Adapter{Extractor: extractor}
}

// ExtractFamily converts (familyID, text) into a validated Family.
func (a *Adapter) ExtractFamily(ctx context.Context, familyID, text string) (types.Family, error) {
	if a.Extractor == nil {
		return types.Family{}, ErrNotConfigured
	}
	if strings.TrimSpace(text) == "" {
		return types.Family{}, &ExtractionFailedError{Reason: "empty family text"}
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultTimeout)
		defer cancel()
	}

	normalizedID := types.NormalizeFamilyID(familyID)

	raw, err := a.Extractor.Extract(ctx, normalizedID, text)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return types.Family{}, &ExtractionFailedError{Reason: "timeout"}
		}
		return types.Family{}, &ExtractionFailedError{Reason: err.Error()}
	}
	if strings.TrimSpace(raw) == "" {
		return types.Family{}, &ExtractionFailedError{Reason: "empty response"}
	}

	doc, err := decodeResponse(raw)
	if err != nil {
		return types.Family{}, &ExtractionFailedError{Reason: err.Error()}
	}

	return normalizeDocument(doc, normalizedID)
}
