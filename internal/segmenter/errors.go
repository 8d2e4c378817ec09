package segmenter

import "errors"

// ErrSourceUnavailable indicates the source compendium could not be
// opened, read, or was empty.
var ErrSourceUnavailable = errors.New("segmenter: source unavailable")
