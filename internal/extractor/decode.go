package extractor

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var fencedCodeBlock = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// decodeResponse strips any surrounding fenced-code markers, trims to
// the outermost JSON object, and decodes it as a generic document.
func decodeResponse(raw string) (map[string]any, error) {
	body := raw
	if m := fencedCodeBlock.FindStringSubmatch(body); m != nil {
		body = m[1]
	}

	start := strings.IndexByte(body, '{')
	end := strings.LastIndexByte(body, '}')
	if start < 0 || end < start {
		return nil, fmt.Errorf("no JSON object found in response")
	}
	body = body[start : end+1]

	var doc map[string]any
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, fmt.Errorf("unparseable response: %w", err)
	}
	return doc, nil
}
