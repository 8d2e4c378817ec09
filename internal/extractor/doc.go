// Package extractor wraps an external structured-extraction service
// (a StructuredExtractor) and turns its raw response for one family's
// text into a validated types.Family: stripping response wrapping,
// decoding JSON, enforcing the family schema, and normalizing spouse
// strings and note markers. The adapter never invents data — a
// schema-violating response fails rather than being coerced.
package extractor
