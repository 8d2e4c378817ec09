// Package segmenter extracts the exact substring of a family-record
// compendium belonging to one family identifier, without parsing the
// record's contents. It also exposes file-order traversal helpers used
// by the prefetch scheduler.
package segmenter
