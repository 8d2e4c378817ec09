// Package familyservice wires the segmenter, extractor, resolver,
// cache, and prefetch scheduler into the single entry point the CLI
// layer calls: look up a family (segment → extract → resolve on a
// cache miss), then derive citations, GEDCOM/YAML exports, and search
// results from the resulting network.
package familyservice
