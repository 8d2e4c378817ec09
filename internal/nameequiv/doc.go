// Package nameequiv maintains a read-only, symmetric equivalence relation
// over given names, bridging Finnish, Swedish, and Latin spelling variants
// of the same name (e.g. "Matti", "Matts", "Matthias") so the resolver's
// matcher and the citation generator can recognize the same person across
// records written by different clerks in different eras.
package nameequiv
