// Package citation renders a resolved Family into a human-readable
// citation string: parent lines, a children section enriched with
// dates drawn from a person's own as-parent family when available,
// additional-spouse remarriages, consumed notes, and an enhancement
// footer. Generate is a pure function of its arguments.
package citation
