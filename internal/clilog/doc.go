// Package clilog prints status lines to stderr/stdout with a consistent
// glyph-and-color convention (info, success, warning, error, hint),
// honoring a quiet mode that suppresses everything but errors and a
// no-color mode for piped output.
package clilog
