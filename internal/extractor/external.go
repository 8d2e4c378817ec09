package extractor

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// CommandExtractor is a StructuredExtractor that shells out to an
// external program for the actual structured-extraction work (e.g. a
// wrapper script around a language model API). The family text is
// written to the child process's stdin; the familyID is passed as its
// last argument, after any configured Args; the child's stdout is taken
// as the raw response.
//
// This is the CLI's concrete external collaborator: the core never
// implements extraction itself, only this narrow adapter to whatever
// the operator points it at.
type CommandExtractor struct {
	Path string
	Args []string
}

// NewCommandExtractor returns a CommandExtractor invoking path with args
// appended before the family ID on each call.
func NewCommandExtractor(path string, args ...string) *CommandExtractor {
	return &CommandExtractor{Path: path, Args: args}
}

// Extract runs the configured command, feeding text on stdin and
// returning its stdout as the raw response.
func (c *CommandExtractor) Extract(ctx context.Context, familyID, text string) (string, error) {
	args := append(append([]string{}, c.Args...), familyID)
	cmd := exec.CommandContext(ctx, c.Path, args...)
	cmd.Stdin = bytes.NewReader([]byte(text))

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("running %s: %w (stderr: %s)", c.Path, err, stderr.String())
	}
	return stdout.String(), nil
}
