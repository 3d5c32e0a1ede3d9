package pipeline

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/fatih/color"
)

// PromptText asks the operator for a destination.
const PromptText = "Enter the destination IP address: "

type readResult struct {
	line string
	err  error
}

// ReadDestination prints the prompt to w and reads one line from r.
// It returns ctx.Err() as soon as ctx is done, even if r is still blocked.
// The destination is returned without surrounding whitespace and is
// otherwise not validated.
func ReadDestination(ctx context.Context, r io.Reader, w io.Writer) (string, error) {
	color.New(color.FgCyan, color.Bold).Fprint(w, PromptText)

	done := make(chan readResult, 1)
	go func() {
		line, err := bufio.NewReader(r).ReadString('\n')
		done <- readResult{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		if res.err != nil && (res.err != io.EOF || res.line == "") {
			return "", res.err
		}
		return strings.TrimSpace(res.line), nil
	}
}
