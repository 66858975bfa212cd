package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vmunix/reqarr/internal/workflow"
)

// terminalPrompter asks workflow questions on a terminal. Choices are picked by number
// or key, Enter takes the default and "q" cancels.
type terminalPrompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func newTerminalPrompter(in io.Reader, out io.Writer) *terminalPrompter {
	return &terminalPrompter{in: bufio.NewScanner(in), out: out}
}

func (p *terminalPrompter) Ask(ctx context.Context, q workflow.Question) (workflow.Choice, error) {
	if q.Header != "" {
		_, _ = fmt.Fprintf(p.out, "\n%s\n", q.Header)
	}
	if q.Message != "" {
		_, _ = fmt.Fprintln(p.out, q.Message)
	}
	for i, c := range q.Choices {
		marker := " "
		if c.Key == q.Default {
			marker = "*"
		}
		_, _ = fmt.Fprintf(p.out, " %s %d) %s\n", marker, i+1, c.Label)
	}

	for {
		if err := ctx.Err(); err != nil {
			return workflow.Choice{}, err
		}
		_, _ = fmt.Fprint(p.out, "Choice [Enter for default, q to cancel]: ")
		if !p.in.Scan() {
			if err := p.in.Err(); err != nil {
				return workflow.Choice{}, fmt.Errorf("read answer: %w", err)
			}
			return workflow.Choice{}, workflow.ErrCancelled
		}

		c, ok, err := p.parse(q, strings.TrimSpace(p.in.Text()))
		if err != nil {
			return workflow.Choice{}, err
		}
		if ok {
			return c, nil
		}
		_, _ = fmt.Fprintf(p.out, "Enter a number between 1 and %d.\n", len(q.Choices))
	}
}

func (p *terminalPrompter) parse(q workflow.Question, answer string) (workflow.Choice, bool, error) {
	switch strings.ToLower(answer) {
	case "q", "quit":
		return workflow.Choice{}, false, workflow.ErrCancelled
	case "":
		if q.Default == "" {
			return workflow.Choice{}, false, nil
		}
		c, ok := q.Find(q.Default)
		return c, ok, nil
	}

	if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(q.Choices) {
		return q.Choices[n-1], true, nil
	}
	c, ok := q.Find(answer)
	return c, ok, nil
}

// printNotice writes a workflow notice with a marker for its kind.
func printNotice(out io.Writer, n workflow.Notice) {
	marker := "·"
	switch n.Kind {
	case workflow.NoticeSucceeded:
		marker = "✓"
	case workflow.NoticePending:
		marker = "…"
	case workflow.NoticeFailed, workflow.NoticeAbandoned:
		marker = "✗"
	}
	_, _ = fmt.Fprintf(out, "%s %s\n", marker, n.Message)
}
