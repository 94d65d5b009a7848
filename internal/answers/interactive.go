package answers

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/apkforge/apkforge/internal/identity"
)

// Interactive prompts on a line-oriented terminal.
type Interactive struct {
	in       *bufio.Reader
	out      io.Writer
	defaults identity.Defaults
	// pending holds a read still waiting on input after a canceled prompt.
	pending chan readResult
}

type readResult struct {
	line string
	err  error
}

// NewInteractive reads answers from r and writes prompts to w. The defaults
// are shown in the prompts and apply when an answer is left blank.
func NewInteractive(r io.Reader, w io.Writer, d identity.Defaults) *Interactive {
	return &Interactive{
		in:       bufio.NewReader(r),
		out:      w,
		defaults: d.Resolved(),
	}
}

// Identity asks for the project name, then the package name. Input that
// ends before either answer yields ErrNoInput.
func (p *Interactive) Identity(ctx context.Context) (string, string, error) {
	name, err := p.ask(ctx, fmt.Sprintf("Project Name (default: %s): ", p.defaults.Name))
	if err != nil {
		return "", "", fmt.Errorf("reading project name: %w", err)
	}
	ns, err := p.ask(ctx, fmt.Sprintf("Package Name (default: %s): ", p.defaults.Namespace))
	if err != nil {
		return "", "", fmt.Errorf("reading package name: %w", err)
	}
	return name, ns, nil
}

// ConfirmOverwrite accepts "y" in any case. Anything else, including end of
// input, declines.
func (p *Interactive) ConfirmOverwrite(ctx context.Context, root string) (bool, error) {
	answer, err := p.ask(ctx, fmt.Sprintf("Folder '%s' already exists! Overwrite/Continue? (y/n): ", filepath.Base(root)))
	if errors.Is(err, ErrNoInput) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading confirmation: %w", err)
	}
	return strings.EqualFold(answer, "y"), nil
}

func (p *Interactive) ask(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(p.out, prompt)

	line, err := p.readLine(ctx)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		fmt.Fprintln(p.out)
		return "", err
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	if errors.Is(err, io.EOF) && line == "" {
		fmt.Fprintln(p.out)
		return "", ErrNoInput
	}
	return strings.TrimSpace(line), nil
}

// readLine waits for one line or for ctx to end. A read abandoned by
// cancellation is picked up by the next call.
func (p *Interactive) readLine(ctx context.Context) (string, error) {
	if p.pending == nil {
		ch := make(chan readResult, 1)
		go func() {
			line, err := p.in.ReadString('\n')
			ch <- readResult{line: line, err: err}
		}()
		p.pending = ch
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-p.pending:
		p.pending = nil
		return r.line, r.err
	}
}
