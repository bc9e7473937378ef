package ui

import (
	"context"
	stderrors "errors"
	"io"
	"os"

	"github.com/cperrin88/snm/pkg/errors"
	"github.com/manifoldco/promptui"
	"github.com/mattn/go-isatty"
)

// nopWriteCloser lets promptui write to stderr without closing it.
type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// Confirm asks a yes/no question on the terminal. Without an interactive
// stdin the answer is no. Ctrl-C yields ErrInterrupted.
func Confirm(ctx context.Context, prompt string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		WarningMsg("%s (no terminal, assuming no)", prompt)
		return false, nil
	}

	p := promptui.Prompt{
		Label:     prompt,
		IsConfirm: true,
		Stdout:    nopWriteCloser{os.Stderr},
	}
	_, err := p.Run()
	return confirmResult(err)
}

func confirmResult(err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case stderrors.Is(err, promptui.ErrAbort):
		return false, nil
	case stderrors.Is(err, promptui.ErrInterrupt):
		return false, errors.ErrInterrupted
	case stderrors.Is(err, promptui.ErrEOF), stderrors.Is(err, io.EOF):
		return false, nil
	default:
		return false, errors.Wrap(err, "confirmation prompt failed")
	}
}

// AlwaysYes is a confirmer that accepts every prompt.
func AlwaysYes(context.Context, string) (bool, error) { return true, nil }
