package ui

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/cperrin88/snm/pkg/lifecycle"
)

// Spinner wraps the spinner library for consistent styling.
type Spinner struct {
	s *spinner.Spinner
}

// NewSpinner creates a spinner writing to stderr.
func NewSpinner(message string) *Spinner {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + message
	_ = s.Color("cyan")
	return &Spinner{s: s}
}

// Start starts the spinner.
func (sp *Spinner) Start() {
	sp.s.Start()
}

// Stop stops the spinner.
func (sp *Spinner) Stop() {
	sp.s.Stop()
}

// UpdateMessage updates the spinner message.
func (sp *Spinner) UpdateMessage(message string) {
	sp.s.Lock()
	sp.s.Suffix = " " + message
	sp.s.Unlock()
}

// OnEvent renders lifecycle progress. Prompts stop the spinner first, so
// it is restarted on every event.
func (sp *Spinner) OnEvent(e lifecycle.Event) {
	if e.Phase == lifecycle.PhaseDone {
		sp.Stop()
		return
	}
	sp.UpdateMessage(EventMessage(e))
	if !sp.s.Active() {
		sp.Start()
	}
}

// EventMessage is the human-readable form of a lifecycle event.
func EventMessage(e lifecycle.Event) string {
	subject := e.Tool + " " + e.Version
	switch e.Phase {
	case lifecycle.PhaseChecking:
		return fmt.Sprintf("Checking %s is available for this platform", subject)
	case lifecycle.PhaseDownloading:
		return fmt.Sprintf("Downloading %s", subject)
	case lifecycle.PhaseVerifying:
		return fmt.Sprintf("Verifying %s", subject)
	case lifecycle.PhaseExtracting:
		return fmt.Sprintf("Extracting %s", subject)
	case lifecycle.PhaseLinking:
		return fmt.Sprintf("Setting %s as default", subject)
	case lifecycle.PhaseRemoving:
		return fmt.Sprintf("Removing %s", subject)
	default:
		return subject
	}
}

// WithSpinner runs fn under a spinner fed by lifecycle events. confirm is
// wrapped so the spinner pauses while a prompt is shown.
func WithSpinner(message string, fn func(events lifecycle.Events, confirm lifecycle.Confirmer) error, confirm lifecycle.Confirmer) error {
	sp := NewSpinner(message)
	wrapped := func(ctx context.Context, prompt string) (bool, error) {
		sp.Stop()
		return confirm(ctx, prompt)
	}
	err := fn(lifecycle.Events{OnEvent: sp.OnEvent}, wrapped)
	sp.Stop()
	return err
}
