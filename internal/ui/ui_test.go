package ui

import (
	"bytes"
	"io"
	"testing"

	"github.com/cperrin88/snm/pkg/errors"
	"github.com/cperrin88/snm/pkg/lifecycle"
	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/stretchr/testify/assert"
)

func TestConfirmResult(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		want    bool
		wantErr error
	}{
		{name: "yes", want: true},
		{name: "no", err: promptui.ErrAbort},
		{name: "eof", err: io.EOF},
		{name: "interrupt", err: promptui.ErrInterrupt, wantErr: errors.ErrInterrupted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := confirmResult(tt.err)
			assert.Equal(t, tt.want, got)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMessages(t *testing.T) {
	old, oldNoColor := Messages, color.NoColor
	defer func() { Messages, color.NoColor = old, oldNoColor }()

	buf := new(bytes.Buffer)
	Messages = buf
	Init(true)

	WarningMsg("%s is not installed", "pnpm 8.5.0")
	SuccessMsg("done")
	assert.Equal(t, "! pnpm 8.5.0 is not installed\n✓ done\n", buf.String())
}

func TestEventMessage(t *testing.T) {
	assert.Equal(t, "Downloading node 20.9.0", EventMessage(lifecycle.Event{Phase: lifecycle.PhaseDownloading, Tool: "node", Version: "20.9.0"}))
	assert.Equal(t, "Setting yarn 4.0.2 as default", EventMessage(lifecycle.Event{Phase: lifecycle.PhaseLinking, Tool: "yarn", Version: "4.0.2"}))
}
