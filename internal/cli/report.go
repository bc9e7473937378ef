package cli

import (
	stderrors "errors"

	"github.com/cperrin88/snm/internal/logger"
	"github.com/cperrin88/snm/internal/ui"
	"github.com/cperrin88/snm/pkg/errors"
)

// Report prints err and returns the process exit code. A propagated child
// exit status is returned without a message.
func Report(err error) int {
	if err == nil {
		return 0
	}

	var exit *errors.ExitError
	if stderrors.As(err, &exit) {
		return exit.Code
	}

	logger.Debug("command failed", logger.Fields{"error": err.Error()})
	switch {
	case stderrors.Is(err, errors.ErrInterrupted):
		ui.WarningMsg("Interrupted")
	case stderrors.Is(err, errors.ErrInstallDeclined):
		ui.WarningMsg("%v", err)
	default:
		ui.ErrorMsg("%v", err)
	}
	return 1
}
