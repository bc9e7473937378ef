//go:generate mockgen -destination=./mocks/lifecycle.go . Downloader,Ledger

package lifecycle

import (
	"context"

	"github.com/cperrin88/snm/pkg/download"
	"github.com/cperrin88/snm/pkg/ledger"
	"github.com/cperrin88/snm/pkg/tool"
)

// Downloader fetches artifacts.
type Downloader interface {
	Fetch(ctx context.Context, item download.Item, opts download.Options) (string, error)
}

// Ledger is the subset of the install ledger used by the manager.
type Ledger interface {
	Put(e ledger.Entry) error
	Get(tool, v string) (ledger.Entry, bool, error)
	List(tool string) ([]ledger.Entry, error)
	Delete(tool, v string) error
}

// Confirmer asks the user a yes/no question. An error aborts the operation.
type Confirmer func(ctx context.Context, prompt string) (bool, error)

// Event phases.
const (
	PhaseChecking    = "checking"
	PhaseDownloading = "downloading"
	PhaseVerifying   = "verifying"
	PhaseExtracting  = "extracting"
	PhaseLinking     = "linking"
	PhaseRemoving    = "removing"
	PhaseDone        = "done"
)

// Event represents a simple progress notification.
type Event struct {
	Phase   string
	Tool    string
	Version string
	Msg     string
}

// Events carries callbacks for progress events.
type Events struct {
	OnEvent func(Event)
}

func emit(h Events, e Event) {
	if h.OnEvent != nil {
		h.OnEvent(e)
	}
}

// InstalledVersion is one entry of List.
type InstalledVersion struct {
	Version string
	Default bool
	// Entry is nil when the ledger has no record.
	Entry *ledger.Entry
}

// RemoteVersion is one entry of ListRemote.
type RemoteVersion struct {
	tool.RemoteVersion
	Installed bool
	Default   bool
}
