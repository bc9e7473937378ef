package cli

import (
	"io"
	"os"

	"github.com/cperrin88/snm/internal/logger"
	"github.com/cperrin88/snm/internal/ui"
	"github.com/cperrin88/snm/pkg/archive"
	"github.com/cperrin88/snm/pkg/config"
	"github.com/cperrin88/snm/pkg/download"
	"github.com/cperrin88/snm/pkg/errors"
	"github.com/cperrin88/snm/pkg/hooks"
	snmhttp "github.com/cperrin88/snm/pkg/http"
	"github.com/cperrin88/snm/pkg/ledger"
	"github.com/cperrin88/snm/pkg/lifecycle"
	"github.com/cperrin88/snm/pkg/shim"
	"github.com/cperrin88/snm/pkg/store"
	"github.com/cperrin88/snm/pkg/tool"
)

// These variables are bound to the root command's persistent flags.
var (
	NoColor   *bool
	AssumeYes *bool
)

// Stdout receives listings. Tests replace it.
var Stdout io.Writer = os.Stdout

// App holds the wired components shared by every command.
type App struct {
	Config   *config.Config
	Families tool.Families
	Store    *store.Store
	DL       *download.ManagerImpl
	Ledger   *ledger.File
	Hooks    *hooks.TengoExecutor

	// Confirm and Events are applied to managers created by Manager.
	Confirm lifecycle.Confirmer
	Events  lifecycle.Events
}

// loadConfig loads the configuration and sets up logging and output from it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.InitLogger(cfg.LogLevel)
	ui.Init(NoColor != nil && *NoColor)
	return cfg, nil
}

// loadApp loads the configuration and wires an App from it.
func loadApp() (*App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return NewApp(cfg)
}

// NewApp wires the components described by cfg. The ledger is opened per
// operation, never for the lifetime of the App. Failing to load hooks only
// logs a warning.
func NewApp(cfg *config.Config) (*App, error) {
	if err := cfg.EnsureDirs(); err != nil {
		return nil, errors.Wrap(err, "failed to create snm directories")
	}

	hosts, err := cfg.Authenticators()
	if err != nil {
		return nil, err
	}
	plat, platErr := cfg.ResolvePlatform()
	client := snmhttp.NewHTTPClient(cfg.HTTPTimeout).WithAuth(hosts)
	families := tool.NewFamilies(tool.Deps{
		Client:       client,
		Extractor:    archive.NewManager(),
		Platform:     plat,
		PlatformErr:  platErr,
		NodeDistHost: cfg.NodeDistHost,
		NpmRegistry:  cfg.NpmRegistry,
		YarnRegistry: cfg.YarnRegistry,
		YarnRepo:     cfg.YarnRepo,
	})

	app := &App{
		Config:   cfg,
		Families: families,
		Store:    store.New(cfg),
		DL:       download.NewManager(cfg.HTTPTimeout, cfg.Retries, "").WithAuth(hosts),
		Ledger:   ledger.NewFile(cfg.LedgerPath()),
		Confirm:  ui.Confirm,
	}
	if AssumeYes != nil && *AssumeYes {
		app.Confirm = ui.AlwaysYes
	}

	runner, err := hooks.Load(cfg.HooksPath())
	if err != nil {
		logger.Warn("hooks not loaded", logger.Fields{"error": err.Error()})
	} else {
		app.Hooks = runner
	}

	return app, nil
}

// Close releases idle connections.
func (a *App) Close() {
	if a == nil {
		return
	}
	a.DL.CloseIdleConnections()
}

// Manager returns a lifecycle manager for the named family.
func (a *App) Manager(name string) (*lifecycle.Manager, error) {
	family, err := a.Families.Lookup(name)
	if err != nil {
		return nil, err
	}
	m := lifecycle.New(family, a.Store, a.DL, a.Config.DownloadPath(), a.Confirm)
	m.Events = a.Events
	// Only assign non-nil values so the interface fields stay nil.
	if a.Ledger != nil {
		m.Ledger = a.Ledger
	}
	if a.Hooks != nil {
		m.Hooks = a.Hooks
	}
	return m, nil
}

// Resolver returns a shim resolver for the project in dir.
func (a *App) Resolver(dir string) *shim.Resolver {
	installers := func(family string) (shim.Installer, error) {
		m, err := a.Manager(family)
		if err != nil {
			return nil, err
		}
		return m, nil
	}
	return shim.NewResolver(a.Config, dir, installers, shim.Confirmer(a.Confirm))
}

// withSpinner runs fn with the app's events and confirm routed through a
// progress spinner.
func (a *App) withSpinner(message string, fn func() error) error {
	confirm, events := a.Confirm, a.Events
	defer func() { a.Confirm, a.Events = confirm, events }()

	return ui.WithSpinner(message, func(ev lifecycle.Events, c lifecycle.Confirmer) error {
		a.Events, a.Confirm = ev, c
		return fn()
	}, confirm)
}
