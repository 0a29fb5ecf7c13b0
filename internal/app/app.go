package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/valyala/fasthttp"

	"k24chat/internal/backup"
	"k24chat/pkg/api"
	"k24chat/pkg/api/auth"
	"k24chat/pkg/chat"
	"k24chat/pkg/config"
	"k24chat/pkg/hangman"
	"k24chat/pkg/mailer"
	"k24chat/pkg/state"
	"k24chat/pkg/state/logger"
	"k24chat/pkg/state/sensor"
	"k24chat/pkg/store"
)

const photoFetchTimeout = 10 * time.Second

// App groups server state and components.
type App struct {
	eff       config.EffectiveConfigResult
	version   string
	commit    string
	buildDate string

	store   *store.Store
	chat    *chat.Service
	photos  *chat.Photos
	metrics *api.Metrics
	backups *backup.Manager

	backupCancel context.CancelFunc
	gateway      *auth.Gateway
	srvFast      *fasthttp.Server
	hwSensor     *sensor.Sensor
	state        string
	reg          prometheus.Registerer
	gatherer     prometheus.Gatherer
}

// New opens the store and builds the chat service. It does not start timers
// or the http server; Run does that.
func New(eff config.EffectiveConfigResult, version, commit, buildDate string) (*App, error) {
	if err := config.ValidateConfig(eff); err != nil {
		return nil, err
	}
	if state.PathsVar.Store == "" {
		return nil, fmt.Errorf("state paths not initialized")
	}
	return newWith(eff, state.PathsVar, prometheus.DefaultRegisterer, prometheus.DefaultGatherer, version, commit, buildDate)
}

func newWith(eff config.EffectiveConfigResult, paths state.Paths, reg prometheus.Registerer, gatherer prometheus.Gatherer, version, commit, buildDate string) (*App, error) {
	cfg := eff.Config

	p, err := store.OpenPersister(cfg.Storage.Backend, paths.Store, cfg.Storage.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store at %s: %w", cfg.Storage.Backend, paths.Store, err)
	}
	st, err := store.Open(p)
	if err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("failed to load workspace snapshot: %w", err)
	}

	photos := chat.NewPhotos(paths.Media, cfg.Media.MaxPhotoSize.Int64(), photoFetchTimeout)
	if err := photos.EnsureDefault(); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("failed to write default profile image: %w", err)
	}

	m := api.NewMetrics(reg)
	opts := chat.Options{
		Mailer:    newMailer(cfg.Mail),
		Photos:    photos,
		Hooks:     m.Hooks(),
		PublicURL: publicURL(eff),
	}
	if picker := newPicker(cfg.Hangman); picker != nil {
		opts.Picker = picker
	}
	svc := chat.New(st, opts)
	api.RegisterStoreMetrics(reg, st, svc)

	a := &App{
		eff:       eff,
		version:   version,
		commit:    commit,
		buildDate: buildDate,
		store:     st,
		chat:      svc,
		photos:    photos,
		metrics:   m,
		reg:       reg,
		gatherer:  gatherer,
		state:     "initialized",
	}
	if cfg.Backup.Enabled {
		a.backups = backup.New(backup.Config{Dir: paths.Backups, Cron: cfg.Backup.Cron, Keep: cfg.Backup.Keep}, st)
	}
	logger.Info("app_initialized", "backend", st.Backend(), "public_url", opts.PublicURL, "hangman", opts.Picker != nil)
	return a, nil
}

// newPicker loads the word list. Without one, /hangman start replies with an
// apology instead of starting a game.
func newPicker(cfg config.HangmanConfig) *hangman.Picker {
	words, err := hangman.LoadWords(cfg.WordList)
	if err != nil {
		logger.Warn("hangman_words_unavailable", "path", cfg.WordList, "error", err)
		return nil
	}
	dict := hangman.NewDictionaryClient(cfg.DictionaryURL, cfg.LookupTimeout.Duration())
	logger.Info("hangman_words_loaded", "count", len(words))
	return hangman.NewPicker(words, dict, cfg.MaxLookupAttempts)
}

func newMailer(cfg config.MailConfig) mailer.Mailer {
	if cfg.Host == "" {
		return mailer.NewLogMailer()
	}
	return mailer.NewSMTPMailer(cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.From)
}

func publicURL(eff config.EffectiveConfigResult) string {
	if u := strings.TrimRight(eff.Config.Media.PublicURL, "/"); u != "" {
		return u
	}
	addr := eff.Addr
	if strings.HasPrefix(addr, "0.0.0.0:") {
		addr = "localhost" + strings.TrimPrefix(addr, "0.0.0.0")
	}
	return "http://" + addr
}

// Run starts timers, the sensor, backups and the http server, and blocks
// until ctx is cancelled or the server fails.
func (a *App) Run(ctx context.Context) error {
	a.printBanner()

	a.chat.Start()

	mon := a.eff.Config.Sensor.Monitor
	a.hwSensor = sensor.NewSensor(sensor.MonitorConfig{
		Path:           a.eff.DBPath,
		PollInterval:   mon.PollInterval.Duration(),
		DiskHighPct:    mon.DiskHighPct,
		DiskLowPct:     mon.DiskLowPct,
		MemHighPct:     mon.MemHighPct,
		RecoveryWindow: mon.RecoveryWindow.Duration(),
	})
	a.hwSensor.Start()

	if a.backups != nil {
		cancel, err := a.backups.Start(ctx)
		if err != nil {
			return err
		}
		a.backupCancel = cancel
	}

	errCh := a.startHTTP(ctx)
	a.state = "running"

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}
