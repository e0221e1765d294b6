package daemon

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/agripath-app/agripath/internal/api"
	"github.com/agripath-app/agripath/internal/app/auth"
	"github.com/agripath-app/agripath/internal/app/engine"
	"github.com/agripath-app/agripath/internal/infra/device"
	"github.com/agripath-app/agripath/internal/infra/gateway"
	"github.com/agripath-app/agripath/internal/infra/session"
	"github.com/agripath-app/agripath/internal/infra/sqlite"
)

// Daemon is the companion runtime. It wires the local store, device
// identity, remote gateway, gamification engine, auth bridge, and the
// local API facade.
type Daemon struct {
	Config   Config
	DB       *sqlite.DB
	Gateway  *gateway.Client
	Engine   *engine.Engine
	Auth     *auth.Bridge
	Server   *api.Server
	DeviceID string
}

// New creates and initializes a Daemon with all services wired.
func New() (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewWithConfig(cfg)
}

// NewWithConfig creates a Daemon with the given configuration.
func NewWithConfig(cfg Config) (*Daemon, error) {
	db, err := sqlite.Open(agripathHome())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	deviceID, err := device.GetOrCreate(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("resolve device id: %w", err)
	}

	gw := gateway.New(cfg.Gateway.BaseURL, cfg.Gateway.Timeout())

	eng := engine.New(engine.Config{
		Gateway: gw,
		Store:   db,
		Ledger:  db,
	})

	tokens := session.NewStore(agripathHome())
	bridge := auth.New(gw, tokens, eng, deviceID)

	srv := api.NewServer(eng, bridge, db)
	if cfg.API.Metrics {
		srv.EnableMetrics()
	}

	return &Daemon{
		Config:   cfg,
		DB:       db,
		Gateway:  gw,
		Engine:   eng,
		Auth:     bridge,
		Server:   srv,
		DeviceID: deviceID,
	}, nil
}

// Start runs session start: load + merge the profile, resume any stored
// auth session, and advance the activity streak.
func (d *Daemon) Start(ctx context.Context) error {
	if err := d.Engine.Initialize(ctx, d.DeviceID); err != nil {
		return fmt.Errorf("initialize profile: %w", err)
	}
	if err := d.Auth.Resume(ctx); err != nil {
		return err
	}
	d.Engine.TickStreak()
	return nil
}

// Serve runs session start and then the local API server until the
// context is cancelled or an interrupt arrives.
func (d *Daemon) Serve(ctx context.Context) error {
	if err := d.Start(ctx); err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", d.Config.API.Host, d.Config.API.Port)
	httpSrv := &http.Server{
		Addr:    addr,
		Handler: d.Server.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[daemon] local API listening on http://%s", addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	case sig := <-sigCh:
		log.Printf("[daemon] received %s, shutting down", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[daemon] http shutdown: %v", err)
	}

	// Drain in-flight gateway syncs before closing the store.
	d.Engine.Wait()
	return d.Close()
}

// Close releases the daemon's resources.
func (d *Daemon) Close() error {
	d.Engine.Wait()
	return d.DB.Close()
}
