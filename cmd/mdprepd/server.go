package main

import (
	"context"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/mdprep/mdprep/internal/simconf"
	"github.com/mdprep/mdprep/internal/simconf/notifiers"
)

// watchNotifierID identifies the built-in WebSocket notifier that backs
// the /watch endpoint. It is registered at startup and cannot be
// unregistered through the API.
const watchNotifierID = "watch-stream"

// simconfLoggerAdapter adapts the daemon's zerolog logger to the
// simconf.Logger interface
type simconfLoggerAdapter struct {
	logger zerolog.Logger
}

func (a *simconfLoggerAdapter) Debugf(format string, v ...any) {
	a.logger.Debug().Msgf(format, v...)
}

func (a *simconfLoggerAdapter) Infof(format string, v ...any) {
	a.logger.Info().Msgf(format, v...)
}

func (a *simconfLoggerAdapter) Warnf(format string, v ...any) {
	a.logger.Warn().Msgf(format, v...)
}

func (a *simconfLoggerAdapter) Errorf(format string, v ...any) {
	a.logger.Error().Msgf(format, v...)
}

// Server represents the HTTP server for mdprep
type Server struct {
	registry    *simconf.Registry
	notifierMgr *simconf.NotificationManager
	watchHub    *notifiers.WebSocketNotifier
	holder      *simconf.Holder
	snapshotDir string
	logger      zerolog.Logger
}

// NewServer creates a new server instance
func NewServer(logger zerolog.Logger) *Server {
	simLogger := &simconfLoggerAdapter{logger: logger}
	mgr := simconf.NewNotificationManager(simLogger)

	hub := notifiers.NewWebSocketNotifier(watchNotifierID)
	if err := mgr.RegisterNotifier(hub); err != nil {
		// The manager is fresh, so the fixed ID cannot collide
		logger.Error().Err(err).Msg("failed to register watch stream notifier")
	}

	return &Server{
		registry:    simconf.NewRegistry(),
		notifierMgr: mgr,
		watchHub:    hub,
		logger:      logger,
	}
}

// SetSnapshotDir sets the directory resolved-configuration snapshots are
// written to. Empty disables snapshots.
func (s *Server) SetSnapshotDir(dir string) {
	s.snapshotDir = dir
}

// SetHolder attaches the holder for the watched config file.
func (s *Server) SetHolder(h *simconf.Holder) {
	s.holder = h
}

// AdoptConfig stores a configuration that was resolved outside the HTTP
// API, e.g. from the watched config file, under the given registry name.
// It emits the same snapshot, event and metrics an API apply would.
func (s *Server) AdoptConfig(name, source, action string, cfg simconf.Config) {
	start := time.Now()
	s.registry.Store(name, cfg)

	// The holder hands over a resolved Config; whether the parameters
	// were generated is only visible in the raw document.
	generated := true
	if raw, err := simconf.ReadRawFile(source); err == nil {
		generated = !simconf.HasExplicitLJ(raw)
	}

	s.publishResolved(source, action, name, cfg, generated, time.Since(start))
	s.logger.Info().
		Str("name", name).
		Str("source", source).
		Str("action", action).
		Bool("generated", generated).
		Msg("configuration stored")
}

// ConsumeReloads drains holder updates, adopting each new configuration
// until ctx is cancelled. Run it on its own goroutine.
func (s *Server) ConsumeReloads(ctx context.Context, name string, updates <-chan simconf.Config) {
	for {
		select {
		case <-ctx.Done():
			return
		case cfg, ok := <-updates:
			if !ok {
				return
			}
			s.AdoptConfig(name, s.holder.Path(), simconf.ActionReload, cfg)
			recordReload()
		}
	}
}

// publishResolved records a successful resolution: metrics, an event to
// all registered notifiers and, for stored configurations, a snapshot.
func (s *Server) publishResolved(source, action, name string, cfg simconf.Config, generated bool, took time.Duration) {
	recordResolve(action, took)
	s.notifierMgr.Enqueue(simconf.NewResolveEvent(source, action, name, cfg, generated))
	if name != "" && action != simconf.ActionResolve {
		s.writeSnapshot(source, name, cfg)
	}
}

// writeSnapshot persists a resolved configuration. Failure never fails
// the resolution that triggered it, only the log shows it.
func (s *Server) writeSnapshot(source, name string, cfg simconf.Config) {
	if s.snapshotDir == "" {
		return
	}
	path := s.snapshotPath(name)
	if err := simconf.WriteSnapshotFile(path, simconf.NewSnapshot(source, cfg)); err != nil {
		s.logger.Error().Err(err).Str("path", path).Msg("failed to write snapshot")
		return
	}
	s.logger.Debug().Str("path", path).Msg("snapshot written")
}

func (s *Server) snapshotPath(name string) string {
	return filepath.Join(s.snapshotDir, name+".snapshot.json")
}

// Close shuts down background machinery: the file watcher first, then
// the notification pipeline so queued events drain before exit.
func (s *Server) Close() {
	if s.holder != nil {
		s.holder.Stop()
	}
	if err := s.notifierMgr.Close(); err != nil {
		s.logger.Warn().Err(err).Msg("errors closing notifiers")
	}
}
