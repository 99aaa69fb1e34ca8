package main

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mdprep/mdprep/internal/ptable"
	"github.com/mdprep/mdprep/internal/simconf"
	"github.com/mdprep/mdprep/internal/simconf/notifiers"
)

// extractConfigName extracts the configuration name from a path like
// "/configs/{name}/...". Returns the name and the remaining path, or an
// empty name if not found.
func extractConfigName(path string) (string, string) {
	if !strings.HasPrefix(path, "/configs/") {
		return "", ""
	}

	rest := path[len("/configs/"):]

	idx := strings.Index(rest, "/")
	if idx == -1 {
		// No more path segments, the whole thing is the name
		return rest, ""
	}
	return rest[:idx], rest[idx:]
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// POST /resolve
// Body: raw configuration mapping (JSON)
// Resolves the document and returns the full configuration without
// storing it. Missing lj_params are derived from the elements.
type resolveResponse struct {
	Config    simconf.Config `json:"config"`
	Generated bool           `json:"generated"`
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		http.Error(w, "invalid config json: "+err.Error(), http.StatusBadRequest)
		return
	}

	start := time.Now()
	cfg, err := simconf.FromMap(raw)
	if err != nil {
		recordResolveError(err)
		s.logger.Warn().Err(err).Msg("resolve failed")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	generated := !simconf.HasExplicitLJ(raw)
	s.publishResolved("api", simconf.ActionResolve, cfg.Name, cfg, generated, time.Since(start))

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resolveResponse{Config: cfg, Generated: generated}); err != nil {
		http.Error(w, "cannot encode: "+err.Error(), http.StatusInternalServerError)
		return
	}
}

// handleConfigsRoutes handles the configs collection endpoint
func (s *Server) handleConfigsRoutes(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/configs" && r.Method == http.MethodGet:
		s.handleListConfigs(w, r)
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

// GET /configs
// List all stored configuration names
func (s *Server) handleListConfigs(w http.ResponseWriter, _ *http.Request) {
	names := s.registry.List()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string][]string{"configs": names}); err != nil {
		http.Error(w, "cannot encode: "+err.Error(), http.StatusInternalServerError)
		return
	}
}

// handleConfigRoutes routes requests to configuration-specific handlers
// Handles paths like /configs/{name} and /configs/{name}/snapshot
func (s *Server) handleConfigRoutes(w http.ResponseWriter, r *http.Request) {
	name, remainingPath := extractConfigName(r.URL.Path)
	if name == "" {
		http.Error(w, "configuration name is required in path: /configs/{name}", http.StatusBadRequest)
		return
	}

	switch {
	case remainingPath == "" && r.Method == http.MethodGet:
		s.handleGetConfig(w, r)
	case remainingPath == "" && r.Method == http.MethodPost:
		s.handleApplyConfig(w, r)
	case remainingPath == "" && r.Method == http.MethodDelete:
		s.handleDeleteConfig(w, r)
	case remainingPath == "/snapshot" && r.Method == http.MethodPost:
		s.handleSaveSnapshot(w, r)
	case remainingPath == "/snapshot" && r.Method == http.MethodGet:
		s.handleGetSnapshot(w, r)
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

// GET /configs/{name}
// Returns the stored resolved configuration
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	name, _ := extractConfigName(r.URL.Path)

	cfg, exists := s.registry.Get(name)
	if !exists {
		http.Error(w, "configuration not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(cfg); err != nil {
		http.Error(w, "cannot encode: "+err.Error(), http.StatusInternalServerError)
		return
	}
}

// POST /configs/{name}
// Body: raw configuration mapping (JSON)
// Resolves the document and stores it under {name}, replacing any
// previous configuration with that name. A failed resolution leaves the
// stored configuration untouched.
type applyResponse struct {
	Status    string         `json:"status"` // "created" or "replaced"
	Generated bool           `json:"generated"`
	Config    simconf.Config `json:"config"`
}

func (s *Server) handleApplyConfig(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	name, _ := extractConfigName(r.URL.Path)

	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		http.Error(w, "invalid config json: "+err.Error(), http.StatusBadRequest)
		return
	}

	start := time.Now()
	cfg, created, err := s.registry.Apply(name, raw)
	if err != nil {
		recordResolveError(err)
		s.logger.Warn().Err(err).Str("name", name).Msg("apply failed")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	generated := !simconf.HasExplicitLJ(raw)
	s.publishResolved("api", simconf.ActionApply, name, cfg, generated, time.Since(start))

	status := "replaced"
	if created {
		status = "created"
	}
	s.logger.Info().Str("name", name).Str("doc_name", cfg.Name).Str("status", status).Msg("configuration applied")

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(applyResponse{Status: status, Generated: generated, Config: cfg}); err != nil {
		http.Error(w, "cannot encode: "+err.Error(), http.StatusInternalServerError)
		return
	}
}

// DELETE /configs/{name}
// Delete a stored configuration
func (s *Server) handleDeleteConfig(w http.ResponseWriter, r *http.Request) {
	name, _ := extractConfigName(r.URL.Path)

	if err := s.registry.Delete(name); err != nil {
		s.logger.Warn().Err(err).Str("name", name).Msg("failed to delete configuration")
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	s.logger.Info().Str("name", name).Msg("configuration deleted")

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("configuration deleted"))
}

// POST /configs/{name}/snapshot
// Triggers a synchronous snapshot save
func (s *Server) handleSaveSnapshot(w http.ResponseWriter, r *http.Request) {
	name, _ := extractConfigName(r.URL.Path)

	cfg, exists := s.registry.Get(name)
	if !exists {
		http.Error(w, "configuration not found", http.StatusNotFound)
		return
	}

	// Check if snapshot directory is configured
	if s.snapshotDir == "" {
		http.Error(w, "snapshot directory not configured", http.StatusInternalServerError)
		return
	}

	path := s.snapshotPath(name)
	if err := simconf.WriteSnapshotFile(path, simconf.NewSnapshot("api", cfg)); err != nil {
		s.logger.Error().Err(err).Str("name", name).Msg("failed to save snapshot")
		http.Error(w, "failed to save snapshot: "+err.Error(), http.StatusInternalServerError)
		return
	}

	s.logger.Debug().Str("name", name).Str("path", path).Msg("snapshot saved")

	response := map[string]string{
		"status": "ok",
		"path":   path,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "cannot encode response: "+err.Error(), http.StatusInternalServerError)
		return
	}
}

// GET /configs/{name}/snapshot
// Returns the raw snapshot JSON if it exists. Snapshots outlive the
// in-memory registry, so no stored configuration is required.
func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	name, _ := extractConfigName(r.URL.Path)

	// Check if snapshot directory is configured
	if s.snapshotDir == "" {
		http.Error(w, "snapshot directory not configured", http.StatusInternalServerError)
		return
	}

	data, err := os.ReadFile(s.snapshotPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			http.Error(w, "snapshot not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to read snapshot: "+err.Error(), http.StatusInternalServerError)
		return
	}

	// Return raw JSON
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// GET /elements?symbols=Fe,C
// Looks up atomic numbers and covalent radii. Without the symbols
// parameter the whole table is returned.
type elementInfo struct {
	Symbol         string  `json:"symbol"`
	AtomicNumber   int     `json:"atomic_number"`
	CovalentRadius float64 `json:"covalent_radius"`
}

func (s *Server) handleElements(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var symbols []string
	if param := r.URL.Query().Get("symbols"); param != "" {
		for _, symbol := range strings.Split(param, ",") {
			if trimmed := strings.TrimSpace(symbol); trimmed != "" {
				symbols = append(symbols, trimmed)
			}
		}
	} else {
		symbols = ptable.Symbols()
	}

	elements := make([]elementInfo, 0, len(symbols))
	for _, symbol := range symbols {
		radius, err := ptable.CovalentRadius(symbol)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		z, _ := ptable.AtomicNumber(symbol)
		elements = append(elements, elementInfo{
			Symbol:         symbol,
			AtomicNumber:   z,
			CovalentRadius: radius,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string][]elementInfo{"elements": elements}); err != nil {
		http.Error(w, "cannot encode: "+err.Error(), http.StatusInternalServerError)
		return
	}
}

// GET /watch
// Upgrades to a WebSocket that streams resolve events as they happen
func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request) {
	upgrader := s.watchHub.GetUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response
		s.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	s.watchHub.RegisterClient(conn)
	watchClientConnected()
	s.logger.Debug().Str("remote", conn.RemoteAddr().String()).Msg("watch client connected")

	// Drain client frames until the peer goes away; the hub only writes
	go func() {
		defer func() {
			s.watchHub.UnregisterClient(conn)
			watchClientDisconnected()
			s.logger.Debug().Str("remote", conn.RemoteAddr().String()).Msg("watch client disconnected")
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// handleNotifiersRoutes handles notifier management endpoints
func (s *Server) handleNotifiersRoutes(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/notifiers" && r.Method == http.MethodGet:
		s.handleListNotifiers(w, r)
	case r.URL.Path == "/notifiers" && r.Method == http.MethodPost:
		s.handleRegisterNotifier(w, r)
	case strings.HasPrefix(r.URL.Path, "/notifiers/") && r.Method == http.MethodDelete:
		s.handleUnregisterNotifier(w, r)
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

// GET /notifiers
// List all registered notifiers
func (s *Server) handleListNotifiers(w http.ResponseWriter, _ *http.Request) {
	notifierIDs := s.notifierMgr.ListNotifiers()

	// Get notifier types
	registered := make([]map[string]string, 0, len(notifierIDs))
	for _, id := range notifierIDs {
		notifier, exists := s.notifierMgr.GetNotifier(id)
		if exists {
			registered = append(registered, map[string]string{
				"id":   id,
				"type": notifier.Type(),
			})
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{"notifiers": registered}); err != nil {
		http.Error(w, "cannot encode: "+err.Error(), http.StatusInternalServerError)
		return
	}
}

// POST /notifiers
// Register a new notifier
// Body: { "type": "webhook", "id": "my-webhook", "config": { "url": "http://..." } }
type registerNotifierRequest struct {
	Type   string         `json:"type"`
	ID     string         `json:"id"`
	Config map[string]any `json:"config"`
}

func (s *Server) handleRegisterNotifier(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req registerNotifierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}

	if req.ID == "" {
		http.Error(w, "notifier ID is required", http.StatusBadRequest)
		return
	}

	var notifier simconf.Notifier

	switch req.Type {
	case "webhook":
		url, ok := req.Config["url"].(string)
		if !ok || url == "" {
			http.Error(w, "webhook URL is required", http.StatusBadRequest)
			return
		}
		wh := notifiers.NewWebhookNotifier(req.ID, url)

		// Set custom headers if provided
		if headers, ok := req.Config["headers"].(map[string]any); ok {
			for k, v := range headers {
				if vStr, ok := v.(string); ok {
					wh.SetHeader(k, vStr)
				}
			}
		}

		notifier = wh
	default:
		http.Error(w, "unknown notifier type: "+req.Type, http.StatusBadRequest)
		return
	}

	if err := s.notifierMgr.RegisterNotifier(notifier); err != nil {
		http.Error(w, "cannot register notifier: "+err.Error(), http.StatusBadRequest)
		return
	}

	s.logger.Info().Str("id", req.ID).Str("type", req.Type).Msg("notifier registered")

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("notifier registered"))
}

// DELETE /notifiers/{id}
// Unregister a notifier
func (s *Server) handleUnregisterNotifier(w http.ResponseWriter, r *http.Request) {
	// Extract notifier ID from path
	path := r.URL.Path
	if !strings.HasPrefix(path, "/notifiers/") {
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}

	notifierID := strings.TrimPrefix(path, "/notifiers/")
	if notifierID == "" {
		http.Error(w, "notifier ID is required", http.StatusBadRequest)
		return
	}

	if notifierID == watchNotifierID {
		http.Error(w, "cannot unregister built-in notifier: "+notifierID, http.StatusBadRequest)
		return
	}

	if err := s.notifierMgr.UnregisterNotifier(notifierID); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	s.logger.Info().Str("id", notifierID).Msg("notifier unregistered")

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("notifier unregistered"))
}
