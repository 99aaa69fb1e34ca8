package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/mdprep/mdprep/internal/simconf"
)

// ConfigBuilder provides a fluent API for building configuration documents.
// Use it to describe a simulation run before sending it to an mdprepd
// server. Fields that are never set stay out of the document, so the
// server falls back to its own defaults for them.
type ConfigBuilder struct {
	name        string
	elements    []string
	lj          *simconf.LJParams
	steps       *int
	timestep    *float64
	temperature *float64
}

// NewConfig creates a new configuration builder.
func NewConfig() *ConfigBuilder {
	return &ConfigBuilder{
		elements: make([]string, 0),
	}
}

// Name sets the human-readable name of the configuration.
func (cb *ConfigBuilder) Name(name string) *ConfigBuilder {
	cb.name = name
	return cb
}

// Elements appends element symbols to the configuration.
// Symbols are case-sensitive ("Fe", not "fe") and may repeat; the server
// averages over the raw list when it derives parameters, so duplicates
// weight the average.
func (cb *ConfigBuilder) Elements(symbols ...string) *ConfigBuilder {
	cb.elements = append(cb.elements, symbols...)
	return cb
}

// LJ pins the Lennard-Jones parameters explicitly. When set, the server
// adopts them verbatim instead of deriving them from the elements.
func (cb *ConfigBuilder) LJ(epsilon, sigma, cutoff float64) *ConfigBuilder {
	cb.lj = &simconf.LJParams{Epsilon: epsilon, Sigma: sigma, Cutoff: cutoff}
	return cb
}

// Steps sets the number of integration steps.
func (cb *ConfigBuilder) Steps(steps int) *ConfigBuilder {
	cb.steps = &steps
	return cb
}

// Timestep sets the integration timestep in femtoseconds.
func (cb *ConfigBuilder) Timestep(fs float64) *ConfigBuilder {
	cb.timestep = &fs
	return cb
}

// Temperature sets the target temperature in Kelvin.
func (cb *ConfigBuilder) Temperature(kelvin float64) *ConfigBuilder {
	cb.temperature = &kelvin
	return cb
}

// Build converts the builder to the raw configuration mapping consumed
// by the server's resolve and apply endpoints.
func (cb *ConfigBuilder) Build() map[string]any {
	raw := map[string]any{
		"elements": append([]string(nil), cb.elements...),
	}

	if cb.name != "" {
		raw["name"] = cb.name
	}
	if cb.lj != nil {
		raw["lj_params"] = map[string]any{
			"epsilon": cb.lj.Epsilon,
			"sigma":   cb.lj.Sigma,
			"cutoff":  cb.lj.Cutoff,
		}
	}
	if cb.steps != nil {
		raw["steps"] = *cb.steps
	}
	if cb.timestep != nil {
		raw["timestep"] = *cb.timestep
	}
	if cb.temperature != nil {
		raw["temperature"] = *cb.temperature
	}

	return raw
}

// ResolveResult is the server's answer to a resolve call: the fully
// populated configuration and whether its LJ parameters were generated
// rather than adopted from an explicit lj_params mapping.
type ResolveResult struct {
	Config    simconf.Config `json:"config"`
	Generated bool           `json:"generated"`
}

// ApplyResult reports a stored configuration. Status is "created" when
// the name was new and "replaced" when a previous configuration was
// overwritten.
type ApplyResult struct {
	Status    string         `json:"status"`
	Generated bool           `json:"generated"`
	Config    simconf.Config `json:"config"`
}

// Resolve sends the configuration document to an mdprepd server and
// returns it fully resolved, without storing it on the server.
// The baseURL is the server's base URL (e.g., "http://localhost:8080").
func Resolve(ctx context.Context, baseURL string, cfg *ConfigBuilder) (ResolveResult, error) {
	var result ResolveResult
	if err := doJSON(ctx, http.MethodPost, baseURL, []string{"resolve"}, cfg.Build(), &result); err != nil {
		return ResolveResult{}, err
	}
	return result, nil
}

// Apply resolves the configuration document on the server and stores it
// under the given name, replacing any previous configuration with that
// name. A failed resolution stores nothing.
func Apply(ctx context.Context, baseURL, name string, cfg *ConfigBuilder) (ApplyResult, error) {
	var result ApplyResult
	if err := doJSON(ctx, http.MethodPost, baseURL, []string{"configs", name}, cfg.Build(), &result); err != nil {
		return ApplyResult{}, err
	}
	return result, nil
}

// Get fetches a stored configuration by name.
func Get(ctx context.Context, baseURL, name string) (simconf.Config, error) {
	var cfg simconf.Config
	if err := doJSON(ctx, http.MethodGet, baseURL, []string{"configs", name}, nil, &cfg); err != nil {
		return simconf.Config{}, err
	}
	return cfg, nil
}

// List returns the names of all stored configurations in lexical order.
func List(ctx context.Context, baseURL string) ([]string, error) {
	var result struct {
		Configs []string `json:"configs"`
	}
	if err := doJSON(ctx, http.MethodGet, baseURL, []string{"configs"}, nil, &result); err != nil {
		return nil, err
	}
	return result.Configs, nil
}

// Delete removes a stored configuration by name.
func Delete(ctx context.Context, baseURL, name string) error {
	return doJSON(ctx, http.MethodDelete, baseURL, []string{"configs", name}, nil, nil)
}

// Health reports whether the server is up. A nil error means the health
// endpoint answered with status 200.
func Health(ctx context.Context, baseURL string) error {
	return doJSON(ctx, http.MethodGet, baseURL, []string{"healthz"}, nil, nil)
}

// doJSON performs one request against the server. A non-nil payload is
// sent as a JSON body; a non-nil out receives the decoded JSON response.
// Any status other than 200 is an error carrying the response body.
func doJSON(ctx context.Context, method, baseURL string, segments []string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(jsonData)
	}

	// Build URL
	u, err := url.JoinPath(baseURL, segments...)
	if err != nil {
		return fmt.Errorf("failed to build URL: %w", err)
	}

	// Create request
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	// Send request
	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
