// Package simconf loads molecular-dynamics simulation configurations.
// A configuration names the elements present in the simulation and the
// Lennard-Jones parameters of their interaction; when the parameters are
// not given explicitly they are derived from the compiled-in periodic
// table. Loading is all or nothing: any failure aborts the whole call.
package simconf

import (
	"fmt"
	"sort"
)

// Config is a resolved simulation configuration. It is immutable after
// loading and always carries a complete set of LJ parameters.
type Config struct {
	Name        string   `json:"name,omitempty" yaml:"name,omitempty"`
	Elements    []string `json:"elements" yaml:"elements"`
	LJ          LJParams `json:"lj_params" yaml:"lj_params"`
	Steps       int      `json:"steps,omitempty" yaml:"steps,omitempty"`
	Timestep    float64  `json:"timestep,omitempty" yaml:"timestep,omitempty"`
	Temperature float64  `json:"temperature,omitempty" yaml:"temperature,omitempty"`
}

// FromMap resolves a raw configuration mapping, as decoded from JSON,
// YAML or TOML, into a Config. Explicit lj_params are adopted verbatim
// when present and non-empty, regardless of the elements; otherwise the
// parameters are derived from the elements via DefaultLJParams and its
// errors propagate unchanged. An empty or nil lj_params mapping counts
// as absent.
func FromMap(raw map[string]any) (Config, error) {
	var cfg Config

	elements, err := stringSlice(raw["elements"], "elements")
	if err != nil {
		return Config{}, err
	}
	cfg.Elements = elements

	if v, ok := raw["name"]; ok && v != nil {
		s, isString := v.(string)
		if !isString {
			return Config{}, fmt.Errorf("config field 'name': expected a string, got %T", v)
		}
		cfg.Name = s
	}
	steps, err := numberField(raw, "steps")
	if err != nil {
		return Config{}, err
	}
	cfg.Steps = int(steps)
	if cfg.Timestep, err = numberField(raw, "timestep"); err != nil {
		return Config{}, err
	}
	if cfg.Temperature, err = numberField(raw, "temperature"); err != nil {
		return Config{}, err
	}

	ljRaw, present := raw["lj_params"]
	switch {
	case !present || ljRaw == nil:
		cfg.LJ, err = DefaultLJParams(cfg.Elements)
	default:
		m, isMap := ljRaw.(map[string]any)
		switch {
		case !isMap:
			err = &MalformedLJParamsError{
				Issues: []string{fmt.Sprintf("lj_params: expected a mapping, got %T", ljRaw)},
			}
		case len(m) == 0:
			// An empty mapping counts as absent
			cfg.LJ, err = DefaultLJParams(cfg.Elements)
		default:
			cfg.LJ, err = ljParamsFromMapping(m)
		}
	}
	if err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// HasExplicitLJ reports whether a raw mapping carries explicit LJ
// parameters, i.e. a non-nil, non-empty lj_params mapping. FromMap adopts
// the parameters verbatim exactly when this is true.
func HasExplicitLJ(raw map[string]any) bool {
	v, ok := raw["lj_params"]
	if !ok || v == nil {
		return false
	}
	m, isMap := v.(map[string]any)
	return isMap && len(m) > 0
}

// ljParamsFromMapping builds LJParams from an explicit lj_params mapping.
// All issues are collected before failing so a malformed document is
// reported in one pass.
func ljParamsFromMapping(m map[string]any) (LJParams, error) {
	issues := &MalformedLJParamsError{}
	var params LJParams
	fields := []struct {
		name string
		dst  *float64
	}{
		{"epsilon", &params.Epsilon},
		{"sigma", &params.Sigma},
		{"cutoff", &params.Cutoff},
	}
	known := make(map[string]bool, len(fields))

	for _, f := range fields {
		known[f.name] = true
		raw, present := m[f.name]
		if !present {
			issues.Add("lj_params: missing required field '" + f.name + "'")
			continue
		}
		val, isNumber := toFloat64(raw)
		if !isNumber {
			issues.Add(fmt.Sprintf("lj_params: field '%s': expected a number, got %T", f.name, raw))
			continue
		}
		*f.dst = val
	}

	// Reject unknown keys so typos do not silently pass as explicit params
	extra := make([]string, 0)
	for key := range m {
		if !known[key] {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	for _, key := range extra {
		issues.Add("lj_params: unknown field '" + key + "'")
	}

	if issues.HasIssues() {
		return LJParams{}, issues
	}
	return params, nil
}

// stringSlice extracts an optional list of strings from a decoded value.
// Absent and nil are an empty list; generic []any lists, as produced by
// the JSON/YAML/TOML decoders, are accepted when every entry is a string.
func stringSlice(v any, field string) ([]string, error) {
	switch val := v.(type) {
	case nil:
		return []string{}, nil
	case []string:
		out := make([]string, len(val))
		copy(out, val)
		return out, nil
	case []any:
		out := make([]string, 0, len(val))
		for i, entry := range val {
			s, ok := entry.(string)
			if !ok {
				return nil, fmt.Errorf("config field '%s': entry %d: expected a string, got %T", field, i, entry)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("config field '%s': expected a list of strings, got %T", field, v)
	}
}

// numberField extracts an optional numeric field, zero when absent.
func numberField(raw map[string]any, field string) (float64, error) {
	v, ok := raw[field]
	if !ok || v == nil {
		return 0, nil
	}
	f, isNumber := toFloat64(v)
	if !isNumber {
		return 0, fmt.Errorf("config field '%s': expected a number, got %T", field, v)
	}
	return f, nil
}

// toFloat64 attempts to convert a decoded value to float64
func toFloat64(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case int32:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint64:
		return float64(val), true
	case uint32:
		return float64(val), true
	default:
		return 0, false
	}
}
