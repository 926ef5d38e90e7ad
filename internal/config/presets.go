package config

import "sort"

// Presets are ready-made throws, keyed by body then name. Values hold
// only the fields that differ from the defaults; Clone fills the rest.
var Presets = map[string]map[string]*Config{
	"axe": {
		"demo": {
			Body: "axe", Integrator: "rk4", Dt: 0.001, Duration: 1.0,
			Throw: ThrowConfig{X: 0, Y: 2, Theta: 2, VX: 8, VY: 4, Omega: -7},
		},
		"full-turn": {
			Body: "axe", Integrator: "rk4", Dt: 0.001, Duration: 1.2,
			Throw: ThrowConfig{Y: 1.8, Theta: 0.3, VX: 6, VY: 2, Omega: -6.3},
		},
		"lob": {
			Body: "axe", Integrator: "rk4", Dt: 0.001, Duration: 2.2,
			Throw: ThrowConfig{Y: 2, Theta: 1.2, VX: 4, VY: 7, Omega: -9},
		},
	},
	"knife": {
		"straight": {
			Body: "knife", Integrator: "rk4", Dt: 0.001, Duration: 0.8,
			Throw: ThrowConfig{Y: 1.6, Theta: 0.1, VX: 10, VY: 1, Omega: -3},
		},
		"spinner": {
			Body: "knife", Integrator: "rk4", Dt: 0.001, Duration: 1.0,
			Throw: ThrowConfig{Y: 1.6, Theta: 0.1, VX: 8, VY: 2.5, Omega: -14},
		},
	},
	"ball": {
		"pop-fly": {
			Body: "ball", Integrator: "rk4", Dt: 0.001, Duration: 2.6,
			Throw: ThrowConfig{Y: 1.8, VX: 2, VY: 12, Omega: 20},
		},
		"line-drive": {
			Body: "ball", Integrator: "rk4", Dt: 0.001, Duration: 0.8,
			Throw: ThrowConfig{Y: 1.8, VX: 25, VY: 1, Omega: 50},
		},
	},
}

// GetPreset returns a copy of the named preset with defaults filled in,
// or nil when unknown.
func GetPreset(body, preset string) *Config {
	bodyPresets, ok := Presets[body]
	if !ok {
		return nil
	}
	cfg, ok := bodyPresets[preset]
	if !ok {
		return nil
	}
	return clone(cfg)
}

// ListPresets returns the preset names for a body, sorted.
func ListPresets(body string) []string {
	bodyPresets, ok := Presets[body]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(bodyPresets))
	for name := range bodyPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Bodies returns the body names that have presets, sorted.
func Bodies() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func clone(preset *Config) *Config {
	cfg := DefaultConfig()
	cfg.Body = preset.Body
	cfg.Integrator = preset.Integrator
	cfg.Dt = preset.Dt
	cfg.Duration = preset.Duration
	cfg.Adaptive = preset.Adaptive
	if preset.Tolerance > 0 {
		cfg.Tolerance = preset.Tolerance
	}
	cfg.Throw = preset.Throw
	if len(preset.Params) > 0 {
		cfg.Params = make(map[string]float64, len(preset.Params))
		for k, v := range preset.Params {
			cfg.Params[k] = v
		}
	}
	return cfg
}
