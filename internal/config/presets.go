package config

import "sort"

var Presets = map[string]func(*Config){
	"classic": func(c *Config) {},
	"bouncy": func(c *Config) {
		c.Material.Restitution = 0.92
		c.Material.Friction = 0.05
		c.Spawn.Height = 4
	},
	"moon": func(c *Config) {
		c.World.Gravity = -1.62
		c.Spawn.Height = 5
	},
	"heavy": func(c *Config) {
		c.World.Gravity = -20
		c.Material.Restitution = 0.4
		c.Material.Friction = 0.3
		c.Spawn.Radius = 0.45
		c.Spawn.Mass = 5
	},
	"crowd": func(c *Config) {
		c.Spawn.Initial = 12
		c.Spawn.Spread = 1.5
		c.World.Broadphase = "sap"
	},
}

// GetPreset returns the defaults with the named preset applied, or nil.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
