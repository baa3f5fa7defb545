package config

import (
	"embed"
)

// defaults holds preset.yaml plus optional per-sketch overrides named
// <sketch>.yaml.
//
//go:embed defaults/*.yaml
var defaults embed.FS

// Names lists the sketches that ship an embedded preset.
func Names() []string {
	entries, err := defaults.ReadDir("defaults")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		name := e.Name()
		if name == "preset.yaml" {
			continue
		}
		names = append(names, name[:len(name)-len(".yaml")])
	}
	return names
}
