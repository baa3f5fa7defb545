package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Source tells where a preset came from.
type Source string

const (
	SourceCustom   Source = "custom"
	SourceUser     Source = "user"
	SourceLocal    Source = "local"
	SourceEmbedded Source = "embedded"
)

// Load finds the preset for sketch.
// Search order: customPath -> ~/.pixelloop/presets/<sketch>.{yaml,toml}
// -> ./presets/<sketch>.{yaml,toml} -> embedded default.
// The embedded default for the sketch, if any, is the base every other
// source is merged onto.
func Load(sketch, customPath string) (Preset, Source, error) {
	base, err := embeddedPreset(sketch)
	if err != nil {
		return Preset{}, "", err
	}

	// A custom path must exist and parse
	if customPath != "" {
		p, err := readPreset(customPath)
		if err != nil {
			return Preset{}, "", err
		}
		return base.Merge(p), SourceCustom, nil
	}

	if dir := userPresetDir(); dir != "" {
		if p, ok := tryDir(dir, sketch); ok {
			return base.Merge(p), SourceUser, nil
		}
	}

	if p, ok := tryDir("presets", sketch); ok {
		return base.Merge(p), SourceLocal, nil
	}

	return base, SourceEmbedded, nil
}

// tryDir looks for <dir>/<sketch>.yaml, .yml or .toml. Unreadable or
// malformed files are skipped.
func tryDir(dir, sketch string) (Preset, bool) {
	for _, ext := range []string{".yaml", ".yml", ".toml"} {
		p, err := readPreset(filepath.Join(dir, sketch+ext))
		if err == nil {
			return p, true
		}
	}
	return Preset{}, false
}

func readPreset(path string) (Preset, error) {
	path, err := homedir.Expand(path)
	if err != nil {
		return Preset{}, fmt.Errorf("failed to expand %s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Preset{}, fmt.Errorf("failed to read preset %s: %w", path, err)
	}
	p, err := Decode(data, filepath.Ext(path))
	if err != nil {
		return Preset{}, fmt.Errorf("failed to parse preset %s: %w", path, err)
	}
	return p, nil
}

// Decode parses a preset. ext selects TOML for ".toml" and YAML otherwise.
func Decode(data []byte, ext string) (Preset, error) {
	var p Preset
	if strings.EqualFold(ext, ".toml") {
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&p); err != nil {
			return Preset{}, err
		}
		return p, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return Preset{}, err
	}
	return p, nil
}

// Encode renders a preset as YAML, for `pixelloop preset` output.
func Encode(p Preset) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// userPresetDir returns ~/.pixelloop/presets, or empty if home is unavailable.
func userPresetDir() string {
	home, err := homedir.Dir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".pixelloop", "presets")
}

// embeddedPreset returns the built-in preset for sketch, falling back to the
// generic one.
func embeddedPreset(sketch string) (Preset, error) {
	base, err := decodeEmbedded("defaults/preset.yaml")
	if err != nil {
		return Preset{}, err
	}
	own, err := decodeEmbedded("defaults/" + sketch + ".yaml")
	if errors.Is(err, fs.ErrNotExist) {
		return base, nil
	}
	if err != nil {
		return Preset{}, err
	}
	return base.Merge(own), nil
}

func decodeEmbedded(name string) (Preset, error) {
	data, err := defaults.ReadFile(name)
	if err != nil {
		return Preset{}, err
	}
	p, err := Decode(data, ".yaml")
	if err != nil {
		return Preset{}, fmt.Errorf("config: embedded %s: %w", name, err)
	}
	return p, nil
}
