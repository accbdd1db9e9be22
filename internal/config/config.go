/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package config loads and stores the user's editor preferences.
//
// The YAML file lives in the user config directory; SHOTEDIT_* environment
// variables override it at runtime and are never written back.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// CurrentVersion is written into new files; bump when the layout changes incompatibly.
const CurrentVersion = 1

type EditorConfig struct {
	// UndoMaxDepth caps the undo stack; 0 means unlimited.
	UndoMaxDepth int `yaml:"undo_max_depth"`
	// AutoCropDifference is the per-channel tolerance used when scanning for a uniform border.
	AutoCropDifference int      `yaml:"auto_crop_difference"`
	DefaultFontFamily  string   `yaml:"default_font_family"`
	FontDirs           []string `yaml:"font_dirs"`
	CounterStart       int      `yaml:"counter_start"`
	// LastUsed maps "FIELD_NAME" or "FIELD_NAME@Scope" to an encoded value.
	LastUsed map[string]string `yaml:"last_used,omitempty"`
}

type OutputConfig struct {
	Format       string  `yaml:"format"` // png | pdf
	PDFDPI       float64 `yaml:"pdf_dpi"`
	TemplateKeep int     `yaml:"template_backups"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	Editor        EditorConfig  `yaml:"editor"`
	Output        OutputConfig  `yaml:"output"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the built-in configuration.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: CurrentVersion,
		Editor: EditorConfig{
			UndoMaxDepth:       100,
			AutoCropDifference: 10,
			DefaultFontFamily:  "Arial",
			CounterStart:       1,
		},
		Output:  OutputConfig{Format: "png", PDFDPI: 96, TemplateKeep: 3},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

const (
	EnvUndoDepth    = "SHOTEDIT_UNDO_MAX_DEPTH"
	EnvAutoCropDiff = "SHOTEDIT_AUTOCROP_DIFFERENCE"
	EnvFontDirs     = "SHOTEDIT_FONT_DIRS" // os.PathListSeparator separated
	EnvOutputFormat = "SHOTEDIT_OUTPUT_FORMAT"
	EnvConfigPath   = "SHOTEDIT_CONFIG"
	EnvLogLevel     = "SHOTEDIT_LOG_LEVEL"
	EnvLogFormat    = "SHOTEDIT_LOG_FORMAT"
	EnvLogSource    = "SHOTEDIT_LOG_SOURCE"
	EnvLogFile      = "SHOTEDIT_LOG_FILE"
)

// ConfigPath returns the per-user config file path. SHOTEDIT_CONFIG wins when set.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p, nil
	}
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "shotedit")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "shotedit")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = filepath.Join(xdg, "shotedit")
		} else if home := os.Getenv("HOME"); home != "" {
			base = filepath.Join(home, ".config", "shotedit")
		}
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config (if present) over the defaults and applies env overrides.
// A malformed file is reported but the defaults are still returned.
func Load() (AppConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		cfg := Defaults()
		applyEnvOverrides(&cfg)
		return cfg, err
	}
	return LoadFile(path)
}

// LoadFile is Load with an explicit path.
func LoadFile(path string) (AppConfig, error) {
	cfg := Defaults()
	var perr error
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			perr = fmt.Errorf("parse %s: %w", path, err)
		} else {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)
	return cfg, perr
}

// Save writes cfg to the user config path.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveFile(path, cfg)
}

// SaveFile writes cfg as YAML, creating parent directories.
func SaveFile(path string, cfg AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if cfg.ConfigVersion == 0 {
		cfg.ConfigVersion = CurrentVersion
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if src.Editor.UndoMaxDepth != 0 {
		dst.Editor.UndoMaxDepth = src.Editor.UndoMaxDepth
	}
	if src.Editor.AutoCropDifference != 0 {
		dst.Editor.AutoCropDifference = src.Editor.AutoCropDifference
	}
	if s := strings.TrimSpace(src.Editor.DefaultFontFamily); s != "" {
		dst.Editor.DefaultFontFamily = s
	}
	if len(src.Editor.FontDirs) > 0 {
		dst.Editor.FontDirs = append([]string(nil), src.Editor.FontDirs...)
	}
	if src.Editor.CounterStart != 0 {
		dst.Editor.CounterStart = src.Editor.CounterStart
	}
	if len(src.Editor.LastUsed) > 0 {
		dst.Editor.LastUsed = make(map[string]string, len(src.Editor.LastUsed))
		for k, v := range src.Editor.LastUsed {
			dst.Editor.LastUsed[k] = v
		}
	}
	if f := strings.ToLower(strings.TrimSpace(src.Output.Format)); f != "" {
		dst.Output.Format = f
	}
	if src.Output.PDFDPI > 0 {
		dst.Output.PDFDPI = src.Output.PDFDPI
	}
	if src.Output.TemplateKeep != 0 {
		dst.Output.TemplateKeep = src.Output.TemplateKeep
	}
	if s := strings.TrimSpace(src.Logging.Level); s != "" {
		dst.Logging.Level = strings.ToLower(s)
	}
	if s := strings.TrimSpace(src.Logging.Format); s != "" {
		dst.Logging.Format = strings.ToLower(s)
	}
	dst.Logging.Source = src.Logging.Source
	if s := strings.TrimSpace(src.Logging.File); s != "" {
		dst.Logging.File = s
	}
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvUndoDepth)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Editor.UndoMaxDepth = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvAutoCropDiff)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Editor.AutoCropDifference = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvFontDirs)); v != "" {
		cfg.Editor.FontDirs = filepath.SplitList(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvOutputFormat)); v != "" {
		cfg.Output.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := os.Getenv(EnvLogSource); strings.TrimSpace(v) != "" {
		cfg.Logging.Source = truthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

var envKeys = map[string]string{
	"editor.undo_max_depth":       EnvUndoDepth,
	"editor.auto_crop_difference": EnvAutoCropDiff,
	"editor.font_dirs":            EnvFontDirs,
	"output.format":               EnvOutputFormat,
	"logging.level":               EnvLogLevel,
	"logging.format":              EnvLogFormat,
	"logging.source":              EnvLogSource,
	"logging.file":                EnvLogFile,
}

// EnvOverrideFor reports the variable overriding a dotted config key, if any is set.
func EnvOverrideFor(key string) (string, bool) {
	name, ok := envKeys[key]
	if !ok || os.Getenv(name) == "" {
		return "", false
	}
	return name, true
}
