// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// BatchConfig holds settings for directory conversions.
type BatchConfig struct {
	// Workers bounds concurrent conversions (0 means runtime.NumCPU()).
	Workers int `json:"workers" yaml:"workers" mapstructure:"workers"`

	// Collision selects what happens when a destination already exists:
	// overwrite, skip, or suffix.
	Collision string `json:"collision" yaml:"collision" mapstructure:"collision"`
}

// MediaConfig holds raster image encoding settings.
type MediaConfig struct {
	// JPEGQuality is the JPEG encoder quality, 1-100 (default 90).
	JPEGQuality int `json:"jpeg_quality" yaml:"jpeg_quality" mapstructure:"jpeg_quality"`
}

// JournalConfig locates the run journal.
type JournalConfig struct {
	// Path is the SQLite database file. Empty disables the journal.
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// MarkitdownConfig controls the container-backed pdf/docx to Markdown
// transforms.
type MarkitdownConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	Image   string `json:"image" yaml:"image" mapstructure:"image"`
}

// Config groups every configurable setting.
type Config struct {
	Batch      BatchConfig      `json:"batch" yaml:"batch" mapstructure:"batch"`
	Media      MediaConfig      `json:"media" yaml:"media" mapstructure:"media"`
	Journal    JournalConfig    `json:"journal" yaml:"journal" mapstructure:"journal"`
	Markitdown MarkitdownConfig `json:"markitdown" yaml:"markitdown" mapstructure:"markitdown"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Batch:      BatchConfig{Collision: "overwrite"},
		Media:      MediaConfig{JPEGQuality: 90},
		Markitdown: MarkitdownConfig{Image: "markitdown:latest"},
	}
}
