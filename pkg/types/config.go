// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Backend identifies the document-to-markdown conversion tool.
type Backend string

const (
	// BackendAuto uses the native converters for .docx and .xlsx and falls
	// back to markitdown for formats without a native converter.
	BackendAuto Backend = "auto"
	// BackendNative uses only the in-process converters.
	BackendNative Backend = "native"
	// BackendMarkitdown pipes every document through the markitdown container.
	BackendMarkitdown Backend = "markitdown"
)

// Valid reports whether b names a known backend.
func (b Backend) Valid() bool {
	switch b {
	case BackendAuto, BackendNative, BackendMarkitdown:
		return true
	}
	return false
}

const (
	// DefaultLogFile is the log file written inside each output directory.
	DefaultLogFile = "conversion.log"
	// DefaultManifestFile is the per-run manifest written inside each output directory.
	DefaultManifestFile = "manifest.yaml"
	// DefaultMaxCollisions bounds the numeric suffix search of the output planner.
	DefaultMaxCollisions = 10000
	// DefaultMarkitdownImage is the container image used by the markitdown backend.
	DefaultMarkitdownImage = "markitdown:latest"
)

// Config holds the settings of a conversion run.
type Config struct {
	// Backend selects the conversion tool: auto, native, or markitdown.
	Backend Backend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// LogFile is the name of the log file created inside the output directory.
	LogFile string `json:"log_file" yaml:"log_file" mapstructure:"log_file"`

	// ManifestFile is the name of the YAML manifest created inside the output directory.
	ManifestFile string `json:"manifest_file" yaml:"manifest_file" mapstructure:"manifest_file"`

	// HistoryDB is the SQLite database recording past runs. Empty disables history.
	HistoryDB string `json:"history_db" yaml:"history_db" mapstructure:"history_db"`

	// MaxCollisions bounds the _2, _3, ... suffix search for output names.
	MaxCollisions int `json:"max_collisions" yaml:"max_collisions" mapstructure:"max_collisions"`

	// MarkitdownImage is the container image used by the markitdown backend.
	MarkitdownImage string `json:"markitdown_image" yaml:"markitdown_image" mapstructure:"markitdown_image"`
}

// WithDefaults returns a copy of c with zero fields replaced by defaults.
func (c Config) WithDefaults() Config {
	if c.Backend == "" {
		c.Backend = BackendAuto
	}
	if c.LogFile == "" {
		c.LogFile = DefaultLogFile
	}
	if c.ManifestFile == "" {
		c.ManifestFile = DefaultManifestFile
	}
	if c.MaxCollisions <= 0 {
		c.MaxCollisions = DefaultMaxCollisions
	}
	if c.MarkitdownImage == "" {
		c.MarkitdownImage = DefaultMarkitdownImage
	}
	return c
}
