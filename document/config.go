package document

import (
	"github.com/go-playground/validator/v10"

	"github.com/tsawler/pdfdoc/logger"
)

// ParsingMode decides what happens to objects that cannot be read
type ParsingMode string

const (
	// Strict fails the load on the first unreadable object.
	Strict ParsingMode = "strict"
	// BestEffort skips unreadable objects and records a warning.
	BestEffort ParsingMode = "best-effort"
)

// Config controls loading and rewriting documents
type Config struct {
	ParsingMode ParsingMode `validate:"oneof=strict best-effort"`
	// ObjectStreamWorkers is the number of goroutines used to parse the
	// entries of one object stream. 0 or 1 parses sequentially.
	ObjectStreamWorkers int `validate:"min=0,max=64"`
	// MaxResolveDepth bounds reference chains and nesting during resolution.
	MaxResolveDepth int `validate:"min=1,max=10000"`
	// CompressStreams flate-encodes content streams written by page edits.
	CompressStreams bool
	Logger          logger.LogFunc
}

// NewDefaultConfig returns the configuration used when none is given
func NewDefaultConfig() *Config {
	return &Config{
		ParsingMode:         BestEffort,
		ObjectStreamWorkers: 0,
		MaxResolveDepth:     100,
		CompressStreams:     false,
	}
}

// Validate checks the configuration fields
func (cfg *Config) Validate() error {
	logger.Debug("Validating Config Object")
	validate := validator.New()
	return validate.Struct(cfg)
}
