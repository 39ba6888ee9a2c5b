// Package config provides the configuration structure for the phonemizer service.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/book-expert/configurator"
	"github.com/book-expert/logger"
	"github.com/book-expert/phonemizer/internal/language"
	"github.com/pelletier/go-toml/v2"
)

const (
	defaultPhonemizeSubject   = "text.phonemize"
	defaultTextBucket         = "TEXT_FILES"
	defaultPhonemeBucket      = "PHONEME_FILES"
	defaultVoice              = "af_heart"
	defaultMaxChunkChars      = 200
	defaultSynthesisURL       = "http://localhost:8880"
	defaultSynthesisTimeout   = 120
	defaultSynthesisSpeed     = 1.0
	defaultSynthesisWorkers   = 2
	maxSynthesisSpeed         = 4.0
	defaultSynthesisOutputDir = "output"
)

var (
	// ErrNATSURLEmpty indicates that no NATS server was configured.
	ErrNATSURLEmpty = errors.New("nats url cannot be empty")
	// ErrSpeedRange indicates that the synthesis speed is outside (0, 4].
	ErrSpeedRange = errors.New("synthesis speed must be in (0, 4]")
	// ErrWorkersRange indicates a non-positive worker count.
	ErrWorkersRange = errors.New("synthesis workers must be positive")
)

// NATSConfig holds the configuration for NATS.
type NATSConfig struct {
	URL                      string `toml:"url"`
	PhonemizeSubject         string `toml:"phonemize_subject"`
	TextObjectStoreBucket    string `toml:"text_object_store_bucket"`
	PhonemeObjectStoreBucket string `toml:"phoneme_object_store_bucket"`
}

// PhonemizerConfig holds the defaults applied to every phonemization job.
type PhonemizerConfig struct {
	DefaultVoice  string `toml:"default_voice"`
	Normalize     *bool  `toml:"normalize"`
	MaxChunkChars int    `toml:"max_chunk_chars"`
}

// SynthesisConfig points at the speech synthesis service.
type SynthesisConfig struct {
	ServiceURL     string  `toml:"service_url"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
	Speed          float64 `toml:"speed"`
	Workers        int     `toml:"workers"`
}

// PathsConfig holds the configuration for file paths.
type PathsConfig struct {
	BaseLogsDir string `toml:"base_logs_dir"`
	OutputDir   string `toml:"output_dir"`
}

// Config is the root configuration structure.
type Config struct {
	NATS       NATSConfig       `toml:"nats"`
	Phonemizer PhonemizerConfig `toml:"phonemizer"`
	Synthesis  SynthesisConfig  `toml:"synthesis"`
	Paths      PathsConfig      `toml:"paths"`
}

// Load loads the configuration for the phonemizer service, fills defaults
// and validates the result.
func Load(log *logger.Logger) (*Config, error) {
	var cfg Config

	err := configurator.Load(&cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration from configurator: %w", err)
	}

	cfg.ApplyDefaults()

	err = cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// LoadFile reads a TOML file for command-line synthesis. An empty path
// yields the defaults. Only the [phonemizer] and [synthesis] settings are
// validated; the file needs no [nats] section.
func LoadFile(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read configuration: %w", err)
		}

		err = toml.Unmarshal(data, &cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to parse configuration %s: %w", path, err)
		}
	}

	cfg.ApplyDefaults()

	err := cfg.ValidateSynthesis()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// ApplyDefaults fills every unset optional field.
func (c *Config) ApplyDefaults() {
	if c.NATS.PhonemizeSubject == "" {
		c.NATS.PhonemizeSubject = defaultPhonemizeSubject
	}

	if c.NATS.TextObjectStoreBucket == "" {
		c.NATS.TextObjectStoreBucket = defaultTextBucket
	}

	if c.NATS.PhonemeObjectStoreBucket == "" {
		c.NATS.PhonemeObjectStoreBucket = defaultPhonemeBucket
	}

	if c.Phonemizer.DefaultVoice == "" {
		c.Phonemizer.DefaultVoice = defaultVoice
	}

	if c.Phonemizer.Normalize == nil {
		enabled := true
		c.Phonemizer.Normalize = &enabled
	}

	if c.Phonemizer.MaxChunkChars <= 0 {
		c.Phonemizer.MaxChunkChars = defaultMaxChunkChars
	}

	if c.Synthesis.ServiceURL == "" {
		c.Synthesis.ServiceURL = defaultSynthesisURL
	}

	if c.Synthesis.TimeoutSeconds <= 0 {
		c.Synthesis.TimeoutSeconds = defaultSynthesisTimeout
	}

	if c.Synthesis.Speed == 0 {
		c.Synthesis.Speed = defaultSynthesisSpeed
	}

	if c.Synthesis.Workers == 0 {
		c.Synthesis.Workers = defaultSynthesisWorkers
	}

	if c.Paths.OutputDir == "" {
		c.Paths.OutputDir = defaultSynthesisOutputDir
	}
}

// Validate reports the first invalid setting the service depends on. The
// [synthesis] section is not checked; the service never synthesizes.
func (c *Config) Validate() error {
	if c.NATS.URL == "" {
		return ErrNATSURLEmpty
	}

	return c.validateVoice()
}

// ValidateSynthesis checks the settings used by command-line synthesis.
func (c *Config) ValidateSynthesis() error {
	err := c.validateVoice()
	if err != nil {
		return err
	}

	if c.Synthesis.Speed <= 0 || c.Synthesis.Speed > maxSynthesisSpeed {
		return fmt.Errorf("%w: got %f", ErrSpeedRange, c.Synthesis.Speed)
	}

	if c.Synthesis.Workers < 1 {
		return fmt.Errorf("%w: got %d", ErrWorkersRange, c.Synthesis.Workers)
	}

	return nil
}

func (c *Config) validateVoice() error {
	_, err := language.LookupVoice(c.Phonemizer.DefaultVoice)
	if err != nil {
		return fmt.Errorf("phonemizer.default_voice: %w", err)
	}

	return nil
}

// NormalizeEnabled reports the effective normalize setting.
func (c *Config) NormalizeEnabled() bool {
	return c.Phonemizer.Normalize == nil || *c.Phonemizer.Normalize
}
