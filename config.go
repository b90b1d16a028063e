package main

import (
	"io"
	"os"

	"github.com/pikechu/MidiReader/midi"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

const defaultListen = "[::]:8070"
const defaultMaxUploadBytes = 16 << 20

type Config struct {
	Strict         bool   `yaml:"strict"`
	ZeroTempo      string `yaml:"zero_tempo"`
	Listen         string `yaml:"listen"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
	ScanAlignment  int    `yaml:"scan_alignment"`
}

func DefaultConfig() *Config {
	return &Config{
		ZeroTempo:      "fail",
		Listen:         defaultListen,
		MaxUploadBytes: defaultMaxUploadBytes,
	}
}

// LoadConfig reads a YAML config on top of the defaults. An empty path
// returns the defaults.
func LoadConfig(path string) (*Config, error) {
	var config = DefaultConfig()

	if path == "" {
		return config, nil
	}

	file, err := os.Open(path)

	if err != nil {
		return nil, errors.Wrapf(err, "opening config %s", path)
	}

	defer file.Close()

	err = yaml.NewDecoder(file).Decode(config)

	if err != nil && err != io.EOF {
		return nil, errors.Wrapf(err, "decoding config %s", path)
	}

	err = config.Validate()

	if err != nil {
		return nil, err
	}

	return config, nil
}

func (config *Config) Validate() error {
	if _, err := parseZeroTempo(config.ZeroTempo); err != nil {
		return err
	}

	if config.MaxUploadBytes <= 0 {
		return errors.Errorf("max_upload_bytes must be positive, got %d", config.MaxUploadBytes)
	}

	if config.ScanAlignment < 0 {
		return errors.Errorf("scan_alignment must not be negative, got %d", config.ScanAlignment)
	}

	return nil
}

func parseZeroTempo(value string) (midi.ZeroTempoPolicy, error) {
	switch value {
	case "", "fail":
		return midi.ZeroTempoFail, nil
	case "default":
		return midi.ZeroTempoDefault, nil
	}

	return midi.ZeroTempoFail, errors.Errorf("zero_tempo must be fail or default, got %q", value)
}

func (config *Config) DecodeOptions() []midi.Option {
	policy, _ := parseZeroTempo(config.ZeroTempo)

	return []midi.Option{
		midi.WithStrict(config.Strict),
		midi.WithZeroTempo(policy),
	}
}
