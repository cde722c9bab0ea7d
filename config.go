package stagewatch

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/AnatoleLucet/stagewatch/internal"
	"github.com/AnatoleLucet/stagewatch/internal/logging"
	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const EnvPolicy = "STAGEWATCH_POLICY"

type Config struct {
	Policy Policy         `toml:"policy" yaml:"policy"`
	Log    logging.Config `toml:"log" yaml:"log"`
}

func DefaultConfig() Config {
	return Config{
		Policy: PolicyAtLeastOne,
		Log:    logging.DefaultConfig(),
	}
}

// LoadConfig reads a TOML or YAML file, chosen by extension, over the defaults.
// STAGEWATCH_POLICY overrides the file's policy.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := DecodeConfig(data, filepath.Ext(path), &cfg); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// DecodeConfig decodes data in the format named by ext (".toml", ".yaml" or ".yml") into cfg.
func DecodeConfig(data []byte, ext string, cfg *Config) error {
	switch strings.ToLower(ext) {
	case ".toml":
		meta, err := toml.NewDecoder(bytes.NewReader(data)).Decode(cfg)
		if err != nil {
			return err
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, key := range undecoded {
				keys[i] = key.String()
			}
			return fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
		}
		return nil
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return nil
	default:
		return fmt.Errorf("unsupported config format %q", ext)
	}
}

func applyEnv(cfg *Config) error {
	raw := strings.TrimSpace(os.Getenv(EnvPolicy))
	if raw == "" {
		return nil
	}

	p, err := internal.ParsePolicy(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", EnvPolicy, err)
	}
	cfg.Policy = p

	return nil
}
