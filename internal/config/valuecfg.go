package config

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/scoutlens/scoutlens/internal/domain/valuation"
)

// LoadValuation builds the value model config from three layers: built-in
// defaults, an optional YAML file, and an optional saved JSON overlay (the
// document persisted by the value-config endpoint). Later layers win per key.
func LoadValuation(filePath string, overlay []byte) (valuation.Config, error) {
	k := koanf.New(".")

	defaults, err := configToMap(valuation.Default())
	if err != nil {
		return valuation.Config{}, fmt.Errorf("encode valuation defaults: %w", err)
	}
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return valuation.Config{}, fmt.Errorf("load valuation defaults: %w", err)
	}

	if filePath != "" {
		if err := k.Load(file.Provider(filePath), yaml.Parser()); err != nil {
			return valuation.Config{}, fmt.Errorf("load valuation file %s: %w", filePath, err)
		}
	}

	if len(overlay) > 0 {
		var m map[string]interface{}
		if err := sonic.Unmarshal(overlay, &m); err != nil {
			return valuation.Config{}, fmt.Errorf("decode valuation overlay: %w", err)
		}
		if err := k.Load(confmap.Provider(m, "."), nil); err != nil {
			return valuation.Config{}, fmt.Errorf("load valuation overlay: %w", err)
		}
	}

	var cfg valuation.Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return valuation.Config{}, fmt.Errorf("unmarshal valuation config: %w", err)
	}
	return cfg.Normalize(), nil
}

func configToMap(cfg valuation.Config) (map[string]interface{}, error) {
	raw, err := sonic.Marshal(cfg)
	if err != nil {
		return nil, err
	}

	var m map[string]interface{}
	if err := sonic.Unmarshal(raw, &m); err != nil {
		return nil, err
	}

	return m, nil
}
