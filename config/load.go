package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/teranos/xlat/errors"
	"github.com/teranos/xlat/metadata"
)

// EnvPrefix prefixes environment overrides: XLAT_OUTPUT_DIRECTORY and so on.
const EnvPrefix = "XLAT"

// SetDefaults configures default values for every document field.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("name", "")
	v.SetDefault("interest", "Errors")
	v.SetDefault("optimize", true)
	v.SetDefault("output-directory", "")
	v.SetDefault("return-partial", false)
	v.SetDefault("source-assembly", "")
	v.SetDefault("namesake-assembly", "")
	v.SetDefault("target-platforms", []string{metadata.Wildcard})
	v.SetDefault("target-types", []string{})
	v.SetDefault("translator-plugin", "")
	v.SetDefault("use-default-only", false)
	v.SetDefault("strict-resolution", false)
}

// configType maps a document extension to its format.
func configType(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return "toml", nil
	case ".yaml", ".yml":
		return "yaml", nil
	case ".json":
		return "json", nil
	default:
		return "", errors.WithHint(
			errors.NewDescriptorError("unsupported configuration format %q", filepath.Ext(path)),
			"use a .toml, .yaml, .yml or .json document")
	}
}

// Load reads a configuration document. Environment variables prefixed
// with XLAT_ override document values.
func Load(path string) (*Document, error) {
	typ, err := configType(path)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType(typ)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.WrapDescriptor(err, "failed to read config file "+path)
	}

	var doc Document
	if err := v.Unmarshal(&doc); err != nil {
		return nil, errors.WrapDescriptor(err, "failed to unmarshal config from "+path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve %s", path)
	}
	doc.BaseDir = filepath.Dir(abs)
	return &doc, nil
}

// Marshal encodes doc in the format implied by path.
func Marshal(doc *Document, path string) ([]byte, error) {
	typ, err := configType(path)
	if err != nil {
		return nil, err
	}
	switch typ {
	case "toml":
		return toml.Marshal(doc)
	case "yaml":
		return yaml.Marshal(doc)
	default:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
}

// Save writes doc to path in the format implied by its extension.
func Save(doc *Document, path string) error {
	data, err := Marshal(doc, path)
	if err != nil {
		return errors.Wrapf(err, "failed to encode config %s", path)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "failed to create %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write config %s", path)
	}
	return nil
}
