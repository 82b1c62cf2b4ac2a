// Package config loads and saves translation configuration documents.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/teranos/xlat/annotation"
	"github.com/teranos/xlat/engine"
	"github.com/teranos/xlat/errors"
)

// Document is a translation configuration document. Relative paths
// resolve against BaseDir, the directory the document was loaded from.
type Document struct {
	Name             string   `mapstructure:"name" toml:"name" yaml:"name" json:"name"`
	Interest         string   `mapstructure:"interest" toml:"interest" yaml:"interest" json:"interest"`
	Optimize         bool     `mapstructure:"optimize" toml:"optimize" yaml:"optimize" json:"optimize"`
	OutputDirectory  string   `mapstructure:"output-directory" toml:"output-directory" yaml:"output-directory" json:"output-directory"`
	ReturnPartial    bool     `mapstructure:"return-partial" toml:"return-partial" yaml:"return-partial" json:"return-partial"`
	SourceAssembly   string   `mapstructure:"source-assembly" toml:"source-assembly" yaml:"source-assembly" json:"source-assembly"`
	NamesakeAssembly string   `mapstructure:"namesake-assembly" toml:"namesake-assembly" yaml:"namesake-assembly" json:"namesake-assembly"`
	TargetPlatforms  []string `mapstructure:"target-platforms" toml:"target-platforms" yaml:"target-platforms" json:"target-platforms"`
	TargetTypes      []string `mapstructure:"target-types" toml:"target-types" yaml:"target-types" json:"target-types"`
	TranslatorPlugin string   `mapstructure:"translator-plugin" toml:"translator-plugin" yaml:"translator-plugin" json:"translator-plugin"`
	UseDefaultOnly   bool     `mapstructure:"use-default-only" toml:"use-default-only" yaml:"use-default-only" json:"use-default-only"`
	StrictResolution bool     `mapstructure:"strict-resolution" toml:"strict-resolution" yaml:"strict-resolution" json:"strict-resolution"`

	BaseDir string `mapstructure:"-" toml:"-" yaml:"-" json:"-"`
}

// Default returns a document holding the default values.
func Default() *Document {
	s := engine.DefaultSettings()
	return &Document{
		Interest:        s.Interest.String(),
		Optimize:        s.Optimize,
		ReturnPartial:   s.ReturnPartial,
		TargetPlatforms: append([]string(nil), s.TargetPlatforms...),
		TargetTypes:     []string{},
		UseDefaultOnly:  s.UseDefaultOnly,
	}
}

// ResolvePath resolves p against the document directory. A leading "~"
// expands to the home directory.
func (d *Document) ResolvePath(p string) string {
	if p == "" {
		return ""
	}
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	if filepath.IsAbs(p) || d.BaseDir == "" {
		return filepath.Clean(p)
	}
	return filepath.Join(d.BaseDir, p)
}

// SourcePath returns the resolved source assembly path.
func (d *Document) SourcePath() string { return d.ResolvePath(d.SourceAssembly) }

// NamesakePath returns the resolved namesake assembly path, or "".
func (d *Document) NamesakePath() string { return d.ResolvePath(d.NamesakeAssembly) }

// PluginPath returns the resolved translator descriptor path.
func (d *Document) PluginPath() string { return d.ResolvePath(d.TranslatorPlugin) }

// OutputPath returns the resolved output directory.
func (d *Document) OutputPath() string { return d.ResolvePath(d.OutputDirectory) }

// Validate checks required fields and value domains.
func (d *Document) Validate() error {
	var errs []error
	if strings.TrimSpace(d.SourceAssembly) == "" {
		errs = append(errs, errors.New("source-assembly is required"))
	}
	if strings.TrimSpace(d.TranslatorPlugin) == "" {
		errs = append(errs, errors.New("translator-plugin is required"))
	}
	if strings.TrimSpace(d.OutputDirectory) == "" {
		errs = append(errs, errors.New("output-directory is required"))
	}
	if _, err := engine.ParseInterest(d.Interest); err != nil {
		errs = append(errs, err)
	}
	for _, p := range d.TargetPlatforms {
		if !annotation.ValidPlatform(annotation.NormalizePlatform(p)) {
			errs = append(errs, errors.Newf("target platform %q is not a platform token", p))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errors.WithHint(
		errors.Mark(errors.Join(errs...), errors.ErrDescriptor),
		"run 'xlat config init' to generate a complete document")
}

// Settings converts the document into engine settings.
func (d *Document) Settings() (engine.Settings, error) {
	interest, err := engine.ParseInterest(d.Interest)
	if err != nil {
		return engine.Settings{}, err
	}
	return engine.Settings{
		Name:             d.Name,
		OutputDirectory:  d.OutputPath(),
		TargetPlatforms:  append([]string(nil), d.TargetPlatforms...),
		TargetTypes:      append([]string(nil), d.TargetTypes...),
		Optimize:         d.Optimize,
		ReturnPartial:    d.ReturnPartial,
		UseDefaultOnly:   d.UseDefaultOnly,
		StrictResolution: d.StrictResolution,
		Interest:         interest,
	}, nil
}
