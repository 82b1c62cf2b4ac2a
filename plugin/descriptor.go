// Package plugin binds a translator module to the engine at run time.
//
// A translator is described by a small TOML descriptor naming the module
// and the class to instantiate. Modules are either linked into the binary
// and registered in a Registry, or opened as Go plugins.
package plugin

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"

	"github.com/teranos/xlat/errors"
	"github.com/teranos/xlat/version"
)

// DefaultFormatVersion is assumed when a descriptor omits format-version.
const DefaultFormatVersion = "1.0.0.0"

// FormatConstraint is the descriptor format range this loader reads.
const FormatConstraint = "^1"

// Company identifies the translator vendor.
type Company struct {
	Name      string `toml:"name"`
	Copyright string `toml:"copyright,omitempty"`
}

// Descriptor describes a translator module.
type Descriptor struct {
	ClassName         string  `toml:"class-name"`
	ModulePath        string  `toml:"module-path"`
	DisplayName       string  `toml:"display-name,omitempty"`
	Description       string  `toml:"description,omitempty"`
	TranslatorVersion string  `toml:"translator-version,omitempty"`
	FormatVersion     string  `toml:"format-version"`
	Company           Company `toml:"company"`

	// Dir is the directory the descriptor was read from. Relative
	// module paths resolve against it.
	Dir string `toml:"-"`
}

// DecodeDescriptor decodes a TOML descriptor. Unknown keys are rejected.
func DecodeDescriptor(r io.Reader) (*Descriptor, error) {
	var d Descriptor
	md, err := toml.NewDecoder(r).Decode(&d)
	if err != nil {
		return nil, errors.WrapDescriptor(err, "failed to decode translator descriptor")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.WithHint(
			errors.NewDescriptorError("unknown descriptor keys: %s", strings.Join(keys, ", ")),
			"valid keys are class-name, module-path, display-name, description, translator-version, format-version and [company]")
	}
	if strings.TrimSpace(d.FormatVersion) == "" {
		d.FormatVersion = DefaultFormatVersion
	}
	return &d, nil
}

// ReadDescriptor reads and decodes the descriptor at path.
func ReadDescriptor(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Mark(errors.Wrapf(err, "translator descriptor %s", path), errors.ErrDescriptor)
		}
		return nil, errors.WrapDescriptor(err, "failed to read translator descriptor "+path)
	}
	d, err := DecodeDescriptor(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "descriptor %s", path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve %s", path)
	}
	d.Dir = filepath.Dir(abs)
	return d, nil
}

// Encode writes the descriptor as TOML.
func (d *Descriptor) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(d)
}

// Save writes the descriptor to path.
func (d *Descriptor) Save(path string) error {
	var buf bytes.Buffer
	if err := d.Encode(&buf); err != nil {
		return errors.Wrap(err, "failed to encode translator descriptor")
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// Validate checks required keys and version formats.
func (d *Descriptor) Validate() error {
	var errs []error
	if strings.TrimSpace(d.ClassName) == "" {
		errs = append(errs, errors.New("class-name is required"))
	}
	if strings.TrimSpace(d.ModulePath) == "" {
		errs = append(errs, errors.New("module-path is required"))
	}

	format := d.FormatVersion
	if strings.TrimSpace(format) == "" {
		format = DefaultFormatVersion
	}
	if v, err := version.Parse(format); err != nil {
		errs = append(errs, errors.Wrapf(err, "format-version %q", format))
	} else if c, _ := semver.NewConstraint(FormatConstraint); !c.Check(v) {
		errs = append(errs, errors.Newf("format-version %s is not supported (want %s)", format, FormatConstraint))
	}

	if d.TranslatorVersion != "" {
		if _, err := version.Parse(d.TranslatorVersion); err != nil {
			errs = append(errs, errors.Wrapf(err, "translator-version %q", d.TranslatorVersion))
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errors.Mark(errors.Join(errs...), errors.ErrDescriptor)
}

// Title returns the display name, falling back to the class name.
func (d *Descriptor) Title() string {
	if d.DisplayName != "" {
		return d.DisplayName
	}
	return d.ClassName
}
