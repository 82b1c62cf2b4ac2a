package metadata

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/teranos/xlat/errors"
	"gopkg.in/yaml.v3"
)

// Reader turns an assembly file into its metadata graph.
type Reader interface {
	// Extensions lists the file suffixes this reader understands, most preferred first.
	Extensions() []string

	// Read parses and links the assembly at path.
	Read(path string) (*Assembly, error)
}

// DocumentReader reads metadata dumps written as YAML or JSON documents.
type DocumentReader struct{}

// NewDocumentReader creates a reader for metadata dump documents.
func NewDocumentReader() *DocumentReader {
	return &DocumentReader{}
}

// Extensions returns the dump suffixes.
func (r *DocumentReader) Extensions() []string {
	return []string{".asm.yaml", ".asm.yml", ".asm.json"}
}

// Read parses the document at path.
func (r *DocumentReader) Read(path string) (*Assembly, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.Mark(err, errors.ErrBundle), "failed to read assembly %s", path)
	}
	asm, err := Decode(data)
	if err != nil {
		return nil, errors.Wrapf(err, "assembly %s", path)
	}
	asm.Path = path
	if asm.Name == "" {
		asm.Name = r.nameFromPath(path)
	}
	return asm, nil
}

// nameFromPath strips the directory and a known suffix.
func (r *DocumentReader) nameFromPath(path string) string {
	base := filepath.Base(path)
	for _, ext := range r.Extensions() {
		if strings.HasSuffix(base, ext) {
			return strings.TrimSuffix(base, ext)
		}
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Decode parses a metadata document (YAML or JSON), links and validates it.
func Decode(data []byte) (*Assembly, error) {
	var asm Assembly
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&asm); err != nil {
		return nil, errors.Wrap(errors.Mark(err, errors.ErrBundle), "failed to decode metadata document")
	}
	Link(&asm)
	if err := Validate(&asm); err != nil {
		return nil, err
	}
	return &asm, nil
}

// Encode writes the assembly as a YAML metadata document.
func Encode(asm *Assembly) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(asm); err != nil {
		return nil, errors.Wrap(err, "failed to encode metadata document")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "failed to encode metadata document")
	}
	return buf.Bytes(), nil
}
