// Package sink services the file-system and content-write requests a
// translation emits.
package sink

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/teranos/xlat/engine"
	"github.com/teranos/xlat/errors"
)

// Directory applies requests under an output root. Paths that would
// escape the root are refused.
type Directory struct {
	root string
}

// NewDirectory creates a sink rooted at root.
func NewDirectory(root string) (*Directory, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.WrapOutput(err, "failed to resolve output directory")
	}
	return &Directory{root: abs}, nil
}

// Root returns the absolute output root.
func (d *Directory) Root() string {
	return d.root
}

// resolve maps a request path to an absolute path inside the root.
func (d *Directory) resolve(rel string) (string, error) {
	if filepath.IsAbs(rel) {
		return "", errors.Mark(errors.Newf("absolute path %q not allowed", rel), errors.ErrOutput)
	}
	full := filepath.Join(d.root, rel)
	r, err := filepath.Rel(d.root, full)
	if err != nil || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
		return "", errors.Mark(errors.Newf("path %q escapes the output directory", rel), errors.ErrOutput)
	}
	return full, nil
}

func (d *Directory) HandleFile(r engine.FileRequest) error {
	path, err := d.resolve(r.Path)
	if err != nil {
		return err
	}
	switch r.Op {
	case engine.CreateDirectory:
		err = os.MkdirAll(path, 0o755)
	case engine.ClearDirectory:
		err = clearDirectory(path)
	case engine.DeleteDirectory:
		if path == d.root {
			return errors.Mark(errors.New("refusing to delete the output directory"), errors.ErrOutput)
		}
		err = os.RemoveAll(path)
	case engine.CreateFile:
		err = touch(path)
	case engine.ClearFile:
		err = writeFile(path, "", os.O_TRUNC)
	case engine.DeleteFile:
		err = os.Remove(path)
		if os.IsNotExist(err) {
			err = nil
		}
	default:
		err = errors.Newf("unknown file operation %q", r.Op)
	}
	if err != nil {
		return errors.WrapOutput(err, string(r.Op)+" "+r.Path)
	}
	return nil
}

func (d *Directory) HandleContent(r engine.ContentRequest) error {
	path, err := d.resolve(r.Path)
	if err != nil {
		return err
	}
	switch r.Op {
	case engine.Write:
		err = writeFile(path, r.Content, os.O_TRUNC)
	case engine.Append:
		err = writeFile(path, r.Content, os.O_APPEND)
	default:
		err = errors.Newf("unknown content operation %q", r.Op)
	}
	if err != nil {
		return errors.WrapOutput(err, string(r.Op)+" "+r.Path)
	}
	return nil
}

func clearDirectory(path string) error {
	entries, err := os.ReadDir(path)
	if os.IsNotExist(err) {
		return os.MkdirAll(path, 0o755)
	}
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(path, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

func touch(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	return f.Close()
}

func writeFile(path, content string, mode int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|mode, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
