package save

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/cardmap/pkg/errors"
	"github.com/agentstation/cardmap/pkg/records"
)

// Save encodes v and writes it to the configured writer, or atomically to
// the configured path. Record model values keep their key order in both
// formats.
func Save(v any, opts ...Option) error {
	o := Defaults().Apply(opts...)
	if !o.format.IsValid() {
		return errors.NewValidationError("format", o.format.String(), "unsupported format")
	}

	data, err := Encode(v, o.format, o.indent)
	if err != nil {
		return err
	}

	switch {
	case o.writer != nil:
		if _, err := o.writer.Write(data); err != nil {
			return errors.WrapIO("write", o.path, err)
		}
		return nil
	case o.path != "":
		return WriteFile(o.path, data, o.perm)
	default:
		return errors.NewValidationError("path", "", "either a path or a writer is required")
	}
}

// Encode renders v in the given format with a trailing newline.
func Encode(v any, format Format, indent string) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := records.Marshal(v, indent)
		if err != nil {
			return nil, fmt.Errorf("encoding json: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		// Go through the JSON form so struct tags and key order match.
		plain, err := records.Marshal(v, "")
		if err != nil {
			return nil, fmt.Errorf("encoding yaml: %w", err)
		}
		tree, err := records.DecodeBytes(plain)
		if err != nil {
			return nil, fmt.Errorf("encoding yaml: %w", err)
		}
		data, err := yaml.MarshalWithOptions(records.ToYAML(tree), yaml.Indent(2), yaml.IndentSequence(false))
		if err != nil {
			return nil, fmt.Errorf("encoding yaml: %w", err)
		}
		return data, nil
	}
	return nil, errors.NewValidationError("format", format.String(), "unsupported format")
}

// WriteFile writes data to a temporary file in path's directory and renames
// it over path, so readers see either the old or the new content. An
// existing file keeps its permissions.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	st, err := Stage(path, data, perm)
	if err != nil {
		return err
	}
	return st.Commit()
}

// Staged is data written and synced to a temporary file beside its target,
// waiting to be renamed into place.
type Staged struct {
	path string
	tmp  string
	done bool
}

// Stage writes data to a temporary file in path's directory without
// touching path. Commit renames it into place; Discard removes it.
func Stage(path string, data []byte, perm os.FileMode) (*Staged, error) {
	dir := filepath.Dir(path)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, errors.WrapIO("create", path, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := bytes.NewReader(data).WriteTo(tmp); err != nil {
		_ = tmp.Close()
		cleanup()
		return nil, errors.WrapIO("write", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return nil, errors.WrapIO("sync", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return nil, errors.WrapIO("close", tmpName, err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		cleanup()
		return nil, errors.WrapIO("chmod", tmpName, err)
	}
	return &Staged{path: path, tmp: tmpName}, nil
}

// Path returns the file the staged data replaces.
func (s *Staged) Path() string { return s.path }

// Commit renames the staged file over its target.
func (s *Staged) Commit() error {
	if s.done {
		return nil
	}
	s.done = true
	if err := os.Rename(s.tmp, s.path); err != nil {
		_ = os.Remove(s.tmp)
		return errors.WrapIO("rename", s.path, err)
	}
	return nil
}

// Discard removes the staged file. It is a no-op after Commit.
func (s *Staged) Discard() {
	if s.done {
		return
	}
	s.done = true
	_ = os.Remove(s.tmp)
}
