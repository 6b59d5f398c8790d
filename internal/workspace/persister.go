package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
	"github.com/wanfu920/jumpToAliasFile/internal/alias"
)

// SettingsFile persists the effective alias table of a workspace in a JSON file.
// Other keys in the file are left untouched.
type SettingsFile struct {
	path string
}

func NewSettingsFile(path string) *SettingsFile {
	return &SettingsFile{path: path}
}

func (f *SettingsFile) Path() string {
	return f.path
}

// Load returns the stored table. A missing file is an empty table.
func (f *SettingsFile) Load() (alias.Table, error) {
	content, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return alias.Table{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.path, err)
	}

	if !gjson.ValidBytes(content) {
		return nil, fmt.Errorf("invalid json in %s", f.path)
	}

	aliases := gjson.GetBytes(content, "alias")
	if !aliases.IsObject() {
		return alias.Table{}, nil
	}
	return tableFromJSON(aliases), nil
}

// Save stores table under the "alias" key
func (f *SettingsFile) Save(table alias.Table) error {
	content, err := os.ReadFile(f.path)
	if err != nil || !gjson.ValidBytes(content) || !gjson.ParseBytes(content).IsObject() {
		content = []byte("{}")
	}

	if table == nil {
		table = alias.Table{}
	}

	content, err = sjson.SetBytes(content, "alias", map[string]string(table))
	if err != nil {
		return fmt.Errorf("failed to set aliases in %s: %w", f.path, err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", f.path, err)
	}

	if err := os.WriteFile(f.path, pretty.Pretty(content), 0o644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", f.path, err)
	}
	return nil
}
