package hooks

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cperrin88/snm/pkg/errors"
)

// ScriptExt is the extension of hook scripts.
const ScriptExt = ".tengo"

// LoadDir registers every <hook-type>.tengo file of dir on e. A missing
// directory loads nothing. Files with other names are ignored.
func LoadDir(e *TengoExecutor, dir string) error {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrapf(errors.ErrHookLoad, "failed to read hooks directory %s: %v", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ScriptExt {
			continue
		}
		hookType := HookType(strings.TrimSuffix(entry.Name(), ScriptExt))
		if !hookType.Valid() {
			continue
		}

		hookPath := filepath.Join(dir, entry.Name())
		content, err := os.ReadFile(hookPath)
		if err != nil {
			return errors.Wrapf(errors.ErrHookLoad, "error reading hook file %s: %v", hookPath, err)
		}
		e.AddScript(hookType, string(content))
	}
	return nil
}

// Load creates an executor holding the scripts of dir.
func Load(dir string) (*TengoExecutor, error) {
	e := NewTengoExecutor()
	if err := LoadDir(e, dir); err != nil {
		return nil, err
	}
	return e, nil
}
