// Package classpath converts raw classpath strings into verified absolute
// paths and builds the class index used for entry point resolution. Class
// metadata is read from *.class.yaml manifests found under the entries.
package classpath

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/imageforge/internal/cliargs"
	"git.home.luguber.info/inful/imageforge/internal/entrypoint"
	ferrors "git.home.luguber.info/inful/imageforge/internal/foundation/errors"
)

const manifestSuffix = ".class.yaml"

// Resolve deduplicates and verifies the raw classpath entries, returning
// absolute paths in first-seen order. Each malformed or missing entry fails
// individually.
func Resolve(entries []string) ([]string, error) {
	seen := make(map[string]struct{}, len(entries))
	resolved := make([]string, 0, len(entries))
	for _, entry := range entries {
		if strings.TrimSpace(entry) == "" {
			return nil, invalidEntry(entry, nil)
		}
		abs, err := filepath.Abs(entry)
		if err != nil {
			return nil, invalidEntry(entry, err)
		}
		if _, err := os.Stat(abs); err != nil {
			return nil, invalidEntry(entry, err)
		}
		if _, dup := seen[abs]; dup {
			continue
		}
		seen[abs] = struct{}{}
		resolved = append(resolved, abs)
	}
	return resolved, nil
}

func invalidEntry(entry string, cause error) error {
	msg := fmt.Sprintf("Invalid classpath element '%s'. Make sure that all paths provided with '%s' are correct.",
		entry, cliargs.ClasspathFlag)
	if cause != nil {
		return ferrors.WrapConfiguration(cause, "%s", msg)
	}
	return ferrors.Configurationf("%s", msg)
}

// Index is the class metadata index backing entrypoint.Loader.
type Index struct {
	classes map[string]*entrypoint.Class
}

// Lookup implements entrypoint.Loader.
func (ix *Index) Lookup(className string) (*entrypoint.Class, bool) {
	c, ok := ix.classes[className]
	return c, ok
}

// Len returns the number of indexed classes.
func (ix *Index) Len() int { return len(ix.classes) }

// BuildIndex walks the resolved classpath entries and loads every class
// manifest found below them. Earlier classpath entries shadow later ones,
// matching classpath lookup order.
func BuildIndex(resolved []string) (*Index, error) {
	ix := &Index{classes: make(map[string]*entrypoint.Class)}
	for _, root := range resolved {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !strings.HasSuffix(d.Name(), manifestSuffix) {
				return nil
			}
			cls, err := loadManifest(path)
			if err != nil {
				return err
			}
			if _, shadowed := ix.classes[cls.Name]; shadowed {
				slog.Debug("Class shadowed by earlier classpath entry", "class", cls.Name, "manifest", path)
				return nil
			}
			ix.classes[cls.Name] = cls
			return nil
		})
		if err != nil {
			if ferrors.IsClassified(err) {
				return nil, err
			}
			return nil, ferrors.WrapConfiguration(err, "Failed to index classpath entry '%s'.", root)
		}
	}
	return ix, nil
}

func loadManifest(path string) (*entrypoint.Class, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read class manifest %s: %w", path, err)
	}
	var cls entrypoint.Class
	if err := yaml.Unmarshal(data, &cls); err != nil {
		return nil, ferrors.WrapConfiguration(err, "Malformed class manifest '%s'.", path)
	}
	if cls.Name == "" {
		return nil, ferrors.Configurationf("Class manifest '%s' is missing the class name.", path)
	}
	return &cls, nil
}
