package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/butler/pkg/core"
)

// Library implements core.Library over one media directory whose immediate
// subfolders are the titles.
type Library struct {
	Root string
	// Ignore holds doublestar patterns matched against folder names,
	// e.g. "@eaDir" or ".*".
	Ignore []string
}

var _ core.Library = (*Library)(nil)

// NewLibrary validates the ignore patterns and returns the library.
func NewLibrary(root string, ignore ...string) (*Library, error) {
	for _, p := range ignore {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("%w: bad ignore pattern %q", core.ErrInvalidConfig, p)
		}
	}
	return &Library{Root: root, Ignore: ignore}, nil
}

// Folders lists the immediate subfolders of Root in name order.
// Files and ignored folders are skipped.
func (l *Library) Folders(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(l.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to list library %s: %w", l.Root, err)
	}

	var folders []string
	for _, e := range entries {
		if !e.IsDir() || isScratch(e.Name()) || l.ignored(e.Name()) {
			continue
		}
		folders = append(folders, e.Name())
	}
	sort.Strings(folders)
	return folders, nil
}

// Remove deletes folder and everything below it.
func (l *Library) Remove(ctx context.Context, folder string) error {
	if err := validTitle(folder); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.RemoveAll(filepath.Join(l.Root, folder)); err != nil {
		return fmt.Errorf("failed to remove %s: %w", folder, err)
	}
	return nil
}

func (l *Library) ignored(name string) bool {
	for _, p := range l.Ignore {
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}
