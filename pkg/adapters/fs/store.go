package fs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/butler/pkg/core"
	"github.com/aretw0/butler/pkg/git"
)

// Ext is the extension of annotation notes.
const Ext = ".md"

// StoreConfig holds the configuration of an annotation store.
type StoreConfig struct {
	// Root is the annotation root of one media kind.
	Root string
	// Kind names the media kind; it scopes version commit messages.
	Kind string
	// Versioning commits each created note when Root is inside a git work tree.
	Versioning bool
	// AutoInit runs git init on Root when Versioning is on and no repo exists.
	AutoInit bool
	Logger   *slog.Logger
}

// Store implements core.AnnotationStore with one markdown note per title,
// stored as <root>/<title>.md.
type Store struct {
	Root   string
	git    *git.Client
	config StoreConfig

	mu          sync.Mutex
	versioned   bool
	created     int
	lastCreated *time.Time
}

var _ core.AnnotationStore = (*Store)(nil)

// NewStore creates a store. Call Initialize before the first write.
func NewStore(config StoreConfig) *Store {
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	return &Store{
		Root:   config.Root,
		git:    git.NewClient(config.Root, config.Logger),
		config: config,
	}
}

// Initialize creates the root directory and, when versioning is requested,
// makes sure the root is a usable git work tree. Missing git downgrades to
// unversioned writes with a warning.
func (s *Store) Initialize(ctx context.Context) error {
	if err := os.MkdirAll(s.Root, 0755); err != nil {
		return fmt.Errorf("failed to create annotation root: %w", err)
	}
	if !s.config.Versioning {
		return nil
	}
	if !git.IsInstalled() {
		s.config.Logger.Warn("git is not installed, annotations will not be versioned", "root", s.Root)
		return nil
	}
	if !s.git.IsRepo() {
		if !s.config.AutoInit {
			s.config.Logger.Warn("annotation root is not a git repository, versioning disabled", "root", s.Root)
			return nil
		}
		if err := s.git.Init(); err != nil {
			return fmt.Errorf("failed to git init: %w", err)
		}
	}
	if err := ensureIgnore(s.Root, git.LockFile); err != nil {
		return fmt.Errorf("failed to ensure .gitignore: %w", err)
	}

	s.mu.Lock()
	s.versioned = true
	s.mu.Unlock()
	return nil
}

// Path returns the note path for title.
func (s *Store) Path(title string) string {
	return filepath.Join(s.Root, title+Ext)
}

// Exists reports whether a note exists for title.
func (s *Store) Exists(title string) bool {
	if validTitle(title) != nil {
		return false
	}
	_, err := os.Stat(s.Path(title))
	return err == nil
}

// Read loads and parses the note of title. A missing note is not an error.
func (s *Store) Read(ctx context.Context, title string) (core.Annotation, bool, error) {
	if err := validTitle(title); err != nil {
		return core.Annotation{}, false, err
	}
	data, err := os.ReadFile(s.Path(title))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return core.Annotation{}, false, nil
		}
		return core.Annotation{}, false, fmt.Errorf("failed to read annotation %q: %w", title, err)
	}
	return core.ParseAnnotationBytes(data), true, nil
}

// Create writes a new note and never replaces an existing one.
func (s *Store) Create(ctx context.Context, title string, a core.Annotation) error {
	if err := validTitle(title); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.Path(title)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s", core.ErrAnnotationExists, title)
	}
	if err := os.MkdirAll(s.Root, 0755); err != nil {
		return fmt.Errorf("failed to create annotation root: %w", err)
	}
	if err := writeFileAtomic(path, a.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write annotation %q: %w", title, err)
	}

	now := time.Now()
	s.created++
	s.lastCreated = &now

	if s.versioned {
		if err := s.commit(title); err != nil {
			// The note is on disk; a failed commit only loses history.
			s.config.Logger.Warn("failed to version annotation", "title", title, "error", err)
		}
	}
	return nil
}

func (s *Store) commit(title string) error {
	unlock, err := s.git.Lock()
	if err != nil {
		return err
	}
	defer unlock()

	if err := s.git.Add(title + Ext); err != nil {
		return err
	}
	msg := git.FormatCommitMessage(git.CommitTypeDocs, s.config.Kind, "add "+title, "")
	return s.git.Commit(msg)
}

// validTitle rejects titles that would escape the annotation root.
func validTitle(title string) error {
	if strings.TrimSpace(title) == "" || title == "." || title == ".." ||
		filepath.Base(title) != title || strings.ContainsAny(title, `/\`) {
		return fmt.Errorf("invalid annotation title %q", title)
	}
	return nil
}

// ensureIgnore appends entry to <root>/.gitignore unless already listed.
func ensureIgnore(root, entry string) error {
	path := filepath.Join(root, ".gitignore")
	content, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	for _, line := range strings.Split(string(content), "\n") {
		if strings.TrimSpace(line) == entry {
			return nil
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	if len(content) > 0 && !strings.HasSuffix(string(content), "\n") {
		if _, err := f.WriteString("\n"); err != nil {
			return err
		}
	}
	_, err = f.WriteString(entry + "\n")
	return err
}
