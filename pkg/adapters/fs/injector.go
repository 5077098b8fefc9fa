package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aretw0/butler/pkg/core"
)

// Marker templates delimiting an injected region. Each sits on its own line.
const (
	beginMarker = "<!-- butler:begin %s -->"
	endMarker   = "<!-- butler:end %s -->"
)

// Injector implements core.Injector. It upserts tagged regions into markdown
// notes under Root, leaving everything outside the region byte-identical.
type Injector struct {
	Root string

	mu sync.Mutex
}

var _ core.Injector = (*Injector)(nil)

// NewInjector returns an injector writing below root.
func NewInjector(root string) *Injector {
	return &Injector{Root: root}
}

// Inject replaces the interior of the region named tag in target with
// markdown, or appends a new region when the note has none. A missing
// target is created.
func (in *Injector) Inject(ctx context.Context, target, tag, markdown string) error {
	if err := validTag(tag); err != nil {
		return err
	}
	path, err := in.resolve(target)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	in.mu.Lock()
	defer in.mu.Unlock()

	perm := os.FileMode(0644)
	content, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", target, err)
		}
	case err != nil:
		return fmt.Errorf("failed to read %s: %w", target, err)
	default:
		if info, err := os.Stat(path); err == nil {
			perm = info.Mode().Perm()
		}
	}

	out, err := injectBlock(string(content), tag, markdown)
	if err != nil {
		return fmt.Errorf("%s: %w", target, err)
	}
	if out == string(content) {
		return nil
	}
	return writeFileAtomic(path, []byte(out), perm)
}

func (in *Injector) resolve(target string) (string, error) {
	if filepath.IsAbs(target) {
		return filepath.Clean(target), nil
	}
	if !filepath.IsLocal(target) {
		return "", fmt.Errorf("injection target %q escapes %s", target, in.Root)
	}
	return filepath.Join(in.Root, target), nil
}

func validTag(tag string) error {
	if tag == "" || strings.ContainsAny(tag, " \t\r\n") || strings.Contains(tag, "-->") {
		return fmt.Errorf("%w: %q", core.ErrInvalidTag, tag)
	}
	return nil
}

// injectBlock returns content with the region of tag set to markdown.
func injectBlock(content, tag, markdown string) (string, error) {
	begin := fmt.Sprintf(beginMarker, tag)
	end := fmt.Sprintf(endMarker, tag)

	body := strings.TrimRight(markdown, "\n")
	if body != "" {
		body += "\n"
	}
	if err := checkBody(body, begin, end); err != nil {
		return "", err
	}

	start, stop, found, err := findBlock(content, begin, end)
	if err != nil {
		return "", err
	}
	if found {
		return content[:start] + body + content[stop:], nil
	}

	var sb strings.Builder
	sb.WriteString(content)
	if content != "" && !strings.HasSuffix(content, "\n") {
		sb.WriteString("\n")
	}
	sb.WriteString(begin + "\n")
	sb.WriteString(body)
	sb.WriteString(end + "\n")
	return sb.String(), nil
}

// checkBody rejects markdown that carries the region's own markers.
func checkBody(body, begin, end string) error {
	for _, line := range strings.Split(body, "\n") {
		if m := strings.TrimSpace(line); m == begin || m == end {
			return fmt.Errorf("%w: markdown contains %q", core.ErrMalformedBlock, m)
		}
	}
	return nil
}

// findBlock locates the interior of a region: start is the offset just past
// the begin line, stop the offset of the end line. Doubled, reversed or
// unterminated markers are ErrMalformedBlock.
func findBlock(content, begin, end string) (start, stop int, found bool, err error) {
	start, stop = -1, -1
	for offset := 0; offset < len(content); {
		next := len(content)
		line := content[offset:]
		if i := strings.IndexByte(line, '\n'); i >= 0 {
			line = line[:i]
			next = offset + i + 1
		}

		switch strings.TrimSpace(line) {
		case begin:
			if start >= 0 {
				return 0, 0, false, fmt.Errorf("%w: duplicate %q", core.ErrMalformedBlock, begin)
			}
			start = next
		case end:
			if start < 0 || stop >= 0 {
				return 0, 0, false, fmt.Errorf("%w: stray %q", core.ErrMalformedBlock, end)
			}
			stop = offset
		}
		offset = next
	}

	switch {
	case start < 0:
		return 0, 0, false, nil
	case stop < 0:
		return 0, 0, false, fmt.Errorf("%w: unterminated %q", core.ErrMalformedBlock, begin)
	}
	return start, stop, true, nil
}
