package core

import (
	"bytes"
	"strings"
)

// Delimiter opens and closes the frontmatter block of an annotation.
const Delimiter = "---"

// Annotation is the parsed text of one annotation note.
type Annotation struct {
	// Frontmatter holds the raw lines between the first pair of delimiters.
	Frontmatter []string
	// Body holds every other line, in document order.
	Body []string
}

type blockState int

const (
	beforeBlock blockState = iota
	inBlock
	afterBlock
)

const byteOrderMark = "\ufeff"

// SplitLines splits raw note bytes into lines, dropping CR line endings.
// A leading byte order mark is dropped and a trailing newline does not
// produce an empty last line.
func SplitLines(data []byte) []string {
	text := strings.TrimPrefix(string(data), byteOrderMark)
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// ParseAnnotation scans lines top to bottom and separates the frontmatter
// block from the body. Only the first pair of "---" lines is recognized; a
// block that is never closed runs to the end of the document.
func ParseAnnotation(lines []string) Annotation {
	var a Annotation
	state := beforeBlock
	for _, line := range lines {
		switch state {
		case beforeBlock:
			if line == Delimiter {
				state = inBlock
				continue
			}
			a.Body = append(a.Body, line)
		case inBlock:
			if line == Delimiter {
				state = afterBlock
				continue
			}
			a.Frontmatter = append(a.Frontmatter, line)
		case afterBlock:
			a.Body = append(a.Body, line)
		}
	}
	return a
}

// ParseAnnotationBytes is ParseAnnotation over raw file contents.
func ParseAnnotationBytes(data []byte) Annotation {
	return ParseAnnotation(SplitLines(data))
}

// IsEmpty reports whether the annotation has neither frontmatter nor body.
func (a Annotation) IsEmpty() bool {
	return len(a.Frontmatter) == 0 && len(a.Body) == 0
}

// Bytes serializes the annotation: the frontmatter lines verbatim between two
// delimiter lines, followed by the body.
func (a Annotation) Bytes() []byte {
	var buf bytes.Buffer
	buf.WriteString(Delimiter + "\n")
	for _, l := range a.Frontmatter {
		buf.WriteString(l)
		buf.WriteByte('\n')
	}
	buf.WriteString(Delimiter + "\n")
	for _, l := range a.Body {
		buf.WriteString(l)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// Properties extracts the known properties of the annotation's frontmatter.
func (a Annotation) Properties() (Properties, []PropertyLine) {
	return ExtractProperties(a.Frontmatter)
}

// Tags extracts the topic tags of the annotation's frontmatter.
func (a Annotation) Tags(opts TagOptions) []Tag {
	return ExtractTags(a.Frontmatter, opts)
}
