package core

import "strings"

const (
	tagsKey        = "tags:"
	blockTagPrefix = "  - "
)

// Tag is a free-form topic label such as "movie/done".
type Tag string

// TagOptions tunes tag extraction.
type TagOptions struct {
	// Normalize trims inline list entries. Existing notes written as
	// "tags: [a, b]" otherwise yield " b" with its leading space.
	Normalize bool
}

// ExtractTags reads the tag set from frontmatter lines. Two forms are
// understood: an inline list on the tags line ("tags: [a, b]") and a block
// list of "  - value" lines following a bare "tags:" line, which runs until a
// delimiter line.
func ExtractTags(lines []string, opts TagOptions) []Tag {
	var tags []Tag
	inBlock := false
	for _, line := range lines {
		if inBlock {
			if line == Delimiter {
				break
			}
			if strings.HasPrefix(line, blockTagPrefix) {
				if v := strings.TrimSpace(line[len(blockTagPrefix):]); v != "" {
					tags = append(tags, Tag(v))
				}
			}
			continue
		}
		if !strings.HasPrefix(line, tagsKey) {
			continue
		}
		if inline, ok := inlineList(line); ok {
			for _, piece := range strings.Split(inline, ",") {
				if opts.Normalize {
					piece = strings.TrimSpace(piece)
				}
				if piece != "" {
					tags = append(tags, Tag(piece))
				}
			}
			return tags
		}
		inBlock = true
	}
	return tags
}

// inlineList returns the text between the brackets of an inline tag list.
func inlineList(line string) (string, bool) {
	open := strings.Index(line, "[")
	closing := strings.Index(line, "]")
	if open < 0 || closing < open {
		return "", false
	}
	return line[open+1 : closing], true
}

// HasTag reports whether want is in tags.
func HasTag(tags []Tag, want string) bool {
	for _, t := range tags {
		if string(t) == want {
			return true
		}
	}
	return false
}
