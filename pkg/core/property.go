package core

import "strings"

// Property names recognized in annotation frontmatter.
const (
	PropHow        = "How"
	PropWith       = "With"
	PropWhen       = "when"
	PropYear       = "Year"
	PropGenre      = "genre"
	PropAuthor     = "author"
	PropRating     = "rating"
	PropKeeper     = "Keeper"
	PropPriority   = "Priority"
	PropCompletion = "Completion"
)

// KnownProperties is the closed vocabulary, in match order.
// The first name that prefixes a line claims it.
var KnownProperties = []string{
	PropHow,
	PropWith,
	PropWhen,
	PropYear,
	PropGenre,
	PropAuthor,
	PropRating,
	PropKeeper,
	PropPriority,
	PropCompletion,
}

// KeeperDefault is the value assumed when an annotation has no Keeper line.
const KeeperDefault = "N"

// Property is a recognized name/value pair from a frontmatter line.
type Property struct {
	Name  string
	Value string
	// Default marks a property synthesized by the extractor rather than read.
	Default bool
}

func (p Property) String() string {
	return p.Name + ": " + p.Value
}

// LineKind classifies one frontmatter line.
type LineKind int

const (
	LineIgnored LineKind = iota
	LineProperty
	LineMalformed
)

func (k LineKind) String() string {
	switch k {
	case LineProperty:
		return "property"
	case LineMalformed:
		return "malformed"
	default:
		return "ignored"
	}
}

// PropertyLine is the outcome of parsing a single frontmatter line.
// Property is set for LineProperty; Property.Name is also set for
// LineMalformed so callers can report which key was damaged.
type PropertyLine struct {
	Kind     LineKind
	Property Property
	Line     string
}

// ParsePropertyLine matches line against the known vocabulary.
func ParsePropertyLine(line string) PropertyLine {
	name, ok := matchKnown(line)
	if !ok {
		return PropertyLine{Kind: LineIgnored, Line: line}
	}
	if strings.TrimSpace(line) == name+":" {
		return PropertyLine{Kind: LineProperty, Property: Property{Name: name}, Line: line}
	}
	if len(line) < len(name)+1 {
		return PropertyLine{Kind: LineMalformed, Property: Property{Name: name}, Line: line}
	}
	return PropertyLine{
		Kind:     LineProperty,
		Property: Property{Name: name, Value: strings.TrimSpace(line[len(name)+1:])},
		Line:     line,
	}
}

func matchKnown(line string) (string, bool) {
	for _, name := range KnownProperties {
		if strings.HasPrefix(line, name) {
			return name, true
		}
	}
	return "", false
}

// Properties is the ordered list extracted from one annotation.
// Duplicates are kept; lookups return the first match.
type Properties []Property

// ExtractProperties parses every frontmatter line and returns the recognized
// properties together with the malformed lines. A default Keeper property is
// appended when the frontmatter has none.
func ExtractProperties(frontmatter []string) (Properties, []PropertyLine) {
	var (
		props     Properties
		malformed []PropertyLine
	)
	for _, line := range frontmatter {
		pl := ParsePropertyLine(line)
		switch pl.Kind {
		case LineProperty:
			props = append(props, pl.Property)
		case LineMalformed:
			malformed = append(malformed, pl)
		}
	}
	if _, ok := props.Get(PropKeeper); !ok {
		props = append(props, Property{Name: PropKeeper, Value: KeeperDefault, Default: true})
	}
	return props, malformed
}

// Get returns the value of the first property called name.
func (ps Properties) Get(name string) (string, bool) {
	for _, p := range ps {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// Explicit counts the properties that were read from the note.
func (ps Properties) Explicit() int {
	n := 0
	for _, p := range ps {
		if !p.Default {
			n++
		}
	}
	return n
}
