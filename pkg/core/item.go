package core

import (
	"regexp"
	"strings"
)

// folderPattern matches "<title> (YYYY)" and "<title> [YYYY]".
var folderPattern = regexp.MustCompile(`^(.*)\s[\[(](\d{4})[\])]`)

// Item is a library entry derived from its folder name.
// The title is also the join key to the item's annotation.
type Item struct {
	Title string
	Year  string // empty when the folder carries no year
}

// ParseItem turns a library folder name into an Item.
// Unparseable names degrade to a title-only item.
func ParseItem(folder string) Item {
	m := folderPattern.FindStringSubmatch(folder)
	if m == nil {
		return Item{Title: folder}
	}
	return Item{
		Title: strings.TrimSpace(m[1]),
		Year:  m[2],
	}
}

// HasYear reports whether the folder name carried a year.
func (i Item) HasYear() bool {
	return i.Year != ""
}

func (i Item) String() string {
	if i.Year == "" {
		return i.Title
	}
	return i.Title + " (" + i.Year + ")"
}
