package core

// Classification is the retention state of a library item.
type Classification int

const (
	// New items have no annotation yet.
	New Classification = iota
	// Unprocessed items have an annotation without any recognized property.
	Unprocessed
	// Keeper items are protected by "Keeper: Y".
	Keeper
	// Cullable items carry the completion tag and are not keepers.
	Cullable
	// Retained covers everything else.
	Retained
)

var classificationNames = [...]string{"new", "unprocessed", "keeper", "cullable", "retained"}

func (c Classification) String() string {
	if c < 0 || int(c) >= len(classificationNames) {
		return "unknown"
	}
	return classificationNames[c]
}

// Verdict is the evaluated retention state of one item.
type Verdict struct {
	Class Classification
	// Completed is set when the completion tag was found, whatever the class.
	Completed bool
}

// IsKeeper reports whether the item is protected from culling.
func (v Verdict) IsKeeper() bool {
	return v.Class == Keeper
}

// Watched reports whether the item has been fully consumed. Only processed
// annotations count; for every non-keeper it holds exactly when the item is
// Cullable.
func (v Verdict) Watched() bool {
	switch v.Class {
	case Keeper, Cullable:
		return v.Completed
	default:
		return false
	}
}

// Evaluate classifies an item from its annotation facts. exists is false when
// the item has no annotation; props must come from ExtractProperties so the
// default Keeper is already present.
func Evaluate(exists bool, props Properties, tags []Tag, completionTag string) Verdict {
	if !exists {
		return Verdict{Class: New}
	}
	if props.Explicit() == 0 {
		return Verdict{Class: Unprocessed}
	}
	completed := HasTag(tags, completionTag)
	if keeper, _ := props.Get(PropKeeper); keeper == "Y" {
		return Verdict{Class: Keeper, Completed: completed}
	}
	if completed {
		return Verdict{Class: Cullable, Completed: true}
	}
	return Verdict{Class: Retained}
}
