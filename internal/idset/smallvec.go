package idset

// SmallVec behaves like Vec but allocates its slice once, up front, with
// capacity inlineCap, so a small, well-tuned bucket needs no further
// allocation; the members live in that heap slice, not inline in the
// SmallVec value, and it grows past inlineCap when a bucket turns out
// bigger than expected. No ecosystem smallvec
// library surfaced anywhere in the retrieved corpus, so this is hand-rolled
// stdlib: the data structure is a handful of lines and a dependency would
// buy nothing a slice with a sized initial capacity doesn't already give.
type SmallVec[ID comparable] struct {
	items     []ID
	inlineCap int
}

// NewSmallVec constructs an empty SmallVec pre-sized for inlineCap members.
func NewSmallVec[ID comparable](inlineCap int) *SmallVec[ID] {
	if inlineCap <= 0 {
		inlineCap = 4
	}
	return &SmallVec[ID]{items: make([]ID, 0, inlineCap), inlineCap: inlineCap}
}

func (v *SmallVec[ID]) Add(id ID) bool {
	for _, existing := range v.items {
		if existing == id {
			return false
		}
	}
	v.items = append(v.items, id)
	return true
}

func (v *SmallVec[ID]) Remove(id ID) bool {
	for i, existing := range v.items {
		if existing == id {
			last := len(v.items) - 1
			v.items[i] = v.items[last]
			v.items = v.items[:last]
			return true
		}
	}
	return false
}

func (v *SmallVec[ID]) Contains(id ID) bool {
	for _, existing := range v.items {
		if existing == id {
			return true
		}
	}
	return false
}

func (v *SmallVec[ID]) Each(fn func(ID)) {
	for _, id := range v.items {
		fn(id)
	}
}

func (v *SmallVec[ID]) Len() int {
	return len(v.items)
}
