// Package gallery implements the state machine behind the portfolio image gallery:
// paging or incremental reveal over a fixed image list, a single expanded selection,
// gesture interpretation and edge-triggered auto-loading.
package gallery

// ImagePath identifies a static asset relative to the public asset root.
type ImagePath string

// Collection is the ordered, immutable list of images a gallery runs over.
type Collection struct {
	paths []ImagePath
	index map[ImagePath]int
}

// NewCollection copies paths into a new Collection. Duplicate paths keep their
// first position.
func NewCollection(paths []ImagePath) Collection {
	c := Collection{
		paths: make([]ImagePath, 0, len(paths)),
		index: make(map[ImagePath]int, len(paths)),
	}
	for _, p := range paths {
		if _, dup := c.index[p]; dup {
			continue
		}
		c.index[p] = len(c.paths)
		c.paths = append(c.paths, p)
	}
	return c
}

// CollectionOf is a convenience for building a Collection from plain strings.
func CollectionOf(paths ...string) Collection {
	ps := make([]ImagePath, len(paths))
	for i, p := range paths {
		ps[i] = ImagePath(p)
	}
	return NewCollection(ps)
}

// Len returns the number of images.
func (c Collection) Len() int {
	return len(c.paths)
}

// At returns the image at position i, or false when i is out of range.
func (c Collection) At(i int) (ImagePath, bool) {
	if i < 0 || i >= len(c.paths) {
		return "", false
	}
	return c.paths[i], true
}

// IndexOf returns the position of p, or -1.
func (c Collection) IndexOf(p ImagePath) int {
	i, ok := c.index[p]
	if !ok {
		return -1
	}
	return i
}

// Paths returns a copy of the ordered image list.
func (c Collection) Paths() []ImagePath {
	out := make([]ImagePath, len(c.paths))
	copy(out, c.paths)
	return out
}

func (c Collection) slice(from, to int) []ImagePath {
	if from < 0 {
		from = 0
	}
	if to > len(c.paths) {
		to = len(c.paths)
	}
	if from >= to {
		return nil
	}
	return c.paths[from:to]
}
