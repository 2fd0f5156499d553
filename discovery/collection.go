package discovery

// Collection is an ordered set of candidates keyed by package. Iteration order
// is priority order. A Collection is not safe for concurrent mutation.
type Collection[T any] struct {
	items []Candidate[T]
	index map[string]int
}

func NewCollection[T any](cands ...Candidate[T]) *Collection[T] {
	c := &Collection[T]{index: make(map[string]int, len(cands))}
	for _, cand := range cands {
		c.Add(cand)
	}
	return c
}

// Add appends cand, or replaces the entry with the same package in place.
func (c *Collection[T]) Add(cand Candidate[T]) {
	if c.index == nil {
		c.index = make(map[string]int)
	}
	if i, ok := c.index[cand.pkg]; ok {
		c.items[i] = cand
		return
	}
	c.index[cand.pkg] = len(c.items)
	c.items = append(c.items, cand)
}

// Set replaces the contents of c with a copy of other. A nil other empties c.
func (c *Collection[T]) Set(other *Collection[T]) {
	if other == c {
		return
	}
	var items []Candidate[T]
	if other != nil {
		items = other.All()
	}
	c.items = items
	c.reindex()
}

// Prefer moves pkg to the front, keeping the relative order of the other
// entries. It reports false and leaves c unchanged when pkg is absent.
func (c *Collection[T]) Prefer(pkg string) bool {
	i, ok := c.index[pkg]
	if !ok {
		return false
	}
	if i == 0 {
		return true
	}
	cand := c.items[i]
	copy(c.items[1:i+1], c.items[:i])
	c.items[0] = cand
	c.reindex()
	return true
}

// All returns the candidates in priority order. The slice is a copy.
func (c *Collection[T]) All() []Candidate[T] {
	out := make([]Candidate[T], len(c.items))
	copy(out, c.items)
	return out
}

func (c *Collection[T]) Get(pkg string) (Candidate[T], bool) {
	i, ok := c.index[pkg]
	if !ok {
		return Candidate[T]{}, false
	}
	return c.items[i], true
}

func (c *Collection[T]) Len() int {
	return len(c.items)
}

// Packages returns the package keys in priority order.
func (c *Collection[T]) Packages() []string {
	out := make([]string, 0, len(c.items))
	for _, cand := range c.items {
		out = append(out, cand.pkg)
	}
	return out
}

func (c *Collection[T]) Clone() *Collection[T] {
	out := &Collection[T]{}
	out.Set(c)
	return out
}

func (c *Collection[T]) reindex() {
	c.index = make(map[string]int, len(c.items))
	for i, cand := range c.items {
		c.index[cand.pkg] = i
	}
}
