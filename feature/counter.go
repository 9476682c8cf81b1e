package feature

// Counter counts keys and remembers the order in which they were first seen.
type Counter[K comparable] struct {
	counts map[K]int
	order  []K
}

// NewCounter creates an empty Counter.
func NewCounter[K comparable]() *Counter[K] {
	return &Counter[K]{counts: make(map[K]int)}
}

// Inc adds one occurrence of key.
func (c *Counter[K]) Inc(key K) {
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

// Count returns the number of occurrences of key.
func (c *Counter[K]) Count(key K) int {
	return c.counts[key]
}

// Len is the number of distinct keys.
func (c *Counter[K]) Len() int {
	return len(c.order)
}

// Above returns, in first-seen order, the keys occurring more than cutoff
// times.
func (c *Counter[K]) Above(cutoff int) []K {
	out := make([]K, 0, len(c.order))
	for _, k := range c.order {
		if c.counts[k] > cutoff {
			out = append(out, k)
		}
	}
	return out
}
