// Package feature interns labels and (type, value) feature pairs into dense
// integer indices and defines the sparse vectors the learners consume.
//
// Index assignment is insertion ordered. Nothing in this package iterates a
// Go map to hand out indices, so the same input order always yields the
// same vocabulary.
package feature

// BiasIndex is the feature index reserved for the bias term.
const BiasIndex = 0

// Entry is an interned (type, value) feature.
type Entry struct {
	Type  string
	Value string
}

// FeatureMap maps (type, value) pairs to indices in [1, Size()). Index 0 is
// the bias and is never handed out. Not safe for concurrent Add.
type FeatureMap struct {
	index   map[string]map[string]int
	entries []Entry
}

// NewFeatureMap creates an empty FeatureMap.
func NewFeatureMap() *FeatureMap {
	return &FeatureMap{index: make(map[string]map[string]int)}
}

// Add returns the index of (typ, value), allocating the next one on first
// sight.
func (m *FeatureMap) Add(typ, value string) int {
	if idx, ok := m.Index(typ, value); ok {
		return idx
	}
	values, ok := m.index[typ]
	if !ok {
		values = make(map[string]int)
		m.index[typ] = values
	}
	m.entries = append(m.entries, Entry{Type: typ, Value: value})
	idx := len(m.entries)
	values[value] = idx
	return idx
}

// Index looks up (typ, value) without registering it.
func (m *FeatureMap) Index(typ, value string) (int, bool) {
	values, ok := m.index[typ]
	if !ok {
		return 0, false
	}
	idx, ok := values[value]
	return idx, ok
}

// Size is the feature dimension D, bias included.
func (m *FeatureMap) Size() int {
	return len(m.entries) + 1
}

// Entry returns the feature registered at idx.
func (m *FeatureMap) Entry(idx int) (Entry, bool) {
	if idx < 1 || idx > len(m.entries) {
		return Entry{}, false
	}
	return m.entries[idx-1], true
}

// Entries returns the registered features in index order; Entries()[i] has
// index i+1.
func (m *FeatureMap) Entries() []Entry {
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// LabelMap maps label strings to indices in [0, Size()).
type LabelMap struct {
	index  map[string]int
	labels []string
}

// NewLabelMap creates an empty LabelMap.
func NewLabelMap() *LabelMap {
	return &LabelMap{index: make(map[string]int)}
}

// NewLabelMapFrom rebuilds a LabelMap from labels in index order.
func NewLabelMapFrom(labels []string) *LabelMap {
	m := NewLabelMap()
	for _, l := range labels {
		m.Add(l)
	}
	return m
}

// Add returns the index of label, registering it if needed.
func (m *LabelMap) Add(label string) int {
	if idx, ok := m.index[label]; ok {
		return idx
	}
	idx := len(m.labels)
	m.index[label] = idx
	m.labels = append(m.labels, label)
	return idx
}

// Index looks up label without registering it.
func (m *LabelMap) Index(label string) (int, bool) {
	idx, ok := m.index[label]
	return idx, ok
}

// Label returns the label string at idx, or "" when out of range.
func (m *LabelMap) Label(idx int) string {
	if idx < 0 || idx >= len(m.labels) {
		return ""
	}
	return m.labels[idx]
}

// Size is the number of labels L.
func (m *LabelMap) Size() int {
	return len(m.labels)
}

// Labels returns a copy of the labels in index order.
func (m *LabelMap) Labels() []string {
	out := make([]string, len(m.labels))
	copy(out, m.labels)
	return out
}

// IndexMap returns a copy of the label to index map.
func (m *LabelMap) IndexMap() map[string]int {
	out := make(map[string]int, len(m.index))
	for k, v := range m.index {
		out[k] = v
	}
	return out
}
