package domain

import (
	"slices"
)

// UnspecifiedLabel is the label used for rows whose category cell is empty
const UnspecifiedLabel = "unspecified"

// GroupKey identifies one partition. Non-missing category values are keyed
// by their exact string form; missing values share the Missing key.
type GroupKey struct {
	Name    string
	Missing bool
}

// KeyOf derives the partition key for a category value
func KeyOf(v Value) GroupKey {
	if v.IsMissing() {
		return GroupKey{Missing: true}
	}
	return GroupKey{Name: v.String()}
}

// Key returns the key for a named category
func Key(name string) GroupKey {
	return GroupKey{Name: name}
}

// UnspecifiedKey returns the key for rows without a category
func UnspecifiedKey() GroupKey {
	return GroupKey{Missing: true}
}

// Label renders the key for display and file naming
func (k GroupKey) Label() string {
	if k.Missing {
		return UnspecifiedLabel
	}
	return k.Name
}

// String implements fmt.Stringer
func (k GroupKey) String() string {
	return k.Label()
}

// Partition maps category keys to the tables of rows in that category.
// Keys iterate in insertion order; consumers should only rely on per-key
// lookup.
type Partition struct {
	keys   []GroupKey
	tables map[GroupKey]*Table
}

// NewPartition creates an empty partition
func NewPartition() *Partition {
	return &Partition{tables: make(map[GroupKey]*Table)}
}

// Set stores the table for key, replacing any previous table
func (p *Partition) Set(key GroupKey, t *Table) {
	if _, exists := p.tables[key]; !exists {
		p.keys = append(p.keys, key)
	}
	p.tables[key] = t
}

// Get returns the table for key
func (p *Partition) Get(key GroupKey) (*Table, bool) {
	t, ok := p.tables[key]
	return t, ok
}

// Keys returns the keys in insertion order
func (p *Partition) Keys() []GroupKey {
	return slices.Clone(p.keys)
}

// Len returns the number of keys
func (p *Partition) Len() int {
	return len(p.keys)
}

// Rows returns the total row count across all tables
func (p *Partition) Rows() int {
	total := 0
	for _, t := range p.tables {
		total += t.Len()
	}
	return total
}
