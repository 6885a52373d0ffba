package types

import (
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// MainCategory holds the ordered sub-category names of one main category.
type MainCategory struct {
	Subcategories []string `json:"subcategories"`
}

// Taxonomy maps main-category names to their sub-categories, preserving insertion order.
// It serializes as {"<main>": {"subcategories": [...]}} with keys in order.
type Taxonomy struct {
	entries *orderedmap.OrderedMap[string, MainCategory]
}

// NewTaxonomy returns an empty taxonomy.
func NewTaxonomy() Taxonomy {
	return Taxonomy{entries: orderedmap.New[string, MainCategory]()}
}

func (t *Taxonomy) ensure() {
	if t.entries == nil {
		t.entries = orderedmap.New[string, MainCategory]()
	}
}

// Len returns the number of main categories.
func (t Taxonomy) Len() int {
	if t.entries == nil {
		return 0
	}
	return t.entries.Len()
}

// Names returns the main-category names in order.
func (t Taxonomy) Names() []string {
	if t.entries == nil {
		return nil
	}
	names := make([]string, 0, t.entries.Len())
	for pair := t.entries.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// Has reports whether main is a main category.
func (t Taxonomy) Has(main string) bool {
	if t.entries == nil {
		return false
	}
	_, ok := t.entries.Get(main)
	return ok
}

// Subcategories returns a copy of the sub-category list of main.
func (t Taxonomy) Subcategories(main string) ([]string, bool) {
	if t.entries == nil {
		return nil, false
	}
	m, ok := t.entries.Get(main)
	if !ok {
		return nil, false
	}
	out := make([]string, len(m.Subcategories))
	copy(out, m.Subcategories)
	return out, true
}

// MainOf returns the main category listing sub, if any.
func (t Taxonomy) MainOf(sub string) (string, bool) {
	if t.entries == nil {
		return "", false
	}
	for pair := t.entries.Oldest(); pair != nil; pair = pair.Next() {
		for _, s := range pair.Value.Subcategories {
			if s == sub {
				return pair.Key, true
			}
		}
	}
	return "", false
}

// AllSubcategories returns every sub-category name in taxonomy order.
func (t Taxonomy) AllSubcategories() []string {
	var out []string
	if t.entries == nil {
		return out
	}
	for pair := t.entries.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value.Subcategories...)
	}
	return out
}

// Set replaces (or appends) the sub-category list of main.
func (t *Taxonomy) Set(main string, subs []string) {
	t.ensure()
	cp := make([]string, len(subs))
	copy(cp, subs)
	t.entries.Set(main, MainCategory{Subcategories: cp})
}

// Delete removes main and its sub-category list.
func (t *Taxonomy) Delete(main string) {
	if t.entries == nil {
		return
	}
	t.entries.Delete(main)
}

// Rename changes the key of main in place, keeping its position and sub-categories.
func (t *Taxonomy) Rename(oldName, newName string) {
	if t.entries == nil || !t.Has(oldName) {
		return
	}
	renamed := orderedmap.New[string, MainCategory]()
	for pair := t.entries.Oldest(); pair != nil; pair = pair.Next() {
		key := pair.Key
		if key == oldName {
			key = newName
		}
		renamed.Set(key, pair.Value)
	}
	t.entries = renamed
}

// Clone returns a deep copy of the taxonomy.
func (t Taxonomy) Clone() Taxonomy {
	out := NewTaxonomy()
	if t.entries == nil {
		return out
	}
	for pair := t.entries.Oldest(); pair != nil; pair = pair.Next() {
		out.Set(pair.Key, pair.Value.Subcategories)
	}
	return out
}

// MarshalJSON encodes the taxonomy as an ordered JSON object.
func (t Taxonomy) MarshalJSON() ([]byte, error) {
	if t.entries == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(t.entries)
}

// UnmarshalJSON decodes an ordered JSON object into the taxonomy.
func (t *Taxonomy) UnmarshalJSON(data []byte) error {
	entries := orderedmap.New[string, MainCategory]()
	if err := json.Unmarshal(data, entries); err != nil {
		return err
	}
	for pair := entries.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value.Subcategories == nil {
			pair.Value.Subcategories = []string{}
		}
	}
	t.entries = entries
	return nil
}
