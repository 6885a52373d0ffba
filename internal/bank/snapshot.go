package bank

import (
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/interview-prep/internal/types"
)

// Snapshot is an immutable view of one company's question bank and taxonomy.
// Operations never modify the receiver; they return a new Snapshot.
type Snapshot struct {
	Bank     types.QuestionBank
	Taxonomy *types.Taxonomy // nil: the default taxonomy governs
}

// New builds a snapshot from a bank and optional taxonomy override.
// Both are copied and totalQuestions is recomputed.
func New(b types.QuestionBank, taxonomy *types.Taxonomy) Snapshot {
	s := Snapshot{Bank: b.Clone()}
	if taxonomy != nil {
		t := taxonomy.Clone()
		s.Taxonomy = &t
	}
	s.Bank.TotalQuestions = s.Bank.CountQuestions()
	return s
}

// EffectiveTaxonomy returns the custom taxonomy, or the default one when none is set.
func (s Snapshot) EffectiveTaxonomy() types.Taxonomy {
	if s.Taxonomy != nil {
		return s.Taxonomy.Clone()
	}
	return DefaultTaxonomy()
}

// TotalQuestions returns the number of questions across all categories.
func (s Snapshot) TotalQuestions() int {
	return s.Bank.CountQuestions()
}

// HasCategory reports whether the bank holds a category with that exact name.
func (s Snapshot) HasCategory(name string) bool {
	return s.categoryIndex(name) >= 0
}

func (s Snapshot) categoryIndex(name string) int {
	for i, c := range s.Bank.Categories {
		if c.Category == name {
			return i
		}
	}
	return -1
}

func (s Snapshot) clone() Snapshot {
	out := Snapshot{Bank: s.Bank.Clone()}
	if s.Taxonomy != nil {
		t := s.Taxonomy.Clone()
		out.Taxonomy = &t
	}
	return out
}

// withTaxonomy materializes the effective taxonomy as a custom override so it can be edited.
func (s *Snapshot) withTaxonomy(t types.Taxonomy) {
	s.Taxonomy = &t
}

func (s Snapshot) finalize() Snapshot {
	s.Bank.TotalQuestions = s.Bank.CountQuestions()
	return s
}

// Ref addresses a question. When ID is set it is matched by ID (optionally restricted to
// Category); otherwise the first question in Category whose text equals Question matches.
type Ref struct {
	Category string `json:"category,omitempty"`
	ID       string `json:"id,omitempty"`
	Question string `json:"question,omitempty"`
}

// ByID returns a reference to the question with the given id in any category.
func ByID(id string) Ref {
	return Ref{ID: id}
}

// ByText returns a reference to the first question in category with the given text.
func ByText(category, question string) Ref {
	return Ref{Category: category, Question: question}
}

func (s Snapshot) locate(ref Ref) (ci, qi int, ok bool) {
	if ref.ID == "" && ref.Category == "" {
		return -1, -1, false
	}
	for ci, c := range s.Bank.Categories {
		if ref.Category != "" && c.Category != ref.Category {
			continue
		}
		for qi, q := range c.Questions {
			if ref.ID != "" {
				if q.ID == ref.ID {
					return ci, qi, true
				}
				continue
			}
			if q.Question == ref.Question {
				return ci, qi, true
			}
		}
	}
	return -1, -1, false
}

// EnsureIDs assigns a surrogate id to every question that lacks one.
// It reports whether any id was assigned.
func EnsureIDs(b types.QuestionBank) (types.QuestionBank, bool) {
	out := b.Clone()
	changed := false
	for ci := range out.Categories {
		for qi := range out.Categories[ci].Questions {
			if out.Categories[ci].Questions[qi].ID == "" {
				out.Categories[ci].Questions[qi].ID = uuid.NewString()
				changed = true
			}
		}
	}
	out.TotalQuestions = out.CountQuestions()
	return out, changed
}

func requireName(field, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", &ValidationError{Field: field, Message: "must not be empty"}
	}
	return name, nil
}
