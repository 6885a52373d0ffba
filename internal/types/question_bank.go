// Package types provides type definitions for structured data used throughout the interview-prep system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Question is a single interview question with its reference answer.
// ID is a stable surrogate key assigned at creation; the prompt text is display data only.
type Question struct {
	ID         string `json:"id,omitempty"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Keywords   string `json:"keywords"`   // comma-separated expected terms
	IsFollowup bool   `json:"isFollowup"` // nested under the preceding non-follow-up question
}

// Category is a named, ordered group of questions. Its name is unique within a bank.
type Category struct {
	Order     int        `json:"order"`
	Category  string     `json:"category"`
	Questions []Question `json:"questions"`
}

// QuestionBank is the ordered category list owned by one company.
// TotalQuestions is derived and recomputed on every mutation.
type QuestionBank struct {
	Categories     []Category `json:"categories"`
	TotalQuestions int        `json:"totalQuestions"`
}

// Company is a named workspace holding one question bank and an optional taxonomy override.
type Company struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Data             QuestionBank `json:"data"`
	CustomCategories *Taxonomy    `json:"customCategories"`
}

// Clone returns a deep copy of the category.
func (c Category) Clone() Category {
	out := c
	out.Questions = make([]Question, len(c.Questions))
	copy(out.Questions, c.Questions)
	return out
}

// Clone returns a deep copy of the bank.
func (b QuestionBank) Clone() QuestionBank {
	out := QuestionBank{
		Categories:     make([]Category, len(b.Categories)),
		TotalQuestions: b.TotalQuestions,
	}
	for i, c := range b.Categories {
		out.Categories[i] = c.Clone()
	}
	return out
}

// CountQuestions sums the per-category question counts.
func (b QuestionBank) CountQuestions() int {
	total := 0
	for _, c := range b.Categories {
		total += len(c.Questions)
	}
	return total
}

// Clone returns a deep copy of the company.
func (c Company) Clone() Company {
	out := c
	out.Data = c.Data.Clone()
	if c.CustomCategories != nil {
		t := c.CustomCategories.Clone()
		out.CustomCategories = &t
	}
	return out
}
