package bank

import (
	"math"

	"github.com/jonathan/interview-prep/internal/types"
)

// FlatQuestion is a question annotated with its location in the bank.
type FlatQuestion struct {
	types.Question
	Category     string `json:"category"`
	MainCategory string `json:"mainCategory"`
	Position     int    `json:"position"`
}

// CategoryGroup is the questions of one bank category in bank order.
type CategoryGroup struct {
	Category  string         `json:"category"`
	Questions []FlatQuestion `json:"questions"`
}

// MainGroup is the questions that belong to one main category.
type MainGroup struct {
	Name          string         `json:"name"`
	Subcategories []string       `json:"subcategories"`
	Questions     []FlatQuestion `json:"questions"`
}

// FollowupGroup is a main question followed by its consecutive follow-ups.
// Main is nil when a follow-up has no preceding main question.
type FollowupGroup struct {
	Main      *FlatQuestion  `json:"main,omitempty"`
	Followups []FlatQuestion `json:"followups"`
}

// Counter counts completed questions out of a total.
type Counter struct {
	Completed  int `json:"completed"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

func (c *Counter) add(done bool) {
	c.Total++
	if done {
		c.Completed++
	}
	c.Percentage = int(math.Round(100 * float64(c.Completed) / float64(c.Total)))
}

// Progress summarizes completion overall, per category, and per main category.
type Progress struct {
	Overall        Counter            `json:"overall"`
	ByCategory     map[string]Counter `json:"byCategory"`
	ByMainCategory map[string]Counter `json:"byMainCategory"`
}

// MainCategoryOf returns the main category that lists category. Unlisted categories fall
// back to the first main category, or FallbackMainCategory when the taxonomy is empty.
func (s Snapshot) MainCategoryOf(category string) string {
	return mainCategoryOf(s.EffectiveTaxonomy(), category)
}

func mainCategoryOf(tax types.Taxonomy, category string) string {
	if main, ok := tax.MainOf(category); ok {
		return main
	}
	if names := tax.Names(); len(names) > 0 {
		return names[0]
	}
	return FallbackMainCategory
}

// Questions returns every question in bank order, annotated with its location.
func (s Snapshot) Questions() []FlatQuestion {
	tax := s.EffectiveTaxonomy()
	out := make([]FlatQuestion, 0, s.TotalQuestions())
	for _, c := range s.Bank.Categories {
		main := mainCategoryOf(tax, c.Category)
		for i, q := range c.Questions {
			out = append(out, FlatQuestion{Question: q, Category: c.Category, MainCategory: main, Position: i})
		}
	}
	return out
}

// ByCategory groups questions by bank category, in bank order.
func (s Snapshot) ByCategory() []CategoryGroup {
	groups := make([]CategoryGroup, 0, len(s.Bank.Categories))
	index := make(map[string]int, len(s.Bank.Categories))
	for _, c := range s.Bank.Categories {
		index[c.Category] = len(groups)
		groups = append(groups, CategoryGroup{Category: c.Category, Questions: []FlatQuestion{}})
	}
	for _, q := range s.Questions() {
		g := &groups[index[q.Category]]
		g.Questions = append(g.Questions, q)
	}
	return groups
}

// ByMainCategory groups questions by main category, in taxonomy order. Every main
// category gets a group, even when empty.
func (s Snapshot) ByMainCategory() []MainGroup {
	tax := s.EffectiveTaxonomy()
	names := tax.Names()
	if len(names) == 0 {
		names = []string{FallbackMainCategory}
	}

	groups := make([]MainGroup, 0, len(names))
	index := make(map[string]int, len(names))
	for _, name := range names {
		subs, ok := tax.Subcategories(name)
		if !ok {
			subs = []string{}
		}
		index[name] = len(groups)
		groups = append(groups, MainGroup{Name: name, Subcategories: subs, Questions: []FlatQuestion{}})
	}
	for _, q := range s.Questions() {
		g := &groups[index[q.MainCategory]]
		g.Questions = append(g.Questions, q)
	}
	return groups
}

// GroupFollowups walks questions in order and attaches each follow-up to the nearest
// preceding main question. A follow-up with no preceding main question forms its own group.
func GroupFollowups(questions []FlatQuestion) []FollowupGroup {
	groups := []FollowupGroup{}
	for _, q := range questions {
		if !q.IsFollowup {
			main := q
			groups = append(groups, FollowupGroup{Main: &main, Followups: []FlatQuestion{}})
			continue
		}
		if len(groups) == 0 {
			groups = append(groups, FollowupGroup{Followups: []FlatQuestion{q}})
			continue
		}
		last := &groups[len(groups)-1]
		last.Followups = append(last.Followups, q)
	}
	return groups
}

// Progress counts completed questions. isCompleted reports whether the question with the
// given id is complete; nil counts nothing as complete.
func (s Snapshot) Progress(isCompleted func(questionID string) bool) Progress {
	p := Progress{
		ByCategory:     make(map[string]Counter),
		ByMainCategory: make(map[string]Counter),
	}
	for _, c := range s.Bank.Categories {
		p.ByCategory[c.Category] = Counter{}
	}
	for _, name := range s.EffectiveTaxonomy().Names() {
		p.ByMainCategory[name] = Counter{}
	}

	for _, q := range s.Questions() {
		done := isCompleted != nil && isCompleted(q.ID)
		p.Overall.add(done)

		c := p.ByCategory[q.Category]
		c.add(done)
		p.ByCategory[q.Category] = c

		m := p.ByMainCategory[q.MainCategory]
		m.add(done)
		p.ByMainCategory[q.MainCategory] = m
	}
	return p
}
