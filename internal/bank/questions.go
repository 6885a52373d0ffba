package bank

import (
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/interview-prep/internal/types"
)

// QuestionInput carries the editable fields of a question.
type QuestionInput struct {
	Category   string
	Question   string
	Answer     string
	Keywords   string
	IsFollowup bool
}

func (in QuestionInput) validate() (QuestionInput, error) {
	var err error
	if in.Category, err = requireName("category", in.Category); err != nil {
		return in, err
	}
	if strings.TrimSpace(in.Question) == "" {
		return in, &ValidationError{Field: "question", Message: "must not be empty"}
	}
	if strings.TrimSpace(in.Answer) == "" {
		return in, &ValidationError{Field: "answer", Message: "must not be empty"}
	}
	return in, nil
}

func (in QuestionInput) apply(q types.Question) types.Question {
	q.Question = in.Question
	q.Answer = in.Answer
	q.Keywords = in.Keywords
	q.IsFollowup = in.IsFollowup
	return q
}

// Find returns the question addressed by ref.
func (s Snapshot) Find(ref Ref) (FlatQuestion, bool) {
	ci, qi, ok := s.locate(ref)
	if !ok {
		return FlatQuestion{}, false
	}
	cat := s.Bank.Categories[ci]
	return FlatQuestion{
		Question:     cat.Questions[qi],
		Category:     cat.Category,
		MainCategory: s.MainCategoryOf(cat.Category),
		Position:     qi,
	}, true
}

// AddQuestion adds a question to in.Category, creating the category when it does not
// exist. The question is inserted right after insertAfter when that question is found in
// the same category, otherwise appended. The stored question is returned with its new id.
func (s Snapshot) AddQuestion(in QuestionInput, insertAfter *Ref) (Snapshot, types.Question, error) {
	in, err := in.validate()
	if err != nil {
		return s, types.Question{}, err
	}

	q := in.apply(types.Question{ID: uuid.NewString()})
	out := s.clone()

	ci := out.categoryIndex(in.Category)
	if ci < 0 {
		out.Bank.Categories = append(out.Bank.Categories, types.Category{
			Order:     len(out.Bank.Categories) + 1,
			Category:  in.Category,
			Questions: []types.Question{q},
		})
		return out.finalize(), q, nil
	}

	pos := len(out.Bank.Categories[ci].Questions)
	if insertAfter != nil {
		after := *insertAfter
		if after.Category == "" {
			after.Category = in.Category
		}
		if aci, aqi, ok := out.locate(after); ok && aci == ci {
			pos = aqi + 1
		}
	}
	out.Bank.Categories[ci].Questions = slices.Insert(out.Bank.Categories[ci].Questions, pos, q)
	return out.finalize(), q, nil
}

// UpdateQuestion replaces the fields of the question addressed by ref. When the category
// changes the question is removed and appended to the new category, which is created if
// missing. The question keeps its id.
func (s Snapshot) UpdateQuestion(ref Ref, in QuestionInput) (Snapshot, error) {
	in, err := in.validate()
	if err != nil {
		return s, err
	}
	ci, qi, ok := s.locate(ref)
	if !ok {
		return s, nil
	}

	out := s.clone()
	cat := &out.Bank.Categories[ci]
	updated := in.apply(cat.Questions[qi])
	if updated.ID == "" {
		updated.ID = uuid.NewString()
	}

	if cat.Category == in.Category {
		cat.Questions[qi] = updated
		return out.finalize(), nil
	}

	cat.Questions = slices.Delete(cat.Questions, qi, qi+1)
	if ti := out.categoryIndex(in.Category); ti >= 0 {
		out.Bank.Categories[ti].Questions = append(out.Bank.Categories[ti].Questions, updated)
	} else {
		out.Bank.Categories = append(out.Bank.Categories, types.Category{
			Order:     len(out.Bank.Categories) + 1,
			Category:  in.Category,
			Questions: []types.Question{updated},
		})
	}
	return out.finalize(), nil
}

// DeleteQuestion removes the question addressed by ref.
func (s Snapshot) DeleteQuestion(ref Ref) Snapshot {
	ci, qi, ok := s.locate(ref)
	if !ok {
		return s
	}
	out := s.clone()
	out.Bank.Categories[ci].Questions = slices.Delete(out.Bank.Categories[ci].Questions, qi, qi+1)
	return out.finalize()
}

// ToggleFollowup flips the follow-up flag of the question addressed by ref.
func (s Snapshot) ToggleFollowup(ref Ref) Snapshot {
	ci, qi, ok := s.locate(ref)
	if !ok {
		return s
	}
	out := s.clone()
	q := &out.Bank.Categories[ci].Questions[qi]
	q.IsFollowup = !q.IsFollowup
	return out
}

// UpdateKeywords replaces the keyword string of the question addressed by ref.
func (s Snapshot) UpdateKeywords(ref Ref, keywords string) Snapshot {
	ci, qi, ok := s.locate(ref)
	if !ok {
		return s
	}
	out := s.clone()
	out.Bank.Categories[ci].Questions[qi].Keywords = keywords
	return out
}

// MoveQuestion moves a question next to target: before it, or right after it as a
// follow-up when asFollowup is set. Target may be in another category. Moving a
// question onto itself, or referencing a missing question, changes nothing.
func (s Snapshot) MoveQuestion(moved, target Ref, asFollowup bool) Snapshot {
	mci, mqi, ok := s.locate(moved)
	if !ok {
		return s
	}
	tci, tqi, ok := s.locate(target)
	if !ok || (mci == tci && mqi == tqi) {
		return s
	}

	out := s.clone()
	q := out.Bank.Categories[mci].Questions[mqi]
	out.Bank.Categories[mci].Questions = slices.Delete(out.Bank.Categories[mci].Questions, mqi, mqi+1)
	if mci == tci && mqi < tqi {
		tqi--
	}

	pos := tqi
	if asFollowup {
		q.IsFollowup = true
		pos = tqi + 1
	}
	out.Bank.Categories[tci].Questions = slices.Insert(out.Bank.Categories[tci].Questions, pos, q)
	return out.finalize()
}
