package server

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/jonathan/interview-prep/internal/bank"
	"github.com/jonathan/interview-prep/internal/scoring"
	"github.com/jonathan/interview-prep/internal/session"
	"github.com/jonathan/interview-prep/internal/types"
)

// BankResponse is the current company's question bank with its derived views.
type BankResponse struct {
	CompanyID      string             `json:"companyId"`
	CompanyName    string             `json:"companyName"`
	Data           types.QuestionBank `json:"data"`
	Taxonomy       types.Taxonomy     `json:"taxonomy"`
	CustomTaxonomy bool               `json:"customTaxonomy"`
	Groups         []bank.MainGroup   `json:"groups"`
	Progress       bank.Progress      `json:"progress"`
}

// QuestionView is a question with its practice flags.
type QuestionView struct {
	bank.FlatQuestion
	State session.State `json:"state"`
}

type validatable interface {
	Validate() error
}

// decodeJSON decodes the request body into v and runs its Validate method if it has one.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &ErrBadRequest{Err: err}
	}
	if val, ok := v.(validatable); ok {
		if err := val.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// pathParam returns a decoded URL parameter. Category names are free text and may
// contain escaped characters.
func pathParam(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if r.URL.RawPath != "" {
		if unescaped, err := url.PathUnescape(v); err == nil {
			return unescaped
		}
	}
	return v
}

func (s *Server) view(q bank.FlatQuestion) QuestionView {
	return QuestionView{FlatQuestion: q, State: s.session.State(q.ID)}
}

// filterQuestions applies the optional category and main query filters.
func filterQuestions(snap bank.Snapshot, r *http.Request) []bank.FlatQuestion {
	category := r.URL.Query().Get("category")
	main := r.URL.Query().Get("main")

	all := snap.Questions()
	if category == "" && main == "" {
		return all
	}
	out := make([]bank.FlatQuestion, 0, len(all))
	for _, q := range all {
		if category != "" && q.Category != category {
			continue
		}
		if main != "" && q.MainCategory != main {
			continue
		}
		out = append(out, q)
	}
	return out
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req types.ScoreRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, err)
		return
	}

	keywords := ""
	if req.Keywords != nil {
		keywords = *req.Keywords
	}
	s.jsonResponse(w, http.StatusOK, scoring.Score(req.Transcript, req.Answer, keywords))
}

func (s *Server) handleGetBank(w http.ResponseWriter, _ *http.Request) {
	c := s.store.Current()
	snap := bank.New(c.Data, c.CustomCategories)

	s.jsonResponse(w, http.StatusOK, BankResponse{
		CompanyID:      c.ID,
		CompanyName:    c.Name,
		Data:           snap.Bank,
		Taxonomy:       snap.EffectiveTaxonomy(),
		CustomTaxonomy: snap.Taxonomy != nil,
		Groups:         snap.ByMainCategory(),
		Progress:       snap.Progress(s.session.IsCompleted),
	})
}

func (s *Server) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	questions := filterQuestions(s.store.Snapshot(), r)
	views := make([]QuestionView, 0, len(questions))
	for _, q := range questions {
		views = append(views, s.view(q))
	}
	s.jsonResponse(w, http.StatusOK, views)
}

func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, bank.GroupFollowups(filterQuestions(s.store.Snapshot(), r)))
}

func (s *Server) handleGetProgress(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.store.Snapshot().Progress(s.session.IsCompleted))
}

func (s *Server) handleToggleFlag(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.store.Snapshot().Find(bank.ByID(id)); !ok {
		s.fail(w, &ErrNotFound{Kind: "question", ID: id})
		return
	}

	flag := session.Flag(chi.URLParam(r, "flag"))
	value, err := s.session.Toggle(flag, id)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"questionId": id,
		"flag":       flag,
		"value":      value,
	})
}

func (s *Server) handleResetProgress(w http.ResponseWriter, _ *http.Request) {
	s.session.Reset()
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (s *Server) handleRandomQuestion(w http.ResponseWriter, r *http.Request) {
	q, ok := s.session.PickRandom(filterQuestions(s.store.Snapshot(), r))
	if !ok {
		s.errorResponse(w, http.StatusNotFound, "no questions to pick from")
		return
	}
	s.jsonResponse(w, http.StatusOK, s.view(q))
}
