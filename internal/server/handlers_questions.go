package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jonathan/interview-prep/internal/bank"
	"github.com/jonathan/interview-prep/internal/types"
)

func questionInput(req types.QuestionRequest) bank.QuestionInput {
	return bank.QuestionInput{
		Category:   req.Category,
		Question:   req.Question,
		Answer:     req.Answer,
		Keywords:   req.Keywords,
		IsFollowup: req.IsFollowup,
	}
}

// applyToQuestion runs fn against the current bank after checking the question exists,
// then responds with the question as it stands afterwards.
func (s *Server) applyToQuestion(w http.ResponseWriter, r *http.Request, id string, fn func(bank.Snapshot) (bank.Snapshot, error)) {
	snap, err := s.store.Apply(r.Context(), func(b bank.Snapshot) (bank.Snapshot, error) {
		if _, ok := b.Find(bank.ByID(id)); !ok {
			return b, &ErrNotFound{Kind: "question", ID: id}
		}
		return fn(b)
	})
	if err != nil {
		s.fail(w, err)
		return
	}

	q, ok := snap.Find(bank.ByID(id))
	if !ok {
		s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
		return
	}
	s.jsonResponse(w, http.StatusOK, s.view(q))
}

func (s *Server) handleCreateQuestion(w http.ResponseWriter, r *http.Request) {
	var req types.QuestionRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, err)
		return
	}

	var after *bank.Ref
	if req.InsertAfter != "" {
		ref := bank.ByID(req.InsertAfter)
		after = &ref
	}

	var created types.Question
	snap, err := s.store.Apply(r.Context(), func(b bank.Snapshot) (bank.Snapshot, error) {
		next, q, err := b.AddQuestion(questionInput(req), after)
		created = q
		return next, err
	})
	if err != nil {
		s.fail(w, err)
		return
	}

	q, _ := snap.Find(bank.ByID(created.ID))
	s.jsonResponse(w, http.StatusCreated, s.view(q))
}

func (s *Server) handleUpdateQuestion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req types.QuestionRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, err)
		return
	}
	s.applyToQuestion(w, r, id, func(b bank.Snapshot) (bank.Snapshot, error) {
		return b.UpdateQuestion(bank.ByID(id), questionInput(req))
	})
}

func (s *Server) handleDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	_, err := s.store.Apply(r.Context(), func(b bank.Snapshot) (bank.Snapshot, error) {
		if _, ok := b.Find(bank.ByID(id)); !ok {
			return b, &ErrNotFound{Kind: "question", ID: id}
		}
		return b.DeleteQuestion(bank.ByID(id)), nil
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	s.session.Forget(id)
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleToggleFollowup(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.applyToQuestion(w, r, id, func(b bank.Snapshot) (bank.Snapshot, error) {
		return b.ToggleFollowup(bank.ByID(id)), nil
	})
}

func (s *Server) handleUpdateKeywords(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req types.KeywordsRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, err)
		return
	}
	s.applyToQuestion(w, r, id, func(b bank.Snapshot) (bank.Snapshot, error) {
		return b.UpdateKeywords(bank.ByID(id), req.Keywords), nil
	})
}

func (s *Server) handleMoveQuestion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req types.MoveRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, err)
		return
	}
	s.applyToQuestion(w, r, id, func(b bank.Snapshot) (bank.Snapshot, error) {
		if _, ok := b.Find(bank.ByID(req.Target)); !ok {
			return b, &ErrNotFound{Kind: "question", ID: req.Target}
		}
		return b.MoveQuestion(bank.ByID(id), bank.ByID(req.Target), req.AsFollowup), nil
	})
}
