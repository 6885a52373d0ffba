package server

import (
	"net/http"

	"github.com/jonathan/interview-prep/internal/bank"
	"github.com/jonathan/interview-prep/internal/types"
)

// TaxonomyResponse is the effective taxonomy and whether it is customized.
type TaxonomyResponse struct {
	Taxonomy types.Taxonomy `json:"taxonomy"`
	Custom   bool           `json:"custom"`
}

func taxonomyResponse(snap bank.Snapshot) TaxonomyResponse {
	return TaxonomyResponse{Taxonomy: snap.EffectiveTaxonomy(), Custom: snap.Taxonomy != nil}
}

func categoryNames(snap bank.Snapshot) []string {
	names := make([]string, 0, len(snap.Bank.Categories))
	for _, c := range snap.Bank.Categories {
		names = append(names, c.Category)
	}
	return names
}

// applyNamed decodes a NameRequest and applies fn to the current bank with the name.
func (s *Server) applyNamed(w http.ResponseWriter, r *http.Request, fn func(bank.Snapshot, string) (bank.Snapshot, error)) (bank.Snapshot, bool) {
	var req types.NameRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, err)
		return bank.Snapshot{}, false
	}
	snap, err := s.store.Apply(r.Context(), func(b bank.Snapshot) (bank.Snapshot, error) {
		return fn(b, req.Name)
	})
	if err != nil {
		s.fail(w, err)
		return bank.Snapshot{}, false
	}
	return snap, true
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.applyNamed(w, r, func(b bank.Snapshot, name string) (bank.Snapshot, error) {
		return b.AddCategory(name)
	})
	if ok {
		s.jsonResponse(w, http.StatusCreated, categoryNames(snap))
	}
}

func (s *Server) handleRenameCategory(w http.ResponseWriter, r *http.Request) {
	oldName := pathParam(r, "name")
	snap, ok := s.applyNamed(w, r, func(b bank.Snapshot, name string) (bank.Snapshot, error) {
		return b.RenameCategory(oldName, name)
	})
	if ok {
		s.jsonResponse(w, http.StatusOK, categoryNames(snap))
	}
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "name")

	var removed []string
	snap, err := s.store.Apply(r.Context(), func(b bank.Snapshot) (bank.Snapshot, error) {
		removed = removed[:0]
		for _, q := range b.Questions() {
			if q.Category == name {
				removed = append(removed, q.ID)
			}
		}
		return b.DeleteCategory(name), nil
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	for _, id := range removed {
		s.session.Forget(id)
	}
	s.jsonResponse(w, http.StatusOK, categoryNames(snap))
}

func (s *Server) handleGetTaxonomy(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, taxonomyResponse(s.store.Snapshot()))
}

func (s *Server) handleCreateMainCategory(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.applyNamed(w, r, func(b bank.Snapshot, name string) (bank.Snapshot, error) {
		return b.AddMainCategory(name)
	})
	if ok {
		s.jsonResponse(w, http.StatusCreated, taxonomyResponse(snap))
	}
}

func (s *Server) handleRenameMainCategory(w http.ResponseWriter, r *http.Request) {
	oldName := pathParam(r, "name")
	snap, ok := s.applyNamed(w, r, func(b bank.Snapshot, name string) (bank.Snapshot, error) {
		return b.EditMainCategory(oldName, name)
	})
	if ok {
		s.jsonResponse(w, http.StatusOK, taxonomyResponse(snap))
	}
}

func (s *Server) handleDeleteMainCategory(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "name")
	snap, err := s.store.Apply(r.Context(), func(b bank.Snapshot) (bank.Snapshot, error) {
		return b.DeleteMainCategory(name)
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, taxonomyResponse(snap))
}

func (s *Server) handleCreateSubCategory(w http.ResponseWriter, r *http.Request) {
	main := pathParam(r, "name")
	snap, ok := s.applyNamed(w, r, func(b bank.Snapshot, name string) (bank.Snapshot, error) {
		return b.AddSubCategory(main, name)
	})
	if ok {
		s.jsonResponse(w, http.StatusCreated, taxonomyResponse(snap))
	}
}

func (s *Server) handleRenameSubCategory(w http.ResponseWriter, r *http.Request) {
	main := pathParam(r, "name")
	oldSub := pathParam(r, "sub")
	snap, ok := s.applyNamed(w, r, func(b bank.Snapshot, name string) (bank.Snapshot, error) {
		return b.EditSubCategory(main, oldSub, name)
	})
	if ok {
		s.jsonResponse(w, http.StatusOK, taxonomyResponse(snap))
	}
}

func (s *Server) handleDeleteSubCategory(w http.ResponseWriter, r *http.Request) {
	main := pathParam(r, "name")
	sub := pathParam(r, "sub")
	snap, err := s.store.Apply(r.Context(), func(b bank.Snapshot) (bank.Snapshot, error) {
		return b.DeleteSubCategory(main, sub), nil
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, taxonomyResponse(snap))
}
