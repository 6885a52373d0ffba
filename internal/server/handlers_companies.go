package server

import (
	"bytes"
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/jonathan/interview-prep/internal/bank"
	"github.com/jonathan/interview-prep/internal/transfer"
	"github.com/jonathan/interview-prep/internal/types"
)

const maxImportBytes = 10 << 20

// CompanySummary is one entry of the company list.
type CompanySummary struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	TotalQuestions int    `json:"totalQuestions"`
	Current        bool   `json:"current"`
}

// CompaniesResponse lists companies and the current selection.
type CompaniesResponse struct {
	Companies []CompanySummary `json:"companies"`
	CurrentID string           `json:"currentId"`
}

func (s *Server) handleListCompanies(w http.ResponseWriter, _ *http.Request) {
	currentID := s.store.CurrentID()
	companies := s.store.Companies()

	resp := CompaniesResponse{
		Companies: make([]CompanySummary, 0, len(companies)),
		CurrentID: currentID,
	}
	for _, c := range companies {
		resp.Companies = append(resp.Companies, CompanySummary{
			ID:             c.ID,
			Name:           c.Name,
			TotalQuestions: c.Data.TotalQuestions,
			Current:        c.ID == currentID,
		})
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) handleCreateCompany(w http.ResponseWriter, r *http.Request) {
	var req types.NameRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, err)
		return
	}

	c, err := s.store.AddCompany(r.Context(), req.Name)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, c)
}

// requireCompany writes a 404 and returns false when id is unknown.
func (s *Server) requireCompany(w http.ResponseWriter, id string) (types.Company, bool) {
	c, ok := s.store.Company(id)
	if !ok {
		s.fail(w, &ErrNotFound{Kind: "company", ID: id})
	}
	return c, ok
}

func (s *Server) handleRenameCompany(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.requireCompany(w, id); !ok {
		return
	}

	var req types.NameRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, err)
		return
	}
	if err := s.store.RenameCompany(r.Context(), id, req.Name); err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleDeleteCompany(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	c, ok := s.requireCompany(w, id)
	if !ok {
		return
	}

	if err := s.store.DeleteCompany(r.Context(), id); err != nil {
		s.fail(w, err)
		return
	}
	for _, q := range bank.New(c.Data, c.CustomCategories).Questions() {
		s.session.Forget(q.ID)
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted", "currentId": s.store.CurrentID()})
}

func (s *Server) handleSelectCompany(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.requireCompany(w, id); !ok {
		return
	}
	if err := s.store.SelectCompany(r.Context(), id); err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "selected", "currentId": id})
}

// attachment marks the response as a download. File names may contain Hangul, so the
// RFC 5987 form is used.
func attachment(w http.ResponseWriter, contentType, fileName string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(fileName))
}

func (s *Server) handleExportCompany(w http.ResponseWriter, r *http.Request) {
	c, ok := s.requireCompany(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	raw, err := transfer.EncodeTemplate(transfer.ExportCompany(c, s.now()))
	if err != nil {
		s.fail(w, err)
		return
	}
	attachment(w, "application/json", transfer.ExportFileName(c.Name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

func (s *Server) handleExportWorkbook(w http.ResponseWriter, r *http.Request) {
	c, ok := s.requireCompany(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	// Buffered so a rendering failure still gets an error status
	var buf bytes.Buffer
	if err := transfer.WriteWorkbook(&buf, bank.New(c.Data, c.CustomCategories)); err != nil {
		s.fail(w, err)
		return
	}
	attachment(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", transfer.WorkbookFileName(c.Name))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleImportCompany(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		s.fail(w, &ErrBadRequest{Err: err})
		return
	}

	tmpl, err := transfer.ParseCompanyTemplate(raw)
	if err != nil {
		s.fail(w, err)
		return
	}
	c, err := s.store.ImportCompany(r.Context(), tmpl)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, c)
}
