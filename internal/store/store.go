// Package store holds the company list and current-company pointer, and persists both
// slots to a KV backend after every mutation.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jonathan/interview-prep/internal/bank"
	"github.com/jonathan/interview-prep/internal/db"
	"github.com/jonathan/interview-prep/internal/types"
)

const (
	defaultCompanyID   = "default"
	defaultCompanyName = "새 회사"
)

// Store is the single writer for persisted company state. It is safe for concurrent use;
// each mutation runs to completion, including the write to the KV, under one lock.
type Store struct {
	kv db.KV

	mu        sync.RWMutex
	companies []types.Company
	currentID string
}

// Open loads state from kv, synthesizing the default company when nothing is stored.
func Open(ctx context.Context, kv db.KV) (*Store, error) {
	s := &Store{kv: kv}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads both slots from the KV, replacing in-memory state. Missing or
// incomplete state is repaired and written back. The read and the swap happen under
// one lock so a concurrent Apply is never overwritten by an older read.
func (s *Store) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	companies, currentID, repaired, err := s.load(ctx)
	if err != nil {
		return err
	}
	if repaired {
		if err := s.persist(ctx, companies, currentID); err != nil {
			return err
		}
	}
	s.companies = companies
	s.currentID = currentID
	log.Printf("[store] loaded %d companies, current=%s", len(companies), currentID)
	return nil
}

// load reads both slots. Callers hold s.mu.
func (s *Store) load(ctx context.Context) ([]types.Company, string, bool, error) {
	var companies []types.Company
	repaired := false

	raw, ok, err := s.kv.Get(ctx, db.KeyCompanies)
	if err != nil {
		return nil, "", false, err
	}
	if ok {
		if err := json.Unmarshal(raw, &companies); err != nil {
			return nil, "", false, fmt.Errorf("failed to decode %s: %w", db.KeyCompanies, err)
		}
	}
	if len(companies) == 0 {
		companies = []types.Company{{
			ID:   defaultCompanyID,
			Name: defaultCompanyName,
			Data: bank.DefaultQuestionBank(),
		}}
		repaired = true
	}
	for i := range companies {
		data, changed := bank.EnsureIDs(companies[i].Data)
		if changed || data.TotalQuestions != companies[i].Data.TotalQuestions {
			repaired = true
		}
		companies[i].Data = data
	}

	currentID := defaultCompanyID
	raw, ok, err = s.kv.Get(ctx, db.KeyCurrentCompany)
	if err != nil {
		return nil, "", false, err
	}
	if ok {
		currentID = strings.TrimSpace(string(raw))
	} else {
		repaired = true
	}
	if indexOf(companies, currentID) < 0 {
		currentID = companies[0].ID
		repaired = true
	}

	return companies, currentID, repaired, nil
}

// persist writes both slots. Callers hold s.mu.
func (s *Store) persist(ctx context.Context, companies []types.Company, currentID string) error {
	raw, err := json.Marshal(companies)
	if err != nil {
		return fmt.Errorf("failed to encode companies: %w", err)
	}
	if err := s.kv.Put(ctx, db.KeyCompanies, raw); err != nil {
		return err
	}
	return s.kv.Put(ctx, db.KeyCurrentCompany, []byte(currentID))
}

// commit persists and then swaps in the new state. Callers hold s.mu.
func (s *Store) commit(ctx context.Context, companies []types.Company, currentID string) error {
	if err := s.persist(ctx, companies, currentID); err != nil {
		return err
	}
	s.companies = companies
	s.currentID = currentID
	return nil
}

func indexOf(companies []types.Company, id string) int {
	for i, c := range companies {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func cloneAll(companies []types.Company) []types.Company {
	out := make([]types.Company, len(companies))
	for i, c := range companies {
		out[i] = c.Clone()
	}
	return out
}

// Companies returns a copy of every company in order.
func (s *Store) Companies() []types.Company {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.companies)
}

// Company returns a copy of the company with id.
func (s *Store) Company(id string) (types.Company, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := indexOf(s.companies, id)
	if i < 0 {
		return types.Company{}, false
	}
	return s.companies[i].Clone(), true
}

// CurrentID returns the id of the current company.
func (s *Store) CurrentID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentID
}

// Current returns a copy of the current company.
func (s *Store) Current() types.Company {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.companies[s.currentIndex()].Clone()
}

// currentIndex falls back to the first company when the pointer is stale. Callers hold s.mu.
func (s *Store) currentIndex() int {
	if i := indexOf(s.companies, s.currentID); i >= 0 {
		return i
	}
	return 0
}

// Snapshot returns the current company's question bank and taxonomy.
func (s *Store) Snapshot() bank.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c := s.companies[s.currentIndex()]
	return bank.New(c.Data, c.CustomCategories)
}

// Apply runs fn against the current company's snapshot and stores the result.
// A rejection from fn leaves state unchanged.
func (s *Store) Apply(ctx context.Context, fn func(bank.Snapshot) (bank.Snapshot, error)) (bank.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.currentIndex()
	c := s.companies[idx]
	before := bank.New(c.Data, c.CustomCategories)

	after, err := fn(before)
	if err != nil {
		return before, err
	}

	companies := cloneAll(s.companies)
	companies[idx].Data = after.Bank.Clone()
	companies[idx].Data.TotalQuestions = companies[idx].Data.CountQuestions()
	companies[idx].CustomCategories = nil
	if after.Taxonomy != nil {
		t := after.Taxonomy.Clone()
		companies[idx].CustomCategories = &t
	}

	if err := s.commit(ctx, companies, s.currentID); err != nil {
		return before, err
	}
	return bank.New(companies[idx].Data, companies[idx].CustomCategories), nil
}

// AddCompany creates an empty company and makes it current.
func (s *Store) AddCompany(ctx context.Context, name string) (types.Company, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return types.Company{}, &bank.ValidationError{Field: "name", Message: "must not be empty"}
	}
	c := types.Company{
		ID:   uuid.NewString(),
		Name: name,
		Data: types.QuestionBank{Categories: []types.Category{}},
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	companies := append(cloneAll(s.companies), c)
	if err := s.commit(ctx, companies, c.ID); err != nil {
		return types.Company{}, err
	}
	log.Printf("[store] added company %s (%s)", c.ID, c.Name)
	return c.Clone(), nil
}

// ImportCompany adds a company from a parsed template and makes it current.
// Missing question ids are assigned and totalQuestions is recomputed.
func (s *Store) ImportCompany(ctx context.Context, tmpl types.CompanyTemplate) (types.Company, error) {
	name := strings.TrimSpace(tmpl.Name)
	if name == "" {
		return types.Company{}, &bank.ValidationError{Field: "name", Message: "must not be empty"}
	}
	if tmpl.Data == nil {
		return types.Company{}, &bank.ValidationError{Field: "data", Message: "is required"}
	}

	data, _ := bank.EnsureIDs(*tmpl.Data)
	if data.Categories == nil {
		data.Categories = []types.Category{}
	}
	c := types.Company{ID: uuid.NewString(), Name: name, Data: data}
	if tmpl.CustomCategories != nil {
		t := tmpl.CustomCategories.Clone()
		c.CustomCategories = &t
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	companies := append(cloneAll(s.companies), c)
	if err := s.commit(ctx, companies, c.ID); err != nil {
		return types.Company{}, err
	}
	log.Printf("[store] imported company %s (%s, %d questions)", c.ID, c.Name, c.Data.TotalQuestions)
	return c.Clone(), nil
}

// DeleteCompany removes a company. Deleting the last company is rejected; deleting the
// current company moves the pointer to the first remaining one. Unknown ids are ignored.
func (s *Store) DeleteCompany(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.companies) <= 1 {
		return &bank.LastItemError{Kind: bank.KindCompany}
	}
	idx := indexOf(s.companies, id)
	if idx < 0 {
		return nil
	}

	companies := cloneAll(s.companies)
	companies = append(companies[:idx], companies[idx+1:]...)
	currentID := s.currentID
	if currentID == id {
		currentID = companies[0].ID
	}
	if err := s.commit(ctx, companies, currentID); err != nil {
		return err
	}
	log.Printf("[store] deleted company %s", id)
	return nil
}

// SelectCompany makes id the current company. Unknown ids are ignored.
func (s *Store) SelectCompany(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if indexOf(s.companies, id) < 0 || id == s.currentID {
		return nil
	}
	return s.commit(ctx, s.companies, id)
}

// RenameCompany changes a company's display name. Unknown ids are ignored.
func (s *Store) RenameCompany(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return &bank.ValidationError{Field: "name", Message: "must not be empty"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexOf(s.companies, id)
	if idx < 0 {
		return nil
	}
	companies := cloneAll(s.companies)
	companies[idx].Name = name
	return s.commit(ctx, companies, s.currentID)
}
