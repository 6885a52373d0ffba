// Package session holds per-process practice state: progress flags, the random-question
// picker, and captured recordings. Nothing here is persisted.
package session

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/jonathan/interview-prep/internal/bank"
	"github.com/jonathan/interview-prep/internal/types"
)

// Flag names a per-question progress toggle.
type Flag string

const (
	FlagCompleted Flag = "completed"
	FlagExpanded  Flag = "expanded"
	FlagAnswer    Flag = "answer"
)

var (
	// ErrCaptureInProgress is returned when a question already has an in-flight recording.
	ErrCaptureInProgress = errors.New("recording already in progress")
	// ErrNoCapture is returned when no recording is in flight for a question.
	ErrNoCapture = errors.New("no recording in progress")
	// ErrNoRecording is returned when a question has no finished recording.
	ErrNoRecording = errors.New("recording not found")
	// ErrNoTranscript is returned when a recording has no transcript to score.
	ErrNoTranscript = errors.New("recording has no transcript")
)

// UnknownFlagError indicates a progress flag name that does not exist.
type UnknownFlagError struct {
	Flag string
}

func (e *UnknownFlagError) Error() string {
	return fmt.Sprintf("unknown progress flag: %s", e.Flag)
}

// Session is safe for concurrent use.
type Session struct {
	mu sync.Mutex

	completed    map[string]bool
	expanded     map[string]bool
	hiddenAnswer map[string]bool // answers are visible unless hidden
	random       *rand.Rand
	now          func() time.Time

	recordings map[string]types.Recording
	captures   map[string]*Capture
}

// Option configures a Session.
type Option func(*Session)

// WithRand sets the source used by PickRandom.
func WithRand(r *rand.Rand) Option {
	return func(s *Session) { s.random = r }
}

// WithClock sets the time source used to stamp recordings.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// New returns an empty session.
func New(opts ...Option) *Session {
	s := &Session{
		completed:    make(map[string]bool),
		expanded:     make(map[string]bool),
		hiddenAnswer: make(map[string]bool),
		recordings:   make(map[string]types.Recording),
		captures:     make(map[string]*Capture),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.random == nil {
		s.random = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	return s
}

// Toggle flips a progress flag for a question and returns the new state
// (for FlagAnswer, whether the answer is now visible).
func (s *Session) Toggle(flag Flag, questionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch flag {
	case FlagCompleted:
		s.completed[questionID] = !s.completed[questionID]
		return s.completed[questionID], nil
	case FlagExpanded:
		s.expanded[questionID] = !s.expanded[questionID]
		return s.expanded[questionID], nil
	case FlagAnswer:
		s.hiddenAnswer[questionID] = !s.hiddenAnswer[questionID]
		return !s.hiddenAnswer[questionID], nil
	default:
		return false, &UnknownFlagError{Flag: string(flag)}
	}
}

// IsCompleted reports whether the question is marked complete.
func (s *Session) IsCompleted(questionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completed[questionID]
}

// IsExpanded reports whether the question is expanded.
func (s *Session) IsExpanded(questionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expanded[questionID]
}

// AnswerVisible reports whether the question's answer is shown.
func (s *Session) AnswerVisible(questionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.hiddenAnswer[questionID]
}

// State is the progress flags of one question.
type State struct {
	Completed     bool `json:"completed"`
	Expanded      bool `json:"expanded"`
	AnswerVisible bool `json:"answerVisible"`
	HasRecording  bool `json:"hasRecording"`
}

// State returns the flags of one question.
func (s *Session) State(questionID string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, rec := s.recordings[questionID]
	return State{
		Completed:     s.completed[questionID],
		Expanded:      s.expanded[questionID],
		AnswerVisible: !s.hiddenAnswer[questionID],
		HasRecording:  rec,
	}
}

// Reset clears every progress flag. Recordings are kept.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.completed)
	clear(s.expanded)
	clear(s.hiddenAnswer)
}

// Forget drops all state for a deleted question, including any recording or capture.
func (s *Session) Forget(questionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.completed, questionID)
	delete(s.expanded, questionID)
	delete(s.hiddenAnswer, questionID)
	delete(s.recordings, questionID)
	if c, ok := s.captures[questionID]; ok {
		c.closed = true
		delete(s.captures, questionID)
	}
}

// PickRandom picks a question uniformly from the not-yet-completed questions in view,
// or from all of view when every question is complete. The pick is expanded.
func (s *Session) PickRandom(view []bank.FlatQuestion) (bank.FlatQuestion, bool) {
	if len(view) == 0 {
		return bank.FlatQuestion{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pool := make([]bank.FlatQuestion, 0, len(view))
	for _, q := range view {
		if !s.completed[q.ID] {
			pool = append(pool, q)
		}
	}
	if len(pool) == 0 {
		pool = view
	}

	picked := pool[s.random.IntN(len(pool))]
	s.expanded[picked.ID] = true
	return picked, true
}
