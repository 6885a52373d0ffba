package session

import (
	"bytes"
	"slices"
	"strings"

	"github.com/jonathan/interview-prep/internal/types"
)

const defaultMIMEType = "audio/webm"

// Capture is an in-flight recording. Audio and transcript chunks accumulate until
// Stop commits them as a Recording, or Cancel discards them.
type Capture struct {
	s          *Session
	questionID string
	mimeType   string

	// guarded by s.mu
	audio   bytes.Buffer
	finals  []string
	partial string
	closed  bool
}

// StartCapture begins a recording for a question. Only one capture per question may be
// in flight. An empty mimeType defaults to audio/webm.
func (s *Session) StartCapture(questionID, mimeType string) (*Capture, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.captures[questionID]; busy {
		return nil, ErrCaptureInProgress
	}
	if mimeType == "" {
		mimeType = defaultMIMEType
	}
	c := &Capture{s: s, questionID: questionID, mimeType: mimeType}
	s.captures[questionID] = c
	return c, nil
}

// Capture returns the in-flight capture for a question.
func (s *Session) Capture(questionID string) (*Capture, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.captures[questionID]
	return c, ok
}

// QuestionID returns the question being recorded.
func (c *Capture) QuestionID() string { return c.questionID }

// Write appends audio bytes.
func (c *Capture) Write(p []byte) (int, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	if c.closed {
		return 0, ErrNoCapture
	}
	return c.audio.Write(p)
}

// AddTranscript records a recognized speech chunk. A final chunk is committed to the
// transcript; a partial chunk replaces the previous partial.
func (c *Capture) AddTranscript(text string, final bool) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	if c.closed {
		return ErrNoCapture
	}
	if final {
		if t := strings.TrimSpace(text); t != "" {
			c.finals = append(c.finals, t)
		}
		c.partial = ""
		return nil
	}
	c.partial = strings.TrimSpace(text)
	return nil
}

// Stop ends the capture and stores the Recording, replacing any earlier recording of the
// same question. The transcript is the final chunks joined by spaces, followed by any
// trailing partial chunk; it is nil when nothing was recognized.
func (c *Capture) Stop(duration int) (types.Recording, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	if c.closed {
		return types.Recording{}, ErrNoCapture
	}
	c.closed = true
	delete(c.s.captures, c.questionID)

	parts := slices.Clone(c.finals)
	if c.partial != "" {
		parts = append(parts, c.partial)
	}
	var transcript *string
	if joined := strings.Join(parts, " "); joined != "" {
		transcript = &joined
	}
	if duration < 0 {
		duration = 0
	}

	rec := types.Recording{
		QuestionID: c.questionID,
		Duration:   duration,
		MIMEType:   c.mimeType,
		Audio:      bytes.Clone(c.audio.Bytes()),
		Transcript: transcript,
		CreatedAt:  c.s.now(),
	}
	c.s.recordings[c.questionID] = rec
	return rec, nil
}

// Cancel discards the capture's audio and transcript.
func (c *Capture) Cancel() {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.audio.Reset()
	c.finals = nil
	c.partial = ""
	delete(c.s.captures, c.questionID)
}

// Recording returns the finished recording of a question.
func (s *Session) Recording(questionID string) (types.Recording, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.recordings[questionID]
	return rec, ok
}

// Recordings returns every finished recording, oldest first.
func (s *Session) Recordings() []types.Recording {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Recording, 0, len(s.recordings))
	for _, rec := range s.recordings {
		out = append(out, rec)
	}
	slices.SortFunc(out, func(a, b types.Recording) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.QuestionID, b.QuestionID)
	})
	return out
}

// DeleteRecording removes a question's recording. It reports whether one existed.
func (s *Session) DeleteRecording(questionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.recordings[questionID]
	delete(s.recordings, questionID)
	return ok
}
