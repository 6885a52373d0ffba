package server

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jonathan/interview-prep/internal/bank"
	"github.com/jonathan/interview-prep/internal/session"
	"github.com/jonathan/interview-prep/internal/transfer"
	"github.com/jonathan/interview-prep/internal/types"
)

const maxAudioChunkBytes = 32 << 20

func (s *Server) handleListRecordings(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.session.Recordings())
}

func (s *Server) handleStartRecording(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.store.Snapshot().Find(bank.ByID(id)); !ok {
		s.fail(w, &ErrNotFound{Kind: "question", ID: id})
		return
	}

	c, err := s.session.StartCapture(id, r.URL.Query().Get("mimeType"))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, map[string]string{"questionId": c.QuestionID(), "status": "recording"})
}

// capture writes a 404 and returns false when no recording is in flight for the id.
func (s *Server) capture(w http.ResponseWriter, r *http.Request) (*session.Capture, bool) {
	c, ok := s.session.Capture(chi.URLParam(r, "id"))
	if !ok {
		s.fail(w, session.ErrNoCapture)
	}
	return c, ok
}

func (s *Server) handleAppendAudio(w http.ResponseWriter, r *http.Request) {
	c, ok := s.capture(w, r)
	if !ok {
		return
	}

	n, err := io.Copy(c, http.MaxBytesReader(w, r.Body, maxAudioChunkBytes))
	if err != nil {
		s.fail(w, &ErrBadRequest{Err: err})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]int64{"bytes": n})
}

func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	c, ok := s.capture(w, r)
	if !ok {
		return
	}

	var chunk types.TranscriptChunk
	if err := decodeJSON(r, &chunk); err != nil {
		s.fail(w, err)
		return
	}
	if err := c.AddTranscript(chunk.Text, chunk.Final); err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "accepted"})
}

func (s *Server) handleStopRecording(w http.ResponseWriter, r *http.Request) {
	c, ok := s.capture(w, r)
	if !ok {
		return
	}

	var req types.StopRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, err)
		return
	}
	rec, err := c.Stop(req.Duration)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, rec)
}

func (s *Server) handleCancelRecording(w http.ResponseWriter, r *http.Request) {
	c, ok := s.capture(w, r)
	if !ok {
		return
	}
	c.Cancel()
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

func (s *Server) handleGetAudio(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.session.Recording(chi.URLParam(r, "id"))
	if !ok {
		s.fail(w, session.ErrNoRecording)
		return
	}
	attachment(w, rec.MIMEType, transfer.RecordingFileName(rec))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(rec.Audio)
}

func (s *Server) handleScoreRecording(w http.ResponseWriter, r *http.Request) {
	res, err := s.session.ScoreRecording(s.store.Snapshot(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, res)
}

func (s *Server) handleDeleteRecording(w http.ResponseWriter, r *http.Request) {
	if !s.session.DeleteRecording(chi.URLParam(r, "id")) {
		s.fail(w, session.ErrNoRecording)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleExportRecordings(w http.ResponseWriter, _ *http.Request) {
	c := s.store.Current()
	out, err := transfer.ExportRecordings(c.Name, s.session.Recordings(), bank.New(c.Data, c.CustomCategories), s.now())
	if err != nil {
		s.fail(w, err)
		return
	}
	attachment(w, "application/json", transfer.RecordingsFileName(c.Name))
	s.jsonResponse(w, http.StatusOK, out)
}

func (s *Server) handleRecordingSummary(w http.ResponseWriter, _ *http.Request) {
	sum, err := s.session.Summarize(s.store.Snapshot())
	if err != nil {
		s.fail(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, sum)
}
