package session

import (
	"fmt"

	"github.com/jonathan/interview-prep/internal/bank"
	"github.com/jonathan/interview-prep/internal/scoring"
	"github.com/montanaflynn/stats"
)

// ScoreRecording scores a question's recorded transcript against its reference answer.
func (s *Session) ScoreRecording(snap bank.Snapshot, questionID string) (scoring.Result, error) {
	rec, ok := s.Recording(questionID)
	if !ok {
		return scoring.Result{}, ErrNoRecording
	}
	if rec.Transcript == nil || *rec.Transcript == "" {
		return scoring.Result{}, ErrNoTranscript
	}
	q, ok := snap.Find(bank.ByID(questionID))
	if !ok {
		return scoring.Result{}, ErrNoRecording
	}
	return scoring.Score(*rec.Transcript, q.Answer, q.Keywords), nil
}

// Summary aggregates the overall scores of every scorable recording.
type Summary struct {
	Recordings int     `json:"recordings"`
	Scored     int     `json:"scored"`
	Mean       float64 `json:"mean"`
	Median     float64 `json:"median"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	Completed  int     `json:"completed"`
}

// Summarize scores every recording that has a transcript and a matching question in snap.
func (s *Session) Summarize(snap bank.Snapshot) (Summary, error) {
	recs := s.Recordings()
	sum := Summary{Recordings: len(recs)}
	sum.Completed = snap.Progress(s.IsCompleted).Overall.Completed

	var overall []float64
	for _, rec := range recs {
		res, err := s.ScoreRecording(snap, rec.QuestionID)
		if err != nil {
			continue
		}
		overall = append(overall, float64(res.Overall))
	}
	sum.Scored = len(overall)
	if len(overall) == 0 {
		return sum, nil
	}

	var err error
	if sum.Mean, err = stats.Mean(overall); err != nil {
		return sum, fmt.Errorf("failed to compute mean: %w", err)
	}
	if sum.Median, err = stats.Median(overall); err != nil {
		return sum, fmt.Errorf("failed to compute median: %w", err)
	}
	if sum.Min, err = stats.Min(overall); err != nil {
		return sum, fmt.Errorf("failed to compute min: %w", err)
	}
	if sum.Max, err = stats.Max(overall); err != nil {
		return sum, fmt.Errorf("failed to compute max: %w", err)
	}
	sum.Mean, _ = stats.Round(sum.Mean, 1)
	return sum, nil
}
