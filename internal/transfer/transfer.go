// Package transfer reads and writes the files users exchange: company templates,
// recordings exports, individual recordings, and spreadsheet exports of a question bank.
package transfer

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/jonathan/interview-prep/internal/bank"
	"github.com/jonathan/interview-prep/internal/schemas"
	"github.com/jonathan/interview-prep/internal/types"
	schemafiles "github.com/jonathan/interview-prep/schemas"
)

// ErrNoRecordings is returned when there is nothing to export.
var ErrNoRecordings = errors.New("no recordings to export")

// ImportError indicates an import file that could not be accepted.
type ImportError struct {
	Reason string
	Err    error
}

func (e *ImportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid import file: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid import file: %s", e.Reason)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9가-힣]`)

// SanitizeFileName replaces every character other than ASCII letters, digits, and
// Hangul syllables with an underscore.
func SanitizeFileName(name string) string {
	return unsafeFileChars.ReplaceAllString(name, "_")
}

func timestamp(now time.Time) string {
	return now.UTC().Format("2006-01-02T15:04:05.000Z")
}

// ExportCompany builds the template file contents for a company.
func ExportCompany(c types.Company, now time.Time) types.CompanyTemplate {
	c = c.Clone()
	return types.CompanyTemplate{
		Name:             c.Name,
		Data:             &c.Data,
		CustomCategories: c.CustomCategories,
		ExportedAt:       timestamp(now),
	}
}

// EncodeTemplate renders a template as indented JSON.
func EncodeTemplate(t types.CompanyTemplate) ([]byte, error) {
	out, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode template: %w", err)
	}
	return out, nil
}

// ExportFileName returns the download name of a company template.
func ExportFileName(companyName string) string {
	return SanitizeFileName(companyName) + "_interview.json"
}

// ParseCompanyTemplate validates and decodes an import file. Nothing partial is returned
// on failure. totalQuestions is recomputed from the categories.
func ParseCompanyTemplate(raw []byte) (types.CompanyTemplate, error) {
	if !json.Valid(raw) {
		return types.CompanyTemplate{}, &ImportError{Reason: "not valid JSON"}
	}
	if err := schemas.ValidateDocument(schemafiles.CompanyTemplate, raw); err != nil {
		return types.CompanyTemplate{}, &ImportError{Reason: "does not match the company template format", Err: err}
	}

	var t types.CompanyTemplate
	if err := json.Unmarshal(raw, &t); err != nil {
		return types.CompanyTemplate{}, &ImportError{Reason: "could not decode", Err: err}
	}
	if t.Name == "" || t.Data == nil {
		return types.CompanyTemplate{}, &ImportError{Reason: "name and data are required"}
	}

	data, _ := bank.EnsureIDs(*t.Data)
	t.Data = &data
	return t, nil
}

// ExportRecordings builds the recordings export. Question text and category are filled in
// for recordings whose question still exists in snap.
func ExportRecordings(companyName string, recs []types.Recording, snap bank.Snapshot, now time.Time) (types.RecordingsExport, error) {
	if len(recs) == 0 {
		return types.RecordingsExport{}, ErrNoRecordings
	}
	if companyName == "" {
		companyName = "Unknown"
	}

	out := types.RecordingsExport{
		Company:    companyName,
		ExportedAt: timestamp(now),
		Recordings: make([]types.RecordingEntry, 0, len(recs)),
	}
	for _, rec := range recs {
		entry := types.RecordingEntry{
			QuestionID: rec.QuestionID,
			Transcript: rec.Transcript,
			Duration:   rec.Duration,
		}
		if q, ok := snap.Find(bank.ByID(rec.QuestionID)); ok {
			entry.Question = q.Question.Question
			entry.Category = q.Category
		}
		out.Recordings = append(out.Recordings, entry)
	}
	return out, nil
}

// RecordingsFileName returns the download name of a recordings export.
func RecordingsFileName(companyName string) string {
	if companyName == "" {
		companyName = "recordings"
	}
	return SanitizeFileName(companyName) + "_녹음.json"
}

var audioExtensions = map[string]string{
	"audio/webm":  ".webm",
	"audio/ogg":   ".ogg",
	"audio/wav":   ".wav",
	"audio/x-wav": ".wav",
	"audio/mpeg":  ".mp3",
	"audio/mp4":   ".m4a",
}

// RecordingFileName returns the download name of one recording's audio.
func RecordingFileName(rec types.Recording) string {
	ext, ok := audioExtensions[rec.MIMEType]
	if !ok {
		ext = ".bin"
	}
	return SanitizeFileName(rec.QuestionID) + ext
}
