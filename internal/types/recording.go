package types

import "time"

// Recording is a captured spoken answer for one question. Recordings live only for the session.
type Recording struct {
	QuestionID string    `json:"questionId"`
	Duration   int       `json:"duration"` // seconds
	MIMEType   string    `json:"mimeType"`
	Audio      []byte    `json:"-"`
	Transcript *string   `json:"transcript"`
	CreatedAt  time.Time `json:"createdAt"`
}

// CompanyTemplate is the import/export file format for one company.
// Data is a pointer so a missing "data" field is distinguishable from an empty bank.
type CompanyTemplate struct {
	Name             string        `json:"name"`
	Data             *QuestionBank `json:"data"`
	CustomCategories *Taxonomy     `json:"customCategories"`
	ExportedAt       string        `json:"exportedAt,omitempty"`
}

// RecordingsExport is the file format for exporting session recordings.
type RecordingsExport struct {
	Company    string           `json:"company"`
	ExportedAt string           `json:"exportedAt"`
	Recordings []RecordingEntry `json:"recordings"`
}

// RecordingEntry is one recording in a RecordingsExport.
type RecordingEntry struct {
	QuestionID string  `json:"questionId"`
	Question   string  `json:"question,omitempty"`
	Category   string  `json:"category,omitempty"`
	Transcript *string `json:"transcript"`
	Duration   int     `json:"duration"`
}
