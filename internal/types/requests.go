package types

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ScoreRequest asks for a transcript to be scored against a reference answer.
type ScoreRequest struct {
	Transcript string  `json:"transcript" validate:"required"`
	Answer     string  `json:"answer"`
	Keywords   *string `json:"keywords,omitempty"`
}

// NameRequest carries a single name, used for companies, categories and taxonomy entries.
type NameRequest struct {
	Name string `json:"name" validate:"required,min=1"`
}

// QuestionRequest creates or replaces a question.
type QuestionRequest struct {
	Category    string `json:"category" validate:"required"`
	Question    string `json:"question" validate:"required"`
	Answer      string `json:"answer" validate:"required"`
	Keywords    string `json:"keywords"`
	IsFollowup  bool   `json:"isFollowup"`
	InsertAfter string `json:"insertAfter,omitempty"` // question id
}

// KeywordsRequest replaces the keyword string of a question.
type KeywordsRequest struct {
	Keywords string `json:"keywords"`
}

// MoveRequest relocates a question relative to a target question.
type MoveRequest struct {
	Target     string `json:"target" validate:"required"`
	AsFollowup bool   `json:"asFollowup"`
}

// TranscriptChunk is one piece of recognized speech delivered during a recording.
type TranscriptChunk struct {
	Text  string `json:"text"`
	Final bool   `json:"final"`
}

// StopRequest finishes a recording.
type StopRequest struct {
	Duration int `json:"duration" validate:"gte=0"`
}

// Validate validates the ScoreRequest using the validator.
func (r *ScoreRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the NameRequest using the validator.
func (r *NameRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the QuestionRequest using the validator.
func (r *QuestionRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the MoveRequest using the validator.
func (r *MoveRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the StopRequest using the validator.
func (r *StopRequest) Validate() error {
	return validate.Struct(r)
}
