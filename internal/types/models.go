package types

import "time"

// JobStatus is the lifecycle stage of a submitted artifact.
type JobStatus string

const (
	StatusUploaded     JobStatus = "uploaded"
	StatusProcessing   JobStatus = "processing"
	StatusTranscribing JobStatus = "transcribing"
	StatusAnalyzing    JobStatus = "analyzing"
	StatusCompleted    JobStatus = "completed"
	StatusFailed       JobStatus = "failed"
)

// Terminal reports whether no further transitions happen from s.
func (s JobStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

type Job struct {
	ID        string    `json:"job_id"`
	Status    JobStatus `json:"status"`
	Progress  int       `json:"progress"`
	Message   string    `json:"message"`
	Error     *string   `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Category is the coarse content class of an artifact.
type Category string

const (
	CategoryAudio    Category = "audio"
	CategoryVideo    Category = "video"
	CategoryImage    Category = "image"
	CategoryPDF      Category = "pdf"
	CategoryDocument Category = "document"
	CategoryUnknown  Category = "unknown"
)

// ExtractionOutcome is what a fallback chain hands to the orchestrator.
type ExtractionOutcome struct {
	Transcript   string   `json:"transcript"`
	StrategyUsed string   `json:"strategy_used"`
	Placeholder  bool     `json:"placeholder"`
	Attempts     []string `json:"attempts,omitempty"`
}

// SpeechOptions are passed through to speech providers.
type SpeechOptions struct {
	Language     string
	Diarize      bool
	SpeakerCount int
}
