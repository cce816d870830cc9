package entity

import (
	"time"
)

// ImageInput is the uploaded photo as received from the form. It lives for one request only.
type ImageInput struct {
	Filename    string
	ContentType string
	Data        []byte
}

func (i ImageInput) Empty() bool {
	return len(i.Data) == 0
}

// PreparedImage is what actually goes to the model.
type PreparedImage struct {
	Data     []byte
	MIMEType string
	Format   string
	Width    int
	Height   int
	Resized  bool
}

// AnalysisResult holds the model's report. The text is kept exactly as returned
// and cannot be changed after construction.
type AnalysisResult struct {
	id        string
	text      string
	model     string
	elapsed   time.Duration
	createdAt time.Time
}

func NewAnalysisResult(id, text, model string, elapsed time.Duration) *AnalysisResult {
	return &AnalysisResult{
		id:        id,
		text:      text,
		model:     model,
		elapsed:   elapsed,
		createdAt: time.Now(),
	}
}

func (r *AnalysisResult) ID() string {
	return r.id
}

func (r *AnalysisResult) Text() string {
	return r.text
}

func (r *AnalysisResult) Model() string {
	return r.model
}

func (r *AnalysisResult) Elapsed() time.Duration {
	return r.elapsed
}

func (r *AnalysisResult) CreatedAt() time.Time {
	return r.createdAt
}

type AnalyzeResponse struct {
	ID          string  `json:"id"`
	Report      string  `json:"report"`
	Model       string  `json:"model"`
	TookSeconds float64 `json:"took_seconds"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
