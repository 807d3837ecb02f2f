package distill

import (
	"context"
	"time"
)

// Record is a persisted extraction result.
type Record struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Mode        Mode      `json:"mode"`
	Title       string    `json:"title"`
	Markdown    string    `json:"markdown"`
	HTML        string    `json:"html,omitempty"`
	ContentHash string    `json:"contentHash"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Validate returns an error if the record contains invalid fields.
func (r *Record) Validate() error {
	if r.URL == "" {
		return Errorf(EINVALID, "record url required")
	}
	if r.Mode != ModeRaw && r.Mode != ModeReadable {
		return Errorf(EINVALID, "record mode %q invalid", r.Mode)
	}
	return nil
}

// NewRecord builds a Record from a Result.
func NewRecord(res *Result) *Record {
	return &Record{
		URL:      res.URL,
		Mode:     res.Mode,
		Title:    res.Title,
		Markdown: res.Markdown,
		HTML:     res.ArticleHTML(),
	}
}

// RecordFilter represents a filter for FindRecords.
type RecordFilter struct {
	URL  *string `json:"url"`
	Mode *Mode   `json:"mode"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RecordService represents a service for managing extraction history.
type RecordService interface {
	// CreateRecord stores a new record, assigning ID, hash and timestamp.
	CreateRecord(ctx context.Context, rec *Record) error

	// FindRecordByID retrieves a record by ID.
	// Returns ENOTFOUND if the record does not exist.
	FindRecordByID(ctx context.Context, id string) (*Record, error)

	// FindRecords retrieves records matching the filter, newest first.
	FindRecords(ctx context.Context, filter RecordFilter) ([]*Record, error)
}
