package sqlite

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/distill"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var (
	_ distill.RecordService = (*RecordService)(nil)
	_ distill.ResultWriter  = (*RecordService)(nil)
)

// RecordService implements distill.RecordService using SQLite.
// It also records successful results as a distill.ResultWriter.
type RecordService struct {
	db *DB
}

// NewRecordService creates a new RecordService.
func NewRecordService(db *DB) *RecordService {
	return &RecordService{db: db}
}

// hashContent computes xxHash of content and returns hex string.
func hashContent(content string) string {
	h := xxhash.Sum64String(content)
	b := make([]byte, 8)
	b[0] = byte(h >> 56)
	b[1] = byte(h >> 48)
	b[2] = byte(h >> 40)
	b[3] = byte(h >> 32)
	b[4] = byte(h >> 24)
	b[5] = byte(h >> 16)
	b[6] = byte(h >> 8)
	b[7] = byte(h)
	return hex.EncodeToString(b)
}

// CreateRecord stores a new record.
func (s *RecordService) CreateRecord(ctx context.Context, rec *distill.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	rec.ID = uuid.New().String()
	rec.CreatedAt = time.Now().UTC()
	rec.ContentHash = hashContent(rec.Markdown)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO records (id, url, mode, title, markdown, html, content_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.URL, string(rec.Mode), rec.Title, rec.Markdown, rec.HTML, rec.ContentHash,
		formatTime(rec.CreatedAt))

	return err
}

// WriteResult stores res as a new record.
func (s *RecordService) WriteResult(ctx context.Context, res *distill.Result) error {
	return s.CreateRecord(ctx, distill.NewRecord(res))
}

// FindRecordByID retrieves a record by ID.
func (s *RecordService) FindRecordByID(ctx context.Context, id string) (*distill.Record, error) {
	rec, err := scanRecord(s.db.QueryRowContext(ctx, `
		SELECT id, url, mode, title, markdown, html, content_hash, created_at
		FROM records
		WHERE id = ?
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, distill.Errorf(distill.ENOTFOUND, "record not found")
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// FindRecords retrieves records matching the filter, newest first.
func (s *RecordService) FindRecords(ctx context.Context, filter distill.RecordFilter) ([]*distill.Record, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, url, mode, title, markdown, html, content_hash, created_at FROM records WHERE 1=1")

	if filter.URL != nil {
		query.WriteString(" AND url = ?")
		args = append(args, *filter.URL)
	}
	if filter.Mode != nil {
		query.WriteString(" AND mode = ?")
		args = append(args, string(*filter.Mode))
	}

	query.WriteString(" ORDER BY created_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []*distill.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}

	return recs, rows.Err()
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*distill.Record, error) {
	var rec distill.Record
	var mode, createdAt string

	if err := row.Scan(&rec.ID, &rec.URL, &mode, &rec.Title, &rec.Markdown, &rec.HTML,
		&rec.ContentHash, &createdAt); err != nil {
		return nil, err
	}

	rec.Mode = distill.Mode(mode)
	var err error
	rec.CreatedAt, err = parseTime(createdAt, "created_at")
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
