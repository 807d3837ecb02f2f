package mock

import (
	"context"

	"github.com/fwojciec/distill"
)

var _ distill.RecordService = (*RecordService)(nil)

// RecordService is a mock implementation of distill.RecordService.
type RecordService struct {
	CreateRecordFn   func(ctx context.Context, rec *distill.Record) error
	FindRecordByIDFn func(ctx context.Context, id string) (*distill.Record, error)
	FindRecordsFn    func(ctx context.Context, filter distill.RecordFilter) ([]*distill.Record, error)
}

func (s *RecordService) CreateRecord(ctx context.Context, rec *distill.Record) error {
	return s.CreateRecordFn(ctx, rec)
}

func (s *RecordService) FindRecordByID(ctx context.Context, id string) (*distill.Record, error) {
	return s.FindRecordByIDFn(ctx, id)
}

func (s *RecordService) FindRecords(ctx context.Context, filter distill.RecordFilter) ([]*distill.Record, error) {
	return s.FindRecordsFn(ctx, filter)
}
