package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dvloznov/financebot/internal/domain"
)

// ErrorReportRepository persists user-filed problem reports.
type ErrorReportRepository struct {
	store *Store
}

// NewErrorReportRepository creates a repository over the shared store.
func NewErrorReportRepository(store *Store) *ErrorReportRepository {
	return &ErrorReportRepository{store: store}
}

// InsertErrorReport writes one report.
func (r *ErrorReportRepository) InsertErrorReport(ctx context.Context, report *domain.ErrorReport) error {
	if _, err := r.store.db.Collection(errorsCollection).InsertOne(ctx, report); err != nil {
		return fmt.Errorf("InsertErrorReport: %w", err)
	}
	return nil
}

// ListErrorReports returns the newest reports first, capped at limit.
func (r *ErrorReportRepository) ListErrorReports(ctx context.Context, limit int64) ([]domain.ErrorReport, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "occurred_at", Value: -1}}).
		SetLimit(limit)

	cur, err := r.store.db.Collection(errorsCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("ListErrorReports: %w", err)
	}
	defer cur.Close(ctx)

	var reports []domain.ErrorReport
	if err := cur.All(ctx, &reports); err != nil {
		return nil, fmt.Errorf("ListErrorReports: decoding: %w", err)
	}
	return reports, nil
}
