package earningrepo

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/core/domain/model/earning"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"

	"gorm.io/gorm"
)

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// GormEarningRepository implements EarningRepository using GORM.
type GormEarningRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// NewGormEarningRepository creates a new GORM earning repository.
func NewGormEarningRepository(db *gorm.DB, tracker aggregateTracker) *GormEarningRepository {
	return &GormEarningRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new earning to the database.
func (r *GormEarningRepository) Add(ctx context.Context, aggregate *earning.Earning) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an earning by ID.
func (r *GormEarningRepository) Get(ctx context.Context, id kernel.UUID) (*earning.Earning, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto EarningDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("earning", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// ExistsForOrder reports whether any earning was already carved out of the
// given parent order.
func (r *GormEarningRepository) ExistsForOrder(ctx context.Context, orderID kernel.UUID) (bool, error) {
	if err := orderID.Validate(); err != nil {
		return false, err
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&EarningDTO{}).
		Where("order_id = ?", orderID.Bytes()).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// PromoteDue moves every due pending earning to available in one statement.
// The RETURNING clause feeds the pass summary without a second read, and the
// status predicate makes overlapping passes skip each other's rows.
func (r *GormEarningRepository) PromoteDue(ctx context.Context, now time.Time) (ports.SettlementBatch, error) {
	rows, err := r.db.WithContext(ctx).Raw(`
		UPDATE earnings
		SET status = ?, updated_at = ?
		WHERE status = ? AND available_date <= ?
		RETURNING net
	`, int(earning.StatusAvailable), now, int(earning.StatusPending), now).Rows()
	if err != nil {
		return ports.SettlementBatch{}, err
	}
	defer rows.Close()

	var batch ports.SettlementBatch
	var totalNet int64

	for rows.Next() {
		var net int64
		if err = rows.Scan(&net); err != nil {
			return ports.SettlementBatch{}, err
		}
		batch.PromotedCount++
		totalNet += net
	}
	if err = rows.Err(); err != nil {
		return ports.SettlementBatch{}, err
	}

	batch.TotalNet, err = kernel.NewMoney(totalNet)
	if err != nil {
		return ports.SettlementBatch{}, err
	}

	return batch, nil
}
