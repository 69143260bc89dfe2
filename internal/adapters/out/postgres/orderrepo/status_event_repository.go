package orderrepo

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"gorm.io/gorm"
)

// GormStatusEventRepository implements StatusEventRepository using GORM.
// It runs on the root connection, not inside a unit of work: history appends
// happen after the status transaction commits and must not reopen it.
type GormStatusEventRepository struct {
	db *gorm.DB
}

// NewGormStatusEventRepository creates a new GORM status event repository.
func NewGormStatusEventRepository(db *gorm.DB) *GormStatusEventRepository {
	return &GormStatusEventRepository{db: db}
}

// Append stores one history record.
func (r *GormStatusEventRepository) Append(ctx context.Context, event order.StatusEvent) error {
	if err := event.ID.Validate(); err != nil {
		return err
	}

	dto := eventFromDomain(event)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// GetTimeline retrieves the history of one parent order, oldest first.
func (r *GormStatusEventRepository) GetTimeline(ctx context.Context, orderID kernel.UUID) ([]order.StatusEvent, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []StatusEventDTO
	err := r.db.WithContext(ctx).
		Order("occurred_at, id").
		Find(&dtos, "order_id = ?", orderID.Bytes()).Error
	if err != nil {
		return nil, err
	}

	events := make([]order.StatusEvent, 0, len(dtos))
	for _, dto := range dtos {
		event, mapErr := eventToDomain(dto)
		if mapErr != nil {
			return nil, mapErr
		}
		events = append(events, event)
	}

	return events, nil
}
