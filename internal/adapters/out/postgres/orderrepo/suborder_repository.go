package orderrepo

import (
	"context"
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormSubOrderRepository implements SubOrderRepository using GORM.
type GormSubOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// NewGormSubOrderRepository creates a new GORM sub-order repository.
func NewGormSubOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormSubOrderRepository {
	return &GormSubOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new sub-order along with a snapshot of the seller's item rows.
func (r *GormSubOrderRepository) Add(ctx context.Context, aggregate *order.SubOrder) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := subOrderFromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	subID := dto.ID
	itemDTOs := itemsFromDomain(aggregate.Items(), dto.OrderID, &subID)
	if err := r.db.WithContext(ctx).Create(&itemDTOs).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing sub-order to the database.
func (r *GormSubOrderRepository) Update(ctx context.Context, aggregate *order.SubOrder) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := subOrderFromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&SubOrderDTO{}).Where("id = ?", dto.ID).Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a sub-order by ID.
func (r *GormSubOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.SubOrder, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	subOrder, err := getSubOrder(ctx, r.db, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewObjectNotFoundError("subOrder", id.String())
	}
	if err != nil {
		return nil, err
	}

	return subOrder, nil
}

// GetAllForOrder retrieves the sub-orders carved out of one parent order.
func (r *GormSubOrderRepository) GetAllForOrder(ctx context.Context, orderID kernel.UUID) ([]*order.SubOrder, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []SubOrderDTO
	err := r.db.WithContext(ctx).
		Order("created_at, id").
		Find(&dtos, "order_id = ?", orderID.Bytes()).Error
	if err != nil {
		return nil, err
	}

	subOrders := make([]*order.SubOrder, 0, len(dtos))
	for _, dto := range dtos {
		var itemDTOs []ItemDTO
		if err = r.db.WithContext(ctx).Order("id").Find(&itemDTOs, "sub_order_id = ?", dto.ID).Error; err != nil {
			return nil, err
		}

		subOrder, mapErr := subOrderToDomain(dto, itemDTOs)
		if mapErr != nil {
			return nil, mapErr
		}
		subOrders = append(subOrders, subOrder)
	}

	return subOrders, nil
}
