package orderrepo

import (
	"context"
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"gorm.io/gorm"
)

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order and its basket lines to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := orderFromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	itemDTOs := itemsFromDomain(aggregate.Items(), dto.ID, nil)
	if err := r.db.WithContext(ctx).Create(&itemDTOs).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing order to the database. Basket lines are immutable
// after checkout, so only the order row is written.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := orderFromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("id = ?", dto.ID).Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	var itemDTOs []ItemDTO
	err := r.db.WithContext(ctx).
		Order("id").
		Find(&itemDTOs, "order_id = ? AND sub_order_id IS NULL", dto.ID).Error
	if err != nil {
		return nil, err
	}

	return orderToDomain(dto, itemDTOs)
}

// Lookup resolves an id against parent orders first, sub-orders second.
func (r *GormOrderRepository) Lookup(ctx context.Context, id kernel.UUID) (order.Lookup, error) {
	aggregate, err := r.Get(ctx, id)
	if err == nil {
		return order.FromOrder(aggregate), nil
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return order.Lookup{}, err
	}

	subOrder, err := getSubOrder(ctx, r.db, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return order.Lookup{}, errs.NewObjectNotFoundError("order", id.String())
	}
	if err != nil {
		return order.Lookup{}, err
	}

	return order.FromSubOrder(subOrder), nil
}

// getSubOrder loads one sub-order with its item snapshot. Returns
// gorm.ErrRecordNotFound untranslated so callers decide how to surface it.
func getSubOrder(ctx context.Context, db *gorm.DB, id kernel.UUID) (*order.SubOrder, error) {
	var dto SubOrderDTO
	if err := db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		return nil, err
	}

	var itemDTOs []ItemDTO
	if err := db.WithContext(ctx).Order("id").Find(&itemDTOs, "sub_order_id = ?", dto.ID).Error; err != nil {
		return nil, err
	}

	return subOrderToDomain(dto, itemDTOs)
}
