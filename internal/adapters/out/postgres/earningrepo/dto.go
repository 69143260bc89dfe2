// Package earningrepo provides data transfer objects and mapping functions
// for seller earning persistence, including the predicate-scoped settlement
// promotion.
package earningrepo

import (
	"time"

	"marketplace/internal/core/domain/model/earning"
	"marketplace/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// EarningDTO represents the database structure for persisting earnings.
// The unique index on SubOrderID backs the one-earning-per-sub-order rule at
// the storage level.
type EarningDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	SellerID   uuid.UUID `gorm:"type:uuid;index"`
	SubOrderID uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	OrderID    uuid.UUID `gorm:"type:uuid;index"`

	Gross      int64
	Commission int64
	RateBp     int
	Net        int64

	Status        int       `gorm:"index"`
	AvailableDate time.Time `gorm:"index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName overrides GORM's default naming convention.
func (EarningDTO) TableName() string {
	return "earnings"
}

func fromDomain(aggregate *earning.Earning) EarningDTO {
	return EarningDTO{
		ID:            aggregate.ID().Bytes(),
		SellerID:      aggregate.SellerID().Bytes(),
		SubOrderID:    aggregate.SubOrderID().Bytes(),
		OrderID:       aggregate.OrderID().Bytes(),
		Gross:         aggregate.Gross().Int64(),
		Commission:    aggregate.Commission().Int64(),
		RateBp:        aggregate.Rate().BasisPoints(),
		Net:           aggregate.Net().Int64(),
		Status:        int(aggregate.Status()),
		AvailableDate: aggregate.AvailableDate(),
		CreatedAt:     aggregate.CreatedAt(),
		UpdatedAt:     aggregate.UpdatedAt(),
	}
}

func toDomain(dto EarningDTO) (*earning.Earning, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	sellerID, err := kernel.UUIDFromBytes(dto.SellerID[:])
	if err != nil {
		return nil, err
	}
	subOrderID, err := kernel.UUIDFromBytes(dto.SubOrderID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	gross, err := kernel.NewMoney(dto.Gross)
	if err != nil {
		return nil, err
	}
	commission, err := kernel.NewMoney(dto.Commission)
	if err != nil {
		return nil, err
	}
	net, err := kernel.NewMoney(dto.Net)
	if err != nil {
		return nil, err
	}
	rate, err := kernel.NewCommissionRate(dto.RateBp)
	if err != nil {
		return nil, err
	}

	return earning.RestoreEarning(
		id, sellerID, subOrderID, orderID,
		gross, commission, rate, net,
		earning.Status(dto.Status), dto.AvailableDate,
		dto.CreatedAt, dto.UpdatedAt)
}
