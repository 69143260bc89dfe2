// Package orderrepo provides data transfer objects and mapping functions for
// order, sub-order and status event persistence. It implements the repository
// pattern for the order side of the domain, converting between aggregates and
// their relational representation.
package orderrepo

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Basket lines live in their own table; see ItemDTO.
type OrderDTO struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	BuyerID uuid.UUID `gorm:"type:uuid;index"`
	Amount  int64
	Status  int `gorm:"index"`

	ShippingAddress string
	PaymentRef      string
	TrackingNumber  string
	Carrier         string

	CreatedAt   time.Time
	ShippedAt   *time.Time
	DeliveredAt *time.Time
}

// TableName overrides GORM's default naming convention.
func (OrderDTO) TableName() string {
	return "orders"
}

// ItemDTO is one basket line. Parent order lines have a nil SubOrderID; the
// commission split copies each seller's lines with SubOrderID set, so a
// sub-order's basket is a snapshot independent of the parent rows.
type ItemDTO struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID  `gorm:"type:uuid;index"`
	SubOrderID *uuid.UUID `gorm:"type:uuid;index"`
	ProductID  uuid.UUID  `gorm:"type:uuid"`
	SellerID   *uuid.UUID `gorm:"type:uuid;index"`
	Qty        int
	UnitPrice  int64
}

// TableName overrides GORM's default naming convention.
func (ItemDTO) TableName() string {
	return "order_items"
}

// SubOrderDTO represents the database structure for seller sub-orders.
type SubOrderDTO struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID  uuid.UUID `gorm:"type:uuid;index"`
	SellerID uuid.UUID `gorm:"type:uuid;index"`
	Subtotal int64
	Status   int `gorm:"index"`

	TrackingNumber string
	Carrier        string
	CreatedAt      time.Time
}

// TableName overrides GORM's default naming convention.
func (SubOrderDTO) TableName() string {
	return "sub_orders"
}

// StatusEventDTO is one row of the append-only audit trail.
type StatusEventDTO struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID        uuid.UUID  `gorm:"type:uuid;index"`
	SubOrderID     *uuid.UUID `gorm:"type:uuid"`
	PreviousStatus int
	NewStatus      int
	ActorID        uuid.UUID `gorm:"type:uuid"`
	Note           string
	TrackingNumber string
	Carrier        string
	OccurredAt     time.Time `gorm:"index"`
}

// TableName overrides GORM's default naming convention.
func (StatusEventDTO) TableName() string {
	return "order_status_events"
}

func orderFromDomain(aggregate *order.Order) OrderDTO {
	return OrderDTO{
		ID:              aggregate.ID().Bytes(),
		BuyerID:         aggregate.BuyerID().Bytes(),
		Amount:          aggregate.Amount().Int64(),
		Status:          int(aggregate.Status()),
		ShippingAddress: aggregate.ShippingAddress(),
		PaymentRef:      aggregate.PaymentRef(),
		TrackingNumber:  aggregate.TrackingNumber(),
		Carrier:         aggregate.Carrier(),
		CreatedAt:       aggregate.CreatedAt(),
		ShippedAt:       aggregate.ShippedAt(),
		DeliveredAt:     aggregate.DeliveredAt(),
	}
}

func orderToDomain(dto OrderDTO, itemDTOs []ItemDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	buyerID, err := kernel.UUIDFromBytes(dto.BuyerID[:])
	if err != nil {
		return nil, err
	}
	amount, err := kernel.NewMoney(dto.Amount)
	if err != nil {
		return nil, err
	}
	items, err := itemsToDomain(itemDTOs)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(
		id, buyerID, amount, order.Status(dto.Status), items,
		dto.ShippingAddress, dto.PaymentRef, dto.TrackingNumber, dto.Carrier,
		dto.CreatedAt, dto.ShippedAt, dto.DeliveredAt)
}

func itemsFromDomain(items []order.Item, orderID uuid.UUID, subOrderID *uuid.UUID) []ItemDTO {
	dtos := make([]ItemDTO, 0, len(items))
	for _, item := range items {
		dto := ItemDTO{
			ID:         uuid.New(),
			OrderID:    orderID,
			SubOrderID: subOrderID,
			ProductID:  item.ProductID.Bytes(),
			Qty:        item.Qty,
			UnitPrice:  item.UnitPrice.Int64(),
		}
		if item.SellerID != nil {
			raw := item.SellerID.Bytes()
			dto.SellerID = &raw
		}
		dtos = append(dtos, dto)
	}
	return dtos
}

func itemsToDomain(dtos []ItemDTO) ([]order.Item, error) {
	items := make([]order.Item, 0, len(dtos))
	for _, dto := range dtos {
		productID, err := kernel.UUIDFromBytes(dto.ProductID[:])
		if err != nil {
			return nil, err
		}
		unitPrice, err := kernel.NewMoney(dto.UnitPrice)
		if err != nil {
			return nil, err
		}

		item := order.Item{
			ProductID: productID,
			Qty:       dto.Qty,
			UnitPrice: unitPrice,
		}
		if dto.SellerID != nil {
			sellerID, sErr := kernel.UUIDFromBytes((*dto.SellerID)[:])
			if sErr != nil {
				return nil, sErr
			}
			item.SellerID = &sellerID
		}
		items = append(items, item)
	}
	return items, nil
}

func subOrderFromDomain(aggregate *order.SubOrder) SubOrderDTO {
	return SubOrderDTO{
		ID:             aggregate.ID().Bytes(),
		OrderID:        aggregate.OrderID().Bytes(),
		SellerID:       aggregate.SellerID().Bytes(),
		Subtotal:       aggregate.Subtotal().Int64(),
		Status:         int(aggregate.Status()),
		TrackingNumber: aggregate.TrackingNumber(),
		Carrier:        aggregate.Carrier(),
		CreatedAt:      aggregate.CreatedAt(),
	}
}

func subOrderToDomain(dto SubOrderDTO, itemDTOs []ItemDTO) (*order.SubOrder, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	sellerID, err := kernel.UUIDFromBytes(dto.SellerID[:])
	if err != nil {
		return nil, err
	}
	subtotal, err := kernel.NewMoney(dto.Subtotal)
	if err != nil {
		return nil, err
	}
	items, err := itemsToDomain(itemDTOs)
	if err != nil {
		return nil, err
	}

	return order.RestoreSubOrder(
		id, orderID, sellerID, items, subtotal, order.Status(dto.Status),
		dto.TrackingNumber, dto.Carrier, dto.CreatedAt)
}

func eventFromDomain(event order.StatusEvent) StatusEventDTO {
	dto := StatusEventDTO{
		ID:             event.ID.Bytes(),
		OrderID:        event.OrderID.Bytes(),
		PreviousStatus: int(event.Previous),
		NewStatus:      int(event.New),
		ActorID:        event.ActorID.Bytes(),
		Note:           event.Note,
		TrackingNumber: event.TrackingNumber,
		Carrier:        event.Carrier,
		OccurredAt:     event.OccurredAt,
	}
	if event.SubOrderID != nil {
		raw := event.SubOrderID.Bytes()
		dto.SubOrderID = &raw
	}
	return dto
}

func eventToDomain(dto StatusEventDTO) (order.StatusEvent, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return order.StatusEvent{}, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return order.StatusEvent{}, err
	}
	actorID, err := kernel.UUIDFromBytes(dto.ActorID[:])
	if err != nil {
		return order.StatusEvent{}, err
	}

	event := order.StatusEvent{
		ID:             id,
		OrderID:        orderID,
		Previous:       order.Status(dto.PreviousStatus),
		New:            order.Status(dto.NewStatus),
		ActorID:        actorID,
		Note:           dto.Note,
		TrackingNumber: dto.TrackingNumber,
		Carrier:        dto.Carrier,
		OccurredAt:     dto.OccurredAt,
	}
	if dto.SubOrderID != nil {
		subOrderID, sErr := kernel.UUIDFromBytes((*dto.SubOrderID)[:])
		if sErr != nil {
			return order.StatusEvent{}, sErr
		}
		event.SubOrderID = &subOrderID
	}
	return event, nil
}
