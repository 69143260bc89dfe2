package commands_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"marketplace/internal/core/application/events"
	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/earning"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) Lookup(ctx context.Context, id kernel.UUID) (order.Lookup, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(order.Lookup), args.Error(1)
}

type MockSubOrderRepository struct{ mock.Mock }

func (m *MockSubOrderRepository) Add(ctx context.Context, s *order.SubOrder) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSubOrderRepository) Update(ctx context.Context, s *order.SubOrder) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSubOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.SubOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.SubOrder), args.Error(1)
}

func (m *MockSubOrderRepository) GetAllForOrder(ctx context.Context, orderID kernel.UUID) ([]*order.SubOrder, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.SubOrder), args.Error(1)
}

type MockEarningRepository struct{ mock.Mock }

func (m *MockEarningRepository) Add(ctx context.Context, e *earning.Earning) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEarningRepository) Get(ctx context.Context, id kernel.UUID) (*earning.Earning, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*earning.Earning), args.Error(1)
}

func (m *MockEarningRepository) ExistsForOrder(ctx context.Context, orderID kernel.UUID) (bool, error) {
	args := m.Called(ctx, orderID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEarningRepository) PromoteDue(ctx context.Context, now time.Time) (ports.SettlementBatch, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(ports.SettlementBatch), args.Error(1)
}

type MockStatusEventRepository struct{ mock.Mock }

func (m *MockStatusEventRepository) Append(ctx context.Context, event order.StatusEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockStatusEventRepository) GetTimeline(ctx context.Context, orderID kernel.UUID) ([]order.StatusEvent, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.StatusEvent), args.Error(1)
}

type MockBroadcaster struct{ mock.Mock }

func (m *MockBroadcaster) Broadcast(ctx context.Context, event order.StatusEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Notify(ctx context.Context, notification ports.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

// MockUoW satisfies OrderUoW, SplitUoW and EarningUoW at once.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) SubOrderRepository() ports.SubOrderRepository {
	args := m.Called()
	return args.Get(0).(ports.SubOrderRepository)
}

func (m *MockUoW) EarningRepository() ports.EarningRepository {
	args := m.Called()
	return args.Get(0).(ports.EarningRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockSplitUoWFactory struct{ mock.Mock }

func (m *MockSplitUoWFactory) Create() commands.SplitUoW {
	args := m.Called()
	return args.Get(0).(commands.SplitUoW)
}

type MockEarningUoWFactory struct{ mock.Mock }

func (m *MockEarningUoWFactory) Create() commands.EarningUoW {
	args := m.Called()
	return args.Get(0).(commands.EarningUoW)
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// quietDispatcher accepts any broadcast or notification without asserting.
func quietDispatcher() events.Dispatcher {
	broadcaster := new(MockBroadcaster)
	notifier := new(MockNotifier)
	broadcaster.On("Broadcast", mock.Anything, mock.Anything).Return(nil).Maybe()
	notifier.On("Notify", mock.Anything, mock.Anything).Return(nil).Maybe()
	return events.NewDispatcher(broadcaster, notifier, testLogger())
}

func testMoney(t *testing.T, v int64) kernel.Money {
	t.Helper()
	m, err := kernel.NewMoney(v)
	require.NoError(t, err)
	return m
}

func testRate(t *testing.T, bp int) kernel.CommissionRate {
	t.Helper()
	r, err := kernel.NewCommissionRate(bp)
	require.NoError(t, err)
	return r
}

func testItem(t *testing.T, sellerID *kernel.UUID, qty int, unitPrice int64) order.Item {
	t.Helper()
	return order.Item{
		ProductID: kernel.NewUUID(),
		SellerID:  sellerID,
		Qty:       qty,
		UnitPrice: testMoney(t, unitPrice),
	}
}

func orderInStatus(t *testing.T, status order.Status) *order.Order {
	t.Helper()
	sellerA := kernel.NewUUID()
	sellerB := kernel.NewUUID()

	o, err := order.NewOrder(
		kernel.NewUUID(), kernel.NewUUID(), testMoney(t, 15000),
		[]order.Item{
			testItem(t, &sellerA, 1, 7500),
			testItem(t, &sellerB, 3, 2500),
		},
		"9 Harbor Road", "ch_test_999",
		time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	if status != order.StatusPending {
		_, err = o.ChangeStatus(status, kernel.NewUUID(), "", order.PolicyLenient, time.Now())
		require.NoError(t, err)
	}
	return o
}

func subOrderInStatus(t *testing.T, status order.Status) *order.SubOrder {
	t.Helper()
	sellerID := kernel.NewUUID()

	s, err := order.NewSubOrder(
		kernel.NewUUID(), kernel.NewUUID(), sellerID,
		[]order.Item{testItem(t, &sellerID, 1, 7500)},
		testMoney(t, 7500), status,
		time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	return s
}
