package postgres_test

import (
	"context"
	"testing"
	"time"

	"marketplace/internal/adapters/out/postgres"
	"marketplace/internal/adapters/out/postgres/earningrepo"
	"marketplace/internal/adapters/out/postgres/orderrepo"
	"marketplace/internal/core/domain/model/earning"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite verifies transaction semantics of the GORM
// unit of work against a real PostgreSQL instance.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *tcpostgres.PostgresContainer
	db        *gorm.DB
	factory   *postgres.GormUnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.ItemDTO{},
		&orderrepo.SubOrderDTO{},
		&earningrepo.EarningDTO{},
	))
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec(
		"TRUNCATE TABLE orders, order_items, sub_orders, earnings").Error)
	suite.factory = postgres.NewGormUnitOfWorkFactory(suite.db)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_PersistsWrites() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))

	testOrder := suite.createTestOrder()
	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))
	suite.Require().NoError(uow.Commit(ctx))

	suite.assertOrderCount(1)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_DiscardsWrites() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))

	testOrder := suite.createTestOrder()
	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))
	suite.Require().NoError(uow.Rollback(ctx))

	suite.assertOrderCount(0)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_WithoutBegin_ReturnsError() {
	ctx := context.Background()
	uow := suite.factory.Create()

	err := uow.Commit(ctx)
	suite.Require().ErrorIs(err, gorm.ErrInvalidTransaction)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_WithoutBegin_ReturnsError() {
	ctx := context.Background()
	uow := suite.factory.Create()

	err := uow.Rollback(ctx)
	suite.Require().ErrorIs(err, gorm.ErrInvalidTransaction)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestBegin_Twice_IsNoOp() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Rollback(ctx))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRepositories_ShareTransaction() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))

	testOrder := suite.createTestOrder()
	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))

	// Visible inside the transaction before commit.
	inTx, err := uow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(testOrder.ID(), inTx.ID())

	// Not yet visible outside it.
	suite.assertOrderCount(0)

	suite.Require().NoError(uow.Commit(ctx))
	suite.assertOrderCount(1)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestSplitWrites_CommitAtomically() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))

	testOrder := suite.createTestOrder()
	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))

	sellerID := kernel.NewUUID()
	subOrder := suite.createTestSubOrder(testOrder.ID(), sellerID)
	suite.Require().NoError(uow.SubOrderRepository().Add(ctx, subOrder))
	suite.Require().NoError(uow.EarningRepository().Add(ctx,
		suite.createTestEarning(sellerID, subOrder.ID(), testOrder.ID())))

	suite.Require().NoError(uow.Commit(ctx))

	subOrders, err := suite.readSubOrders(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Len(subOrders, 1)

	exists, err := suite.readEarningExists(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.True(exists)
}

// Helper methods

func (suite *UnitOfWorkIntegrationTestSuite) createTestOrder() *order.Order {
	sellerID := kernel.NewUUID()
	testOrder, err := order.NewOrder(
		kernel.NewUUID(), kernel.NewUUID(), suite.money(5000),
		[]order.Item{{
			ProductID: kernel.NewUUID(),
			SellerID:  &sellerID,
			Qty:       1,
			UnitPrice: suite.money(5000),
		}},
		"3 Quay Street", "ch_uow_1",
		time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC))
	suite.Require().NoError(err)
	return testOrder
}

func (suite *UnitOfWorkIntegrationTestSuite) createTestSubOrder(
	orderID kernel.UUID, sellerID kernel.UUID,
) *order.SubOrder {
	subOrder, err := order.NewSubOrder(
		kernel.NewUUID(), orderID, sellerID,
		[]order.Item{{
			ProductID: kernel.NewUUID(),
			SellerID:  &sellerID,
			Qty:       1,
			UnitPrice: suite.money(5000),
		}},
		suite.money(5000), order.StatusConfirmed,
		time.Date(2025, 6, 1, 8, 5, 0, 0, time.UTC))
	suite.Require().NoError(err)
	return subOrder
}

func (suite *UnitOfWorkIntegrationTestSuite) createTestEarning(
	sellerID, subOrderID, orderID kernel.UUID,
) *earning.Earning {
	rate, err := kernel.NewCommissionRate(1000)
	suite.Require().NoError(err)

	testEarning, err := earning.NewEarning(
		kernel.NewUUID(), sellerID, subOrderID, orderID,
		suite.money(5000), rate,
		time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 1, 8, 5, 0, 0, time.UTC))
	suite.Require().NoError(err)
	return testEarning
}

func (suite *UnitOfWorkIntegrationTestSuite) readSubOrders(
	ctx context.Context, orderID kernel.UUID,
) ([]*order.SubOrder, error) {
	var uow ports.UnitOfWork = suite.factory.Create()
	return uow.SubOrderRepository().GetAllForOrder(ctx, orderID)
}

func (suite *UnitOfWorkIntegrationTestSuite) readEarningExists(
	ctx context.Context, orderID kernel.UUID,
) (bool, error) {
	var uow ports.UnitOfWork = suite.factory.Create()
	return uow.EarningRepository().ExistsForOrder(ctx, orderID)
}

func (suite *UnitOfWorkIntegrationTestSuite) assertOrderCount(expected int64) {
	var count int64
	suite.Require().NoError(suite.db.Table("orders").Count(&count).Error)
	suite.Equal(expected, count)
}

func (suite *UnitOfWorkIntegrationTestSuite) money(v int64) kernel.Money {
	m, err := kernel.NewMoney(v)
	suite.Require().NoError(err)
	return m
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
