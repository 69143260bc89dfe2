package earningrepo_test

import (
	"context"
	"testing"
	"time"

	"marketplace/internal/adapters/out/postgres/earningrepo"
	"marketplace/internal/core/domain/model/earning"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate interface{}) {
	m.Called(id, aggregate)
}

// EarningRepositoryIntegrationTestSuite provides integration tests for
// EarningRepository using PostgreSQL containers, covering the settlement
// promotion semantics end to end.
type EarningRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *earningrepo.GormEarningRepository
	tracker    *MockAggregateTracker
}

func (suite *EarningRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
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

	suite.Require().NoError(db.AutoMigrate(&earningrepo.EarningDTO{}))
}

func (suite *EarningRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE earnings").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = earningrepo.NewGormEarningRepository(suite.db, suite.tracker)
}

func (suite *EarningRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *EarningRepositoryIntegrationTestSuite) TestAddAndGet_RoundTrips() {
	ctx := context.Background()
	testEarning := suite.createTestEarning(kernel.NewUUID(),
		time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC), 7500)

	suite.tracker.On("TrackAggregate", testEarning.ID(), testEarning).Once()
	suite.Require().NoError(suite.repository.Add(ctx, testEarning))

	retrieved, err := suite.repository.Get(ctx, testEarning.ID())
	suite.Require().NoError(err)

	suite.Equal(testEarning.ID(), retrieved.ID())
	suite.Equal(testEarning.SellerID(), retrieved.SellerID())
	suite.Equal(int64(7500), retrieved.Gross().Int64())
	suite.Equal(int64(750), retrieved.Commission().Int64())
	suite.Equal(int64(6750), retrieved.Net().Int64())
	suite.Equal(earning.StatusPending, retrieved.Status())
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *EarningRepositoryIntegrationTestSuite) TestGet_NonExistent_ReturnsNotFoundError() {
	ctx := context.Background()

	retrieved, err := suite.repository.Get(ctx, kernel.NewUUID())

	suite.Nil(retrieved)
	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
}

func (suite *EarningRepositoryIntegrationTestSuite) TestAdd_DuplicateSubOrder_Fails() {
	ctx := context.Background()
	subOrderID := kernel.NewUUID()

	first := suite.createTestEarningForSubOrder(kernel.NewUUID(), subOrderID,
		time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC), 5000)
	second := suite.createTestEarningForSubOrder(kernel.NewUUID(), subOrderID,
		time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC), 5000)

	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)
	suite.Require().NoError(suite.repository.Add(ctx, first))
	suite.Require().Error(suite.repository.Add(ctx, second))
	suite.assertEarningCount(1)
}

func (suite *EarningRepositoryIntegrationTestSuite) TestExistsForOrder() {
	ctx := context.Background()
	orderID := kernel.NewUUID()
	testEarning := suite.createTestEarning(orderID,
		time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC), 5000)

	exists, err := suite.repository.ExistsForOrder(ctx, orderID)
	suite.Require().NoError(err)
	suite.False(exists)

	suite.tracker.On("TrackAggregate", testEarning.ID(), testEarning).Once()
	suite.Require().NoError(suite.repository.Add(ctx, testEarning))

	exists, err = suite.repository.ExistsForOrder(ctx, orderID)
	suite.Require().NoError(err)
	suite.True(exists)
}

func (suite *EarningRepositoryIntegrationTestSuite) TestPromoteDue_PromotesOnlyDuePending() {
	ctx := context.Background()
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	dueA := suite.createTestEarning(kernel.NewUUID(), now.AddDate(0, 0, -2), 7500)
	dueB := suite.createTestEarning(kernel.NewUUID(), now.AddDate(0, 0, -1), 2500)
	future := suite.createTestEarning(kernel.NewUUID(), now.AddDate(0, 0, 5), 9000)
	alreadyAvailable := suite.createTestEarning(kernel.NewUUID(), now.AddDate(0, 0, -3), 4000)
	suite.Require().NoError(alreadyAvailable.MakeAvailable(now.AddDate(0, 0, -1)))

	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)
	for _, e := range []*earning.Earning{dueA, dueB, future, alreadyAvailable} {
		suite.Require().NoError(suite.repository.Add(ctx, e))
	}

	batch, err := suite.repository.PromoteDue(ctx, now)
	suite.Require().NoError(err)

	// 7500 and 2500 gross at 10% commission net to 6750 and 2250.
	suite.Equal(int64(2), batch.PromotedCount)
	suite.Equal(int64(9000), batch.TotalNet.Int64())

	promoted, err := suite.repository.Get(ctx, dueA.ID())
	suite.Require().NoError(err)
	suite.Equal(earning.StatusAvailable, promoted.Status())

	untouched, err := suite.repository.Get(ctx, future.ID())
	suite.Require().NoError(err)
	suite.Equal(earning.StatusPending, untouched.Status())
}

func (suite *EarningRepositoryIntegrationTestSuite) TestPromoteDue_SecondPassIsEmpty() {
	ctx := context.Background()
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	due := suite.createTestEarning(kernel.NewUUID(), now.AddDate(0, 0, -1), 7500)
	suite.tracker.On("TrackAggregate", due.ID(), due).Once()
	suite.Require().NoError(suite.repository.Add(ctx, due))

	first, err := suite.repository.PromoteDue(ctx, now)
	suite.Require().NoError(err)
	suite.Equal(int64(1), first.PromotedCount)

	second, err := suite.repository.PromoteDue(ctx, now)
	suite.Require().NoError(err)
	suite.Equal(int64(0), second.PromotedCount)
	suite.Equal(int64(0), second.TotalNet.Int64())
}

// Helper methods

func (suite *EarningRepositoryIntegrationTestSuite) createTestEarning(
	orderID kernel.UUID, availableDate time.Time, gross int64,
) *earning.Earning {
	return suite.createTestEarningForSubOrder(orderID, kernel.NewUUID(), availableDate, gross)
}

func (suite *EarningRepositoryIntegrationTestSuite) createTestEarningForSubOrder(
	orderID kernel.UUID, subOrderID kernel.UUID, availableDate time.Time, gross int64,
) *earning.Earning {
	grossMoney, err := kernel.NewMoney(gross)
	suite.Require().NoError(err)
	rate, err := kernel.NewCommissionRate(1000)
	suite.Require().NoError(err)

	testEarning, err := earning.NewEarning(
		kernel.NewUUID(), kernel.NewUUID(), subOrderID, orderID,
		grossMoney, rate, availableDate,
		time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	suite.Require().NoError(err)
	return testEarning
}

func (suite *EarningRepositoryIntegrationTestSuite) assertEarningCount(expected int64) {
	var count int64
	suite.Require().NoError(suite.db.Table("earnings").Count(&count).Error)
	suite.Equal(expected, count)
}

func TestEarningRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(EarningRepositoryIntegrationTestSuite))
}
