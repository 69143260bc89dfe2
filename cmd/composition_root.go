package cmd

import (
	"log/slog"

	"marketplace/internal/adapters/out/postgres"
	"marketplace/internal/adapters/out/postgres/orderrepo"
	"marketplace/internal/core/application/events"
	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory

	dispatcher events.Dispatcher
	policy     order.TransitionPolicy
	rate       kernel.CommissionRate
	holdDays   int
	logger     *slog.Logger
}

func NewCompositionRoot(
	configs Config,
	gormDB *gorm.DB,
	broadcaster ports.Broadcaster,
	notifier ports.Notifier,
	logger *slog.Logger,
) (CompositionRoot, error) {
	rate, err := kernel.NewCommissionRate(configs.CommissionRateBp)
	if err != nil {
		return CompositionRoot{}, err
	}

	policy, err := order.PolicyFromString(configs.TransitionPolicy)
	if err != nil {
		return CompositionRoot{}, err
	}

	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		dispatcher: events.NewDispatcher(broadcaster, notifier, logger),
		policy:     policy,
		rate:       rate,
		holdDays:   configs.EarningHoldDays,
		logger:     logger,
	}, nil
}

func (c *CompositionRoot) CreateUpdateOrderStatusCommandHandler() commands.UpdateOrderStatusCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpdateOrderStatusCommandHandler(
		f,
		c.createStatusEventRepository(),
		c.dispatcher,
		c.CreateSplitOrderCommandHandler(),
		c.policy,
		c.logger,
	)
}

func (c *CompositionRoot) CreateAddTrackingCommandHandler() commands.AddTrackingCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewAddTrackingCommandHandler(
		f,
		c.createStatusEventRepository(),
		c.dispatcher,
		c.logger,
	)
}

func (c *CompositionRoot) CreateSplitOrderCommandHandler() commands.SplitOrderCommandHandler {
	var f commands.SplitUoWFactory = FuncSplitUoWFactory(func() commands.SplitUoW {
		return c.uowFactory.Create()
	})
	return commands.NewSplitOrderCommandHandler(f, c.rate, c.holdDays)
}

func (c *CompositionRoot) CreateRunSettlementPassCommandHandler() commands.RunSettlementPassCommandHandler {
	var f commands.EarningUoWFactory = FuncEarningUoWFactory(func() commands.EarningUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRunSettlementPassCommandHandler(f)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderTimelineQueryHandler() queries.GetOrderTimelineQueryHandler {
	return queries.NewGetOrderTimelineQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.gormDB)
}

// createStatusEventRepository returns the history repository on the root
// connection. History appends happen after the primary transaction commits,
// so they never join it.
func (c *CompositionRoot) createStatusEventRepository() ports.StatusEventRepository {
	return orderrepo.NewGormStatusEventRepository(c.gormDB)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncSplitUoWFactory func() commands.SplitUoW

func (f FuncSplitUoWFactory) Create() commands.SplitUoW {
	return f()
}

type FuncEarningUoWFactory func() commands.EarningUoW

func (f FuncEarningUoWFactory) Create() commands.EarningUoW {
	return f()
}
