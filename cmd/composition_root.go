package cmd

import (
	"log/slog"

	"fulfillment/internal/adapters/out/notify"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/retailer"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"

	"gorm.io/gorm"
)

// CompositionRoot wires adapters to use cases. Handlers are constructed
// per call; shared pieces (router, notifiers, publisher) are built once.
type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory

	router         commands.Router
	vendorNotifier ports.VendorNotifier
	adminNotifier  ports.AdminNotifier
	eventPublisher ports.EventPublisher

	creditPolicy retailer.CreditPolicy
	routingCfg   ports.RoutingConfig
	watchdogCfg  ports.WatchdogConfig

	logger *slog.Logger
}

func NewCompositionRoot(configs Config, gormDB *gorm.DB, logger *slog.Logger) (CompositionRoot, error) {
	routingCfg := ports.RoutingConfig{
		ResponseTimeout:          configs.VendorResponseTimeout,
		MaxAttempts:              configs.MaxRoutingAttempts,
		NotifyAdminAfterAttempts: configs.NotifyAdminAfterAttempts,
		MinReliability:           configs.MinReliability,
	}

	scorer, err := services.NewVendorScorer(services.DefaultScoreWeights())
	if err != nil {
		return CompositionRoot{}, err
	}
	ranker := services.NewVendorRanker(configs.MinReliability)

	return CompositionRoot{
		gormDB:         gormDB,
		uowFactory:     *postgres.NewGormUnitOfWorkFactory(gormDB),
		router:         commands.NewRouter(scorer, ranker, routingCfg),
		vendorNotifier: notify.NewWebhookVendorNotifier(configs.VendorGatewayURL, logger),
		adminNotifier:  notify.NewWebhookAdminNotifier(configs.AdminAlertURL, logger),
		eventPublisher: notify.NewWebhookEventPublisher(configs.EventSinkURL, gormDB, logger),
		creditPolicy: retailer.CreditPolicy{
			TierCeilings: map[retailer.Tier]kernel.Money{
				retailer.TierA: kernel.NewMoney(configs.TierACeiling),
				retailer.TierB: kernel.NewMoney(configs.TierBCeiling),
				retailer.TierC: kernel.NewMoney(configs.TierCCeiling),
			},
		},
		routingCfg: routingCfg,
		watchdogCfg: ports.WatchdogConfig{
			RoutingStallAfter:  configs.RoutingStallAfter,
			WorkflowStallAfter: configs.WorkflowStallAfter,
			ScanBatchSize:      configs.ScanBatchSize,
			ScoreDecayAfter:    configs.ScoreDecayAfter,
			ScoreDecayFactor:   configs.ScoreDecayFactor,
		},
		logger: logger,
	}, nil
}

func (c *CompositionRoot) orderingUoWFactory() commands.OrderingUoWFactory {
	return FuncOrderingUoWFactory(func() commands.OrderingUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) routingUoWFactory() commands.RoutingUoWFactory {
	return FuncRoutingUoWFactory(func() commands.RoutingUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) healingUoWFactory() commands.HealingUoWFactory {
	return FuncHealingUoWFactory(func() commands.HealingUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) ledgerUoWFactory() commands.LedgerUoWFactory {
	return FuncLedgerUoWFactory(func() commands.LedgerUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) scoreUoWFactory() commands.ScoreUoWFactory {
	return FuncScoreUoWFactory(func() commands.ScoreUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) settingsUoWFactory() commands.SettingsUoWFactory {
	return FuncSettingsUoWFactory(func() commands.SettingsUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderingUoWFactory(), c.creditPolicy, c.eventPublisher)
}

func (c *CompositionRoot) CreateRouteOrderCommandHandler() commands.RouteOrderCommandHandler {
	return commands.NewRouteOrderCommandHandler(
		c.routingUoWFactory(), c.router, c.vendorNotifier, c.eventPublisher, c.logger)
}

func (c *CompositionRoot) CreateRecordVendorResponseCommandHandler() commands.RecordVendorResponseCommandHandler {
	return commands.NewRecordVendorResponseCommandHandler(
		c.routingUoWFactory(), c.router, c.vendorNotifier, c.adminNotifier, c.eventPublisher, c.logger)
}

func (c *CompositionRoot) CreateTransitionOrderCommandHandler() commands.TransitionOrderCommandHandler {
	return commands.NewTransitionOrderCommandHandler(c.routingUoWFactory(), c.router, c.eventPublisher)
}

func (c *CompositionRoot) CreateAssignVendorManuallyCommandHandler() commands.AssignVendorManuallyCommandHandler {
	return commands.NewAssignVendorManuallyCommandHandler(
		c.routingUoWFactory(), c.vendorNotifier, c.eventPublisher, c.routingCfg, c.logger)
}

func (c *CompositionRoot) CreateRecordPaymentCommandHandler() commands.RecordPaymentCommandHandler {
	return commands.NewRecordPaymentCommandHandler(c.ledgerUoWFactory())
}

func (c *CompositionRoot) CreateReverseLedgerEntryCommandHandler() commands.ReverseLedgerEntryCommandHandler {
	return commands.NewReverseLedgerEntryCommandHandler(c.ledgerUoWFactory())
}

func (c *CompositionRoot) CreateVerifyLedgerCommandHandler() commands.VerifyLedgerCommandHandler {
	return commands.NewVerifyLedgerCommandHandler(c.ledgerUoWFactory(), c.adminNotifier, c.logger)
}

func (c *CompositionRoot) CreateSetLedgerFreezeCommandHandler() commands.SetLedgerFreezeCommandHandler {
	return commands.NewSetLedgerFreezeCommandHandler(c.ledgerUoWFactory(), c.logger)
}

func (c *CompositionRoot) CreateSetSafeModeCommandHandler() commands.SetSafeModeCommandHandler {
	return commands.NewSetSafeModeCommandHandler(c.settingsUoWFactory(), c.logger)
}

func (c *CompositionRoot) CreateScanTimeoutsCommandHandler() commands.ScanTimeoutsCommandHandler {
	return commands.NewScanTimeoutsCommandHandler(
		c.routingUoWFactory(), c.router, c.vendorNotifier, c.adminNotifier,
		c.eventPublisher, c.routingCfg, c.logger)
}

func (c *CompositionRoot) CreateHealStuckOrdersCommandHandler() commands.HealStuckOrdersCommandHandler {
	return commands.NewHealStuckOrdersCommandHandler(
		c.healingUoWFactory(), c.router, c.vendorNotifier, c.adminNotifier,
		c.eventPublisher, c.watchdogCfg, c.logger)
}

func (c *CompositionRoot) CreateDecayVendorScoresCommandHandler() commands.DecayVendorScoresCommandHandler {
	return commands.NewDecayVendorScoresCommandHandler(c.scoreUoWFactory(), c.watchdogCfg)
}

func (c *CompositionRoot) CreateGetRetailerLedgerQueryHandler() queries.GetRetailerLedgerQueryHandler {
	return queries.NewGetRetailerLedgerQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetVendorRankingQueryHandler() queries.GetVendorRankingQueryHandler {
	return queries.NewGetVendorRankingQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetActiveOrdersQueryHandler() queries.GetActiveOrdersQueryHandler {
	return queries.NewGetActiveOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetInterventionLogQueryHandler() queries.GetInterventionLogQueryHandler {
	return queries.NewGetInterventionLogQueryHandler(c.gormDB)
}

type FuncOrderingUoWFactory func() commands.OrderingUoW

func (f FuncOrderingUoWFactory) Create() commands.OrderingUoW {
	return f()
}

type FuncRoutingUoWFactory func() commands.RoutingUoW

func (f FuncRoutingUoWFactory) Create() commands.RoutingUoW {
	return f()
}

type FuncHealingUoWFactory func() commands.HealingUoW

func (f FuncHealingUoWFactory) Create() commands.HealingUoW {
	return f()
}

type FuncLedgerUoWFactory func() commands.LedgerUoW

func (f FuncLedgerUoWFactory) Create() commands.LedgerUoW {
	return f()
}

type FuncScoreUoWFactory func() commands.ScoreUoW

func (f FuncScoreUoWFactory) Create() commands.ScoreUoW {
	return f()
}

type FuncSettingsUoWFactory func() commands.SettingsUoW

func (f FuncSettingsUoWFactory) Create() commands.SettingsUoW {
	return f()
}
