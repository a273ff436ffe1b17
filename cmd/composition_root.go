package cmd

import (
	"log/slog"

	"labflow/internal/adapters/out/postgres"
	"labflow/internal/adapters/out/postgres/catalogrepo"
	"labflow/internal/adapters/out/postgres/configrepo"
	"labflow/internal/adapters/out/postgres/patientrepo"
	"labflow/internal/core/application/usecases/commands"
	"labflow/internal/core/application/usecases/queries"
	"labflow/internal/jobs"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
}

func NewCompositionRoot(_ Config, gormDB *gorm.DB) CompositionRoot {
	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
	}
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(
		c.orderUoWFactory(),
		catalogrepo.NewGormExamCatalog(c.gormDB),
		patientrepo.NewGormPatientDirectory(c.gormDB),
		configrepo.NewGormFacilityConfigs(c.gormDB),
		postgres.NewGormOrderNumberGenerator(c.gormDB),
	)
}

func (c *CompositionRoot) CreateRegisterCollectionCommandHandler() commands.RegisterCollectionCommandHandler {
	return commands.NewRegisterCollectionCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateSaveResultCommandHandler() commands.SaveResultCommandHandler {
	return commands.NewSaveResultCommandHandler(
		c.orderUoWFactory(),
		catalogrepo.NewGormExamCatalog(c.gormDB),
		configrepo.NewGormFacilityConfigs(c.gormDB),
	)
}

func (c *CompositionRoot) CreateSignResultCommandHandler() commands.SignResultCommandHandler {
	return commands.NewSignResultCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateRegisterDeliveryCommandHandler() commands.RegisterDeliveryCommandHandler {
	return commands.NewRegisterDeliveryCommandHandler(
		c.orderUoWFactory(),
		configrepo.NewGormFacilityConfigs(c.gormDB),
	)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetWorklistQueryHandler() queries.GetWorklistQueryHandler {
	return queries.NewGetWorklistQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateJobManager(logger *slog.Logger) *jobs.JobManager {
	return jobs.NewJobManager(
		queries.NewGetOverdueItemsQueryHandler(c.gormDB),
		c.gormDB,
		logger,
	)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
