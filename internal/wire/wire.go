// Package wire provides dependency injection for the ordens application.
// It creates singleton services with lazy initialization.
package wire

import (
	"context"
	"database/sql"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	cliadapter "github.com/example/ordens/internal/adapters/cli"
	"github.com/example/ordens/internal/adapters/sqlite"
	"github.com/example/ordens/internal/app"
	"github.com/example/ordens/internal/config"
	"github.com/example/ordens/internal/core/placeholder"
	"github.com/example/ordens/internal/db"
	"github.com/example/ordens/internal/logger"
	"github.com/example/ordens/internal/ports/primary"
)

var (
	cfg               *config.Config
	database          *sql.DB
	orderService      primary.OrderService
	clientService     primary.ClientService
	consultantService primary.ConsultantService
	referenceService  primary.ReferenceService
	reportService     primary.ReportService
	once              sync.Once
	cfgOnce           sync.Once
)

// Configure installs an already loaded configuration. It has no effect
// once Config has been called.
func Configure(c *config.Config) {
	cfgOnce.Do(func() { cfg = c })
}

// Config returns the process configuration, loading it on first use.
func Config() *config.Config {
	cfgOnce.Do(func() {
		loaded, err := config.Load(context.Background())
		if err != nil {
			log := logger.Get()
			log.Fatal().Err(err).Msg("failed to load configuration")
		}
		cfg = loaded
	})
	return cfg
}

// DB returns the shared database handle.
func DB() *sql.DB {
	once.Do(initServices)
	return database
}

// OrderService returns the singleton OrderService instance.
func OrderService() primary.OrderService {
	once.Do(initServices)
	return orderService
}

// ClientService returns the singleton ClientService instance.
func ClientService() primary.ClientService {
	once.Do(initServices)
	return clientService
}

// ConsultantService returns the singleton ConsultantService instance.
func ConsultantService() primary.ConsultantService {
	once.Do(initServices)
	return consultantService
}

// ReferenceService returns the singleton ReferenceService instance.
func ReferenceService() primary.ReferenceService {
	once.Do(initServices)
	return referenceService
}

// ReportService returns the singleton ReportService instance.
func ReportService() primary.ReportService {
	once.Do(initServices)
	return reportService
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	c := Config()
	log := logger.Get()

	var err error
	database, err = db.Open(c.DBPath, c.BusyTimeoutMS)
	if err != nil {
		log.Fatal().Err(err).Str("path", c.DBPath).Msg("failed to initialize database")
	}

	keys := placeholder.New(placeholder.Strategy(c.PlaceholderStrategy))
	tx := sqlite.NewTransactor(database, keys, component(log, "sqlite"))
	deleter := sqlite.NewRecordDeleter(database, component(log, "sqlite"))
	reports := sqlite.NewReportRepository(database, time.Now)
	logs := sqlite.NewOrderLogRepository(database)

	orderService = app.NewOrderService(tx, deleter, logs, component(log, "orders"), time.Now)
	clientService = app.NewClientService(tx, deleter, keys, component(log, "clients"))
	consultantService = app.NewConsultantService(tx, deleter, component(log, "consultants"))
	referenceService = app.NewReferenceService(tx, reports, component(log, "reference"))
	reportService = app.NewReportService(reports, c.StaleAfterDays, component(log, "reports"))

	log.Debug().Str("path", c.DBPath).Str("placeholders", c.PlaceholderStrategy).Msg("services initialized")
}

func component(log zerolog.Logger, name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

// OrderAdapter returns a new OrderAdapter writing to stdout.
func OrderAdapter() *cliadapter.OrderAdapter {
	return OrderAdapterWithOutput(os.Stdout)
}

// OrderAdapterWithOutput returns a new OrderAdapter writing to the given output.
func OrderAdapterWithOutput(out io.Writer) *cliadapter.OrderAdapter {
	once.Do(initServices)
	return cliadapter.NewOrderAdapter(orderService, out)
}

// ClientAdapter returns a new ClientAdapter writing to stdout.
func ClientAdapter() *cliadapter.ClientAdapter {
	return ClientAdapterWithOutput(os.Stdout)
}

// ClientAdapterWithOutput returns a new ClientAdapter writing to the given output.
func ClientAdapterWithOutput(out io.Writer) *cliadapter.ClientAdapter {
	once.Do(initServices)
	return cliadapter.NewClientAdapter(clientService, out)
}

// ConsultantAdapter returns a new ConsultantAdapter writing to stdout.
func ConsultantAdapter() *cliadapter.ConsultantAdapter {
	return ConsultantAdapterWithOutput(os.Stdout)
}

// ConsultantAdapterWithOutput returns a new ConsultantAdapter writing to the given output.
func ConsultantAdapterWithOutput(out io.Writer) *cliadapter.ConsultantAdapter {
	once.Do(initServices)
	return cliadapter.NewConsultantAdapter(consultantService, out)
}

// ReferenceAdapter returns a new ReferenceAdapter writing to stdout.
func ReferenceAdapter() *cliadapter.ReferenceAdapter {
	return ReferenceAdapterWithOutput(os.Stdout)
}

// ReferenceAdapterWithOutput returns a new ReferenceAdapter writing to the given output.
func ReferenceAdapterWithOutput(out io.Writer) *cliadapter.ReferenceAdapter {
	once.Do(initServices)
	return cliadapter.NewReferenceAdapter(referenceService, out)
}

// ReportAdapter returns a new ReportAdapter writing to stdout.
func ReportAdapter() *cliadapter.ReportAdapter {
	return ReportAdapterWithOutput(os.Stdout)
}

// ReportAdapterWithOutput returns a new ReportAdapter writing to the given output.
func ReportAdapterWithOutput(out io.Writer) *cliadapter.ReportAdapter {
	once.Do(initServices)
	return cliadapter.NewReportAdapter(reportService, out)
}
