package forecast

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vsinha/salesdash/pkg/application/dto"
	"github.com/vsinha/salesdash/pkg/domain/entities"
	"github.com/vsinha/salesdash/pkg/domain/repositories"
	"github.com/vsinha/salesdash/pkg/infrastructure/logging"
)

// Config holds forecaster tuning
type Config struct {
	// Concurrency bounds how many item models are loaded and evaluated at once
	Concurrency int
}

// Service produces weekly demand forecasts
type Service struct {
	config  Config
	catalog repositories.CatalogRepository
	sales   repositories.SalesRepository
	models  repositories.ModelRepository
	logger  *zap.Logger
	now     func() time.Time
}

// NewService creates a forecaster with default configuration
func NewService(
	catalog repositories.CatalogRepository,
	sales repositories.SalesRepository,
	models repositories.ModelRepository,
	logger *zap.Logger,
) *Service {
	return NewServiceWithConfig(Config{Concurrency: 4}, catalog, sales, models, logger)
}

// NewServiceWithConfig creates a forecaster with custom configuration
func NewServiceWithConfig(
	config Config,
	catalog repositories.CatalogRepository,
	sales repositories.SalesRepository,
	models repositories.ModelRepository,
	logger *zap.Logger,
) *Service {
	if config.Concurrency < 1 {
		config.Concurrency = 1
	}
	return &Service{
		config:  config,
		catalog: catalog,
		sales:   sales,
		models:  models,
		logger:  logging.OrNop(logger),
		now:     time.Now,
	}
}

// ForecastItem forecasts a single item. It fails with entities.ErrModelNotFound
// when the item has no trained model.
func (s *Service) ForecastItem(ctx context.Context, code entities.ItemCode, period entities.DateRange) (*dto.ForecastReport, error) {
	if err := period.Validate(); err != nil {
		return nil, fmt.Errorf("forecast: %w", err)
	}
	if strings.TrimSpace(string(code)) == "" {
		return nil, fmt.Errorf("forecast: %w: empty item code", entities.ErrItemNotFound)
	}

	report, log := s.newReport(period, zap.String("item", string(code)))
	started := report.GeneratedAt

	model, err := s.models.FindModel(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("forecast item %s: %w", code, err)
	}

	rows, err := s.forecastRows(code, model, period)
	if err != nil {
		return nil, err
	}

	report.ItemCodes = []entities.ItemCode{code}
	report.Rows = rows
	if err := s.joinPriorYear(report); err != nil {
		return nil, err
	}

	log.Info("item forecast completed",
		zap.Int("weeks", len(rows)),
		zap.Int("reference_year", report.ReferenceYear),
		zap.Duration("elapsed", s.now().Sub(started)),
	)
	return report, nil
}

// ForecastSupplier forecasts every catalog item of a supplier that has a
// trained model. Items without a model are skipped and listed on the report.
// It fails with entities.ErrNoForecastableItems when none can be forecast.
func (s *Service) ForecastSupplier(ctx context.Context, supplierID entities.SupplierID, period entities.DateRange) (*dto.ForecastReport, error) {
	if err := period.Validate(); err != nil {
		return nil, fmt.Errorf("forecast: %w", err)
	}
	if strings.TrimSpace(string(supplierID)) == "" {
		return nil, fmt.Errorf("forecast: %w: empty supplier id", entities.ErrInvalidSupplier)
	}

	items, err := s.catalog.GetItemsBySupplier(supplierID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items of supplier %s: %w", supplierID, err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("supplier %s: %w", supplierID, entities.ErrNoForecastableItems)
	}

	report, log := s.newReport(period, zap.String("supplier", string(supplierID)))
	started := report.GeneratedAt

	// Each slot is written by exactly one goroutine; nil rows mark a skipped item.
	perItem := make([][]entities.WeeklyForecast, len(items))
	found := make([]bool, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Concurrency)
	for i, item := range items {
		g.Go(func() error {
			model, err := s.models.FindModel(gctx, item.Code)
			if errors.Is(err, entities.ErrModelNotFound) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("forecast item %s: %w", item.Code, err)
			}

			rows, err := s.forecastRows(item.Code, model, period)
			if err != nil {
				return err
			}
			perItem[i] = rows
			found[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, item := range items {
		if !found[i] {
			report.SkippedItems = append(report.SkippedItems, item.Code)
			continue
		}
		report.ItemCodes = append(report.ItemCodes, item.Code)
		report.Rows = append(report.Rows, perItem[i]...)
	}
	if len(report.ItemCodes) == 0 {
		return nil, fmt.Errorf("supplier %s: %w", supplierID, entities.ErrNoForecastableItems)
	}

	if err := s.joinPriorYear(report); err != nil {
		return nil, err
	}

	log.Info("supplier forecast completed",
		zap.Int("items", len(report.ItemCodes)),
		zap.Int("skipped", len(report.SkippedItems)),
		zap.Int("rows", len(report.Rows)),
		zap.Int("reference_year", report.ReferenceYear),
		zap.Duration("elapsed", s.now().Sub(started)),
	)
	return report, nil
}

func (s *Service) newReport(period entities.DateRange, subject zap.Field) (*dto.ForecastReport, *zap.Logger) {
	runID := uuid.NewString()
	report := &dto.ForecastReport{
		RunID:       runID,
		GeneratedAt: s.now(),
		Period:      period,
	}
	log := s.logger.With(zap.String("run_id", runID), zap.Stringer("period", period), subject)
	return report, log
}

// forecastRows runs the daily model over period and returns the weekly rows
// with registry metadata filled in
func (s *Service) forecastRows(code entities.ItemCode, model repositories.Regressor, period entities.DateRange) ([]entities.WeeklyForecast, error) {
	points, err := Predict(model, BuildFeatures(code, period))
	if err != nil {
		return nil, err
	}

	rows := AggregateWeekly(points)
	description, supplierName := s.metadata(code)
	for i := range rows {
		rows[i].Description = description
		rows[i].SupplierName = supplierName
	}
	return rows, nil
}

// metadata looks up the item description and supplier name; unknown entries are blank
func (s *Service) metadata(code entities.ItemCode) (description, supplierName string) {
	item, err := s.catalog.GetItem(code)
	if err != nil {
		return "", ""
	}
	supplier, err := s.catalog.GetSupplier(item.SupplierID)
	if err != nil {
		return item.Description, ""
	}
	return item.Description, supplier.Name
}

func (s *Service) joinPriorYear(report *dto.ForecastReport) error {
	years, err := s.sales.GetYears()
	if err != nil {
		return fmt.Errorf("failed to read sales years: %w", err)
	}

	referenceYear, ok := ReferenceYear(years, report.Period.Start.Year())
	if !ok {
		JoinPriorYear(report.Rows, nil)
		return nil
	}

	window := ReferenceWindow(report.Period, referenceYear)
	records, err := s.sales.GetSalesInRange(window)
	if err != nil {
		return fmt.Errorf("failed to read reference sales: %w", err)
	}

	report.ReferenceYear = referenceYear
	JoinPriorYear(report.Rows, PriorYearActuals(records, window))
	return nil
}
