package overview

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vsinha/salesdash/pkg/application/dto"
	"github.com/vsinha/salesdash/pkg/domain/entities"
	"github.com/vsinha/salesdash/pkg/domain/repositories"
	"github.com/vsinha/salesdash/pkg/infrastructure/logging"
)

// DefaultTopN is the size of the top and bottom level-3 category tables
const DefaultTopN = 10

// Request selects what the overview covers
type Request struct {
	// Year filters every figure; AllYears covers the whole history
	Year int
	// Compare adds the previous year's series for a specific Year
	Compare bool
	// Month adds the daily series of that month when non-zero
	Month time.Month
	// TopN bounds the category tables; zero means DefaultTopN
	TopN int
	// Period adds supplier growth and new suppliers when set
	Period *entities.DateRange
}

// Service assembles overview reports from the sales repository
type Service struct {
	sales  repositories.SalesRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a new overview service
func NewService(sales repositories.SalesRepository, logger *zap.Logger) *Service {
	return &Service{
		sales:  sales,
		logger: logging.OrNop(logger),
		now:    time.Now,
	}
}

// LatestYear returns the most recent year with sales, or AllYears when there are none
func (s *Service) LatestYear() (int, error) {
	years, err := s.sales.GetYears()
	if err != nil {
		return AllYears, fmt.Errorf("failed to read sales years: %w", err)
	}
	if len(years) == 0 {
		return AllYears, nil
	}
	return years[len(years)-1], nil
}

// Overview builds the dashboard report for req
func (s *Service) Overview(ctx context.Context, req Request) (*dto.OverviewReport, error) {
	if req.Month < 0 || req.Month > time.December {
		return nil, fmt.Errorf("invalid month %d (expected 1-12)", req.Month)
	}
	if req.Year < 0 {
		return nil, fmt.Errorf("invalid year %d", req.Year)
	}
	if req.Period != nil {
		if err := req.Period.Validate(); err != nil {
			return nil, fmt.Errorf("overview: %w", err)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	topN := req.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}
	compare := req.Compare && req.Year != AllYears

	records, err := s.sales.GetAllSales()
	if err != nil {
		return nil, fmt.Errorf("failed to read sales: %w", err)
	}

	runID := uuid.NewString()
	started := s.now()
	items := ItemIndex{}
	summary := SummarizeWith(items, records, req.Year)

	report := &dto.OverviewReport{
		RunID:        runID,
		GeneratedAt:  started,
		Year:         req.Year,
		UniqueItems:  summary.UniqueItems,
		Revenue:      summary.Revenue,
		TopCategory:  summary.TopCategory,
		Monthly:      MonthlySales(records, req.Year, compare),
		Weekly:       WeeklySales(records, req.Year, compare),
		Categories:   CategoryBreakdown(records, req.Year),
		TopLevel3:    TopCategories(records, req.Year, topN, true),
		BottomLevel3: TopCategories(records, req.Year, topN, false),
	}
	if compare {
		previous := SummarizeWith(items, records, req.Year-1)
		report.CompareYear = req.Year - 1
		report.CompareUniqueItems = previous.UniqueItems
		report.RepeatItems = RepeatItems(summary, previous)
	}
	if req.Month != 0 {
		report.Daily = DailySales(records, req.Year, req.Month, compare)
	}

	if req.Period != nil {
		period := *req.Period
		report.Period = &period
		if report.Growth, err = PeriodGrowth(records, period); err != nil {
			return nil, err
		}
		if report.NewSuppliers, err = NewSuppliers(records, period); err != nil {
			return nil, err
		}
	}

	s.logger.Info("overview completed",
		zap.String("run_id", runID),
		zap.Int("year", req.Year),
		zap.Bool("compare", compare),
		zap.Int("records_scanned", len(records)),
		zap.Int("categories", len(report.Categories)),
		zap.Duration("elapsed", s.now().Sub(started)),
	)
	return report, nil
}
