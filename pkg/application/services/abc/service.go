package abc

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vsinha/salesdash/pkg/application/dto"
	"github.com/vsinha/salesdash/pkg/domain/entities"
	"github.com/vsinha/salesdash/pkg/domain/repositories"
	"github.com/vsinha/salesdash/pkg/infrastructure/logging"
)

// Service runs supplier ABC classifications against the sales repository
type Service struct {
	sales  repositories.SalesRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a new ABC classification service
func NewService(sales repositories.SalesRepository, logger *zap.Logger) *Service {
	return &Service{
		sales:  sales,
		logger: logging.OrNop(logger),
		now:    time.Now,
	}
}

// Classify builds the ABC report for period
func (s *Service) Classify(ctx context.Context, period entities.DateRange) (*dto.ABCReport, error) {
	if err := period.Validate(); err != nil {
		return nil, fmt.Errorf("abc classification: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	log := s.logger.With(zap.String("run_id", runID), zap.Stringer("period", period))
	started := s.now()

	previous := period.ShiftYears(-1)
	// The comparison window always starts earlier and ends no later, so one
	// contiguous scan covers both.
	records, err := s.sales.GetSalesInRange(entities.DateRange{Start: previous.Start, End: period.End})
	if err != nil {
		return nil, fmt.Errorf("failed to read sales: %w", err)
	}

	summaries, err := Classify(records, period)
	if err != nil {
		return nil, err
	}

	report := &dto.ABCReport{
		RunID:          runID,
		GeneratedAt:    started,
		Period:         period,
		PreviousPeriod: previous,
		TotalCurrent:   decimal.Zero,
		TotalPrevious:  decimal.Zero,
		Suppliers:      summaries,
	}
	for _, summary := range summaries {
		report.TotalCurrent = report.TotalCurrent.Add(summary.TotalCurrent)
		report.TotalPrevious = report.TotalPrevious.Add(summary.TotalPrevious)
	}

	counts := Distribution(summaries)
	for _, class := range entities.Classes {
		report.Distribution = append(report.Distribution, dto.ClassCount{Class: class, Count: counts[class]})
	}

	log.Info("abc classification completed",
		zap.Int("records_scanned", len(records)),
		zap.Int("suppliers", len(summaries)),
		zap.Int("class_a", counts[entities.ClassA]),
		zap.Int("class_b", counts[entities.ClassB]),
		zap.Int("class_c", counts[entities.ClassC]),
		zap.Duration("elapsed", s.now().Sub(started)),
	)

	return report, nil
}
