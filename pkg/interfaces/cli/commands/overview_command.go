package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/vsinha/salesdash/pkg/application/services/overview"
	"github.com/vsinha/salesdash/pkg/domain/entities"
	"github.com/vsinha/salesdash/pkg/interfaces/cli/output"
)

// OverviewOptions selects the overview figures
type OverviewOptions struct {
	// Year defaults to the latest year with sales when zero
	Year     int
	AllYears bool
	Compare  bool
	Month    int
	TopN     int
	// Start and End, when both set, add supplier growth and new suppliers
	Start string
	End   string
}

// OverviewCommand prints the dashboard overview
type OverviewCommand struct {
	env     Env
	options OverviewOptions
}

// NewOverviewCommand creates a new overview command
func NewOverviewCommand(env Env, options OverviewOptions) *OverviewCommand {
	return &OverviewCommand{env: env, options: options}
}

// Execute runs the overview command
func (c *OverviewCommand) Execute(ctx context.Context) error {
	req := overview.Request{
		Year:    c.options.Year,
		Compare: c.options.Compare,
		Month:   time.Month(c.options.Month),
		TopN:    c.options.TopN,
	}
	if c.options.Start != "" || c.options.End != "" {
		period, err := entities.ParseDateRange(c.options.Start, c.options.End)
		if err != nil {
			return fmt.Errorf("validation error: %w", err)
		}
		req.Period = &period
	}

	ds, err := loadDataset(ctx, c.env, false)
	if err != nil {
		return err
	}

	service := overview.NewService(ds.sales, c.env.logger())
	switch {
	case c.options.AllYears:
		req.Year = overview.AllYears
	case req.Year == 0:
		if req.Year, err = service.LatestYear(); err != nil {
			return err
		}
	}

	report, err := service.Overview(ctx, req)
	if err != nil {
		return fmt.Errorf("error building overview: %w", err)
	}

	if err := output.WriteOverview(report, c.env.output()); err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}
	return nil
}
