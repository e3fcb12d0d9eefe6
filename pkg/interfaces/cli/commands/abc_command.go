package commands

import (
	"context"
	"fmt"

	"github.com/vsinha/salesdash/pkg/application/services/abc"
	"github.com/vsinha/salesdash/pkg/domain/entities"
	"github.com/vsinha/salesdash/pkg/interfaces/cli/output"
)

// ABCCommand ranks suppliers for a date range
type ABCCommand struct {
	env   Env
	Start string
	End   string
}

// NewABCCommand creates a new ABC classification command
func NewABCCommand(env Env, start, end string) *ABCCommand {
	return &ABCCommand{env: env, Start: start, End: end}
}

// Execute runs the ABC classification command
func (c *ABCCommand) Execute(ctx context.Context) error {
	period, err := entities.ParseDateRange(c.Start, c.End)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	ds, err := loadDataset(ctx, c.env, false)
	if err != nil {
		return err
	}

	report, err := abc.NewService(ds.sales, c.env.logger()).Classify(ctx, period)
	if err != nil {
		return fmt.Errorf("error running ABC classification: %w", err)
	}

	if err := output.WriteABC(report, c.env.output()); err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}
	return nil
}
