package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/vsinha/salesdash/pkg/infrastructure/config"
	"github.com/vsinha/salesdash/pkg/infrastructure/logging"
	"github.com/vsinha/salesdash/pkg/interfaces/cli/commands"
)

type command interface {
	Execute(ctx context.Context) error
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		showHelp()
		return nil
	}

	name := args[0]
	flags := pflag.NewFlagSet("salesdash "+name, pflag.ContinueOnError)

	// Global flags, bound onto the configuration
	configPath := flags.String("config", "", "Path to a salesdash config file (yaml, json or toml)")
	flags.String("source", "csv", "Data source: csv or sqlite")
	flags.String("format", "text", "Output format: text, json, csv")
	flags.String("output", "", "Output directory for results (optional)")
	flags.String("sqlite", "data/salesdash.db", "Path to the SQLite database")
	flags.String("models-dir", "modelos", "Directory holding the per-item model files")
	flags.String("log-level", "info", "Log level: debug, info, warn, error")

	// Command flags
	start := flags.String("start", "", "Period start date (YYYY-MM-DD)")
	end := flags.String("end", "", "Period end date (YYYY-MM-DD)")
	item := flags.String("item", "", "Item code to forecast")
	supplier := flags.String("supplier", "", "Supplier id whose items are forecast")
	year := flags.Int("year", 0, "Year of the overview (default: latest year with sales)")
	allYears := flags.Bool("all-years", false, "Cover the whole sales history")
	compare := flags.Bool("compare", false, "Add the previous year's series")
	month := flags.Int("month", 0, "Add the daily series of this month (1-12)")
	top := flags.Int("top", 0, "Size of the top and bottom category tables")

	if err := flags.Parse(args[1:]); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath, flags)
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Config{
		Level:       cfg.Log.Level,
		Encoding:    cfg.Log.Encoding,
		Development: cfg.Log.Development,
	})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	env := commands.Env{Config: cfg, Logger: logger, Stdout: os.Stdout}

	var cmd command
	switch name {
	case "abc":
		cmd = commands.NewABCCommand(env, *start, *end)
	case "forecast":
		cmd = commands.NewForecastCommand(env, *item, *supplier, *start, *end)
	case "overview":
		cmd = commands.NewOverviewCommand(env, commands.OverviewOptions{
			Year:     *year,
			AllYears: *allYears,
			Compare:  *compare,
			Month:    *month,
			TopN:     *top,
			Start:    *start,
			End:      *end,
		})
	case "import":
		cmd = commands.NewImportCommand(env)
	default:
		showHelp()
		return fmt.Errorf("unknown command %q", name)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Debug("running command", zap.String("command", name), zap.String("source", cfg.Source))
	return cmd.Execute(ctx)
}

// showHelp displays the help message
func showHelp() {
	fmt.Printf(`salesdash - sales analytics for retail extracts

USAGE:
    salesdash <command> [options]

COMMANDS:
    abc         Rank suppliers by revenue and split them into A/B/C classes
    forecast    Forecast weekly demand for an item or every item of a supplier
    overview    Revenue cards, monthly/weekly/daily series and category shares
    import      Copy the CSV extracts into the SQLite database

GLOBAL OPTIONS:
    --config <file>      Config file (default: ./salesdash.yaml when present)
    --source <src>       Data source: csv or sqlite (default: csv)
    --format <fmt>       Output format: text, json, csv (default: text)
    --output <dir>       Output directory for results (optional)
    --sqlite <file>      SQLite database path (default: data/salesdash.db)
    --models-dir <dir>   Model directory (default: modelos)
    --log-level <lvl>    debug, info, warn, error (default: info)

COMMAND OPTIONS:
    abc        --start <date> --end <date>
    forecast   (--item <code> | --supplier <id>) --start <date> --end <date>
    overview   [--year <yyyy> | --all-years] [--compare] [--month <m>] [--top <n>]
               [--start <date> --end <date>]

ENVIRONMENT:
    Every setting can be overridden with SALESDASH_<KEY>, e.g.
    SALESDASH_DATA_SALES=data/sales.csv or SALESDASH_MODELS_DIR=modelos.
    A .env file in the working directory is loaded first.

EXAMPLES:
    salesdash abc --start 2024-01-01 --end 2024-03-31
    salesdash forecast --supplier 10 --start 2025-06-01 --end 2025-06-30 --format csv
    salesdash overview --year 2024 --compare --month 3
    salesdash import --sqlite data/salesdash.db && salesdash abc --source sqlite --start 2024-01-01 --end 2024-01-31
`)
}
