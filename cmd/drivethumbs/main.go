package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/pmurley/drivethumbs/internal/app"
	"github.com/pmurley/drivethumbs/internal/config"
	"github.com/pmurley/drivethumbs/internal/metrics"
	"github.com/pmurley/drivethumbs/internal/notify"
	"github.com/pmurley/drivethumbs/internal/sheets"
	"github.com/pmurley/drivethumbs/internal/storage"
	"github.com/pmurley/drivethumbs/pkg/logger"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "drivethumbs",
	Short: "Turn Google Drive folder links into thumbnail URLs",
	Long: `drivethumbs reads public Google Drive folders through the embedded folder
view and writes direct thumbnail URLs for every file they contain.

Folders must be shared as "Anyone with the link can view".`,
	SilenceUsage: true,
}

var extractCmd = &cobra.Command{
	Use:   "extract FOLDER_URL_OR_ID",
	Short: "Print the thumbnail URLs of one folder",
	Long: `Print the joined thumbnail URLs of one Drive folder to stdout.

Examples:
  drivethumbs extract https://drive.google.com/drive/folders/1AbC...
  drivethumbs extract 1AbC... --delimiter ,`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Rewrite every folder link of the sheet into thumbnail URLs",
	Long: `Download the sheet as CSV, replace each folder link with the thumbnail URLs
of its files and write the result to a local CSV.

Examples:
  drivethumbs sync
  drivethumbs sync --output cars.csv --first-image-column "First Image"
  drivethumbs sync --link-column "Picture Drive Link" --image-column "All Images" --delimiter ,`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

var fixCmd = &cobra.Command{
	Use:   "fix",
	Short: "Fill in rows missing from a previously written CSV",
	Long: `Merge thumbnails for a serial number range from the live sheet into a local
CSV. Rows already holding thumbnails are kept; missing rows are inserted in
serial number order.

Examples:
  drivethumbs fix --local updated_cars_with_first_image.csv --from 219 --to 297`,
	Args: cobra.NoArgs,
	RunE: runFix,
}

func init() {
	config.RegisterFlags(rootCmd.PersistentFlags())
	rootCmd.AddCommand(extractCmd, syncCmd, fixCmd)
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// setup loads the configuration and builds the application graph shared by
// every subcommand.
func setup(cmd *cobra.Command) (*config.Config, *app.App, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.New(cfg.LogLevel)

	sheetClient, err := sheets.NewClient(cfg.SheetURL, cfg.RequestTimeout)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create sheets client: %w", err)
	}

	m := metrics.New()
	driveClient := app.NewDriveClient(cfg, m, log)

	var notifier notify.Notifier = notify.Nop{}
	if cfg.DiscordWebhook != "" {
		webhook, err := notify.NewDiscordWebhook(cfg.DiscordWebhook)
		if err != nil {
			log.Warn("Discord notifications disabled:", err)
		} else {
			notifier = webhook
		}
	}

	return cfg, app.New(cfg, log, sheetClient, driveClient, m, notifier), nil
}

func runExtract(cmd *cobra.Command, args []string) error {
	_, a, err := setup(cmd)
	if err != nil {
		return err
	}

	return a.Extract(cmd.Context(), args[0], cmd.OutOrStdout())
}

func runSync(cmd *cobra.Command, _ []string) error {
	cfg, a, err := setup(cmd)
	if err != nil {
		return err
	}

	output := cfg.OutputFile
	if output == "" {
		output = config.DefaultOutputFile
	}

	stats, err := a.Sync(cmd.Context(), storage.NewTableStorage(output))
	a.Finish("sync", stats, err)
	return err
}

func runFix(cmd *cobra.Command, _ []string) error {
	cfg, a, err := setup(cmd)
	if err != nil {
		return err
	}
	if cfg.LocalCSV == "" {
		return fmt.Errorf("--local is required")
	}

	local := storage.NewTableStorage(cfg.LocalCSV)
	out := local
	if cfg.OutputFile != "" {
		out = storage.NewTableStorage(cfg.OutputFile)
	}

	stats, err := a.Fix(cmd.Context(), local, out)
	a.Finish("fix", stats, err)
	return err
}
