package app

import (
	"context"
	"fmt"
	"io"

	"github.com/pmurley/drivethumbs/internal/cache"
	"github.com/pmurley/drivethumbs/internal/config"
	"github.com/pmurley/drivethumbs/internal/drive"
	"github.com/pmurley/drivethumbs/internal/metrics"
	"github.com/pmurley/drivethumbs/internal/models"
	"github.com/pmurley/drivethumbs/internal/notify"
	"github.com/pmurley/drivethumbs/internal/pipeline"
	"github.com/pmurley/drivethumbs/pkg/logger"
)

// SheetSource yields the remote sheet as a table.
type SheetSource interface {
	FetchTable(ctx context.Context) (*models.Table, error)
}

// TableStore persists a table as a CSV file.
type TableStore interface {
	Load() (*models.Table, error)
	Save(table *models.Table) error
	Path() string
}

type App struct {
	config   *config.Config
	logger   *logger.Logger
	sheets   SheetSource
	drive    *drive.Client
	pipeline *pipeline.Pipeline
	metrics  *metrics.Metrics
	notifier notify.Notifier
}

func New(cfg *config.Config, log *logger.Logger, sheets SheetSource, driveClient *drive.Client, m *metrics.Metrics, notifier notify.Notifier) *App {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &App{
		config:   cfg,
		logger:   log,
		sheets:   sheets,
		drive:    driveClient,
		pipeline: pipeline.New(cfg, driveClient, m, log),
		metrics:  m,
		notifier: notifier,
	}
}

// NewDriveClient builds the Drive client described by cfg.
func NewDriveClient(cfg *config.Config, m *metrics.Metrics, log *logger.Logger) *drive.Client {
	return drive.NewClient(drive.Options{
		UserAgent:    cfg.UserAgent,
		Timeout:      cfg.RequestTimeout,
		MinIDLength:  cfg.MinIDLength,
		MaxIDLength:  cfg.MaxIDLength,
		Verify:       cfg.Verify,
		VerifyLimit:  cfg.VerifyLimit,
		ProbeTimeout: cfg.ProbeTimeout,
		ProbeDelay:   cfg.ProbeDelay,
	}, cache.New(cfg.CacheDuration), m, log)
}

// Extract lists one folder and writes the joined thumbnail URLs to out.
func (a *App) Extract(ctx context.Context, arg string, out io.Writer) error {
	folderID, ok := drive.ResolveFolderID(arg)
	if !ok {
		return fmt.Errorf("no folder URL or ID given")
	}

	a.logger.Info("Extracting images from folder:", folderID)

	listing, err := a.drive.ListFolder(ctx, folderID)
	if err != nil {
		return err
	}
	if len(listing.FileIDs) == 0 {
		return fmt.Errorf("no images found; make sure the folder is shared as 'Anyone with the link can view'")
	}

	if listing.Title != "" {
		a.logger.Info("Folder:", listing.Title)
	}
	a.logger.Info("Found", len(listing.FileIDs), "images via", listing.Strategy)
	_, err = fmt.Fprintln(out, drive.JoinThumbnails(listing.FileIDs, a.config.ThumbnailSize, a.config.Delimiter))
	return err
}

// Sync rewrites every row of the remote sheet and saves the result to out.
func (a *App) Sync(ctx context.Context, out TableStore) (pipeline.Stats, error) {
	a.logger.Info("Fetching Google Sheet...")
	table, err := a.sheets.FetchTable(ctx)
	if err != nil {
		return pipeline.Stats{}, fmt.Errorf("failed to fetch sheet: %w", err)
	}
	a.logger.Info("Found", len(table.Rows), "rows in sheet")

	stats, err := a.pipeline.Run(ctx, table)
	if err != nil {
		return stats, err
	}

	if err := out.Save(table); err != nil {
		return stats, fmt.Errorf("failed to write output: %w", err)
	}
	a.logger.Info("Output written to", out.Path())
	return stats, nil
}

// Fix merges remote thumbnails into the local CSV and saves the result to out.
func (a *App) Fix(ctx context.Context, local, out TableStore) (pipeline.Stats, error) {
	a.logger.Info("Fetching Google Sheet...")
	remote, err := a.sheets.FetchTable(ctx)
	if err != nil {
		return pipeline.Stats{}, fmt.Errorf("failed to fetch sheet: %w", err)
	}
	a.logger.Info("Found", len(remote.Rows), "rows in live sheet")

	localTable, err := local.Load()
	if err != nil {
		return pipeline.Stats{}, fmt.Errorf("failed to read local CSV: %w", err)
	}
	a.logger.Info("Found", len(localTable.Rows), "rows in", local.Path())

	stats, err := a.pipeline.Merge(ctx, remote, localTable)
	if err != nil {
		return stats, err
	}

	if err := out.Save(localTable); err != nil {
		return stats, fmt.Errorf("failed to write output: %w", err)
	}
	a.logger.Info("Output written to", out.Path())
	return stats, nil
}

// Finish reports a run: summary log line, metrics file and notification.
// Failures here are logged, never returned.
func (a *App) Finish(command string, stats pipeline.Stats, runErr error) {
	summary := fmt.Sprintf("drivethumbs %s: %s", command, stats)
	if runErr != nil {
		summary += fmt.Sprintf(" (aborted: %v)", runErr)
	}
	a.logger.Info(summary)

	if a.config.MetricsFile != "" {
		if err := a.metrics.WriteTextfile(a.config.MetricsFile); err != nil {
			a.logger.Error("Failed to write metrics file:", err)
		}
	}

	if err := a.notifier.Notify(summary); err != nil {
		a.logger.Error("Failed to send run summary:", err)
	}
}
