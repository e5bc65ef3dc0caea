package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pmurley/drivethumbs/internal/config"
	"github.com/pmurley/drivethumbs/internal/drive"
	"github.com/pmurley/drivethumbs/internal/metrics"
	"github.com/pmurley/drivethumbs/internal/models"
	"github.com/pmurley/drivethumbs/pkg/logger"
)

// FolderLister lists the file IDs of a public Drive folder.
type FolderLister interface {
	ListFolder(ctx context.Context, folderID string) (*drive.FolderListing, error)
}

type Outcome string

const (
	Processed Outcome = "processed"
	Skipped   Outcome = "skipped"
	Failed    Outcome = "failed"
)

type Stats struct {
	Total     int
	Processed int
	Skipped   int
	Failed    int
	Inserted  int
}

func (s *Stats) add(o Outcome) {
	switch o {
	case Processed:
		s.Processed++
	case Skipped:
		s.Skipped++
	case Failed:
		s.Failed++
	}
}

func (s Stats) String() string {
	out := fmt.Sprintf("%d rows: %d processed, %d skipped, %d failed", s.Total, s.Processed, s.Skipped, s.Failed)
	if s.Inserted > 0 {
		out += fmt.Sprintf(", %d inserted", s.Inserted)
	}
	return out
}

// Pipeline rewrites Drive folder links into thumbnail URLs, one row at a time
// in source order.
type Pipeline struct {
	cfg     *config.Config
	folders FolderLister
	metrics *metrics.Metrics
	logger  *logger.Logger
	sleep   func(ctx context.Context, d time.Duration) error
}

func New(cfg *config.Config, folders FolderLister, m *metrics.Metrics, log *logger.Logger) *Pipeline {
	return &Pipeline{
		cfg:     cfg,
		folders: folders,
		metrics: m,
		logger:  log,
		sleep:   sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (p *Pipeline) record(stats *Stats, o Outcome) {
	stats.add(o)
	if p.metrics != nil {
		p.metrics.IncRows(string(o))
	}
}

const maxLabelRunes = 40

func (p *Pipeline) label(row models.Row, nameCol string, fallback string) string {
	name := row.Get(nameCol)
	if name == "" {
		return fallback
	}
	if runes := []rune(name); len(runes) > maxLabelRunes {
		name = string(runes[:maxLabelRunes])
	}
	return name
}

// lookup lists a folder and throttles afterwards when the network was used.
// A failed fetch yields no IDs; only context cancellation is returned.
func (p *Pipeline) lookup(ctx context.Context, log *logger.Logger, folderID string) ([]string, error) {
	listing, err := p.folders.ListFolder(ctx, folderID)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Warn("Error fetching folder:", err)
		return nil, p.sleep(ctx, p.cfg.Throttle)
	}

	if listing.Title != "" {
		log.Debug("Folder title:", listing.Title)
	}
	if !listing.Cached {
		if err := p.sleep(ctx, p.cfg.Throttle); err != nil {
			return nil, err
		}
	}
	return listing.FileIDs, nil
}

// Run fills the image column of every row whose link column holds a Drive
// folder link. Rows are mutated in place; the image and first-image columns
// are added to the header when missing.
func (p *Pipeline) Run(ctx context.Context, table *models.Table) (Stats, error) {
	var stats Stats

	linkCol, ok := table.Column(p.cfg.LinkColumn)
	if !ok {
		return stats, fmt.Errorf("could not find %q column, available columns: %v", p.cfg.LinkColumn, table.Header)
	}
	imageCol := table.EnsureColumn(p.cfg.ImageColumn)
	firstCol := ""
	if p.cfg.FirstImageCol != "" {
		firstCol = table.EnsureColumn(p.cfg.FirstImageCol)
	}
	nameCol, _ := table.Column(p.cfg.NameColumn)

	p.logger.Info("Using link column", fmt.Sprintf("%q", linkCol), "and image column", fmt.Sprintf("%q", imageCol))

	total := len(table.Rows)
	for i, row := range table.Rows {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		stats.Total++

		log := p.logger.With("row", fmt.Sprintf("%d/%d", i+1, total)).
			With("name", p.label(row, nameCol, fmt.Sprintf("Row %d", i+1)))

		outcome, err := p.processRow(ctx, log, row, linkCol, imageCol, firstCol)
		if err != nil {
			return stats, err
		}
		p.record(&stats, outcome)
	}

	return stats, nil
}

func (p *Pipeline) processRow(ctx context.Context, log *logger.Logger, row models.Row, linkCol, imageCol, firstCol string) (Outcome, error) {
	link := row[linkCol]

	if strings.TrimSpace(link) == "" {
		log.Debug("Skipped (no folder URL)")
		return Skipped, nil
	}

	if drive.LooksProcessed(link) {
		if firstCol != "" && row.Get(firstCol) == "" {
			row[firstCol] = drive.FirstThumbnail(link, p.cfg.Delimiter)
		}
		log.Debug("Skipped (already has thumbnails)")
		return Skipped, nil
	}

	folderID, ok := drive.ExtractFolderID(link)
	if !ok {
		log.Debug("Skipped (no folder ID in link)")
		return Skipped, nil
	}

	log.Info("Processing folder", folderID)
	ids, err := p.lookup(ctx, log, folderID)
	if err != nil {
		return "", err
	}

	if len(ids) == 0 {
		log.Info("No images found")
		return Failed, nil
	}

	row[imageCol] = drive.JoinThumbnails(ids, p.cfg.ThumbnailSize, p.cfg.Delimiter)
	if firstCol != "" {
		row[firstCol] = drive.ThumbnailURL(ids[0], p.cfg.ThumbnailSize)
	}
	log.Info("Found", len(ids), "images")
	return Processed, nil
}
