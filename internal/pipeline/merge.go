package pipeline

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pmurley/drivethumbs/internal/drive"
	"github.com/pmurley/drivethumbs/internal/models"
)

// Merge upserts thumbnails from the remote sheet into a previously written
// local table, keyed by the serial number column. Only remote rows whose key
// is inside the configured range are considered. Local rows that already hold
// thumbnails are left alone; remote rows missing locally are inserted in
// ascending key order. The local header is kept as is.
func (p *Pipeline) Merge(ctx context.Context, remote, local *models.Table) (Stats, error) {
	var stats Stats

	remoteKey, ok := remote.Column(p.cfg.KeyColumn)
	if !ok {
		return stats, fmt.Errorf("remote sheet has no %q column", p.cfg.KeyColumn)
	}
	localKey, ok := local.Column(p.cfg.KeyColumn)
	if !ok {
		return stats, fmt.Errorf("local CSV has no %q column", p.cfg.KeyColumn)
	}
	linkCol, ok := remote.Column(p.cfg.LinkColumn)
	if !ok {
		return stats, fmt.Errorf("could not find %q column, available columns: %v", p.cfg.LinkColumn, remote.Header)
	}
	imageCol := local.EnsureColumn(p.cfg.ImageColumn)
	firstCol := ""
	if p.cfg.FirstImageCol != "" {
		firstCol = local.EnsureColumn(p.cfg.FirstImageCol)
	}
	nameCol, _ := remote.Column(p.cfg.NameColumn)

	index := local.IndexBy(localKey)
	var pending []models.Row

	for _, row := range remote.Rows {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		sn := row.Get(remoteKey)
		n, err := strconv.Atoi(sn)
		if err != nil || !p.cfg.InRange(n) {
			continue
		}
		stats.Total++

		log := p.logger.With("sn", sn).With("name", p.label(row, nameCol, "SL "+sn))

		localIdx, exists := index[sn]
		if exists && drive.LooksProcessed(local.Rows[localIdx][imageCol]) {
			log.Debug("Already has thumbnails, skipping")
			p.record(&stats, Skipped)
			continue
		}

		folderID, ok := drive.ExtractFolderID(row[linkCol])
		if !ok {
			log.Info("No folder URL in sheet")
			p.record(&stats, Failed)
			continue
		}

		ids, err := p.lookup(ctx, log, folderID)
		if err != nil {
			return stats, err
		}
		if len(ids) == 0 {
			log.Info("Folder returned an error or no images")
			p.record(&stats, Failed)
			continue
		}

		var target models.Row
		if exists {
			target = local.Rows[localIdx]
		} else {
			target = row.Clone()
			target[localKey] = sn
			pending = append(pending, target)
		}
		target[imageCol] = drive.JoinThumbnails(ids, p.cfg.ThumbnailSize, p.cfg.Delimiter)
		if firstCol != "" {
			target[firstCol] = drive.ThumbnailURL(ids[0], p.cfg.ThumbnailSize)
		}
		log.Info("Extracted", len(ids), "images")
		p.record(&stats, Processed)
	}

	for _, row := range pending {
		if err := local.InsertOrdered(localKey, row); err != nil {
			return stats, err
		}
		stats.Inserted++
		if p.metrics != nil {
			p.metrics.IncRows("inserted")
		}
	}

	return stats, nil
}
