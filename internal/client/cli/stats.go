package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/calldash/internal/client/models"
)

// Stats prints the merged per-agent table for the period.
func (a *App) Stats(ctx context.Context, period string) error {
	p, err := models.ParsePeriod(period)
	if err != nil {
		a.toast(err, "Unknown period.")
		return err
	}

	merged, err := a.stats.MergedStats(ctx, p)
	if err != nil {
		a.toast(err, "Could not load statistics.")
		return err
	}
	if merged.Warning != nil {
		a.toast(merged.Warning, "Agent list unavailable, showing period data only.")
	}
	if len(merged.Rows) == 0 {
		a.println("No statistics yet.")
		return nil
	}
	a.println(renderStatsTable(merged.Rows))
	return nil
}

// Export mails the stats workbook to email.
func (a *App) Export(ctx context.Context, email, period string) error {
	if email == "" {
		var err error
		if email, err = getSimpleText(a.reader, "Send report to (email)", a.out); err != nil {
			return err
		}
	}
	p, err := models.ParsePeriod(period)
	if err != nil {
		a.toast(err, "Unknown period.")
		return err
	}

	res, err := a.reports.ExportStats(ctx, p, email)
	if err != nil {
		a.toast(err, "Export failed.")
		return err
	}

	a.println(renderOK(fmt.Sprintf("Sent %s (%d agents) to %s.", res.FileName, res.Rows, email)))
	if res.LocalPath != "" {
		a.println("Saved copy:", res.LocalPath)
	}
	if res.ArchiveURL != "" {
		a.println("Archive link:", res.ArchiveURL)
	}
	for _, w := range res.Warnings {
		a.toast(w, "")
	}
	return nil
}
