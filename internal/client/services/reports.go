package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"time"

	"github.com/dmitrijs2005/calldash/internal/client/httpapi"
	"github.com/dmitrijs2005/calldash/internal/client/models"
	"github.com/dmitrijs2005/calldash/internal/common"
	"github.com/dmitrijs2005/calldash/internal/filex"
	"github.com/dmitrijs2005/calldash/internal/logging"
	"github.com/xuri/excelize/v2"
)

const statsSheet = "Stats"

// ReportService exports the merged statistics table.
type ReportService interface {
	ExportStats(ctx context.Context, period models.Period, email string) (*ExportResult, error)
}

// ExportResult describes what happened to an exported workbook. The upload
// to the admin API is mandatory; the local copy and the archive are
// best-effort and report their failures in Warnings.
type ExportResult struct {
	FileName   string
	Rows       int
	LocalPath  string
	ArchiveKey string
	ArchiveURL string
	Warnings   []error
}

type reportService struct {
	api       httpapi.Doer
	stats     StatsService
	archive   *ReportArchive
	reportDir string
	inflight  *InFlight
	logger    logging.Logger
	now       func() time.Time
}

// NewReportService wires the exporter. archive may be nil and reportDir
// empty to skip those copies.
func NewReportService(api httpapi.Doer, stats StatsService, archive *ReportArchive, reportDir string, guard *InFlight, logger logging.Logger) ReportService {
	if guard == nil {
		guard = NewInFlight()
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &reportService{
		api:       api,
		stats:     stats,
		archive:   archive,
		reportDir: reportDir,
		inflight:  guard,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *reportService) ExportStats(ctx context.Context, period models.Period, email string) (*ExportResult, error) {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return nil, fmt.Errorf("invalid email %q: %w", email, err)
	}

	var res *ExportResult
	err = s.inflight.Do("export", func() error {
		merged, err := s.stats.MergedStats(ctx, period)
		if err != nil {
			return err
		}

		data, err := BuildWorkbook(merged.Rows)
		if err != nil {
			return err
		}

		res = &ExportResult{
			FileName: fmt.Sprintf("agent-stats-%s-%s.xlsx", period, s.now().Format("20060102-150405")),
			Rows:     len(merged.Rows),
		}
		if merged.Warning != nil {
			res.Warnings = append(res.Warnings, merged.Warning)
		}

		form, err := httpapi.NewMultipart([][2]string{{"email", addr.Address}}, httpapi.FilePart{
			Field:       "file",
			FileName:    res.FileName,
			ContentType: xlsxContentType,
			Data:        data,
		})
		if err != nil {
			return err
		}
		if err := s.api.Do(ctx, http.MethodPost, common.APIPrefix+"send-employee-statics-excelfile", form, nil, nil); err != nil {
			s.logger.Warn(ctx, "stats export upload failed", "error", err)
			return fmt.Errorf("send report: %w", err)
		}

		s.keepCopies(ctx, res, data)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *reportService) keepCopies(ctx context.Context, res *ExportResult, data []byte) {
	if s.reportDir != "" {
		path, err := filex.WriteFile(s.reportDir, res.FileName, data)
		if err != nil {
			s.logger.Warn(ctx, "local report copy failed", "error", err)
			res.Warnings = append(res.Warnings, err)
		} else {
			res.LocalPath = path
		}
	}

	if s.archive != nil {
		key, url, err := s.archive.Store(ctx, res.FileName, data)
		res.ArchiveKey, res.ArchiveURL = key, url
		if err != nil {
			s.logger.Warn(ctx, "report archive failed", "error", err)
			res.Warnings = append(res.Warnings, err)
		}
	}
}

// BuildWorkbook renders rows into a single-sheet .xlsx file: one header row
// followed by one row per agent.
func BuildWorkbook(rows []models.AgentStats) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", statsSheet); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	header := make([]any, 0, len(models.StatsColumns)+1)
	header = append(header, "Agent")
	for _, c := range models.StatsColumns {
		header = append(header, c)
	}
	if err := f.SetSheetRow(statsSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	if err := f.SetRowStyle(statsSheet, 1, 1, bold); err != nil {
		return nil, fmt.Errorf("apply header style: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := r.Values()
		row := make([]any, 0, len(values)+1)
		row = append(row, r.Name)
		for _, v := range values {
			row = append(row, v)
		}
		if err := f.SetSheetRow(statsSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Warning joins the export warnings into one error, or nil.
func (r *ExportResult) Warning() error {
	return errors.Join(r.Warnings...)
}
