// Package runner orchestrates one validation run: punch export in, timesheet
// workbook in, discrepancy report and status-annotated workbook out. Each run
// owns its inputs and builds fresh in-memory state, so runs may execute
// concurrently as long as they are given distinct output directories.
package runner

import (
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/chijunzheng/spreadsheet-payroll-automation/internal/config"
	"github.com/chijunzheng/spreadsheet-payroll-automation/internal/grid"
	"github.com/chijunzheng/spreadsheet-payroll-automation/internal/model"
	"github.com/chijunzheng/spreadsheet-payroll-automation/internal/punchcsv"
	"github.com/chijunzheng/spreadsheet-payroll-automation/internal/reconcile"
	"github.com/chijunzheng/spreadsheet-payroll-automation/internal/report"
	"github.com/chijunzheng/spreadsheet-payroll-automation/internal/sheet"
	"github.com/chijunzheng/spreadsheet-payroll-automation/internal/workbook"
)

// Summary describes one completed run.
type Summary struct {
	ReportPath     string
	ValidatedPath  string
	Discrepancies  int
	OK             int
	NeedsAttention int
}

// Runner executes validation runs under one configuration.
type Runner struct {
	cfg *config.Config
	log *zap.Logger
}

// New builds a runner. A nil logger disables logging.
func New(cfg *config.Config, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{cfg: cfg, log: log}
}

// Run validates one punch export against one timesheet workbook and writes
// the outputs into outDir.
func (r *Runner) Run(csvPath, xlsxPath, outDir string) (*Summary, error) {
	punches, err := punchcsv.ReadPunches(csvPath)
	if err != nil {
		return nil, err
	}
	targetDates := punchcsv.TargetDates(punches)

	reportRange, err := punchcsv.ReadReportRange(csvPath)
	if err != nil {
		return nil, err
	}
	hint := punchcsv.SheetHint(reportRange)
	r.log.Info("punch export loaded",
		zap.Int("employee_days", len(punches)),
		zap.String("sheet_hint", hint))

	grids, err := workbook.LoadGrids(xlsxPath, hint)
	if err != nil {
		return nil, err
	}

	extractor := sheet.NewExtractor(r.cfg.Layout)
	var blocks []model.EmployeeBlock
	for _, g := range grids {
		blocks = append(blocks, extractor.Extract(g, targetDates)...)
	}
	r.log.Info("timesheet scanned",
		zap.Int("sheets", len(grids)),
		zap.Int("blocks", len(blocks)))

	engine := reconcile.NewEngine(r.cfg.Rules)
	result := engine.Validate(blocks, punches)

	reportPath := filepath.Join(outDir, "validation_report.csv")
	if err := report.Write(reportPath, result.Discrepancies); err != nil {
		return nil, err
	}

	stem := strings.TrimSuffix(filepath.Base(xlsxPath), filepath.Ext(xlsxPath))
	validatedPath := filepath.Join(outDir, stem+"-validated.xlsx")
	if err := workbook.WriteStatuses(xlsxPath, validatedPath, statusSheet(blocks, grids),
		r.cfg.Layout.StatusWriteCol, result.StatusByRow); err != nil {
		return nil, err
	}

	summary := &Summary{
		ReportPath:     reportPath,
		ValidatedPath:  validatedPath,
		Discrepancies:  len(result.Discrepancies),
		OK:             result.OKCount(),
		NeedsAttention: result.NeedsAttentionCount(),
	}
	r.log.Info("run complete",
		zap.Int("discrepancies", summary.Discrepancies),
		zap.Int("ok", summary.OK),
		zap.Int("needs_attention", summary.NeedsAttention))
	return summary, nil
}

// statusSheet picks the worksheet statuses are written to: the sheet the
// first block came from, else the first selected sheet. Hint filtering keeps
// one weekly tab in practice, so the ambiguity is theoretical.
func statusSheet(blocks []model.EmployeeBlock, grids []*grid.Grid) string {
	if len(blocks) > 0 {
		return blocks[0].Sheet
	}
	if len(grids) > 0 {
		return grids[0].Name
	}
	return ""
}
