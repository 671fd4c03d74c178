// Package excel exports coefficient tables to xlsx workbooks, one sheet per
// study, for the reporting layer.
package excel

import (
	"fmt"
	"sync"

	"github.com/xuri/excelize/v2"

	"statlab/domain/core"
	"statlab/domain/model"
	"statlab/internal/errors"
)

// Writer accumulates sheets in a workbook and saves on Flush. Studies may
// export concurrently, so sheet writes are serialized.
type Writer struct {
	path string

	mu   sync.Mutex
	file *excelize.File
}

// NewWriter creates an exporter that will save to the given path
func NewWriter(path string) *Writer {
	return &Writer{path: path, file: excelize.NewFile()}
}

// ExportFit writes a coefficient table: estimate, standard error, and the
// 95% confidence bounds per parameter.
func (w *Writer) ExportFit(study core.StudyKey, fit *model.Fit) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	sheet := sheetName(study, "mle")
	if _, err := w.file.NewSheet(sheet); err != nil {
		return errors.ExportError("failed to create sheet", err)
	}

	headers := []string{"parameter", "estimate", "std_err", "ci_lower", "ci_upper"}
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := w.file.SetCellValue(sheet, cell, h); err != nil {
			return errors.ExportError("failed to write header", err)
		}
	}

	for i := range fit.Params {
		values := []any{fit.Names[i], fit.Params[i], fit.StdErr[i], fit.Lower[i], fit.Upper[i]}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := w.file.SetCellValue(sheet, cell, v); err != nil {
				return errors.ExportError("failed to write row", err)
			}
		}
	}

	footer, _ := excelize.CoordinatesToCellName(1, len(fit.Params)+3)
	note := fmt.Sprintf("log-likelihood %.4f, converged %v, %d iterations",
		fit.LogLik, fit.Converged, fit.Iterations)
	if err := w.file.SetCellValue(sheet, footer, note); err != nil {
		return errors.ExportError("failed to write footer", err)
	}
	return nil
}

// ExportSummaries writes a posterior summary table: mean, standard
// deviation, and the 95% credible interval per parameter.
func (w *Writer) ExportSummaries(study core.StudyKey, summaries []model.ParamSummary) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	sheet := sheetName(study, "posterior")
	if _, err := w.file.NewSheet(sheet); err != nil {
		return errors.ExportError("failed to create sheet", err)
	}

	headers := []string{"parameter", "mean", "std_dev", "ci_lower", "ci_upper"}
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := w.file.SetCellValue(sheet, cell, h); err != nil {
			return errors.ExportError("failed to write header", err)
		}
	}

	for i, s := range summaries {
		values := []any{s.Name, s.Mean, s.StdDev, s.Lower, s.Upper}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := w.file.SetCellValue(sheet, cell, v); err != nil {
				return errors.ExportError("failed to write row", err)
			}
		}
	}
	return nil
}

// Flush saves the workbook, removing the default empty sheet first
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	// Deleting the default sheet fails when it is the only one; that
	// workbook is empty anyway, so the error is ignored.
	_ = w.file.DeleteSheet("Sheet1")
	if err := w.file.SaveAs(w.path); err != nil {
		return errors.ExportError("failed to save workbook", err)
	}
	return nil
}

// sheetName keeps within excelize's 31-character sheet name limit
func sheetName(study core.StudyKey, kind string) string {
	name := fmt.Sprintf("%s_%s", study, kind)
	if len(name) > 31 {
		name = name[:31]
	}
	return name
}
