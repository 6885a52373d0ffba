package transfer

import (
	"fmt"
	"io"

	"github.com/jonathan/interview-prep/internal/bank"
	"github.com/xuri/excelize/v2"
)

const workbookSheet = "Questions"

var workbookHeaders = []string{"Main category", "Category", "Follow-up", "Question", "Answer", "Keywords"}

// WorkbookFileName returns the download name of a question-bank spreadsheet.
func WorkbookFileName(companyName string) string {
	return SanitizeFileName(companyName) + "_interview.xlsx"
}

// WriteWorkbook writes the question bank as an XLSX spreadsheet, one row per question
// in bank order.
func WriteWorkbook(w io.Writer, snap bank.Snapshot) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", workbookSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	// Header row
	for i, h := range workbookHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(workbookSheet, cell, h); err != nil {
			return err
		}
	}

	// Data rows
	for r, q := range snap.Questions() {
		followup := ""
		if q.IsFollowup {
			followup = "Y"
		}
		row := []string{q.MainCategory, q.Category, followup, q.Question.Question, q.Answer, q.Keywords}
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(workbookSheet, cell, v); err != nil {
				return err
			}
		}
	}

	if err := f.SetPanes(workbookSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
