// Package export renders computed leaderboards as spreadsheet workbooks.
package export

import (
	"fmt"
	"io"

	"github.com/okian/salesboard/internal/domain/leaderboard"
	"github.com/okian/salesboard/internal/domain/model"
	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of the workbooks written by WriteXLSX.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Sheet names, one per role board.
const (
	SheetSales           = "Sales"
	SheetAccountManagers = "Account Managers"
)

// Header is the first row of every sheet.
var Header = []any{"Rank", "Name", "Region", "BU", "Score"}

// Filename returns the attachment name for a report covering w.
func Filename(w leaderboard.Window) string {
	return fmt.Sprintf("leaderboard_%s_%s.xlsx", w.Start, w.End)
}

// WriteXLSX writes report as a workbook with one sheet per role board.
// Rank is the 1-based board position.
func WriteXLSX(out io.Writer, report leaderboard.Report) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close workbook: %w", cerr)
		}
	}()

	// A new file starts with "Sheet1"; rename it rather than leave it empty.
	if err := f.SetSheetName(f.GetSheetName(0), SheetSales); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetAccountManagers); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}

	for _, sheet := range []struct {
		name string
		role model.Role
	}{
		{SheetSales, model.RoleSales},
		{SheetAccountManagers, model.RoleAccountManager},
	} {
		if err := writeBoard(f, sheet.name, report.Boards.For(sheet.role)); err != nil {
			return err
		}
	}

	if err := f.SetDocProps(&excelize.DocProperties{
		Title:       "Leaderboard " + report.Window.String(),
		Description: fmt.Sprintf("%d events considered", report.Considered),
	}); err != nil {
		return fmt.Errorf("set properties: %w", err)
	}
	if err := f.Write(out); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeBoard(f *excelize.File, sheet string, entries []leaderboard.Entry) error {
	if err := f.SetSheetRow(sheet, "A1", &Header); err != nil {
		return fmt.Errorf("write header %s: %w", sheet, err)
	}
	for i, e := range entries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		row := []any{i + 1, e.Name, e.Region, e.BU, e.Score}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	if err := f.SetColWidth(sheet, "B", "D", 20); err != nil {
		return fmt.Errorf("set width %s: %w", sheet, err)
	}
	return nil
}
