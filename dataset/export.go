package dataset

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// WriteXLSX exports decoded labels next to their source texts as a
// spreadsheet, one row per example with a header row.
func WriteXLSX(path string, decodedLabels, texts []string) error {
	if len(decodedLabels) != len(texts) {
		return fmt.Errorf("label count %d does not match text count %d", len(decodedLabels), len(texts))
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &[]interface{}{"Label", "Text"}); err != nil {
		return fmt.Errorf("failed to write header row: %v", err)
	}
	for i := range decodedLabels {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to compute cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &[]interface{}{decodedLabels[i], texts[i]}); err != nil {
			return fmt.Errorf("failed to write row %d: %v", i+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save spreadsheet: %v", err)
	}
	return nil
}
