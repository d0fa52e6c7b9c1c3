package parser

import (
	"fmt"

	"github.com/xhad/memogen/internal/models"
	"github.com/xuri/excelize/v2"
)

// extractWorkbook loads the first sheet of a spreadsheet into a Table. The
// first row is taken as column headers.
func extractWorkbook(path string) (models.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return models.Table{}, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return models.Table{}, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return models.Table{}, err
	}
	if len(rows) == 0 {
		return models.Table{}, fmt.Errorf("sheet %s is empty", sheets[0])
	}

	return models.Table{
		Name:    sheets[0],
		Columns: rows[0],
		Rows:    rows[1:],
	}, nil
}
