package parser

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xhad/memogen/internal/models"
)

// extractCSV loads a CSV file into a Table, handled identically to
// spreadsheet content downstream. The table is named after the file.
func extractCSV(path string) (models.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.Table{}, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return models.Table{}, err
	}
	if len(records) == 0 {
		return models.Table{}, fmt.Errorf("csv file is empty")
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	return models.Table{
		Name:    name,
		Columns: records[0],
		Rows:    records[1:],
	}, nil
}
