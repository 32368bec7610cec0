package steps

import (
	"time"

	"github.com/cucumber/godog"
	"github.com/cucumber/messages/go/v21"
)

var defaultTestTime = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// getCellValueFromTable finds a cell value by header name
func getCellValueFromTable(table *godog.Table, row *messages.PickleTableRow, columnName string) string {
	if len(table.Rows) == 0 {
		return ""
	}

	headerRow := table.Rows[0]

	for i, headerCell := range headerRow.Cells {
		if headerCell.Value == columnName {
			if i < len(row.Cells) {
				return row.Cells[i].Value
			}
			return ""
		}
	}

	return ""
}
