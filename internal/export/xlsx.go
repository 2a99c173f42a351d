package export

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/client-dashboard/internal/model"
)

// SheetName is the worksheet the XLSX export writes.
const SheetName = "Clients"

// WriteXLSX writes rows to a single-sheet workbook at path.
func WriteXLSX(path string, rows []model.NormalizedClientRow) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(SheetName)
	if err != nil {
		return eris.Wrap(err, "xlsx: add sheet")
	}

	addRow(sheet, Columns)
	for _, r := range rows {
		addRow(sheet, record(r))
	}

	if err := f.Save(path); err != nil {
		return eris.Wrap(err, "xlsx: save file")
	}
	return nil
}

func addRow(sheet *xlsx.Sheet, cells []string) {
	row := sheet.AddRow()
	for _, v := range cells {
		row.AddCell().SetString(v)
	}
}
