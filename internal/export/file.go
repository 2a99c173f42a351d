package export

import (
	"os"

	"github.com/rotisserie/eris"

	"github.com/sells-group/client-dashboard/internal/model"
)

func writeCSVFile(path string, rows []model.NormalizedClientRow) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "export: create csv file")
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = eris.Wrap(cerr, "export: close csv file")
		}
	}()
	return WriteCSV(f, rows)
}
