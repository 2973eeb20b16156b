package flights

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Dataset column names. Fecha-O is optional so the loader can also read
// inference-shaped exports that carry no actual departure.
const (
	colOpera     = "OPERA"
	colTipoVuelo = "TIPOVUELO"
	colMes       = "MES"
	colFechaI    = "Fecha-I"
	colFechaO    = "Fecha-O"
)

// LoadDataset reads the historical flight CSV into records. encoding may be
// empty or "utf-8" for plain input, or "latin1" for the pre-normalization
// exports that still carry ISO 8859-1 airline names.
func LoadDataset(path, encoding string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var reader io.Reader = file
	switch strings.ToLower(encoding) {
	case "", "utf8", "utf-8":
	case "latin1", "iso-8859-1":
		reader = transform.NewReader(file, charmap.ISO8859_1.NewDecoder())
	default:
		return nil, fmt.Errorf("unsupported dataset encoding %q", encoding)
	}

	cr := csv.NewReader(reader)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read dataset header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{colOpera, colTipoVuelo, colMes, colFechaI} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("dataset missing column %s", required)
		}
	}
	fechaO, hasFechaO := cols[colFechaO]

	var records []Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read dataset row: %w", err)
		}

		mes, err := strconv.Atoi(strings.TrimSpace(row[cols[colMes]]))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid %s value %q", line, colMes, row[cols[colMes]])
		}

		rec := Record{
			Opera:              row[cols[colOpera]],
			TipoVuelo:          row[cols[colTipoVuelo]],
			Mes:                mes,
			ScheduledDeparture: row[cols[colFechaI]],
		}
		if hasFechaO {
			rec.ActualDeparture = row[fechaO]
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("dataset %s has no rows", path)
	}
	return records, nil
}
