// Package importer turns legacy spreadsheet exports into workdays.
package importer

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/wurt83ow/worktravel/internal/models"
)

// Column headers of the legacy spreadsheet.
const (
	ColDate              = "Giorno"
	ColCity              = "Città"
	ColStatus            = "Stato Giornata"
	ColMinutesOutbound   = "Minuti andata"
	ColMinutesReturn     = "Minuti ritorno"
	ColWorkMinutes       = "Minuti lavoro in VIS"
	ColArrivalAtStore    = "Arrivo VIS"
	ColDepartureFromHome = "Partenza da casa"
	ColExitFromStore     = "Uscita VIS"
	ColReturnHome        = "Rientro a casa"
)

// Header is the column order used when exporting.
var Header = []string{
	ColDate, ColCity, ColStatus,
	ColMinutesOutbound, ColMinutesReturn, ColWorkMinutes,
	ColArrivalAtStore, ColDepartureFromHome, ColExitFromStore, ColReturnHome,
}

var (
	ErrEmptyFile = errors.New("csv file is empty")
	ErrNoHeader  = errors.New("csv header has no Giorno column")
)

var bom = []byte{0xEF, 0xBB, 0xBF}

// ParseCSV reads header-keyed records. A leading byte-order mark is dropped
// and the delimiter is ';' when the header line contains one, ',' otherwise.
func ParseCSV(r io.Reader) ([]models.ImportRow, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	data = bytes.TrimPrefix(data, bom)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyFile
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = DetectDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(h)] = i
	}
	if _, ok := index[ColDate]; !ok {
		return nil, ErrNoHeader
	}

	var rows []models.ImportRow
	for line := 1; ; line++ {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}

		get := func(col string) string {
			i, ok := index[col]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		rows = append(rows, models.ImportRow{
			Line:              line,
			Date:              get(ColDate),
			City:              get(ColCity),
			Status:            get(ColStatus),
			MinutesOutbound:   atoiOrZero(get(ColMinutesOutbound)),
			MinutesReturn:     atoiOrZero(get(ColMinutesReturn)),
			WorkMinutes:       atoiOrZero(get(ColWorkMinutes)),
			ArrivalAtStore:    get(ColArrivalAtStore),
			DepartureFromHome: get(ColDepartureFromHome),
			ExitFromStore:     get(ColExitFromStore),
			ReturnHome:        get(ColReturnHome),
		})
	}

	return rows, nil
}

// DetectDelimiter inspects the first line only.
func DetectDelimiter(data []byte) rune {
	sc := bufio.NewScanner(bytes.NewReader(data))
	if sc.Scan() && strings.Contains(sc.Text(), ";") {
		return ';'
	}

	return ','
}

// malformed numbers count as zero rather than failing the row
func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}

	return n
}
