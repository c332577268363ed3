package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSV_SemicolonWithBOM(t *testing.T) {
	data := "\xEF\xBB\xBFGiorno;Città;Stato Giornata;Minuti andata;Arrivo VIS\n" +
		"01/07/2025;MODENA;;70;10:00\n" +
		"02/07/2025;;Ferie;abc;\n"

	rows, err := ParseCSV(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 1, rows[0].Line)
	assert.Equal(t, "01/07/2025", rows[0].Date)
	assert.Equal(t, "MODENA", rows[0].City)
	assert.Equal(t, 70, rows[0].MinutesOutbound)
	assert.Equal(t, "10:00", rows[0].ArrivalAtStore)

	assert.Equal(t, 2, rows[1].Line)
	assert.Equal(t, "Ferie", rows[1].Status)
	assert.Zero(t, rows[1].MinutesOutbound)
}

func TestParseCSV_Comma(t *testing.T) {
	data := "Giorno,Città\n2025-07-03,Parma\n"

	rows, err := ParseCSV(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Parma", rows[0].City)
	assert.Empty(t, rows[0].Status)
}

func TestParseCSV_Errors(t *testing.T) {
	_, err := ParseCSV(strings.NewReader("\xEF\xBB\xBF  \n"))
	assert.ErrorIs(t, err, ErrEmptyFile)

	_, err = ParseCSV(strings.NewReader("Data;Città\n01/07/2025;Parma\n"))
	assert.ErrorIs(t, err, ErrNoHeader)
}

func TestDetectDelimiter(t *testing.T) {
	assert.Equal(t, ';', DetectDelimiter([]byte("a;b\nc,d")))
	assert.Equal(t, ',', DetectDelimiter([]byte("a,b\nc;d")))
}
