package wordlist_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mirzamitdinovs/vocab-master/internal/wordlist"
)

func TestParseCSVChapterFormat(t *testing.T) {
	csv := "order,korean,translation\n1,안녕,hello\n2,감사,thanks\n"

	rows, skipped, err := wordlist.ParseCSV(strings.NewReader(csv), false)
	require.NoError(t, err)
	assert.Equal(t, 0, skipped)
	require.Len(t, rows, 2)
	assert.Equal(t, wordlist.Row{Order: 1, Korean: "안녕", Translation: "hello"}, rows[0])
	assert.Equal(t, wordlist.Row{Order: 2, Korean: "감사", Translation: "thanks"}, rows[1])
}

func TestParseCSVFlatFormat(t *testing.T) {
	csv := "order,korean,translation,chapter\n1,안녕,hello,Greetings\n1,사과,apple,Food\n"

	rows, skipped, err := wordlist.ParseCSV(strings.NewReader(csv), true)
	require.NoError(t, err)
	assert.Equal(t, 0, skipped)
	require.Len(t, rows, 2)
	assert.Equal(t, "Greetings", rows[0].Chapter)
	assert.Equal(t, "Food", rows[1].Chapter)
}

func TestParseCSVSkipsIncompleteRows(t *testing.T) {
	csv := "order,korean,translation\n1,안녕,hello\n2,,thanks\n3,사과,apple\n4,포도,grape\n"

	rows, skipped, err := wordlist.ParseCSV(strings.NewReader(csv), false)
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	assert.Len(t, rows, 3)
}

func TestParseCSVHeaderMismatch(t *testing.T) {
	csv := "word,meaning\n안녕,hello\n"

	_, _, err := wordlist.ParseCSV(strings.NewReader(csv), false)
	require.Error(t, err)
	assert.Equal(t, "CSV headers must be exactly: order, korean, translation.", err.Error())

	_, _, err = wordlist.ParseCSV(strings.NewReader(csv), true)
	require.Error(t, err)
	assert.Equal(t, "CSV headers must be exactly: order, korean, translation, chapter.", err.Error())
}

func TestParseCSVHeaderAnyOrder(t *testing.T) {
	csv := "Korean,Translation,Order\n안녕,hello,1\n"

	rows, _, err := wordlist.ParseCSV(strings.NewReader(csv), false)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].Order)
	assert.Equal(t, "안녕", rows[0].Korean)
}

func TestParseCSVEmpty(t *testing.T) {
	_, _, err := wordlist.ParseCSV(strings.NewReader(""), false)
	assert.ErrorIs(t, err, wordlist.ErrNoRows)

	_, _, err = wordlist.ParseCSV(strings.NewReader("order,korean,translation\n"), false)
	assert.ErrorIs(t, err, wordlist.ErrNoRows)
}

func TestParseCSVNonNumericOrder(t *testing.T) {
	csv := "order,korean,translation\nabc,안녕,hello\n"

	rows, _, err := wordlist.ParseCSV(strings.NewReader(csv), false)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 0, rows[0].Order)
}

func TestParseXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]string{"order", "korean", "translation"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]string{"1", "안녕", "hello"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]string{"2", "", "thanks"}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	rows, skipped, err := wordlist.ParseXLSX(&buf, false)
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	require.Len(t, rows, 1)
	assert.Equal(t, wordlist.Row{Order: 1, Korean: "안녕", Translation: "hello"}, rows[0])
}
