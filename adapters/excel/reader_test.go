package excel

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"trendfit/internal/errors"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadTable_CSV(t *testing.T) {
	path := writeCSV(t, "x, y ,label\n1,2.5,a\n2,,b\n3,4.5\n")

	table, err := NewDataReader(path, "", nil).ReadTable()
	require.NoError(t, err)

	assert.Equal(t, []string{"x", "y", "label"}, table.Headers)
	require.Len(t, table.Rows, 3)
	assert.Equal(t, "", table.Rows[2]["label"])

	xs, ys, err := table.Pairs("x", "y")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 3}, xs)
	assert.Equal(t, []float64{2.5, 4.5}, ys)
}

func TestReadTable_XLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	_, err := f.NewSheet("Plays")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Plays", "A1", &[]interface{}{"weight", "rating"}))
	require.NoError(t, f.SetSheetRow("Plays", "A2", &[]interface{}{1.5, 7}))
	require.NoError(t, f.SetSheetRow("Plays", "A3", &[]interface{}{3.25, 8}))
	path := filepath.Join(t.TempDir(), "data.xlsx")
	require.NoError(t, f.SaveAs(path))

	table, err := NewDataReader(path, "Plays", nil).ReadTable()
	require.NoError(t, err)

	xs, ys, err := table.Pairs("weight", "rating")
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, 3.25}, xs)
	assert.Equal(t, []float64{7, 8}, ys)
}

func TestReadTable_Errors(t *testing.T) {
	_, err := NewDataReader(filepath.Join(t.TempDir(), "missing.csv"), "", nil).ReadTable()
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))

	_, err = NewDataReader(writeCSV(t, "x,y\n"), "", nil).ReadTable()
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestCollectionFromTable(t *testing.T) {
	path := writeCSV(t, "id,name,userRating,averageWeight,numPlays,medianPrice\n"+
		"174430,Gloomhaven,9,3.87,12,\n"+
		"13,Catan,,2.3,0,25.5\n")
	table, err := NewDataReader(path, "", nil).ReadTable()
	require.NoError(t, err)

	coll, err := CollectionFromTable(table)
	require.NoError(t, err)

	require.Len(t, coll.Items, 2)
	assert.Equal(t, 2, coll.TotalItems)

	first := coll.Items[0]
	assert.Equal(t, 174430, first.ID)
	assert.Equal(t, "Gloomhaven", first.Name)
	require.NotNil(t, first.UserRating)
	assert.Equal(t, 9.0, *first.UserRating)
	assert.Equal(t, 12, first.NumPlays)
	assert.Nil(t, first.MedianPrice)
	assert.Nil(t, first.YearPublished, "missing column")

	assert.Nil(t, coll.Items[1].UserRating)
	assert.Equal(t, 25.5, *coll.Items[1].MedianPrice)
}

func TestCollectionFromTable_BadCell(t *testing.T) {
	table, err := NewDataReader(writeCSV(t, "id,userRating\n1,great\n"), "", nil).ReadTable()
	require.NoError(t, err)

	_, err = CollectionFromTable(table)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}
