package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestFitCommand(t *testing.T) {
	out, err := run(t, "fit", "--x", "0,1,2,3,4", "--y", "1,3,5,7,9", "--mask", "0,0,1,1,1")
	require.NoError(t, err)

	var points []map[string]float64
	require.NoError(t, json.Unmarshal([]byte(out), &points))
	require.Len(t, points, 5)
	assert.InDelta(t, 9.0, points[4]["y"], 1e-6)
}

func TestFitCommand_FromCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "series.csv")
	require.NoError(t, os.WriteFile(path, []byte("w,r\n1,2\n2,4\n3,6\n4,8\n"), 0o644))

	out, err := run(t, "fit", "--file", path, "--x-col", "w", "--y-col", "r", "--min", "2")
	require.NoError(t, err)

	var points []map[string]float64
	require.NoError(t, json.Unmarshal([]byte(out), &points))
	require.Len(t, points, 3)
	assert.Equal(t, 2.0, points[0]["x"])
}

func TestFitCommand_Errors(t *testing.T) {
	_, err := run(t, "fit", "--x", "1,2,3")
	assert.Error(t, err, "missing y")

	_, err = run(t, "fit", "--x", "1,two", "--y", "1,2")
	assert.Error(t, err)

	_, err = run(t, "fit", "--x", "1,2,3", "--y", "1,2,3", "--mask", "1,1")
	assert.Error(t, err)
}

func TestBestFitCommand_Verbose(t *testing.T) {
	out, err := run(t, "bestfit", "--x", "0,1,2,3,4,5,6", "--y", "0,1,4,9,16,25,36", "--verbose")
	require.NoError(t, err)

	var got struct {
		Selection struct {
			Degree int `json:"degree"`
		} `json:"selection"`
		Curve []map[string]float64 `json:"curve"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Contains(t, []int{1, 2}, got.Selection.Degree)
	assert.Len(t, got.Curve, 7)
}

func TestInsightsCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "collection.json")
	body := `{"totalItems":2,"items":[{"id":1,"name":"A","userRating":6},{"id":2,"name":"B","userRating":9}]}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	out, err := run(t, "insights", "avgRating", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"avgUserRating": 7.5`)

	_, err = run(t, "insights", "nope", "--file", path)
	assert.Error(t, err)
}

func TestParseFloats(t *testing.T) {
	got, err := parseFloats(" 1, 2.5 ,-3")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2.5, -3}, got)

	_, err = parseFloats("1,,2")
	assert.Error(t, err)
}
