package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	columns = []string{"id", "name", "email"}
	rows    = [][]string{
		{"1", "Alice", "temp@email.com"},
		{"2", "O'Brien, Pat", `say "hi"`},
	}
)

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("CSV")
	require.NoError(t, err)
	assert.Equal(t, CSV, f)

	f, err = ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, JSON, f)

	_, err = ParseFormat("xlsx")
	assert.Error(t, err)
}

func TestWrite_CSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, CSV, columns, rows))

	got, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, append([][]string{columns}, rows...), got)
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, JSON, columns, rows))

	var got []map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, map[string]string{"id": "2", "name": "O'Brien, Pat", "email": `say "hi"`}, got[1])

	// keys keep column order
	assert.Contains(t, buf.String(), `{"id": "1", "name": "Alice", "email": "temp@email.com"}`)
}

func TestWrite_JSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, JSON, columns, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestWrite_UnknownFormat(t *testing.T) {
	assert.Error(t, Write(&bytes.Buffer{}, Format("xml"), columns, rows))
}

func TestToFile(t *testing.T) {
	dir := t.TempDir()

	path, err := ToFile(filepath.Join(dir, "out", "users"), CSV, columns, rows)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "out", "users.csv"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "id,name,email\n1,Alice,temp@email.com\n")

	path, err = ToFile(filepath.Join(dir, "users.JSON"), JSON, columns, rows)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "users.JSON"), path)
}

func TestToFile_Unwritable(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	_, err := ToFile(filepath.Join(blocker, "users"), CSV, columns, rows)
	assert.Error(t, err)
}
