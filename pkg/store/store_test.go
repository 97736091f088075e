package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *NodeStore {
	t.Helper()
	dataDir := t.TempDir()
	require.NoError(t, os.MkdirAll(NodeDir(dataDir, 1), 0o755))

	s, err := Open(&Config{DataDir: dataDir, NodeID: 1, Partitions: 3})
	require.NoError(t, err)
	return s
}

func TestOpenMissingDirectory(t *testing.T) {
	_, err := Open(&Config{DataDir: t.TempDir(), NodeID: 2, Partitions: 3})
	assert.Error(t, err)
}

func TestNodeDir(t *testing.T) {
	assert.Equal(t, filepath.Join("data", "node2"), NodeDir("data", 2))
}

func TestReadTableMissingFile(t *testing.T) {
	s := newTestStore(t)
	s.Lock()
	defer s.Unlock()

	_, err := s.ReadTable(TableAccounts, 1)
	require.Error(t, err)

	var notFound *FileNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "Archivo no encontrado: "+s.Path(TableAccounts, 1), err.Error())
}

func TestReadTableEmptyIsNotMissing(t *testing.T) {
	s := newTestStore(t)
	s.Lock()
	defer s.Unlock()

	require.NoError(t, s.WriteTable(TableAccounts, 1, nil))
	lines, err := s.ReadTable(TableAccounts, 1)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestWriteReadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	s.Lock()
	defer s.Unlock()

	want := []string{
		"1,cliente_1,10.00,2020-01-01",
		"4,cliente_4,20.50,2020-02-02",
	}
	require.NoError(t, s.WriteTable(TableAccounts, 1, want))

	got, err := s.ReadTable(TableAccounts, 1)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// Rewrite replaces, never appends.
	require.NoError(t, s.WriteTable(TableAccounts, 1, want[:1]))
	got, err = s.ReadTable(TableAccounts, 1)
	require.NoError(t, err)
	assert.Equal(t, want[:1], got)
}

func TestWriteTableLeavesNoTempFiles(t *testing.T) {
	s := newTestStore(t)
	s.Lock()
	require.NoError(t, s.WriteTable(TableLoans, 2, []string{"1,cliente_1,100.00,0.00,Activo,2027-01-01"}))
	s.Unlock()

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "prestamos_part2.txt", entries[0].Name())
}

func TestAppendHistory(t *testing.T) {
	s := newTestStore(t)
	s.Lock()
	defer s.Unlock()

	require.NoError(t, s.AppendHistory(1, "2026-08-25 10:00:00|7|CONSULTA|Consulta de cuenta|100.00"))
	require.NoError(t, s.AppendHistory(1, "2026-08-25 10:00:01|7|DEBIT|DEBIT|90.00"))

	lines, err := s.ReadTable(TableHistory, 1)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "CONSULTA")
	assert.Contains(t, lines[1], "DEBIT")
}

func TestHostedPartitions(t *testing.T) {
	s := newTestStore(t)
	s.Lock()
	defer s.Unlock()

	assert.Empty(t, s.HostedPartitions(TableAccounts))

	require.NoError(t, s.WriteTable(TableAccounts, 1, nil))
	require.NoError(t, s.WriteTable(TableAccounts, 3, nil))
	assert.Equal(t, []int{1, 3}, s.HostedPartitions(TableAccounts))
}
