package seed

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bancod/bancod/pkg/log"
	"github.com/bancod/bancod/pkg/store"
	"github.com/bancod/bancod/pkg/types"
)

func TestMain(m *testing.M) {
	log.Init(log.Config{Level: log.ErrorLevel, JSONOutput: true, Output: io.Discard})
	os.Exit(m.Run())
}

func TestHostsPartition(t *testing.T) {
	// 3x3 circular placement: node i hosts its own partition plus the
	// two neighbouring ones, so every partition lives on three nodes.
	hosted := map[int][]int{
		1: {1, 2, 3},
		2: {1, 2, 3},
		3: {1, 2, 3},
	}
	for node, parts := range hosted {
		for _, part := range parts {
			assert.True(t, HostsPartition(node, part, 3), "node %d part %d", node, part)
		}
	}

	// With five nodes the neighbourhood is strict: node 1 hosts its
	// primary, the successor partition, and the predecessor's.
	assert.True(t, HostsPartition(1, 1, 5))
	assert.True(t, HostsPartition(1, 2, 5))
	assert.True(t, HostsPartition(1, 5, 5))
	assert.False(t, HostsPartition(1, 3, 5))
	assert.False(t, HostsPartition(1, 4, 5))

	for part := 1; part <= 5; part++ {
		count := 0
		for node := 1; node <= 5; node++ {
			if HostsPartition(node, part, 5) {
				count++
			}
		}
		assert.Equal(t, 3, count, "partition %d replica count", part)
	}
}

func newTestConfig(dir string) *Config {
	return &Config{
		DataDir:      dir,
		Nodes:        3,
		Partitions:   3,
		Accounts:     30,
		Loans:        12,
		Transactions: 20,
		Seed:         1,
	}
}

func TestRunLaysOutNodeDirectories(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	require.NoError(t, NewGenerator(newTestConfig(dir)).Run())

	for node := 1; node <= 3; node++ {
		nodeDir := store.NodeDir(dir, node)
		for part := 1; part <= 3; part++ {
			for _, table := range []string{
				store.TableAccounts, store.TableLoans,
				store.TableTransactions, store.TableHistory,
			} {
				path := filepath.Join(nodeDir, fmt.Sprintf("%s_part%d.txt", table, part))
				_, err := os.Stat(path)
				require.NoError(t, err, "missing %s", path)
			}
		}
	}

	// History starts empty.
	data, err := os.ReadFile(filepath.Join(store.NodeDir(dir, 1), "historial_part1.txt"))
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestRunReplicatesPartitionsIdentically(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	require.NoError(t, NewGenerator(newTestConfig(dir)).Run())

	// Partition 2 is replicated on all three nodes of a 3x3 fleet; the
	// copies must be byte-identical.
	read := func(node int) string {
		data, err := os.ReadFile(filepath.Join(store.NodeDir(dir, node), "cuentas_part2.txt"))
		require.NoError(t, err)
		return string(data)
	}
	primary := read(2)
	assert.NotEmpty(t, primary)
	assert.Equal(t, primary, read(1))
	assert.Equal(t, primary, read(3))
}

func TestRunGeneratesValidRecords(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	cfg := newTestConfig(dir)
	require.NoError(t, NewGenerator(cfg).Run())

	st, err := store.Open(&store.Config{DataDir: dir, NodeID: 1, Partitions: 3})
	require.NoError(t, err)
	st.Lock()
	defer st.Unlock()

	today := types.Today()
	seenAccounts, seenLoans := 0, 0
	for part := 1; part <= 3; part++ {
		lines, err := st.ReadTable(store.TableAccounts, part)
		require.NoError(t, err)
		for _, line := range lines {
			acct, err := types.ParseAccount(line)
			require.NoError(t, err, "line %q", line)
			assert.Equal(t, part, types.PartitionFor(acct.ID, 3))
			assert.Equal(t, types.ClientIDFor(acct.ID), acct.ClientID)
			assert.False(t, acct.Balance.IsNegative())
			seenAccounts++
		}

		loanLines, err := st.ReadTable(store.TableLoans, part)
		require.NoError(t, err)
		for _, line := range loanLines {
			loan, err := types.ParseLoan(line)
			require.NoError(t, err, "line %q", line)
			assert.Equal(t, part, types.PartitionFor(loan.ID, 3))
			assert.False(t, loan.Paid.GreaterThan(loan.Total), "paid exceeds total in %q", line)
			assert.Equal(t, loan.EffectiveStatus(today), loan.Status)
			seenLoans++
		}
	}
	assert.Equal(t, cfg.Accounts, seenAccounts)
	assert.Equal(t, cfg.Loans, seenLoans)
}

func TestRunIsDeterministicForFixedSeed(t *testing.T) {
	dirA := filepath.Join(t.TempDir(), "a")
	dirB := filepath.Join(t.TempDir(), "b")

	cfgA := newTestConfig(dirA)
	cfgB := newTestConfig(dirB)
	require.NoError(t, NewGenerator(cfgA).Run())
	require.NoError(t, NewGenerator(cfgB).Run())

	a, err := os.ReadFile(filepath.Join(store.NodeDir(dirA, 1), "cuentas_part1.txt"))
	require.NoError(t, err)
	b, err := os.ReadFile(filepath.Join(store.NodeDir(dirB, 1), "cuentas_part1.txt"))
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestRunClearsPreviousData(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	stale := filepath.Join(dir, "node9")
	require.NoError(t, os.MkdirAll(stale, 0o755))

	require.NoError(t, NewGenerator(newTestConfig(dir)).Run())
	_, err := os.Stat(stale)
	assert.True(t, os.IsNotExist(err))
}
