package seed

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/bancod/bancod/pkg/log"
	"github.com/bancod/bancod/pkg/store"
	"github.com/bancod/bancod/pkg/types"
)

// Config holds generator configuration
type Config struct {
	DataDir      string
	Nodes        int
	Partitions   int
	Accounts     int
	Loans        int
	Transactions int
	// Seed fixes the random source; zero derives one from the clock.
	Seed int64
}

// Generator seeds the fleet's node directories with partitioned and
// replicated table files. It is a one-shot bootstrap tool: workers
// assume the layout it produces and never create files themselves
// (except history appends).
type Generator struct {
	cfg    *Config
	rng    *rand.Rand
	logger zerolog.Logger
}

// NewGenerator creates a generator.
func NewGenerator(cfg *Config) *Generator {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(seed)),
		logger: log.WithComponent("seed"),
	}
}

// HostsPartition reports whether a node hosts a partition under the
// circular placement rule: node i is primary for partition i and
// replica for its two neighbours.
func HostsPartition(nodeID, part, nodes int) bool {
	return nodeID == part ||
		(nodeID%nodes)+1 == part ||
		(part%nodes)+1 == nodeID
}

// Run regenerates the data directory from scratch: any existing
// contents are removed first.
func (g *Generator) Run() error {
	if err := os.RemoveAll(g.cfg.DataDir); err != nil {
		return fmt.Errorf("failed to clear data directory: %w", err)
	}

	g.logger.Info().
		Int("accounts", g.cfg.Accounts).
		Int("loans", g.cfg.Loans).
		Int("transactions", g.cfg.Transactions).
		Msg("generating base data")

	tables := map[string][]string{
		store.TableAccounts:     g.accounts(),
		store.TableLoans:        g.loans(),
		store.TableTransactions: g.transactions(),
	}

	// Partition every table by record id, then lay the partitions out
	// on the nodes.
	partitioned := make(map[string][][]string, len(tables))
	for table, lines := range tables {
		shards := make([][]string, g.cfg.Partitions+1)
		for i, line := range lines {
			p := types.PartitionFor(i+1, g.cfg.Partitions)
			shards[p] = append(shards[p], line)
		}
		partitioned[table] = shards
	}

	for node := 1; node <= g.cfg.Nodes; node++ {
		dir := store.NodeDir(g.cfg.DataDir, node)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
		for part := 1; part <= g.cfg.Partitions; part++ {
			if !HostsPartition(node, part, g.cfg.Nodes) {
				continue
			}
			for table, shards := range partitioned {
				if err := writeLines(dir, table, part, shards[part]); err != nil {
					return err
				}
			}
			// History starts empty for every hosted partition.
			if err := writeLines(dir, store.TableHistory, part, nil); err != nil {
				return err
			}
		}
		g.logger.Info().Int("node", node).Msg("node directory seeded")
	}
	return nil
}

func writeLines(dir, table string, part int, lines []string) error {
	path := filepath.Join(dir, fmt.Sprintf("%s_part%d.txt", table, part))
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// cents returns a uniform monetary value in [lo, hi] expressed in cents.
func (g *Generator) cents(lo, hi int64) decimal.Decimal {
	return decimal.New(lo+g.rng.Int63n(hi-lo+1), -2)
}

func (g *Generator) accounts() []string {
	opened := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	lines := make([]string, 0, g.cfg.Accounts)
	for id := 1; id <= g.cfg.Accounts; id++ {
		a := types.Account{
			ID:       id,
			ClientID: types.ClientIDFor(id),
			Balance:  g.cents(0, 1_000_000),
			OpenedOn: opened.AddDate(0, 0, g.rng.Intn(1826)),
		}
		lines = append(lines, a.Record())
	}
	return lines
}

func (g *Generator) loans() []string {
	start := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	lines := make([]string, 0, g.cfg.Loans)
	today := types.Today()
	for id := 1; id <= g.cfg.Loans; id++ {
		total := g.cents(50_000, 2_000_000)
		paid := g.cents(0, 500_000)
		if paid.GreaterThan(total) {
			paid = total
		}
		l := types.Loan{
			ID:       id,
			ClientID: types.ClientIDFor(1 + g.rng.Intn(g.cfg.Accounts)),
			Total:    total,
			Paid:     paid,
			Deadline: start.AddDate(0, 0, g.rng.Intn(1096)),
		}
		l.Status = l.EffectiveStatus(today)
		lines = append(lines, l.Record())
	}
	return lines
}

func (g *Generator) transactions() []string {
	kinds := []string{"Deposito", "Retiro", "Transferencia"}
	now := time.Now()
	lines := make([]string, 0, g.cfg.Transactions)
	for id := 1; id <= g.cfg.Transactions; id++ {
		t := types.SeedTransaction{
			ID:        id,
			AccountID: 1 + g.rng.Intn(g.cfg.Accounts),
			Kind:      kinds[g.rng.Intn(len(kinds))],
			Amount:    g.cents(1_000, 100_000),
			Timestamp: now.AddDate(0, 0, -g.rng.Intn(366)),
		}
		lines = append(lines, t.Record())
	}
	return lines
}
