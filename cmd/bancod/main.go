package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bancod/bancod/pkg/client"
	"github.com/bancod/bancod/pkg/config"
	"github.com/bancod/bancod/pkg/engine"
	"github.com/bancod/bancod/pkg/log"
	"github.com/bancod/bancod/pkg/metrics"
	"github.com/bancod/bancod/pkg/protocol"
	"github.com/bancod/bancod/pkg/seed"
	"github.com/bancod/bancod/pkg/server"
	"github.com/bancod/bancod/pkg/store"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bancod",
	Short: "bancod - distributed transactional banking store",
	Long: `bancod runs the worker nodes of a small distributed banking
store. Each worker owns a subset of horizontally partitioned flat-file
tables (accounts, loans, transactions, history) and serves a
line-delimited transactional protocol over TCP.`,
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"bancod version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	rootCmd.AddCommand(workerCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(queryCmd)
}

// Worker command
var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run a worker node",
	Long: `Run a worker node serving its partition files under
{data-dir}/node{N}. The data directory must have been seeded first
(see "bancod seed").`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		overrideWorkerFlags(cmd, cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}

		if err := log.InitWorker(log.Config{Level: log.Level(cfg.LogLevel)}, cfg.LogDir, cfg.NodeID); err != nil {
			return err
		}

		st, err := store.Open(&store.Config{
			DataDir:    cfg.DataDir,
			NodeID:     cfg.NodeID,
			Partitions: cfg.Partitions,
		})
		if err != nil {
			return err
		}

		eng := engine.NewEngine(&engine.Config{
			Store:       st,
			ArqueoScope: engine.ArqueoScope(cfg.ArqueoScope),
		})
		srv := server.NewServer(&server.Config{Engine: eng})

		if cfg.MetricsAddr != "" {
			metrics.StartMetricsServer(cfg.MetricsAddr)
			log.Logger.Info().Str("addr", cfg.MetricsAddr).Msg("metrics endpoint started")
		}

		if err := srv.Listen(cfg.ListenAddr()); err != nil {
			return err
		}

		errCh := make(chan error, 1)
		go func() {
			if err := srv.Serve(); err != nil {
				errCh <- fmt.Errorf("server error: %w", err)
			}
		}()

		log.Logger.Info().
			Str("addr", cfg.ListenAddr()).
			Int("partitions", cfg.Partitions).
			Str("arqueo_scope", cfg.ArqueoScope).
			Msg("worker started")

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

		select {
		case <-sigCh:
			log.Info("shutting down")
		case err := <-errCh:
			log.Errorf("worker failed", err)
		}

		srv.Stop()
		log.Info("shutdown complete")
		return nil
	},
}

// overrideWorkerFlags applies explicitly set flags over the file config.
func overrideWorkerFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.Host, _ = flags.GetString("host")
	}
	if flags.Changed("port") {
		cfg.Port, _ = flags.GetInt("port")
	}
	if flags.Changed("node-id") {
		cfg.NodeID, _ = flags.GetInt("node-id")
	}
	if flags.Changed("partitions") {
		cfg.Partitions, _ = flags.GetInt("partitions")
	}
	if flags.Changed("nodes") {
		cfg.Nodes, _ = flags.GetInt("nodes")
	}
	if flags.Changed("data-dir") {
		cfg.DataDir, _ = flags.GetString("data-dir")
	}
	if flags.Changed("log-dir") {
		cfg.LogDir, _ = flags.GetString("log-dir")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("arqueo-scope") {
		cfg.ArqueoScope, _ = flags.GetString("arqueo-scope")
	}
	if flags.Changed("metrics-addr") {
		cfg.MetricsAddr, _ = flags.GetString("metrics-addr")
	}
}

func init() {
	f := workerCmd.Flags()
	f.String("config", "", "Path to YAML config file")
	f.String("host", "localhost", "Listen host")
	f.Int("port", 0, "Listen port")
	f.Int("node-id", 0, "Worker node ID (also its primary partition)")
	f.Int("partitions", 3, "Fleet-wide partition count")
	f.Int("nodes", 3, "Fleet size")
	f.String("data-dir", "data", "Fleet data root directory")
	f.String("log-dir", "logs", "Directory for worker_{N}.log")
	f.String("log-level", "info", "Log level (debug|info|warn|error)")
	f.String("arqueo-scope", "all", "ARQUEO_CUENTAS scope: all local partitions or primary only")
	f.String("metrics-addr", "", "Prometheus metrics listen address (empty = disabled)")
	workerCmd.MarkFlagRequired("port")
	workerCmd.MarkFlagRequired("node-id")
}

// Seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Generate partitioned and replicated node data directories",
	Long: `Seed the fleet data directories from scratch. Any existing
contents of the data directory are removed first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		dataDir, _ := flags.GetString("data-dir")
		nodes, _ := flags.GetInt("nodes")
		partitions, _ := flags.GetInt("partitions")
		accounts, _ := flags.GetInt("accounts")
		loans, _ := flags.GetInt("loans")
		transactions, _ := flags.GetInt("transactions")
		randSeed, _ := flags.GetInt64("seed")

		log.Init(log.Config{Level: log.InfoLevel})

		gen := seed.NewGenerator(&seed.Config{
			DataDir:      dataDir,
			Nodes:        nodes,
			Partitions:   partitions,
			Accounts:     accounts,
			Loans:        loans,
			Transactions: transactions,
			Seed:         randSeed,
		})
		if err := gen.Run(); err != nil {
			return err
		}
		fmt.Printf("✓ Seeded %d nodes under %s\n", nodes, dataDir)
		return nil
	},
}

func init() {
	f := seedCmd.Flags()
	f.String("data-dir", "data", "Fleet data root directory")
	f.Int("nodes", 3, "Fleet size")
	f.Int("partitions", 3, "Partition count")
	f.Int("accounts", 10000, "Number of accounts")
	f.Int("loans", 5000, "Number of loans")
	f.Int("transactions", 20000, "Number of seed transactions")
	f.Int64("seed", 0, "Random seed (0 = from clock)")
}

// Query command
var queryCmd = &cobra.Command{
	Use:   "query QUERY_TYPE [param...]",
	Short: "Send a single query to a worker node",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		txID, _ := cmd.Flags().GetString("tx")

		c := client.NewClient(addr)
		var resp protocol.Response
		var err error
		if txID != "" {
			resp, err = c.ExecuteTx(txID, args[0], args[1:]...)
		} else {
			resp, err = c.Execute(args[0], args[1:]...)
		}
		if err != nil {
			return err
		}

		if resp.Status == protocol.StatusError {
			return fmt.Errorf("%s", resp.Payload)
		}
		if resp.IsTable() {
			headers, rows, err := resp.TableData()
			if err != nil {
				return err
			}
			fmt.Println(strings.Join(headers, "\t"))
			for _, row := range rows {
				fmt.Println(strings.Join(row, "\t"))
			}
			return nil
		}
		fmt.Println(resp.Payload)
		return nil
	},
}

func init() {
	queryCmd.Flags().String("addr", "localhost:9001", "Worker address")
	queryCmd.Flags().String("tx", "", "Correlation ID (default: generated)")
}
