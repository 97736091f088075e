package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Table names, used as on-disk file prefixes ({table}_part{p}.txt)
const (
	TableAccounts     = "cuentas"
	TableLoans        = "prestamos"
	TableTransactions = "transacciones"
	TableHistory      = "historial"
)

// FileNotFoundError reports a missing partition file. Its message is
// the user-visible wire text.
type FileNotFoundError struct {
	Path string
}

func (e *FileNotFoundError) Error() string {
	return "Archivo no encontrado: " + e.Path
}

// Config holds node store configuration
type Config struct {
	DataDir    string // fleet data root, e.g. "data"
	NodeID     int    // this worker's node id; its directory is data/node{N}
	Partitions int    // fleet-wide partition count P
}

// NodeStore owns the flat-file tables inside one node directory. A
// single node-wide mutex serializes every read and write: multi-file
// transactions (transfer, loan payment) need one common critical
// section, and the workload is small enough that coarse locking wins
// on simplicity.
//
// All file methods require the caller to hold the lock; they never
// acquire it themselves. The engine takes the lock once per request.
type NodeStore struct {
	dir        string
	nodeID     int
	partitions int

	mu sync.Mutex
}

// NodeDir returns the node directory for the given id under the data root.
func NodeDir(dataDir string, nodeID int) string {
	return filepath.Join(dataDir, fmt.Sprintf("node%d", nodeID))
}

// Open validates the node directory and returns a store bound to it.
// The directory must already exist; it is created by the seed tool,
// never by the worker.
func Open(cfg *Config) (*NodeStore, error) {
	dir := NodeDir(cfg.DataDir, cfg.NodeID)
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("node data directory %s does not exist: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("node data path %s is not a directory", dir)
	}
	return &NodeStore{
		dir:        dir,
		nodeID:     cfg.NodeID,
		partitions: cfg.Partitions,
	}, nil
}

// Lock acquires the node-wide mutex.
func (s *NodeStore) Lock() { s.mu.Lock() }

// Unlock releases the node-wide mutex.
func (s *NodeStore) Unlock() { s.mu.Unlock() }

// Dir returns the node directory path.
func (s *NodeStore) Dir() string { return s.dir }

// NodeID returns the worker's node id (also its primary partition).
func (s *NodeStore) NodeID() int { return s.nodeID }

// Partitions returns the fleet-wide partition count.
func (s *NodeStore) Partitions() int { return s.partitions }

// Path returns the file path of a table partition.
func (s *NodeStore) Path(table string, part int) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_part%d.txt", table, part))
}

// ReadTable returns all record lines of a table partition, without
// line terminators. A missing file is a *FileNotFoundError, distinct
// from an existing empty file. Caller must hold the lock.
func (s *NodeStore) ReadTable(table string, part int) ([]string, error) {
	path := s.Path(table, part)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &FileNotFoundError{Path: path}
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	content := strings.TrimRight(string(data), "\n")
	if content == "" {
		return nil, nil
	}
	return strings.Split(content, "\n"), nil
}

// WriteTable truncates and rewrites a table partition. The rewrite is
// atomic: lines go to a temp file in the same directory which is then
// renamed over the target, so a crash mid-write leaves the previous
// contents intact. Caller must hold the lock.
func (s *NodeStore) WriteTable(table string, part int, lines []string) error {
	path := s.Path(table, part)
	tmp, err := os.CreateTemp(s.dir, fmt.Sprintf(".%s_part%d-*", table, part))
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()

	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if _, err := tmp.WriteString(b.String()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file for %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// AppendHistory appends one history line to the partition's history
// file, creating it if absent. Caller must hold the lock.
func (s *NodeStore) AppendHistory(part int, line string) error {
	path := s.Path(TableHistory, part)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	if _, err := f.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("failed to append to %s: %w", path, err)
	}
	return nil
}

// HostedPartitions returns the partition indexes for which this node
// has a file of the given table, in ascending order. Primary and
// replica files are indistinguishable on disk; the audit and scan
// operations treat them uniformly. Caller must hold the lock.
func (s *NodeStore) HostedPartitions(table string) []int {
	var parts []int
	for p := 1; p <= s.partitions; p++ {
		if _, err := os.Stat(s.Path(table, p)); err == nil {
			parts = append(parts, p)
		}
	}
	sort.Ints(parts)
	return parts
}
