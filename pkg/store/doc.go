/*
Package store implements the flat-file on-disk store of a worker node.

Each node owns a directory data/node{N} holding partitioned table files
({table}_part{p}.txt) for the partitions it hosts, primary and replicas
alike. The store provides whole-file primitives only: read all lines,
rewrite all lines, append a history line. Record-level interpretation
lives in pkg/types; transactional semantics live in pkg/engine.

# Locking

One node-wide mutex guards every access to the directory. File methods
do not lock; the caller (the transaction engine) acquires the lock once
per request so multi-file transactions run in a single critical
section:

	s.Lock()
	defer s.Unlock()
	lines, err := s.ReadTable(store.TableAccounts, part)
	...
	err = s.WriteTable(store.TableAccounts, part, lines)
	err = s.AppendHistory(part, entry.Record())

# Atomicity

WriteTable writes to a temp file in the node directory and renames it
over the target. An observer holding the lock sees either all lines or
none, and a crash mid-write leaves the previous file contents intact.

# Errors

A missing partition file surfaces as *FileNotFoundError whose message
("Archivo no encontrado: ...") is the user-visible wire text, distinct
from an existing empty file which reads as zero records.
*/
package store
