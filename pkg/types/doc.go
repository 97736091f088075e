/*
Package types defines the core data structures of the bancod worker.

This package contains the domain model shared by every other package:
the four partitioned tables (accounts, loans, seed transactions,
history), their line codecs, monetary value handling, and partition
placement math.

# Tables

  - Account:         cuentas_part{p}.txt    id,client_id,balance,opened_on
  - Loan:            prestamos_part{p}.txt  id,client_id,total,paid,status,deadline
  - SeedTransaction: transacciones_part{p}.txt  id,account_id,kind,amount,timestamp
  - HistoryEntry:    historial_part{p}.txt  timestamp|account_id|operation|details|balance_after

The first three tables are comma-separated; history is pipe-separated
so free-form details may contain commas. All files are UTF-8, one
record per line, LF-terminated.

# Money

Monetary values are shopspring decimals quantized to two fractional
digits at parse, after arithmetic, and at render (StringFixed). Values
therefore round-trip exactly through parse -> arithmetic -> render.

# Partitioning

Every table is sharded by PartitionFor(id, P) = ((id-1) mod P) + 1.
A record and its history entries always share a partition index.

# Loan Status

The stored status column is advisory. EffectiveStatus recomputes it:
Cancelado when the outstanding amount is within a one-cent tolerance
(legacy seed data carries float residue), Vencido past the deadline,
Activo otherwise.
*/
package types
