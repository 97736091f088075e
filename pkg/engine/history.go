package engine

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bancod/bancod/pkg/protocol"
	"github.com/bancod/bancod/pkg/store"
	"github.com/bancod/bancod/pkg/types"
)

// logHistory appends an audit entry to the history partition of the
// account. Called inside the operation's critical section, so the entry
// is consistent with the balance it records.
func (e *Engine) logHistory(accountID int, operation, details string, balanceAfter decimal.Decimal) error {
	part := types.PartitionFor(accountID, e.store.Partitions())
	entry := types.HistoryEntry{
		Timestamp:    time.Now(),
		AccountID:    accountID,
		Operation:    operation,
		Details:      details,
		BalanceAfter: balanceAfter,
	}
	return e.store.AppendHistory(part, entry.Record())
}

// consultarHistorial returns the account's audit trail across every
// locally hosted history partition, newest first. Legacy DEVOLUCION
// rows are dropped. Replica history files are not synchronized across
// the fleet; the rows returned reflect the operations this node served.
func (e *Engine) consultarHistorial(params []string) (string, error) {
	if len(params) != 1 {
		return "", errParams(QueryConsultarHistorial)
	}
	accountID, ok := parseID(params[0])
	if !ok {
		return "", errParams(QueryConsultarHistorial)
	}

	e.store.Lock()
	defer e.store.Unlock()

	var entries []types.HistoryEntry
	for _, part := range e.store.HostedPartitions(store.TableHistory) {
		lines, err := e.store.ReadTable(store.TableHistory, part)
		if err != nil {
			return "", err
		}
		for _, line := range lines {
			entry, err := types.ParseHistoryEntry(line)
			if err != nil {
				continue
			}
			if entry.AccountID != accountID || entry.Operation == types.OpDevolucion {
				continue
			}
			entries = append(entries, entry)
		}
	}
	if len(entries) == 0 {
		return "Sin movimientos registrados", nil
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})

	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []string{
			entry.Timestamp.Format(types.TimestampLayout),
			strconv.Itoa(entry.AccountID),
			entry.Operation,
			commaSafe(entry.Details),
			types.FormatMoney(entry.BalanceAfter),
		})
	}
	headers := []string{"fecha", "cuenta", "operacion", "detalle", "saldo"}
	return protocol.Table(headers, rows), nil
}

// commaSafe keeps free-form details from breaking the comma-joined
// table rows. The on-disk pipe format keeps the original text.
func commaSafe(s string) string {
	return strings.ReplaceAll(s, ",", " ")
}
