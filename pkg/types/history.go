package types

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// History operation names written by the transaction engine
const (
	OpConsulta               = "CONSULTA"
	OpConsultaPrestamos      = "CONSULTA_PRESTAMOS"
	OpTransferenciaEnviada   = "TRANSFERENCIA_ENVIADA"
	OpTransferenciaRecibida  = "TRANSFERENCIA_RECIBIDA"
	OpTransferenciaRechazada = "TRANSFERENCIA_RECHAZADA"
	OpDebit                  = "DEBIT"
	OpCredit                 = "CREDIT"
	OpDebitRechazado         = "DEBIT_RECHAZADO"
	OpPagarDeuda             = "PAGAR_DEUDA"
	OpPagoRechazado          = "PAGO_RECHAZADO"

	// OpDevolucion rows are legacy refunds; CONSULTAR_HISTORIAL drops them.
	OpDevolucion = "DEVOLUCION"
)

// HistoryEntry is one row of the append-only historial table.
// Disk format: timestamp|account_id|operation|details|balance_after
// The history file is pipe-separated so comma-bearing details stay in
// a single field.
type HistoryEntry struct {
	Timestamp    time.Time
	AccountID    int
	Operation    string
	Details      string
	BalanceAfter decimal.Decimal
}

// ParseHistoryEntry decodes one history line.
func ParseHistoryEntry(line string) (HistoryEntry, error) {
	fields := strings.Split(strings.TrimRight(line, "\n"), "|")
	if len(fields) != 5 {
		return HistoryEntry{}, fmt.Errorf("history record has %d fields, want 5", len(fields))
	}
	ts, err := time.Parse(TimestampLayout, fields[0])
	if err != nil {
		return HistoryEntry{}, fmt.Errorf("invalid history timestamp %q: %w", fields[0], err)
	}
	accountID, err := strconv.Atoi(fields[1])
	if err != nil {
		return HistoryEntry{}, fmt.Errorf("invalid history account id %q: %w", fields[1], err)
	}
	balance, err := ParseMoney(fields[4])
	if err != nil {
		return HistoryEntry{}, err
	}
	return HistoryEntry{
		Timestamp:    ts,
		AccountID:    accountID,
		Operation:    fields[2],
		Details:      fields[3],
		BalanceAfter: balance,
	}, nil
}

// Record encodes the entry as one history line (without newline). The
// details field is sanitized: pipes and newlines would corrupt the
// line-oriented format and are stripped.
func (h HistoryEntry) Record() string {
	return strings.Join([]string{
		h.Timestamp.Format(TimestampLayout),
		strconv.Itoa(h.AccountID),
		h.Operation,
		SanitizeDetails(h.Details),
		FormatMoney(h.BalanceAfter),
	}, "|")
}

// SanitizeDetails strips field and record separators from a free-form
// details string before it is embedded in a history line.
func SanitizeDetails(s string) string {
	s = strings.ReplaceAll(s, "|", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.TrimSpace(s)
}
