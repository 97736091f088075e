package engine

import (
	"fmt"

	"github.com/bancod/bancod/pkg/protocol"
	"github.com/bancod/bancod/pkg/store"
	"github.com/bancod/bancod/pkg/types"
)

// pagarDeuda applies a payment from an account to one of its loans.
// This is the only two-file transaction: the accounts partition and the
// loans partition (which may carry a different index) are rewritten in
// the same critical section. A payment covering the outstanding amount
// cancels the loan and refunds the excess to the account.
func (e *Engine) pagarDeuda(params []string) (string, error) {
	if len(params) != 3 {
		return "", errParams(QueryPagarDeuda)
	}
	accountID, okAcct := parseID(params[0])
	loanID, okLoan := parseID(params[1])
	amount, okAmt := parsePositiveAmount(params[2])
	if !okAcct || !okLoan || !okAmt {
		return "", errParams(QueryPagarDeuda)
	}

	e.store.Lock()
	defer e.store.Unlock()

	loanPart := types.PartitionFor(loanID, e.store.Partitions())
	loanLines, err := e.store.ReadTable(store.TableLoans, loanPart)
	if err != nil {
		return "", err
	}
	loanIdx, loanLine, err := types.FindByID(loanLines, loanID)
	if err != nil {
		return "", DomainError(fmt.Sprintf("Préstamo %d no encontrado", loanID))
	}
	loan, err := types.ParseLoan(loanLine)
	if err != nil {
		return "", err
	}
	if loan.ClientID != types.ClientIDFor(accountID) {
		return "", DomainError(fmt.Sprintf("El préstamo %d no pertenece a la cuenta %d", loanID, accountID))
	}

	remaining := loan.Remaining()
	if !remaining.IsPositive() {
		return "La deuda ya está cancelada", nil
	}

	if loan.Deadline.Before(types.Today()) {
		// Log the attempt with the observed balance; the account may
		// legitimately be unreadable here, history is advisory.
		if _, _, acct, _, err := e.loadAccount(accountID); err == nil {
			detail := fmt.Sprintf("Rechazado pago de %s al préstamo %d: deuda vencida", types.FormatMoney(amount), loanID)
			if err := e.logHistory(accountID, types.OpPagoRechazado, detail, acct.Balance); err != nil {
				return "", err
			}
		}
		return "", ErrOverdueLoan
	}

	acctLines, acctIdx, acct, acctPart, err := e.loadAccount(accountID)
	if err != nil {
		return "", err
	}
	if acct.Balance.LessThan(amount) {
		detail := fmt.Sprintf("Rechazado pago de %s al préstamo %d", types.FormatMoney(amount), loanID)
		if err := e.logHistory(accountID, types.OpPagoRechazado, detail, acct.Balance); err != nil {
			return "", err
		}
		return "", ErrInsufficientFunds
	}

	newBalance := types.Quantize(acct.Balance.Sub(amount))
	var message string
	if amount.GreaterThanOrEqual(remaining) {
		refund := types.Quantize(amount.Sub(remaining))
		newBalance = types.Quantize(newBalance.Add(refund))
		loan.Paid = loan.Total
		loan.Status = types.LoanStatusCancelled
		message = "Pago aplicado, deuda saldada, se devolvió " + types.FormatMoney(refund)
	} else {
		loan.Paid = types.Quantize(loan.Paid.Add(amount))
		loan.Status = types.LoanStatusActive
		message = "Pago aplicado, saldo pendiente: " + types.FormatMoney(loan.Remaining())
	}

	acct.Balance = newBalance
	acctLines[acctIdx] = acct.Record()
	loanLines[loanIdx] = loan.Record()

	if err := e.store.WriteTable(store.TableAccounts, acctPart, acctLines); err != nil {
		return "", err
	}
	if err := e.store.WriteTable(store.TableLoans, loanPart, loanLines); err != nil {
		return "", err
	}

	detail := fmt.Sprintf("Pago de %s al préstamo %d", types.FormatMoney(amount), loanID)
	if err := e.logHistory(accountID, types.OpPagarDeuda, detail, acct.Balance); err != nil {
		return "", err
	}
	return message, nil
}

// estadoPagoPrestamo lists every loan owned by the account's client
// across the locally hosted loan partitions, with the outstanding
// amount and the recomputed status.
func (e *Engine) estadoPagoPrestamo(params []string) (string, error) {
	if len(params) != 1 {
		return "", errParams(QueryEstadoPagoPrestamo)
	}
	accountID, ok := parseID(params[0])
	if !ok {
		return "", errParams(QueryEstadoPagoPrestamo)
	}
	clientID := types.ClientIDFor(accountID)

	e.store.Lock()
	defer e.store.Unlock()

	today := types.Today()
	var rows [][]string
	for _, part := range e.store.HostedPartitions(store.TableLoans) {
		lines, err := e.store.ReadTable(store.TableLoans, part)
		if err != nil {
			return "", err
		}
		for _, line := range lines {
			loan, err := types.ParseLoan(line)
			if err != nil {
				continue
			}
			if loan.ClientID != clientID {
				continue
			}
			rows = append(rows, []string{
				fmt.Sprintf("%d", loan.ID),
				types.FormatMoney(loan.Total),
				types.FormatMoney(loan.Paid),
				types.FormatMoney(loan.Remaining()),
				string(loan.EffectiveStatus(today)),
				loan.Deadline.Format(types.DateLayout),
			})
		}
	}
	if len(rows) == 0 {
		return "", ErrNoLoans
	}

	// Advisory entry with the observed balance, when the account is
	// locally readable.
	if _, _, acct, _, err := e.loadAccount(accountID); err == nil {
		if err := e.logHistory(accountID, types.OpConsultaPrestamos, "Consulta de préstamos", acct.Balance); err != nil {
			return "", err
		}
	}

	headers := []string{"prestamo", "total", "pagado", "pendiente", "estado", "vencimiento"}
	return protocol.Table(headers, rows), nil
}
