package engine

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/bancod/bancod/pkg/store"
	"github.com/bancod/bancod/pkg/types"
)

// parseID parses a numeric record id parameter.
func parseID(s string) (int, bool) {
	id, err := strconv.Atoi(s)
	return id, err == nil && id > 0
}

// parsePositiveAmount parses a monetary parameter, requiring a strictly
// positive value.
func parsePositiveAmount(s string) (decimal.Decimal, bool) {
	amount, err := types.ParseMoney(s)
	return amount, err == nil && amount.IsPositive()
}

// loadAccount reads the partition hosting the account and locates its
// record. Caller must hold the store lock.
func (e *Engine) loadAccount(id int) (lines []string, idx int, acct types.Account, part int, err error) {
	part = types.PartitionFor(id, e.store.Partitions())
	lines, err = e.store.ReadTable(store.TableAccounts, part)
	if err != nil {
		return nil, -1, types.Account{}, part, err
	}
	idx, line, err := types.FindByID(lines, id)
	if err != nil {
		return nil, -1, types.Account{}, part, err
	}
	acct, err = types.ParseAccount(line)
	if err != nil {
		return nil, -1, types.Account{}, part, err
	}
	return lines, idx, acct, part, nil
}

// consultarCuenta returns the account row: id, client id, balance and
// opening date. The observed balance is recorded in the history.
func (e *Engine) consultarCuenta(params []string) (string, error) {
	if len(params) != 1 {
		return "", errParams(QueryConsultarCuenta)
	}
	id, ok := parseID(params[0])
	if !ok {
		return "", errParams(QueryConsultarCuenta)
	}

	e.store.Lock()
	defer e.store.Unlock()

	_, _, acct, _, err := e.loadAccount(id)
	if err != nil {
		return "", err
	}
	if err := e.logHistory(acct.ID, types.OpConsulta, "Consulta de cuenta", acct.Balance); err != nil {
		return "", err
	}
	return acct.Record(), nil
}

// transferirCuenta moves an amount between two accounts of the same
// partition. The partition file is rewritten once with both balances
// updated, so the sum of the two balances is preserved exactly.
func (e *Engine) transferirCuenta(params []string) (string, error) {
	if len(params) != 3 {
		return "", errParams(QueryTransferirCuenta)
	}
	src, okSrc := parseID(params[0])
	dst, okDst := parseID(params[1])
	amount, okAmt := parsePositiveAmount(params[2])
	if !okSrc || !okDst || !okAmt || src == dst {
		return "", errParams(QueryTransferirCuenta)
	}

	part := types.PartitionFor(src, e.store.Partitions())
	if types.PartitionFor(dst, e.store.Partitions()) != part {
		return "", ErrSamePartitionOnly
	}

	e.store.Lock()
	defer e.store.Unlock()

	lines, err := e.store.ReadTable(store.TableAccounts, part)
	if err != nil {
		return "", err
	}
	srcIdx, srcLine, err := types.FindByID(lines, src)
	if err != nil {
		return "", DomainError(fmt.Sprintf("Cuenta de origen %d no encontrada", src))
	}
	dstIdx, dstLine, err := types.FindByID(lines, dst)
	if err != nil {
		return "", DomainError(fmt.Sprintf("Cuenta de destino %d no encontrada", dst))
	}
	srcAcct, err := types.ParseAccount(srcLine)
	if err != nil {
		return "", err
	}
	dstAcct, err := types.ParseAccount(dstLine)
	if err != nil {
		return "", err
	}

	if srcAcct.Balance.LessThan(amount) {
		detail := fmt.Sprintf("Rechazada transferencia de %s a cuenta %d", types.FormatMoney(amount), dst)
		if err := e.logHistory(src, types.OpTransferenciaRechazada, detail, srcAcct.Balance); err != nil {
			return "", err
		}
		return "", ErrInsufficientFunds
	}

	srcAcct.Balance = types.Quantize(srcAcct.Balance.Sub(amount))
	dstAcct.Balance = types.Quantize(dstAcct.Balance.Add(amount))
	lines[srcIdx] = srcAcct.Record()
	lines[dstIdx] = dstAcct.Record()

	if err := e.store.WriteTable(store.TableAccounts, part, lines); err != nil {
		return "", err
	}

	sent := fmt.Sprintf("Transferencia de %s a cuenta %d", types.FormatMoney(amount), dst)
	if err := e.logHistory(src, types.OpTransferenciaEnviada, sent, srcAcct.Balance); err != nil {
		return "", err
	}
	received := fmt.Sprintf("Transferencia de %s desde cuenta %d", types.FormatMoney(amount), src)
	if err := e.logHistory(dst, types.OpTransferenciaRecibida, received, dstAcct.Balance); err != nil {
		return "", err
	}
	return "Transferencia completada", nil
}

// debit decrements an account balance, requiring sufficient funds.
func (e *Engine) debit(params []string) (string, error) {
	if len(params) != 2 && len(params) != 3 {
		return "", errParams(QueryDebit)
	}
	id, okID := parseID(params[0])
	amount, okAmt := parsePositiveAmount(params[1])
	if !okID || !okAmt {
		return "", errParams(QueryDebit)
	}
	description := types.OpDebit
	if len(params) == 3 && params[2] != "" {
		description = params[2]
	}

	e.store.Lock()
	defer e.store.Unlock()

	lines, idx, acct, part, err := e.loadAccount(id)
	if err != nil {
		return "", err
	}
	if acct.Balance.LessThan(amount) {
		detail := fmt.Sprintf("Rechazado débito de %s", types.FormatMoney(amount))
		if err := e.logHistory(id, types.OpDebitRechazado, detail, acct.Balance); err != nil {
			return "", err
		}
		return "", ErrInsufficientFunds
	}

	acct.Balance = types.Quantize(acct.Balance.Sub(amount))
	lines[idx] = acct.Record()
	if err := e.store.WriteTable(store.TableAccounts, part, lines); err != nil {
		return "", err
	}
	if err := e.logHistory(id, types.OpDebit, description, acct.Balance); err != nil {
		return "", err
	}
	return "Débito aplicado, nuevo saldo: " + types.FormatMoney(acct.Balance), nil
}

// credit increments an account balance. No precondition beyond record
// existence.
func (e *Engine) credit(params []string) (string, error) {
	if len(params) != 2 && len(params) != 3 {
		return "", errParams(QueryCredit)
	}
	id, okID := parseID(params[0])
	amount, okAmt := parsePositiveAmount(params[1])
	if !okID || !okAmt {
		return "", errParams(QueryCredit)
	}
	description := types.OpCredit
	if len(params) == 3 && params[2] != "" {
		description = params[2]
	}

	e.store.Lock()
	defer e.store.Unlock()

	lines, idx, acct, part, err := e.loadAccount(id)
	if err != nil {
		return "", err
	}

	acct.Balance = types.Quantize(acct.Balance.Add(amount))
	lines[idx] = acct.Record()
	if err := e.store.WriteTable(store.TableAccounts, part, lines); err != nil {
		return "", err
	}
	if err := e.logHistory(id, types.OpCredit, description, acct.Balance); err != nil {
		return "", err
	}
	return "Crédito aplicado, nuevo saldo: " + types.FormatMoney(acct.Balance), nil
}

// arqueoCuentas sums the balances of the accounts partitions in scope
// and returns the node's contribution to the fleet audit. Malformed
// lines are skipped, matching the tolerance of the seeded data.
func (e *Engine) arqueoCuentas(params []string) (string, error) {
	if len(params) != 0 {
		return "", errParams(QueryArqueoCuentas)
	}

	e.store.Lock()
	defer e.store.Unlock()

	var parts []int
	switch e.arqueoScope {
	case ArqueoPrimary:
		parts = []int{e.store.NodeID()}
	default:
		parts = e.store.HostedPartitions(store.TableAccounts)
	}

	total := decimal.Zero
	for _, part := range parts {
		lines, err := e.store.ReadTable(store.TableAccounts, part)
		if err != nil {
			return "", err
		}
		for _, line := range lines {
			acct, err := types.ParseAccount(line)
			if err != nil {
				continue
			}
			total = total.Add(acct.Balance)
		}
	}
	return types.FormatMoney(total), nil
}
