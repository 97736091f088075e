/*
Package engine implements the worker's transaction engine: the eight
query executors and their dispatch.

Each executor is one short critical section. On entry it takes the
node-wide store lock, reads whole partition files, applies the update,
rewrites the files atomically, appends history entries, and releases
the lock on exit. Across connections this yields linearizability: every
committed operation has a single serialization point, the final rewrite
under the lock, and its history entries are appended in the same
critical section so they are consistent with the balances they record.

# Queries

	CONSULTAR_CUENTA      id                     -> account row, history entry
	TRANSFERIR_CUENTA     src dst amount         -> intra-partition transfer
	DEBIT                 id amount [desc]       -> decrement, funds required
	CREDIT                id amount [desc]       -> increment
	PAGAR_DEUDA           account loan amount    -> two-file loan payment
	CONSULTAR_HISTORIAL   account                -> audit rows, newest first
	ESTADO_PAGO_PRESTAMO  account                -> loans with recomputed status
	ARQUEO_CUENTAS                               -> local balance sum

# Invariants

  - Balances never go negative: debits and transfers validate funds
    before any rewrite and reject with "Fondos insuficientes".
  - Transfers preserve the sum of the two balances; both records live
    in the same partition file, rewritten once.
  - Loan payments keep 0 <= paid <= total; a cancelling payment sets
    paid = total exactly and refunds the excess to the account.
  - No executor partially applies a mutation: every validation runs
    before the first rewrite, and rejected operations leave the tables
    untouched (a rejection history entry may still be appended).

# Error taxonomy

Domain rejections (insufficient funds, cross-partition transfer,
overdue loan, unknown record, unknown query) carry fixed Spanish wire
text via DomainError. Missing partition files surface as "Archivo no
encontrado: ...". Anything else becomes "Error interno del worker: ...".

# Known limitation

History is appended only to this node's files; replicas are not
synchronized. CONSULTAR_HISTORIAL therefore reflects the operations
this node served.
*/
package engine
