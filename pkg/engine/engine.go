package engine

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bancod/bancod/pkg/log"
	"github.com/bancod/bancod/pkg/store"
	"github.com/bancod/bancod/pkg/types"
)

// Query vocabulary accepted by the worker
const (
	QueryConsultarCuenta    = "CONSULTAR_CUENTA"
	QueryTransferirCuenta   = "TRANSFERIR_CUENTA"
	QueryDebit              = "DEBIT"
	QueryCredit             = "CREDIT"
	QueryPagarDeuda         = "PAGAR_DEUDA"
	QueryConsultarHistorial = "CONSULTAR_HISTORIAL"
	QueryEstadoPagoPrestamo = "ESTADO_PAGO_PRESTAMO"
	QueryArqueoCuentas      = "ARQUEO_CUENTAS"
)

// ArqueoScope selects which local partitions the fleet audit sums
type ArqueoScope string

const (
	// ArqueoAll sums every accounts partition present on the node,
	// replicas included. The fleet orchestrator owns deduplication.
	ArqueoAll ArqueoScope = "all"
	// ArqueoPrimary sums only the node's primary partition.
	ArqueoPrimary ArqueoScope = "primary"
)

// DomainError is a user-visible rejection. Its message crosses the wire
// verbatim inside the RESULT|tx|ERROR frame.
type DomainError string

func (e DomainError) Error() string { return string(e) }

// Domain rejections with fixed wire text
const (
	ErrInsufficientFunds DomainError = "Fondos insuficientes"
	ErrSamePartitionOnly DomainError = "TRANSFERIR_CUENTA solo soporta transferencias en la misma partición"
	ErrOverdueLoan       DomainError = "Su deuda está vencida, no es posible registrar el pago"
	ErrNoLoans           DomainError = "No se encontraron préstamos para la cuenta"
)

// errParams builds the parameter-error rejection for a query.
func errParams(query string) DomainError {
	return DomainError("Parámetros incorrectos para " + query)
}

// Config holds transaction engine configuration
type Config struct {
	Store       *store.NodeStore
	ArqueoScope ArqueoScope
}

// Engine executes queries against the node's partitioned tables. Every
// executor runs as one critical section: it takes the store lock on
// entry, applies reads and rewrites, emits history entries, and
// releases the lock on exit. The moment the final rewrite returns while
// holding the lock is the operation's serialization point.
type Engine struct {
	store       *store.NodeStore
	arqueoScope ArqueoScope
	logger      zerolog.Logger
}

// NewEngine creates a transaction engine bound to a node store.
func NewEngine(cfg *Config) *Engine {
	scope := cfg.ArqueoScope
	if scope == "" {
		scope = ArqueoAll
	}
	return &Engine{
		store:       cfg.Store,
		arqueoScope: scope,
		logger:      log.WithComponent("engine"),
	}
}

// Execute dispatches a parsed query to its executor and returns the
// response payload. The error, when non-nil, carries the user-visible
// wire message.
func (e *Engine) Execute(queryType string, params []string) (string, error) {
	e.logger.Info().Str("query", queryType).Strs("params", params).Msg("processing query")

	var msg string
	var err error
	switch queryType {
	case QueryConsultarCuenta:
		msg, err = e.consultarCuenta(params)
	case QueryTransferirCuenta:
		msg, err = e.transferirCuenta(params)
	case QueryDebit:
		msg, err = e.debit(params)
	case QueryCredit:
		msg, err = e.credit(params)
	case QueryPagarDeuda:
		msg, err = e.pagarDeuda(params)
	case QueryConsultarHistorial:
		msg, err = e.consultarHistorial(params)
	case QueryEstadoPagoPrestamo:
		msg, err = e.estadoPagoPrestamo(params)
	case QueryArqueoCuentas:
		msg, err = e.arqueoCuentas(params)
	default:
		err = DomainError(fmt.Sprintf("Query '%s' no soportada", queryType))
	}

	if err != nil {
		e.logger.Warn().Str("query", queryType).Err(err).Msg("query rejected")
		return "", wireError(err)
	}
	return msg, nil
}

// wireError maps an executor error to its wire form. Domain rejections,
// missing-record and missing-file errors already carry user-visible
// text; anything else is an internal fault.
func wireError(err error) error {
	var domain DomainError
	if errors.As(err, &domain) {
		return domain
	}
	var notFound *store.FileNotFoundError
	if errors.As(err, &notFound) {
		return errors.New(notFound.Error())
	}
	if errors.Is(err, types.ErrIDNotFound) {
		return types.ErrIDNotFound
	}
	return fmt.Errorf("Error interno del worker: %v", err)
}
