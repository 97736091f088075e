/*
Package log provides structured logging for bancod using zerolog.

The log package wraps the zerolog library to provide JSON-structured
logging with component-specific loggers, configurable log levels, and
helper functions for common logging patterns. Worker processes log both
to the console and to a per-node file under the log directory
(logs/worker_{N}.log), matching the fleet's operational convention.

# Core Components

Global Logger:
  - Package-level zerolog.Logger instance
  - Initialized once via log.Init() or log.InitWorker()
  - Thread-safe concurrent writes

Context Loggers:
  - WithComponent: add component name to all logs
  - WithNodeID: add worker node ID context
  - WithTxID: add request correlation ID context

# Usage

	log.Init(log.Config{Level: log.InfoLevel})

	serverLog := log.WithComponent("server")
	serverLog.Info().Str("addr", "127.0.0.1:9001").Msg("listening")

	// Worker: console + logs/worker_2.log
	if err := log.InitWorker(log.Config{Level: log.InfoLevel}, "logs", 2); err != nil {
		return err
	}
*/
package log
