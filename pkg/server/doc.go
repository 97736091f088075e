/*
Package server implements the worker's TCP front end.

One goroutine per accepted connection, one request per connection: the
handler reads a single LF-terminated request line, dispatches it to the
transaction engine, writes the response line, and closes the socket.
Request lines are bounded at 64 KiB and an optional per-connection read
timeout can be configured; the engine itself is never cancelled once an
operation has begun mutating files.

Shutdown is cooperative: Stop closes the listener, the accept loop
returns, and in-flight handlers are drained through a WaitGroup before
Stop returns.

Executor panics are contained at the handler boundary and surface as
RESULT|{tx}|ERROR|Error interno del worker: ... frames; requests whose
framing cannot be parsed get the bare ERROR|Formato inválido line.
*/
package server
