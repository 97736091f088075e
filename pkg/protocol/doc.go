/*
Package protocol implements the line-oriented wire protocol spoken by
the worker.

Requests and responses are single UTF-8, LF-terminated lines with
pipe-delimited fields. There is no persistent session: one request per
connection.

	Request:            EXECUTE|{tx_id}|{QUERY_TYPE}|{arg}...
	Success (scalar):   RESULT|{tx_id}|SUCCESS|{message}
	Success (tabular):  RESULT|{tx_id}|SUCCESS|TABLE_DATA|{headers}|{row}|{row}...
	Error:              RESULT|{tx_id}|ERROR|{reason}
	Malformed request:  ERROR|Formato inválido

The tx id is an opaque client-supplied correlation token echoed back
verbatim. Table headers and rows are comma-joined; free-form fields are
comma-sanitized by the producer before rendering.
*/
package protocol
