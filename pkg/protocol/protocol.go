package protocol

import (
	"errors"
	"fmt"
	"strings"
)

// Wire verbs and statuses
const (
	VerbExecute = "EXECUTE"
	VerbResult  = "RESULT"

	StatusSuccess = "SUCCESS"
	StatusError   = "ERROR"

	// TableMarker prefixes a tabular success payload
	TableMarker = "TABLE_DATA"
)

// ErrBadFormat reports a request that does not match the
// EXECUTE|tx_id|QUERY_TYPE|... framing. Its message is the wire text.
var ErrBadFormat = errors.New("Formato inválido")

// Request is a parsed client request
type Request struct {
	TxID      string
	QueryType string
	Params    []string
}

// ParseRequest parses one request line. The framing is pipe-delimited:
// at least three fields and a literal EXECUTE verb; parameters must not
// contain pipes.
func ParseRequest(line string) (Request, error) {
	parts := strings.Split(strings.TrimSpace(line), "|")
	if len(parts) < 3 || parts[0] != VerbExecute {
		return Request{}, ErrBadFormat
	}
	return Request{
		TxID:      parts[1],
		QueryType: parts[2],
		Params:    parts[3:],
	}, nil
}

// FormatSuccess renders a scalar success response.
func FormatSuccess(txID, message string) string {
	return fmt.Sprintf("%s|%s|%s|%s", VerbResult, txID, StatusSuccess, message)
}

// FormatError renders an error response.
func FormatError(txID, message string) string {
	return fmt.Sprintf("%s|%s|%s|%s", VerbResult, txID, StatusError, message)
}

// FormatMalformed renders the bare rejection for requests whose framing
// could not be parsed at all; there is no tx id to echo.
func FormatMalformed() string {
	return StatusError + "|" + ErrBadFormat.Error()
}

// Table renders a tabular payload: TABLE_DATA|h1,h2,...|row|row...
// Each row is a comma-joined field sequence matching the headers.
// Callers must comma-sanitize free-form fields before rendering.
func Table(headers []string, rows [][]string) string {
	parts := make([]string, 0, len(rows)+2)
	parts = append(parts, TableMarker, strings.Join(headers, ","))
	for _, row := range rows {
		parts = append(parts, strings.Join(row, ","))
	}
	return strings.Join(parts, "|")
}

// Response is a parsed worker response
type Response struct {
	TxID    string
	Status  string
	Payload string
}

// ParseResponse parses a RESULT frame. The payload keeps any embedded
// pipes (tabular responses are pipe-structured).
func ParseResponse(line string) (Response, error) {
	line = strings.TrimRight(line, "\n")
	parts := strings.SplitN(line, "|", 4)
	if len(parts) < 4 || parts[0] != VerbResult {
		return Response{}, fmt.Errorf("malformed response: %q", line)
	}
	if parts[2] != StatusSuccess && parts[2] != StatusError {
		return Response{}, fmt.Errorf("unknown response status %q", parts[2])
	}
	return Response{TxID: parts[1], Status: parts[2], Payload: parts[3]}, nil
}

// IsTable reports whether the response payload is tabular.
func (r Response) IsTable() bool {
	return strings.HasPrefix(r.Payload, TableMarker+"|")
}

// TableData splits a tabular payload into headers and rows. Returns an
// error if the payload is not tabular.
func (r Response) TableData() (headers []string, rows [][]string, err error) {
	if !r.IsTable() {
		return nil, nil, fmt.Errorf("payload is not tabular: %q", r.Payload)
	}
	parts := strings.Split(r.Payload, "|")
	headers = strings.Split(parts[1], ",")
	for _, row := range parts[2:] {
		rows = append(rows, strings.Split(row, ","))
	}
	return headers, rows, nil
}
