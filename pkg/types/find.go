package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrIDNotFound is returned when no record in a table partition matches
// the requested primary key.
var ErrIDNotFound = errors.New("ID no encontrado")

// FindByID locates the record whose first field equals the textual ID.
// Linear scan, first match wins. Returns the line index and the line
// with surrounding whitespace trimmed.
func FindByID(lines []string, id int) (int, string, error) {
	want := strconv.Itoa(id)
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if first, _, _ := strings.Cut(trimmed, ","); first == want {
			return i, trimmed, nil
		}
	}
	return -1, "", ErrIDNotFound
}

// ClientIDFor returns the client identifier owning the given account.
// The fleet's seed data derives client ids from account ids.
func ClientIDFor(accountID int) string {
	return fmt.Sprintf("cliente_%d", accountID)
}
