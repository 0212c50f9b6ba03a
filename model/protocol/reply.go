package protocol

import (
	"fmt"
	"strings"
)

// Canonical response lines. Protocol-level failures travel in-band as
// ordinary ERROR responses so a driver can tell a malformed request apart
// from a broken channel or process.
const (
	ReplyOK       = "OK"
	ReplyBye      = "BYE"
	ReplyNotFound = "NOT_FOUND"

	ErrUnknownCommand = "ERROR Unknown command"
	ErrResourceLimit  = "ERROR Resource limit reached"
	ErrInvalidID      = "ERROR Invalid resource id"
)

// ReplyValue formats a GET hit.
func ReplyValue(value string) string {
	return "VALUE " + value
}

// ReplyKeys formats a LIST response.
func ReplyKeys(keys []string) string {
	return strings.TrimRight("KEYS "+strings.Join(keys, " "), " ")
}

// ReplyGranted formats a successful ACQUIRE.
func ReplyGranted(id string) string {
	return "GRANTED " + id
}

// ReplyReleased formats a successful RELEASE.
func ReplyReleased(id string) string {
	return fmt.Sprintf("OK Released %s", id)
}

// ReplyInfo formats a STATUS response.
func ReplyInfo(active, available int) string {
	return fmt.Sprintf("INFO Active: %d, Available: %d", active, available)
}

// IsError reports whether a response line carries an in-band protocol error.
func IsError(line string) bool {
	return strings.HasPrefix(line, "ERROR ")
}
