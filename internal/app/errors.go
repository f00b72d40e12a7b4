package app

import (
	"fmt"
	"strings"
)

// FormatConnectionError condenses a connect failure into one actionable
// status line.
func FormatConnectionError(alias string, err error) string {
	errMsg := err.Error()

	switch {
	case strings.Contains(errMsg, "connection refused"):
		return fmt.Sprintf("%s: connection refused (is the server running?)", alias)
	case strings.Contains(errMsg, "authentication failed"),
		strings.Contains(errMsg, "password authentication failed"),
		strings.Contains(errMsg, "WRONGPASS"),
		strings.Contains(errMsg, "NOAUTH"):
		return fmt.Sprintf("%s: authentication failed (check user and password)", alias)
	case strings.Contains(errMsg, "does not exist") && strings.Contains(errMsg, "database"):
		return fmt.Sprintf("%s: database does not exist", alias)
	case strings.Contains(errMsg, "no such host"), strings.Contains(errMsg, "unknown host"):
		return fmt.Sprintf("%s: host not found", alias)
	case strings.Contains(errMsg, "timeout"), strings.Contains(errMsg, "deadline exceeded"):
		return fmt.Sprintf("%s: connection timed out", alias)
	default:
		return fmt.Sprintf("%s: %s", alias, errMsg)
	}
}
