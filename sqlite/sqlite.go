// Package sqlite implements repo interfaces
package sqlite

import (
	"errors"
	"strings"
)

var ErrNotFound = errors.New("not found")

// scannable covers both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// generateParameters returns a "(?, ?, ...)" placeholder group for n args.
func generateParameters(n int) string {
	if n == 0 {
		return "()"
	}
	return "(" + strings.TrimSuffix(strings.Repeat("?, ", n), ", ") + ")"
}
