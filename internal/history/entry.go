// internal/history/entry.go
package history

import "time"

// Status of a recorded execution.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Entry is a single query execution in history
type Entry struct {
	ID           int64
	Target       string
	Query        string
	ExecutedAt   time.Time
	DurationMs   int64
	RowCount     int
	Status       string
	ErrorMessage string
}

// QueryPreview returns the query cut to at most maxLen runes
func (e *Entry) QueryPreview(maxLen int) string {
	q := []rune(e.Query)
	if len(q) <= maxLen {
		return e.Query
	}
	if maxLen <= 3 {
		return string(q[:maxLen])
	}
	return string(q[:maxLen-3]) + "..."
}
