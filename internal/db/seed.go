// internal/db/seed.go
package db

import (
	"context"
	"fmt"
)

var seedStatements = []string{
	`CREATE TABLE users (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE
	)`,
	`INSERT INTO users (name, email) VALUES ('Alice', 'temp@email.com')`,
}

// Seed creates the demo schema used by in-memory sessions.
func Seed(ctx context.Context, conn Conn) error {
	for _, stmt := range seedStatements {
		if _, err := conn.Execute(ctx, stmt); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}
	return nil
}
