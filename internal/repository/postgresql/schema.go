package postgresql

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/liefcare/workforce-backend/internal/pkg/database"
)

//go:embed schema.sql
var schemaSQL string

// ApplySchema creates the tables the repositories use. It is idempotent.
func ApplySchema(ctx context.Context, db *database.DB) error {
	if _, err := db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
