package db

import (
	"context"

	"github.com/uptrace/bun"

	"ms-students/internal/models"
)

// Migrate creates the students table if it does not already exist. Safe
// to run on every startup.
func Migrate(db *bun.DB) error {
	_, err := db.NewCreateTable().
		Model((*models.Student)(nil)).
		IfNotExists().
		Exec(context.Background())
	return err
}
