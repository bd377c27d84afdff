package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jask/casescope/internal/database"
)

// MaintenanceService houses destructive actions on the snapshot store.
type MaintenanceService struct {
	DB *sql.DB
}

// Reset drops every imported snapshot. The schema stays so imports can continue.
func (s *MaintenanceService) Reset(ctx context.Context) error {
	if s.DB == nil {
		return fmt.Errorf("maintenance: db not configured")
	}
	if err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		for _, t := range []string{"snapshot_rows", "snapshots"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+t); err != nil {
				return fmt.Errorf("reset table %s: %w", t, err)
			}
		}
		return nil
	}); err != nil {
		return err
	}
	_, _ = s.DB.ExecContext(ctx, "VACUUM")
	return nil
}
