package application

import (
	"context"
	"fmt"

	"github.com/atvirokodosprendimai/liveforever-migrate/internal/domain"
)

type OldDatabaseStatus struct {
	Imported bool                `json:"imported"`
	Stats    *domain.LegacyStats `json:"stats"`
}

type NewDatabaseStatus struct {
	Stats domain.TargetStats `json:"stats"`
}

type MigrationStatus struct {
	OldDatabase    OldDatabaseStatus `json:"old_database"`
	NewDatabase    NewDatabaseStatus `json:"new_database"`
	MigrationReady bool              `json:"migration_ready"`
}

func (s *MigrationService) Status(ctx context.Context) (MigrationStatus, error) {
	var status MigrationStatus

	imported, err := s.importer.IsImported(ctx)
	if err != nil {
		return status, fmt.Errorf("check legacy import: %w", err)
	}
	status.OldDatabase.Imported = imported
	status.MigrationReady = imported
	if imported {
		stats, err := s.legacy.Stats(ctx)
		if err != nil {
			return status, fmt.Errorf("legacy stats: %w", err)
		}
		status.OldDatabase.Stats = &stats
	}

	target, err := s.target.Stats(ctx)
	if err != nil {
		return status, fmt.Errorf("target stats: %w", err)
	}
	status.NewDatabase.Stats = target
	return status, nil
}

// AvailableTrees lists active legacy trees with their template title.
func (s *MigrationService) AvailableTrees(ctx context.Context) ([]domain.AvailableTree, error) {
	imported, err := s.importer.IsImported(ctx)
	if err != nil {
		return nil, err
	}
	if !imported {
		return nil, ErrLegacyNotImported
	}
	return s.legacy.ListAvailableTrees(ctx)
}
