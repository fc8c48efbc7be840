package db

import (
	"context"
	"fmt"
)

// Seed inserts a small sample catalog for development when the catalog is
// empty. The API has no endpoint for creating missions or rewards; outside
// development those rows are loaded out-of-band.
func (s *SQLiteStore) Seed(ctx context.Context) error {
	entries, err := s.ListEntries(ctx)
	if err != nil {
		return err
	}
	if len(entries) > 0 {
		return nil
	}
	sample := []struct {
		title       string
		totalStages int64
		missions    []string
		rewards     []string
	}{
		{
			title:       "A Thousand-Year Slumber",
			totalStages: 4,
			missions:    []string{"Catch 5 Pokémon", "Spin 3 PokéStops", "Win a raid"},
			rewards:     []string{"1000 Stardust", "Jigglypuff encounter"},
		},
		{
			title:       "A Mythical Discovery",
			totalStages: 8,
			missions:    []string{"Catch 10 Pokémon", "Transfer 5 Pokémon"},
			rewards:     []string{"10 Poké Balls"},
		},
	}
	for _, e := range sample {
		id, err := s.InsertEntry(ctx, e.title, e.totalStages)
		if err != nil {
			return fmt.Errorf("seed entry %q: %w", e.title, err)
		}
		for _, m := range e.missions {
			if _, err := s.InsertMission(ctx, id, m); err != nil {
				return fmt.Errorf("seed mission %q: %w", m, err)
			}
		}
		for _, r := range e.rewards {
			if _, err := s.InsertReward(ctx, id, r); err != nil {
				return fmt.Errorf("seed reward %q: %w", r, err)
			}
		}
	}
	s.log.WithField("entries", len(sample)).Info("seeded sample catalog")
	return nil
}
