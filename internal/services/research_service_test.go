package services

import (
	"context"
	"testing"

	"github.com/trainerlab/fieldlog/internal/models"
)

type researchStubStore struct {
	rows    []models.ResearchRow
	entries []models.CatalogRow

	toggledMissions [][2]int64
	toggledRewards  [][2]int64
	inserted        []models.CatalogRow
	deleted         []int64
	nextID          int64
}

func (s *researchStubStore) ListResearchRows(ctx context.Context) ([]models.ResearchRow, error) {
	return s.rows, nil
}

func (s *researchStubStore) ToggleMission(ctx context.Context, researchID, missionID int64) (int64, error) {
	s.toggledMissions = append(s.toggledMissions, [2]int64{researchID, missionID})
	return 0, nil
}

func (s *researchStubStore) ToggleReward(ctx context.Context, researchID, rewardID int64) (int64, error) {
	s.toggledRewards = append(s.toggledRewards, [2]int64{researchID, rewardID})
	return 0, nil
}

func (s *researchStubStore) ListEntries(ctx context.Context) ([]models.CatalogRow, error) {
	return s.entries, nil
}

func (s *researchStubStore) InsertEntry(ctx context.Context, title string, totalStages int64) (int64, error) {
	s.nextID++
	s.inserted = append(s.inserted, models.CatalogRow{ID: s.nextID, Title: title, TotalStages: totalStages})
	return s.nextID, nil
}

func (s *researchStubStore) DeleteEntry(ctx context.Context, id int64) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func i64(v int64) *int64   { return &v }
func str(v string) *string { return &v }
func flag(v bool) *bool    { return &v }

// joinRows builds the cartesian cross an entry with the given children
// produces under the double left join.
func joinRows(entryID int64, title string, missions, rewards []int64) []models.ResearchRow {
	base := models.ResearchRow{EntryID: entryID, Title: title, TotalStages: 1}
	if len(missions) == 0 && len(rewards) == 0 {
		return []models.ResearchRow{base}
	}
	var out []models.ResearchRow
	ms := missions
	if len(ms) == 0 {
		ms = []int64{0}
	}
	rs := rewards
	if len(rs) == 0 {
		rs = []int64{0}
	}
	for _, m := range ms {
		for _, r := range rs {
			row := base
			if m != 0 {
				row.MissionID = i64(m)
				row.MissionDescription = str("mission")
				row.MissionCompleted = flag(false)
			}
			if r != 0 {
				row.RewardID = i64(r)
				row.RewardDescription = str("reward")
				row.RewardObtained = flag(false)
			}
			out = append(out, row)
		}
	}
	return out
}

func TestListForUserDeduplicatesCartesianCross(t *testing.T) {
	store := &researchStubStore{
		rows: joinRows(1, "A Thousand-Year Slumber", []int64{10, 11}, []int64{20, 21, 22}),
	}
	svc := NewResearchService(store)

	list, err := svc.ListForUser(context.Background(), 5)
	if err != nil {
		t.Fatalf("ListForUser returned error: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(list))
	}
	fr := list[0]
	if len(fr.Missions) != 2 {
		t.Fatalf("expected 2 missions after dedup, got %d", len(fr.Missions))
	}
	if len(fr.Rewards) != 3 {
		t.Fatalf("expected 3 rewards after dedup, got %d", len(fr.Rewards))
	}
	if fr.Missions[0].ID != 10 || fr.Missions[1].ID != 11 {
		t.Fatalf("missions out of first-seen order: %+v", fr.Missions)
	}
	if fr.Rewards[0].ID != 20 || fr.Rewards[1].ID != 21 || fr.Rewards[2].ID != 22 {
		t.Fatalf("rewards out of first-seen order: %+v", fr.Rewards)
	}
}

func TestListForUserEntryWithoutChildren(t *testing.T) {
	store := &researchStubStore{rows: joinRows(1, "Catch 5 Pokémon", nil, nil)}
	svc := NewResearchService(store)

	list, err := svc.ListForUser(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListForUser returned error: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(list))
	}
	fr := list[0]
	if fr.CurrentStage != nil {
		t.Fatalf("expected nil current stage, got %v", *fr.CurrentStage)
	}
	if fr.Missions == nil || len(fr.Missions) != 0 {
		t.Fatalf("expected empty non-nil missions, got %#v", fr.Missions)
	}
	if fr.Rewards == nil || len(fr.Rewards) != 0 {
		t.Fatalf("expected empty non-nil rewards, got %#v", fr.Rewards)
	}
}

func TestListForUserPreservesEntryOrder(t *testing.T) {
	rows := joinRows(3, "third", []int64{30}, nil)
	rows = append(rows, joinRows(1, "first", nil, []int64{40})...)
	store := &researchStubStore{rows: rows}
	svc := NewResearchService(store)

	list, err := svc.ListForUser(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListForUser returned error: %v", err)
	}
	if len(list) != 2 || list[0].ID != 3 || list[1].ID != 1 {
		t.Fatalf("expected first-seen entry order [3 1], got %+v", list)
	}
}

func TestListForUserEmptyCatalog(t *testing.T) {
	svc := NewResearchService(&researchStubStore{})
	list, err := svc.ListForUser(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListForUser returned error: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", list)
	}
}

func TestToggleZeroRowsIsSuccess(t *testing.T) {
	store := &researchStubStore{}
	svc := NewResearchService(store)

	if err := svc.ToggleMission(context.Background(), 1, 99); err != nil {
		t.Fatalf("toggle on missing mission should succeed, got %v", err)
	}
	if err := svc.ToggleReward(context.Background(), 1, 99); err != nil {
		t.Fatalf("toggle on missing reward should succeed, got %v", err)
	}
	if len(store.toggledMissions) != 1 || store.toggledMissions[0] != [2]int64{1, 99} {
		t.Fatalf("unexpected mission toggle calls: %v", store.toggledMissions)
	}
	if len(store.toggledRewards) != 1 || store.toggledRewards[0] != [2]int64{1, 99} {
		t.Fatalf("unexpected reward toggle calls: %v", store.toggledRewards)
	}
}

func TestCreateEntryValidation(t *testing.T) {
	store := &researchStubStore{}
	svc := NewResearchService(store)

	if _, err := svc.CreateEntry(context.Background(), "  ", 3); err == nil {
		t.Fatalf("expected validation error for blank title")
	}
	if _, err := svc.CreateEntry(context.Background(), "Catch 5 Pokémon", 0); err == nil {
		t.Fatalf("expected validation error for zero stages")
	}
	if _, err := svc.CreateEntry(context.Background(), "Catch 5 Pokémon", -2); err == nil {
		t.Fatalf("expected validation error for negative stages")
	}
	if len(store.inserted) != 0 {
		t.Fatalf("invalid input must not reach the store: %v", store.inserted)
	}

	entry, err := svc.CreateEntry(context.Background(), "Catch 5 Pokémon", 1)
	if err != nil {
		t.Fatalf("CreateEntry returned error: %v", err)
	}
	if entry.ID != 1 || entry.Title != "Catch 5 Pokémon" || entry.TotalStages != 1 {
		t.Fatalf("unexpected created entry: %+v", entry)
	}
}

func TestDeleteEntryDelegates(t *testing.T) {
	store := &researchStubStore{}
	svc := NewResearchService(store)

	if err := svc.DeleteEntry(context.Background(), 7); err != nil {
		t.Fatalf("DeleteEntry returned error: %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != 7 {
		t.Fatalf("unexpected delete calls: %v", store.deleted)
	}
}
