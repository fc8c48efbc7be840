package services

import (
	"context"
	"strings"

	"github.com/trainerlab/fieldlog/internal/models"
)

type ResearchStore interface {
	ListResearchRows(ctx context.Context) ([]models.ResearchRow, error)
	ToggleMission(ctx context.Context, researchID, missionID int64) (int64, error)
	ToggleReward(ctx context.Context, researchID, rewardID int64) (int64, error)
	ListEntries(ctx context.Context) ([]models.CatalogRow, error)
	InsertEntry(ctx context.Context, title string, totalStages int64) (int64, error)
	DeleteEntry(ctx context.Context, id int64) error
}

type ResearchService struct {
	store ResearchStore
}

func NewResearchService(store ResearchStore) *ResearchService {
	return &ResearchService{store: store}
}

// ListForUser assembles the nested progress view from the flat join rows.
// Entries are global catalog rows, so userID only attributes the call; it
// does not narrow the result. The two outer joins cross-multiply mission and
// reward rows, so children must be deduplicated by id within each entry.
// Order is first-seen at every level.
func (s *ResearchService) ListForUser(ctx context.Context, userID int64) ([]*models.FieldResearch, error) {
	rows, err := s.store.ListResearchRows(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*models.FieldResearch, 0, len(rows))
	byID := map[int64]*models.FieldResearch{}
	seenMissions := map[int64]map[int64]bool{}
	seenRewards := map[int64]map[int64]bool{}
	for _, row := range rows {
		fr := byID[row.EntryID]
		if fr == nil {
			fr = &models.FieldResearch{
				ID:           row.EntryID,
				Title:        row.Title,
				CurrentStage: row.CurrentStage,
				TotalStages:  row.TotalStages,
				Missions:     []models.Mission{},
				Rewards:      []models.Reward{},
			}
			byID[row.EntryID] = fr
			seenMissions[row.EntryID] = map[int64]bool{}
			seenRewards[row.EntryID] = map[int64]bool{}
			out = append(out, fr)
		}
		if row.MissionID != nil && !seenMissions[row.EntryID][*row.MissionID] {
			seenMissions[row.EntryID][*row.MissionID] = true
			fr.Missions = append(fr.Missions, models.Mission{
				ID:          *row.MissionID,
				Description: strValue(row.MissionDescription),
				Completed:   boolValue(row.MissionCompleted),
			})
		}
		if row.RewardID != nil && !seenRewards[row.EntryID][*row.RewardID] {
			seenRewards[row.EntryID][*row.RewardID] = true
			fr.Rewards = append(fr.Rewards, models.Reward{
				ID:          *row.RewardID,
				Description: strValue(row.RewardDescription),
				Obtained:    boolValue(row.RewardObtained),
			})
		}
	}
	return out, nil
}

// ToggleMission flips completed on the mission only if it belongs to the
// given entry. Zero matched rows is still success; callers cannot tell a
// miss from a flip by design.
func (s *ResearchService) ToggleMission(ctx context.Context, researchID, missionID int64) error {
	_, err := s.store.ToggleMission(ctx, researchID, missionID)
	return err
}

// ToggleReward is the reward counterpart of ToggleMission.
func (s *ResearchService) ToggleReward(ctx context.Context, researchID, rewardID int64) error {
	_, err := s.store.ToggleReward(ctx, researchID, rewardID)
	return err
}

// Catalog lists all entries without children, for the admin dashboard.
func (s *ResearchService) Catalog(ctx context.Context) ([]models.CatalogRow, error) {
	return s.store.ListEntries(ctx)
}

func (s *ResearchService) CreateEntry(ctx context.Context, title string, totalStages int64) (*models.CatalogRow, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, NewInvalidError("title required")
	}
	if totalStages <= 0 {
		return nil, NewInvalidError("totalStages must be a positive integer")
	}
	id, err := s.store.InsertEntry(ctx, title, totalStages)
	if err != nil {
		return nil, err
	}
	return &models.CatalogRow{ID: id, Title: title, TotalStages: totalStages}, nil
}

// DeleteEntry removes the entry; the storage layer cascades the delete to
// its missions and rewards so no orphans survive.
func (s *ResearchService) DeleteEntry(ctx context.Context, id int64) error {
	return s.store.DeleteEntry(ctx, id)
}

func strValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func boolValue(p *bool) bool {
	if p == nil {
		return false
	}
	return *p
}
