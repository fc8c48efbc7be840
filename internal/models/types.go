package models

// Account is a registered user. The password hash never leaves the server.
type Account struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	PasswordHash []byte `json:"-"`
	IsAdmin      bool   `json:"isAdmin"`
}

// Mission is a checklist sub-item of a field research entry.
type Mission struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// Reward is a claim sub-item of a field research entry.
type Reward struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
	Obtained    bool   `json:"obtained"`
}

// FieldResearch is the nested per-entry view returned to the dashboard.
// CurrentStage stays null until someone sets it; it is informational and
// never derived from mission completion.
type FieldResearch struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	CurrentStage *int64    `json:"currentStage"`
	TotalStages  int64     `json:"totalStages"`
	Missions     []Mission `json:"missions"`
	Rewards      []Reward  `json:"rewards"`
}

// CatalogRow is the flat admin view of one research entry.
type CatalogRow struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	TotalStages int64  `json:"totalStages"`
}

// ResearchRow is one flat row of the entry/mission/reward double left join.
// Mission and reward columns are nil where the outer join matched nothing.
type ResearchRow struct {
	EntryID      int64
	Title        string
	CurrentStage *int64
	TotalStages  int64

	MissionID          *int64
	MissionDescription *string
	MissionCompleted   *bool

	RewardID          *int64
	RewardDescription *string
	RewardObtained    *bool
}
