package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/trainerlab/fieldlog/internal/models"
)

// SQLiteStore backs both the identity store and the research catalog store
// with a single sqlite database.
type SQLiteStore struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewSQLiteStore(db *sql.DB, log *logrus.Logger) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	if log == nil {
		log = logrus.New()
	}
	// foreign_keys is per-connection in sqlite, so the Exec below only
	// covers the connection it happens to land on. Callers must also set
	// _foreign_keys=1 in the DSN so every pool connection enforces it.
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("apply sqlite pragma %q: %w", stmt, err)
		}
	}
	return &SQLiteStore{db: db, log: log}, nil
}

func (s *SQLiteStore) FindAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, email, password, is_admin FROM accounts WHERE email = ?`, email)
	var acc models.Account
	var admin int64
	if err := row.Scan(&acc.ID, &acc.Email, &acc.PasswordHash, &admin); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	acc.IsAdmin = admin != 0
	return &acc, nil
}

func (s *SQLiteStore) AddAccount(ctx context.Context, email string, passwordHash []byte) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (email, password, is_admin) VALUES (?, ?, 0)`, email, passwordHash)
	if err != nil {
		return 0, fmt.Errorf("insert account: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert account id: %w", err)
	}
	return id, nil
}

// PromoteAdmin raises is_admin on an existing account. Only the startup
// bootstrap calls this; the HTTP API has no path to the flag.
func (s *SQLiteStore) PromoteAdmin(ctx context.Context, email string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE accounts SET is_admin = 1 WHERE email = ?`, email)
	if err != nil {
		return fmt.Errorf("promote admin: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		s.log.WithField("email", email).Warn("admin bootstrap matched no account")
	}
	return nil
}

// ListResearchRows runs the double left join behind the aggregation view.
// Every (mission, reward) pairing an entry admits comes back as one row;
// the service layer collapses and deduplicates.
func (s *SQLiteStore) ListResearchRows(ctx context.Context) ([]models.ResearchRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT fr.id, fr.title, fr.current_stage, fr.total_stages,
		       m.id, m.description, m.completed,
		       r.id, r.description, r.obtained
		FROM field_researches fr
		LEFT JOIN missions m ON m.field_research_id = fr.id
		LEFT JOIN rewards r ON r.field_research_id = fr.id
		ORDER BY fr.id, m.id, r.id`)
	if err != nil {
		return nil, fmt.Errorf("list research rows: %w", err)
	}
	defer rows.Close()

	var out []models.ResearchRow
	for rows.Next() {
		var (
			row      models.ResearchRow
			stage    sql.NullInt64
			mID, rID sql.NullInt64
			mDesc    sql.NullString
			rDesc    sql.NullString
			mDone    sql.NullInt64
			rGot     sql.NullInt64
		)
		if err := rows.Scan(&row.EntryID, &row.Title, &stage, &row.TotalStages,
			&mID, &mDesc, &mDone, &rID, &rDesc, &rGot); err != nil {
			return nil, fmt.Errorf("scan research row: %w", err)
		}
		row.CurrentStage = nullInt(stage)
		if mID.Valid {
			row.MissionID = &mID.Int64
			row.MissionDescription = &mDesc.String
			done := mDone.Int64 != 0
			row.MissionCompleted = &done
		}
		if rID.Valid {
			row.RewardID = &rID.Int64
			row.RewardDescription = &rDesc.String
			got := rGot.Int64 != 0
			row.RewardObtained = &got
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate research rows: %w", err)
	}
	return out, nil
}

// ToggleMission negates completed in a single update scoped to the parent
// entry. A (mission, entry) pair that does not correspond matches nothing
// and mutates nothing.
func (s *SQLiteStore) ToggleMission(ctx context.Context, researchID, missionID int64) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE missions SET completed = NOT completed WHERE id = ? AND field_research_id = ?`,
		missionID, researchID)
	if err != nil {
		return 0, fmt.Errorf("toggle mission: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("toggle mission rows: %w", err)
	}
	if n == 0 {
		s.log.WithFields(logrus.Fields{"research_id": researchID, "mission_id": missionID}).
			Debug("toggle matched no mission")
	}
	return n, nil
}

func (s *SQLiteStore) ToggleReward(ctx context.Context, researchID, rewardID int64) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE rewards SET obtained = NOT obtained WHERE id = ? AND field_research_id = ?`,
		rewardID, researchID)
	if err != nil {
		return 0, fmt.Errorf("toggle reward: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("toggle reward rows: %w", err)
	}
	if n == 0 {
		s.log.WithFields(logrus.Fields{"research_id": researchID, "reward_id": rewardID}).
			Debug("toggle matched no reward")
	}
	return n, nil
}

func (s *SQLiteStore) ListEntries(ctx context.Context) ([]models.CatalogRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, total_stages FROM field_researches ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	out := []models.CatalogRow{}
	for rows.Next() {
		var e models.CatalogRow
		if err := rows.Scan(&e.ID, &e.Title, &e.TotalStages); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return out, nil
}

// InsertEntry creates a catalog entry. current_stage is left NULL.
func (s *SQLiteStore) InsertEntry(ctx context.Context, title string, totalStages int64) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO field_researches (title, total_stages) VALUES (?, ?)`, title, totalStages)
	if err != nil {
		return 0, fmt.Errorf("insert entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert entry id: %w", err)
	}
	return id, nil
}

// DeleteEntry removes the entry; missions and rewards go with it via the
// ON DELETE CASCADE constraints (foreign_keys enforced on every pool
// connection via the DSN).
func (s *SQLiteStore) DeleteEntry(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM field_researches WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	return nil
}

func (s *SQLiteStore) InsertMission(ctx context.Context, researchID int64, description string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO missions (field_research_id, description, completed) VALUES (?, ?, 0)`,
		researchID, description)
	if err != nil {
		return 0, fmt.Errorf("insert mission: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert mission id: %w", err)
	}
	return id, nil
}

func (s *SQLiteStore) InsertReward(ctx context.Context, researchID int64, description string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO rewards (field_research_id, description, obtained) VALUES (?, ?, 0)`,
		researchID, description)
	if err != nil {
		return 0, fmt.Errorf("insert reward: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert reward id: %w", err)
	}
	return id, nil
}

func nullInt(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	return &v.Int64
}
