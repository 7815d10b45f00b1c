package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/ctiworks/intel-strategy/pkg/config"
	"github.com/ctiworks/intel-strategy/pkg/model"
)

// Storage archives generated briefs in Postgres. The platform copy is the
// system of record; this is a local audit trail.
type Storage struct {
	db *sql.DB
}

func NewStorage(cfg config.DBConfig) (*Storage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Storage{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS brief_runs (
			id SERIAL PRIMARY KEY,
			cadence TEXT NOT NULL,
			report_id TEXT,
			name TEXT NOT NULL,
			avg_risk DOUBLE PRECISION,
			item_count INTEGER,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS brief_items (
			id SERIAL PRIMARY KEY,
			run_id INTEGER REFERENCES brief_runs(id),
			item_id TEXT,
			name TEXT,
			risk INTEGER,
			decision TEXT
		)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query %s: %w", query, err)
		}
	}

	return nil
}

// SaveBriefRun records one cadence run and its top triaged items.
func (s *Storage) SaveBriefRun(cadence, reportID string, b model.Brief) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var runID int
	err = tx.QueryRow(`
		INSERT INTO brief_runs (cadence, report_id, name, avg_risk, item_count)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		cadence, reportID, b.ReportName, b.AvgRisk, b.ItemCount).Scan(&runID)
	if err != nil {
		return fmt.Errorf("failed to insert brief run: %w", err)
	}

	for _, it := range b.TopItems {
		_, err = tx.Exec(`
			INSERT INTO brief_items (run_id, item_id, name, risk, decision)
			VALUES ($1, $2, $3, $4, $5)`,
			runID, it.ID, it.Name, it.Risk, it.Decision)
		if err != nil {
			return fmt.Errorf("failed to insert brief item: %w", err)
		}
	}

	return tx.Commit()
}
