package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/choreweek/internal/model"
	"github.com/dukerupert/choreweek/internal/schedule"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// RunStore persists generated weeks. Each run owns the assignments the
// engine produced for it.
type RunStore struct {
	db *sql.DB
}

func NewRunStore(db *sql.DB) *RunStore {
	return &RunStore{db: db}
}

func scanRun(scanner interface{ Scan(...any) error }) (*model.ScheduleRun, error) {
	var r model.ScheduleRun
	var weekStart string
	var createdBy sql.NullInt64
	if err := scanner.Scan(&r.ID, &weekStart, &r.MaxPerMember, &createdBy, &r.CreatedAt); err != nil {
		return nil, err
	}
	ws, err := parseDate(weekStart)
	if err != nil {
		return nil, fmt.Errorf("parse week_start %q: %w", weekStart, err)
	}
	r.WeekStart = ws
	if createdBy.Valid {
		r.CreatedBy = &createdBy.Int64
	}
	return &r, nil
}

const runCols = `id, week_start, max_per_member, created_by, created_at`

// Create stores a run and all of its assignments in one transaction.
func (s *RunStore) Create(weekStart time.Time, maxPerMember int, createdBy *int64, assignments []schedule.Assignment) (*model.ScheduleRun, error) {
	var cBy sql.NullInt64
	if createdBy != nil {
		cBy = sql.NullInt64{Int64: *createdBy, Valid: true}
	}
	id := uuid.NewString()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO schedule_runs (id, week_start, max_per_member, created_by) VALUES (?, ?, ?, ?)`,
		id, formatDate(weekStart), maxPerMember, cBy,
	); err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO assignments (run_id, task_id, member_id, due_date, completed) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("prepare stmt: %w", err)
	}
	defer stmt.Close()

	for _, a := range assignments {
		if _, err := stmt.Exec(id, a.ChoreID, a.MemberID, formatDate(a.DueDate), a.Completed); err != nil {
			return nil, fmt.Errorf("insert assignment for task %d: %w", a.ChoreID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit run: %w", err)
	}
	return s.GetByID(id)
}

func (s *RunStore) GetByID(id string) (*model.ScheduleRun, error) {
	row := s.db.QueryRow(`SELECT `+runCols+` FROM schedule_runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return r, nil
}

func (s *RunStore) List() ([]model.ScheduleRun, error) {
	rows, err := s.db.Query(`SELECT ` + runCols + ` FROM schedule_runs ORDER BY week_start DESC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []model.ScheduleRun
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

// Delete removes a run. Its assignments go with it.
func (s *RunStore) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM schedule_runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	return nil
}

// OverlapsWeek reports whether any stored run shares a day with the seven
// days starting at weekStart.
func (s *RunStore) OverlapsWeek(weekStart time.Time) (bool, error) {
	day := formatDate(weekStart)
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM schedule_runs
		WHERE week_start BETWEEN date(?, '-6 days') AND date(?, '+6 days')`, day, day).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check run exists: %w", err)
	}
	return count > 0, nil
}
