package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/choreweek/internal/model"
)

// LookupStore manages the frequency, workload and task type tables that
// tasks reference.
type LookupStore struct {
	db *sql.DB
}

func NewLookupStore(db *sql.DB) *LookupStore {
	return &LookupStore{db: db}
}

// --- Frequency methods ---

func (s *LookupStore) ListFrequencies() ([]model.Frequency, error) {
	rows, err := s.db.Query(`SELECT id, description, value FROM frequencies ORDER BY value ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list frequencies: %w", err)
	}
	defer rows.Close()

	var out []model.Frequency
	for rows.Next() {
		var f model.Frequency
		if err := rows.Scan(&f.ID, &f.Description, &f.Value); err != nil {
			return nil, fmt.Errorf("scan frequency: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (s *LookupStore) GetFrequency(id int64) (*model.Frequency, error) {
	var f model.Frequency
	err := s.db.QueryRow(`SELECT id, description, value FROM frequencies WHERE id = ?`, id).
		Scan(&f.ID, &f.Description, &f.Value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get frequency: %w", err)
	}
	return &f, nil
}

func (s *LookupStore) CreateFrequency(description string, value int) (*model.Frequency, error) {
	result, err := s.db.Exec(`INSERT INTO frequencies (description, value) VALUES (?, ?)`, description, value)
	if err != nil {
		return nil, fmt.Errorf("insert frequency: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetFrequency(id)
}

// --- Workload methods ---

func (s *LookupStore) ListWorkloads() ([]model.Workload, error) {
	rows, err := s.db.Query(`SELECT id, description, value FROM workloads ORDER BY value ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list workloads: %w", err)
	}
	defer rows.Close()

	var out []model.Workload
	for rows.Next() {
		var w model.Workload
		if err := rows.Scan(&w.ID, &w.Description, &w.Value); err != nil {
			return nil, fmt.Errorf("scan workload: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (s *LookupStore) GetWorkload(id int64) (*model.Workload, error) {
	var w model.Workload
	err := s.db.QueryRow(`SELECT id, description, value FROM workloads WHERE id = ?`, id).
		Scan(&w.ID, &w.Description, &w.Value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get workload: %w", err)
	}
	return &w, nil
}

func (s *LookupStore) CreateWorkload(description string, value int) (*model.Workload, error) {
	result, err := s.db.Exec(`INSERT INTO workloads (description, value) VALUES (?, ?)`, description, value)
	if err != nil {
		return nil, fmt.Errorf("insert workload: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetWorkload(id)
}

// --- Task type methods ---

func (s *LookupStore) ListTaskTypes() ([]model.TaskType, error) {
	rows, err := s.db.Query(`SELECT id, description FROM task_types ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list task types: %w", err)
	}
	defer rows.Close()

	var out []model.TaskType
	for rows.Next() {
		var tt model.TaskType
		if err := rows.Scan(&tt.ID, &tt.Description); err != nil {
			return nil, fmt.Errorf("scan task type: %w", err)
		}
		out = append(out, tt)
	}
	return out, rows.Err()
}

func (s *LookupStore) GetTaskType(id int64) (*model.TaskType, error) {
	var tt model.TaskType
	err := s.db.QueryRow(`SELECT id, description FROM task_types WHERE id = ?`, id).Scan(&tt.ID, &tt.Description)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task type: %w", err)
	}
	return &tt, nil
}

func (s *LookupStore) CreateTaskType(description string) (*model.TaskType, error) {
	result, err := s.db.Exec(`INSERT INTO task_types (description) VALUES (?)`, description)
	if err != nil {
		return nil, fmt.Errorf("insert task type: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetTaskType(id)
}
