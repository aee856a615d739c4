package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/choreweek/internal/model"
	"github.com/dukerupert/choreweek/internal/schedule"
)

type TaskStore struct {
	db *sql.DB
}

func NewTaskStore(db *sql.DB) *TaskStore {
	return &TaskStore{db: db}
}

func scanTaskDetail(scanner interface{ Scan(...any) error }) (*model.TaskDetail, error) {
	var t model.TaskDetail
	err := scanner.Scan(
		&t.ID, &t.Description, &t.FrequencyID, &t.WorkloadID, &t.TaskTypeID,
		&t.CreatedAt, &t.UpdatedAt,
		&t.FrequencyDescription, &t.FrequencyValue,
		&t.WorkloadDescription, &t.WorkloadValue,
		&t.TaskTypeDescription,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

const taskDetailQuery = `
SELECT t.id, t.description, t.frequency_id, t.workload_id, t.task_type_id,
       t.created_at, t.updated_at,
       f.description, f.value,
       w.description, w.value,
       tt.description
FROM tasks t
JOIN frequencies f ON f.id = t.frequency_id
JOIN workloads w ON w.id = t.workload_id
JOIN task_types tt ON tt.id = t.task_type_id`

func (s *TaskStore) Create(description string, frequencyID, workloadID, taskTypeID int64) (*model.TaskDetail, error) {
	result, err := s.db.Exec(
		`INSERT INTO tasks (description, frequency_id, workload_id, task_type_id) VALUES (?, ?, ?, ?)`,
		description, frequencyID, workloadID, taskTypeID,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *TaskStore) GetByID(id int64) (*model.TaskDetail, error) {
	row := s.db.QueryRow(taskDetailQuery+` WHERE t.id = ?`, id)
	t, err := scanTaskDetail(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

func (s *TaskStore) List() ([]model.TaskDetail, error) {
	rows, err := s.db.Query(taskDetailQuery + ` ORDER BY t.id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.TaskDetail
	for rows.Next() {
		t, err := scanTaskDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func (s *TaskStore) Update(id int64, description string, frequencyID, workloadID, taskTypeID int64) (*model.TaskDetail, error) {
	_, err := s.db.Exec(
		`UPDATE tasks SET description = ?, frequency_id = ?, workload_id = ?, task_type_id = ? WHERE id = ?`,
		description, frequencyID, workloadID, taskTypeID, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return s.GetByID(id)
}

func (s *TaskStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// Catalog returns every task as an engine chore, in id order.
func (s *TaskStore) Catalog() ([]schedule.Chore, error) {
	rows, err := s.db.Query(`
SELECT t.id, f.value, w.value
FROM tasks t
JOIN frequencies f ON f.id = t.frequency_id
JOIN workloads w ON w.id = t.workload_id
ORDER BY t.id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	defer rows.Close()

	var chores []schedule.Chore
	for rows.Next() {
		var c schedule.Chore
		var freq int
		if err := rows.Scan(&c.ID, &freq, &c.Weight); err != nil {
			return nil, fmt.Errorf("scan catalog: %w", err)
		}
		c.Frequency = schedule.Frequency(freq)
		chores = append(chores, c)
	}
	return chores, rows.Err()
}
