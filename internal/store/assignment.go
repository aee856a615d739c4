package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dukerupert/choreweek/internal/model"
)

type AssignmentStore struct {
	db *sql.DB
}

func NewAssignmentStore(db *sql.DB) *AssignmentStore {
	return &AssignmentStore{db: db}
}

func scanAssignment(scanner interface{ Scan(...any) error }, extra ...any) (*model.Assignment, error) {
	var a model.Assignment
	var runID sql.NullString
	var dueDate string
	dest := append([]any{&a.ID, &runID, &a.TaskID, &a.MemberID, &dueDate, &a.Completed, &a.CreatedAt, &a.UpdatedAt}, extra...)
	if err := scanner.Scan(dest...); err != nil {
		return nil, err
	}
	due, err := parseDate(dueDate)
	if err != nil {
		return nil, fmt.Errorf("parse due_date %q: %w", dueDate, err)
	}
	a.DueDate = due
	if runID.Valid {
		a.RunID = &runID.String
	}
	return &a, nil
}

const assignmentCols = `id, run_id, task_id, member_id, due_date, completed, created_at, updated_at`

const assignmentDetailQuery = `
SELECT a.id, a.run_id, a.task_id, a.member_id, a.due_date, a.completed, a.created_at, a.updated_at,
       t.description, w.description, f.description, tt.description,
       TRIM(m.first_name || ' ' || m.last_name)
FROM assignments a
JOIN tasks t ON t.id = a.task_id
JOIN workloads w ON w.id = t.workload_id
JOIN frequencies f ON f.id = t.frequency_id
JOIN task_types tt ON tt.id = t.task_type_id
JOIN members m ON m.id = a.member_id`

// Create adds a single assignment outside of any generated run.
func (s *AssignmentStore) Create(taskID, memberID int64, dueDate time.Time) (*model.Assignment, error) {
	result, err := s.db.Exec(
		`INSERT INTO assignments (task_id, member_id, due_date) VALUES (?, ?, ?)`,
		taskID, memberID, formatDate(dueDate),
	)
	if err != nil {
		return nil, fmt.Errorf("insert assignment: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *AssignmentStore) GetByID(id int64) (*model.Assignment, error) {
	row := s.db.QueryRow(`SELECT `+assignmentCols+` FROM assignments WHERE id = ?`, id)
	a, err := scanAssignment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get assignment: %w", err)
	}
	return a, nil
}

// List returns assignments matching the filter ordered by due date. A
// WeekStart filter covers that day and the six after it.
func (s *AssignmentStore) List(filter model.AssignmentFilter) ([]model.AssignmentDetail, error) {
	var where []string
	var args []any
	if filter.MemberID != 0 {
		where = append(where, "a.member_id = ?")
		args = append(args, filter.MemberID)
	}
	if filter.RunID != "" {
		where = append(where, "a.run_id = ?")
		args = append(args, filter.RunID)
	}
	if !filter.WeekStart.IsZero() {
		where = append(where, "a.due_date BETWEEN ? AND ?")
		args = append(args, formatDate(filter.WeekStart), formatDate(filter.WeekStart.AddDate(0, 0, 6)))
	}

	query := assignmentDetailQuery
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY a.due_date ASC, a.id ASC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()

	var out []model.AssignmentDetail
	for rows.Next() {
		var d model.AssignmentDetail
		a, err := scanAssignment(rows,
			&d.TaskDescription, &d.WorkloadDescription, &d.FrequencyDescription,
			&d.TaskTypeDescription, &d.MemberName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		d.Assignment = *a
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *AssignmentStore) Update(id, taskID, memberID int64, dueDate time.Time, completed bool) (*model.Assignment, error) {
	_, err := s.db.Exec(
		`UPDATE assignments SET task_id = ?, member_id = ?, due_date = ?, completed = ? WHERE id = ?`,
		taskID, memberID, formatDate(dueDate), completed, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update assignment: %w", err)
	}
	return s.GetByID(id)
}

func (s *AssignmentStore) SetCompleted(id int64, completed bool) (*model.Assignment, error) {
	_, err := s.db.Exec(`UPDATE assignments SET completed = ? WHERE id = ?`, completed, id)
	if err != nil {
		return nil, fmt.Errorf("set completed: %w", err)
	}
	return s.GetByID(id)
}

func (s *AssignmentStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM assignments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	return nil
}
