package model

import "time"

// ScheduleRun groups the assignments produced by one generated week.
type ScheduleRun struct {
	ID           string    `json:"id"`
	WeekStart    time.Time `json:"week_start"`
	MaxPerMember int       `json:"max_per_member"`
	CreatedBy    *int64    `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
}

type Assignment struct {
	ID        int64     `json:"id"`
	RunID     *string   `json:"run_id"`
	TaskID    int64     `json:"task_id"`
	MemberID  int64     `json:"member_id"`
	DueDate   time.Time `json:"due_date"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AssignmentDetail is an assignment joined with task and member names.
type AssignmentDetail struct {
	Assignment
	TaskDescription      string `json:"task_description"`
	WorkloadDescription  string `json:"workload_description"`
	FrequencyDescription string `json:"frequency_description"`
	TaskTypeDescription  string `json:"task_type_description"`
	MemberName           string `json:"member_name"`
	// Status is derived at read time, never stored.
	Status string `json:"status,omitempty"`
}

// AssignmentFilter narrows an assignment listing. Zero values mean no filter.
type AssignmentFilter struct {
	MemberID  int64
	RunID     string
	WeekStart time.Time
}
