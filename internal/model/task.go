package model

import "time"

type Frequency struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
	Value       int    `json:"value"`
}

type Workload struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
	Value       int    `json:"value"`
}

type TaskType struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
}

type Task struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	FrequencyID int64     `json:"frequency_id"`
	WorkloadID  int64     `json:"workload_id"`
	TaskTypeID  int64     `json:"task_type_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TaskDetail is a task joined with its lookup rows.
type TaskDetail struct {
	Task
	FrequencyDescription string `json:"frequency_description"`
	FrequencyValue       int    `json:"frequency_value"`
	WorkloadDescription  string `json:"workload_description"`
	WorkloadValue        int    `json:"workload_value"`
	TaskTypeDescription  string `json:"task_type_description"`
}
