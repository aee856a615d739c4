package schedule

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration matches every *ConfigError.
	ErrConfiguration = errors.New("invalid schedule configuration")
	// ErrCapacity matches every *CapacityError.
	ErrCapacity = errors.New("insufficient scheduling capacity")
)

// ConfigError reports a malformed request. It is always returned before any
// allocation work starts.
type ConfigError struct {
	Field   string
	ChoreID int64
	Reason  string

	hasChore bool
}

func configErr(field, reason string) *ConfigError {
	return &ConfigError{Field: field, Reason: reason}
}

func choreErr(id int64, field, reason string) *ConfigError {
	return &ConfigError{Field: field, ChoreID: id, Reason: reason, hasChore: true}
}

func (e *ConfigError) Error() string {
	if e.hasChore {
		return fmt.Sprintf("schedule config: chore %d: %s: %s", e.ChoreID, e.Field, e.Reason)
	}
	return fmt.Sprintf("schedule config: %s: %s", e.Field, e.Reason)
}

// Chore returns the offending chore id, if the error concerns one chore.
func (e *ConfigError) Chore() (int64, bool) {
	return e.ChoreID, e.hasChore
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrConfiguration
}

// CapacityError reports that cap × member count cannot hold every occurrence.
type CapacityError struct {
	Required int
	Capacity int
	Unplaced int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("schedule capacity: %d of %d occurrences could not be placed (capacity %d)",
		e.Unplaced, e.Required, e.Capacity)
}

func (e *CapacityError) Is(target error) bool {
	return target == ErrCapacity
}
