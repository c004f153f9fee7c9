package model

// TaskStatus represents the status of a fetch task
type TaskStatus string

const (
	// TaskStatusPending means the task is created but the fetch has not started
	TaskStatusPending TaskStatus = "Pending"

	// TaskStatusFetching means the image is being downloaded and decoded
	TaskStatusFetching TaskStatus = "Fetching"

	// TaskStatusSaving means the decoded image is being written to storage
	TaskStatusSaving TaskStatus = "Saving"

	// TaskStatusCompleted means the image was fetched and persisted
	TaskStatusCompleted TaskStatus = "Completed"

	// TaskStatusError means the fetch or the save failed
	TaskStatusError TaskStatus = "Error"
)

// String returns the string representation of TaskStatus
func (ts TaskStatus) String() string {
	return string(ts)
}

// IsActive returns true if the task is in an active state
func (ts TaskStatus) IsActive() bool {
	return ts == TaskStatusFetching || ts == TaskStatusSaving
}

// IsFinished returns true if the task is in a finished state (completed or error)
func (ts TaskStatus) IsFinished() bool {
	return ts == TaskStatusCompleted || ts == TaskStatusError
}
