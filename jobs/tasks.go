// Package jobs hosts background task definitions and the Asynq worker.
package jobs

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskWeeklyWarmup pre-computes last week's report for configured shops.
	TaskWeeklyWarmup = "report:weekly_warmup"
)

// WeeklyWarmupPayload selects the shops and optionally pins the week start.
// An empty WeekStart means the most recent completed Monday-to-Sunday week.
type WeeklyWarmupPayload struct {
	ShopIDs   []string `json:"shopIds"`
	WeekStart string   `json:"weekStart,omitempty"`
}

// NewWeeklyWarmupTask constructs an Asynq task.
func NewWeeklyWarmupTask(payload WeeklyWarmupPayload) (*asynq.Task, error) {
	if len(payload.ShopIDs) == 0 {
		return nil, fmt.Errorf("jobs: warmup task needs at least one shop")
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskWeeklyWarmup, data), nil
}
