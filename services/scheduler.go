package services

import (
	"log"
	"os"
	"time"

	"github.com/robfig/cron/v3"
)

// StartScheduler wires the goal sweep onto a cron timer. Cadence comes from
// GOAL_SWEEP_CRON (default: daily at 03:00). The deployment runs a single
// instance; a second concurrent runner cannot corrupt goal state (the status
// update is a compare-and-set) but could duplicate push notifications.
func StartScheduler(goals *GoalService) *cron.Cron {
	spec := os.Getenv("GOAL_SWEEP_CRON")
	if spec == "" {
		spec = "0 3 * * *"
	}

	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		completed, failed := goals.Sweep(time.Now())
		log.Printf("goal sweep: %d completed, %d failed", completed, failed)
	})
	if err != nil {
		log.Fatalf("invalid GOAL_SWEEP_CRON %q: %v", spec, err)
	}
	c.Start()
	return c
}
