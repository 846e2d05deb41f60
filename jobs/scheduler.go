// Package jobs runs the background cron tasks.
package jobs

import (
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/astroveda/connect-backend/utils"
)

// Scheduler owns the cron runner for recurring maintenance work
type Scheduler struct {
	cron *cron.Cron
	db   *gorm.DB
}

// NewScheduler creates the job scheduler
func NewScheduler(db *gorm.DB) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		db:   db,
	}
}

// Start registers and launches the background jobs. The hourly sweep pays
// out shop orders whose settlement window has elapsed; admins can trigger
// the same sweep manually for catch-up.
func (s *Scheduler) Start() {
	s.cron.AddFunc("0 * * * *", func() {
		utils.LogInfo("[CRON] Settlement sweep starting")
		settled, err := utils.SettleDueOrders(s.db, nil)
		if err != nil {
			utils.LogError("[CRON] Settlement sweep failed after %d orders: %v", settled, err)
			return
		}
		if settled > 0 {
			utils.LogInfo("[CRON] Settlement sweep settled %d orders", settled)
		}
	})

	s.cron.Start()
	utils.LogInfo("Job scheduler started")
}

// Stop halts the scheduler, waiting for running jobs to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	utils.LogInfo("Job scheduler stopped")
}
