package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/nandozscx/acopiapp/internal/config"
	"github.com/nandozscx/acopiapp/internal/domain/models"
	"github.com/nandozscx/acopiapp/internal/service/reporting"
)

// Scheduler runs the periodic weekly report generation.
type Scheduler struct {
	cron         *cron.Cron
	reportingSvc *reporting.Service
	cfg          config.Config
	logger       *zap.Logger
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cfg config.Config, reportingSvc *reporting.Service, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:         cron.New(),
		reportingSvc: reportingSvc,
		cfg:          cfg,
		logger:       logger,
	}
}

// Start registers the report job and starts the cron loop. A missing
// schedule leaves the scheduler idle.
func (s *Scheduler) Start() {
	if s.cfg.Reporting.CronSchedule == "" {
		s.logger.Info("report schedule not configured, scheduler idle")
		return
	}

	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.Reporting.CronSchedule))

	if _, err := s.cron.AddFunc(s.cfg.Reporting.CronSchedule, s.generateWeeklyReport); err != nil {
		s.logger.Error("failed to schedule weekly report", zap.Error(err))
		return
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) generateWeeklyReport() {
	s.logger.Info("generating scheduled weekly report")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	report, err := s.reportingSvc.GenerateWeekly(ctx, time.Now())
	if err != nil {
		s.logger.Error("failed to generate weekly report", zap.Error(err))
		return
	}

	if err := s.persist(report); err != nil {
		s.logger.Error("failed to persist weekly report", zap.Error(err))
		return
	}

	s.logger.Info("weekly report stored", zap.String("week_start", report.WeekStart))
}

func (s *Scheduler) persist(report models.WeeklyReport) error {
	dir := filepath.Join(s.cfg.Store.DataDir, "reports")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create reports dir: %w", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("week-%s.json", report.WeekStart))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}
