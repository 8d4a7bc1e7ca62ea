package scheduler

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/greengenius/greengenius/db"
	"github.com/greengenius/greengenius/internal/dashboard"
	"github.com/greengenius/greengenius/internal/models"
	"github.com/greengenius/greengenius/internal/realtime"
	"github.com/greengenius/greengenius/internal/sensors"
	"github.com/greengenius/greengenius/internal/services"
	"github.com/greengenius/greengenius/internal/types"
	"go.uber.org/zap"
)

// SensorUpdate is broadcast on the sensors topic of a pot after each poll.
type SensorUpdate struct {
	PotID       string                        `json:"pot_id"`
	Status      types.SensorStatus            `json:"status"`
	Metrics     dashboard.RingMetrics         `json:"metrics"`
	Analysis    types.AnalysisResult          `json:"analysis"`
	Environment []dashboard.EnvironmentStatus `json:"environment"`
	Timestamp   time.Time                     `json:"timestamp"`
}

type Options struct {
	Source        sensors.Source
	Publisher     services.Publisher
	Broadcast     func(topic string, data any)
	Interval      time.Duration
	RecordHistory bool
}

type Scheduler struct {
	pots   map[string]*PotJob // pot ID -> job
	mu     sync.RWMutex
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	opts   Options
}

type PotJob struct {
	pot        models.Pot
	ticker     *time.Ticker
	cancel     context.CancelFunc
	lastStatus string
}

// NewScheduler initializes a new Scheduler instance
func NewScheduler(opts Options) *Scheduler {
	if opts.Publisher == nil {
		opts.Publisher = services.NopPublisher{}
	}

	if opts.Broadcast == nil {
		opts.Broadcast = realtime.Publish
	}

	if opts.Interval <= 0 {
		opts.Interval = 5 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		pots:   make(map[string]*PotJob),
		ctx:    ctx,
		cancel: cancel,
		opts:   opts,
	}
}

// Start loads every pot with a plant and begins polling
func (s *Scheduler) Start() error {
	zap.L().Info("Starting scheduler...")

	var pots []models.Pot
	if err := db.DB.Find(&pots).Error; err != nil {
		return err
	}

	count := 0
	for _, pot := range pots {
		if pot.HasPlant() {
			s.AddPot(pot)
			count++
		}
	}

	zap.L().Info("Scheduler started", zap.Int("pots", count), zap.Duration("interval", s.opts.Interval))
	return nil
}

// Stop gracefully shuts down all pot jobs
func (s *Scheduler) Stop() {
	zap.L().Info("Stopping scheduler...")
	s.cancel()

	s.mu.Lock()
	for _, job := range s.pots {
		job.ticker.Stop()
		job.cancel()
	}

	s.pots = make(map[string]*PotJob)
	s.mu.Unlock()

	s.wg.Wait()
	zap.L().Info("Scheduler stopped")
}

// AddPot starts polling a pot. Pots without a plant are not polled.
func (s *Scheduler) AddPot(pot models.Pot) {
	if !pot.HasPlant() {
		s.RemovePot(pot.ID)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctx.Err() != nil {
		return
	}

	if existingJob, exists := s.pots[pot.ID]; exists {
		existingJob.ticker.Stop()
		existingJob.cancel()
	}

	jobCtx, jobCancel := context.WithCancel(s.ctx)
	ticker := time.NewTicker(s.opts.Interval)

	job := &PotJob{
		pot:    pot,
		ticker: ticker,
		cancel: jobCancel,
	}

	s.pots[pot.ID] = job

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.executeCheck(jobCtx, job)
		s.runPot(jobCtx, job)
	}()

	zap.L().Debug("Added pot", zap.String("pot_id", pot.ID), zap.String("name", pot.Name))
}

// RemovePot stops polling a pot
func (s *Scheduler) RemovePot(potID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if job, exists := s.pots[potID]; exists {
		job.ticker.Stop()
		job.cancel()
		delete(s.pots, potID)
		zap.L().Debug("Removed pot", zap.String("pot_id", potID))
	}
}

// UpdatePot restarts polling with the pot's new plant data
func (s *Scheduler) UpdatePot(pot models.Pot) {
	s.AddPot(pot)
}

func (s *Scheduler) runPot(ctx context.Context, job *PotJob) {
	defer job.ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-job.ticker.C:
			s.executeCheck(ctx, job)
		}
	}
}

// executeCheck reads, records, analyzes and broadcasts one reading
func (s *Scheduler) executeCheck(ctx context.Context, job *PotJob) {
	s.mu.RLock()
	pot := job.pot
	s.mu.RUnlock()

	status, err := s.opts.Source.Read(ctx, pot.ID)

	if err != nil {
		if ctx.Err() == nil {
			zap.L().Warn("Sensor read failed", zap.String("pot_id", pot.ID), zap.Error(err))
		}
		return
	}

	now := time.Now()

	if s.opts.RecordHistory {
		s.storeReading(pot.ID, status, now)
	}

	analysis := services.AnalyzeHealth(ProfileOf(pot), status)
	reading := status.ToSensorData()

	update := SensorUpdate{
		PotID:       pot.ID,
		Status:      status,
		Metrics:     dashboard.NormalizeMetrics(&reading),
		Analysis:    analysis,
		Environment: dashboard.EnvironmentFromAnalysis(&analysis),
		Timestamp:   now,
	}

	s.opts.Broadcast(realtime.SensorsTopic(pot.ID), update)

	s.publish(ctx, services.NewEvent(services.EventSensorReading, pot.UserID, pot.ID, status))

	s.mu.Lock()
	changed := job.lastStatus != analysis.Status
	job.lastStatus = analysis.Status
	s.mu.Unlock()

	if changed {
		s.publish(ctx, services.NewEvent(services.EventHealthChanged, pot.UserID, pot.ID, analysis))
	}
}

func (s *Scheduler) publish(ctx context.Context, event services.Event) {
	if err := s.opts.Publisher.Publish(ctx, event); err != nil {
		zap.L().Warn("Failed to publish event", zap.String("type", event.Type), zap.Error(err))
	}
}

func (s *Scheduler) storeReading(potID string, status types.SensorStatus, at time.Time) {
	reading := models.SensorReading{
		PotID:        potID,
		Temperature:  status.Temperature,
		Humidity:     status.Humidity,
		Light:        status.LightLevel,
		SoilMoisture: status.SoilMoisture,
		Timestamp:    at,
	}

	if err := db.DB.Create(&reading).Error; err != nil {
		zap.L().Warn("Failed to store sensor reading", zap.String("pot_id", potID), zap.Error(err))
	}
}

// ProfileOf returns the requirement profile stored with the pot's plant.
func ProfileOf(pot models.Pot) types.PlantProfile {
	var profile types.PlantProfile

	plant, err := pot.PlantData()

	if err != nil || plant == nil || len(plant.Details) == 0 {
		return profile
	}

	if err := json.Unmarshal(plant.Details, &profile); err != nil {
		zap.L().Debug("Plant details carry no growth profile", zap.String("pot_id", pot.ID), zap.Error(err))
	}

	return profile
}

// GetStatus returns current scheduler status
func (s *Scheduler) GetStatus() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"active_pots": len(s.pots),
		"running":     s.ctx.Err() == nil,
		"interval":    s.opts.Interval.String(),
	}
}

// Global scheduler instance
var globalScheduler *Scheduler

// Initialize creates and starts the global scheduler
func Initialize(opts Options) error {
	globalScheduler = NewScheduler(opts)
	return globalScheduler.Start()
}

// Shutdown stops the global scheduler
func Shutdown() {
	if globalScheduler != nil {
		globalScheduler.Stop()
	}
}

// AddPot adds a pot to the global scheduler
func AddPot(pot models.Pot) {
	if globalScheduler != nil {
		globalScheduler.AddPot(pot)
	}
}

// RemovePot removes a pot from the global scheduler
func RemovePot(potID string) {
	if globalScheduler != nil {
		globalScheduler.RemovePot(potID)
	}
}

// UpdatePot updates a pot in the global scheduler
func UpdatePot(pot models.Pot) {
	if globalScheduler != nil {
		globalScheduler.UpdatePot(pot)
	}
}

// Status reports the global scheduler status, nil when not running.
func Status() map[string]interface{} {
	if globalScheduler == nil {
		return nil
	}

	return globalScheduler.GetStatus()
}
