package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/status-beacon/beacon/db"
	"github.com/status-beacon/beacon/internal/ingest"
	"github.com/status-beacon/beacon/internal/models"
	"github.com/status-beacon/beacon/internal/probe"
)

const fetchTimeout = 15 * time.Second

// Scheduler polls every active service's status page on a shared interval.
// It sits outside the core write paths: each poll produces one observation
// and hands it to ingest.
type Scheduler struct {
	services map[uint]*serviceJob // service ID -> job
	interval time.Duration
	mu       sync.RWMutex
	ctx      context.Context
	cancel   context.CancelFunc
}

type serviceJob struct {
	service models.Service
	ticker  *time.Ticker
	cancel  context.CancelFunc
}

// NewScheduler initializes a new Scheduler instance
func NewScheduler(interval time.Duration) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		services: make(map[uint]*serviceJob),
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start loads all active services and begins polling
func (s *Scheduler) Start() error {
	log.Println("Starting poller...")

	var services []models.Service
	if err := db.DB.Where("is_active = ?", true).Find(&services).Error; err != nil {
		return err
	}

	for _, service := range services {
		s.AddService(service)
	}

	log.Printf("Poller started with %d services", len(services))
	return nil
}

// Stop gracefully shuts down all polling jobs
func (s *Scheduler) Stop() {
	log.Println("Stopping poller...")
	s.cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, job := range s.services {
		job.ticker.Stop()
		job.cancel()
	}

	s.services = make(map[uint]*serviceJob)
	log.Println("Poller stopped")
}

// AddService starts polling a service
func (s *Scheduler) AddService(service models.Service) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Stop existing job if it exists
	if existingJob, exists := s.services[service.ID]; exists {
		existingJob.ticker.Stop()
		existingJob.cancel()
	}

	jobCtx, jobCancel := context.WithCancel(s.ctx)
	ticker := time.NewTicker(s.interval)

	job := &serviceJob{
		service: service,
		ticker:  ticker,
		cancel:  jobCancel,
	}

	s.services[service.ID] = job

	go func() {
		// Immediate first poll, then the regular cadence
		serviceCopy := service
		s.executePoll(jobCtx, serviceCopy)
		s.runJob(jobCtx, job)
	}()

	log.Printf("Polling service %d (%s) every %s", service.ID, service.Name, s.interval)
}

// RemoveService stops polling a service
func (s *Scheduler) RemoveService(serviceID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if job, exists := s.services[serviceID]; exists {
		job.ticker.Stop()
		job.cancel()
		delete(s.services, serviceID)
		log.Printf("Stopped polling service %d", serviceID)
	}
}

func (s *Scheduler) runJob(ctx context.Context, job *serviceJob) {
	defer job.ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-job.ticker.C:
			s.mu.RLock()
			serviceCopy := job.service
			s.mu.RUnlock()

			s.executePoll(ctx, serviceCopy)
		}
	}
}

func (s *Scheduler) executePoll(ctx context.Context, service models.Service) {
	observation := probe.FetchStatusPage(ctx, service.StatusURL, fetchTimeout)

	record, err := ingest.RecordStatus(service.ID, string(observation.Status), time.Now().UTC(), observation.Raw)

	if err != nil {
		log.Printf("Failed to record status for service %d: %v", service.ID, err)
		return
	}

	log.Printf("Service %d (%s): %s at %s", service.ID, service.Name, record.Status, record.CheckedAt.Format(time.RFC3339))
}

// GetStatus returns current poller status
func (s *Scheduler) GetStatus() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"polled_services": len(s.services),
		"running":         s.ctx.Err() == nil,
	}
}

// Global scheduler instance
var globalScheduler *Scheduler

// Initialize creates and starts the global scheduler
func Initialize(interval time.Duration) error {
	globalScheduler = NewScheduler(interval)
	return globalScheduler.Start()
}

// Shutdown stops the global scheduler
func Shutdown() {
	if globalScheduler != nil {
		globalScheduler.Stop()
	}
}

// AddService adds a service to the global scheduler
func AddService(service models.Service) {
	if globalScheduler != nil {
		globalScheduler.AddService(service)
	}
}

// RemoveService removes a service from the global scheduler
func RemoveService(serviceID uint) {
	if globalScheduler != nil {
		globalScheduler.RemoveService(serviceID)
	}
}
