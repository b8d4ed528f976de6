// Package monitor samples a running simulation in the background and logs
// its progress at a fixed interval.
package monitor

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Status is one sample of the simulation's state.
type Status struct {
	Tick      int
	ScoreA    int
	ScoreB    int
	AliveA    int
	AliveB    int
	Resources int
}

// StatusFunc produces the current status. It is called from the monitor
// goroutine and must be safe to call concurrently with the tick loop, or
// the caller pauses the loop around samples.
type StatusFunc func() Status

// Service periodically samples and logs simulation progress.
type Service struct {
	interval time.Duration
	statusFn StatusFunc
	log      zerolog.Logger

	mu        sync.RWMutex
	isRunning bool
	stopChan  chan struct{}

	lastTick int
	lastTime time.Time
}

// NewService creates a monitor sampling via statusFn every interval.
func NewService(interval time.Duration, statusFn StatusFunc, log zerolog.Logger) *Service {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Service{
		interval: interval,
		statusFn: statusFn,
		log:      log,
		stopChan: make(chan struct{}),
	}
}

// IsRunning returns whether the monitor is running.
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Start launches the sampling goroutine. Starting twice is a no-op.
func (s *Service) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return
	}
	s.isRunning = true
	s.lastTime = time.Now()
	go s.loop()
}

// Stop shuts the sampling goroutine down.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return
	}
	s.isRunning = false
	close(s.stopChan)
}

func (s *Service) loop() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.sample()
		}
	}
}

func (s *Service) sample() {
	st := s.statusFn()
	now := time.Now()

	elapsed := now.Sub(s.lastTime).Seconds()
	var rate float64
	if elapsed > 0 {
		rate = float64(st.Tick-s.lastTick) / elapsed
	}
	s.lastTick = st.Tick
	s.lastTime = now

	s.log.Info().
		Int("tick", st.Tick).
		Float64("ticksPerSec", rate).
		Int("scoreA", st.ScoreA).
		Int("scoreB", st.ScoreB).
		Int("aliveA", st.AliveA).
		Int("aliveB", st.AliveB).
		Int("resources", st.Resources).
		Msg("simulation progress")
}
