package monitor

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestStartStop(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	s := NewService(10*time.Millisecond, func() Status {
		mu.Lock()
		defer mu.Unlock()
		calls++
		return Status{Tick: calls}
	}, zerolog.Nop())

	assert.False(t, s.IsRunning())
	s.Start()
	assert.True(t, s.IsRunning())

	time.Sleep(50 * time.Millisecond)
	s.Stop()
	assert.False(t, s.IsRunning())

	// let any in-flight sample finish, then confirm sampling stopped
	time.Sleep(30 * time.Millisecond)
	mu.Lock()
	sampled := calls
	mu.Unlock()
	assert.Greater(t, sampled, 0)

	time.Sleep(30 * time.Millisecond)
	mu.Lock()
	assert.Equal(t, sampled, calls)
	mu.Unlock()
}

func TestStartTwiceIsNoop(t *testing.T) {
	s := NewService(time.Hour, func() Status { return Status{} }, zerolog.Nop())
	s.Start()
	s.Start()
	s.Stop()
	s.Stop()
	assert.False(t, s.IsRunning())
}

func TestSampleLogsProgress(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)
	s := NewService(time.Hour, func() Status {
		return Status{Tick: 42, ScoreA: 10, ScoreB: 20, AliveA: 5, AliveB: 4, Resources: 30}
	}, log)

	s.sample()
	out := buf.String()
	assert.Contains(t, out, `"tick":42`)
	assert.Contains(t, out, `"scoreA":10`)
	assert.Contains(t, out, `"resources":30`)
	assert.Contains(t, out, "simulation progress")
}
