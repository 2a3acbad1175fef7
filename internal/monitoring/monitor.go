// Package monitoring tracks frame timing and player activity for the game
// loop.
package monitoring

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Action names a counted player action
type Action string

const (
	ActionNavigate Action = "navigate"
	ActionBuy      Action = "buy"
	ActionSell     Action = "sell"
	ActionUseItem  Action = "use_item"
	ActionRejected Action = "rejected"
)

// Alert thresholds
const (
	MinFPS        = 30
	MaxMemoryMB   = 500
	DefaultReport = 30 * time.Second
)

// Monitor tracks frame timing and action counts. Counters are safe for
// concurrent use.
type Monitor struct {
	frameCount atomic.Uint64
	frameTime  atomic.Uint64 // nanoseconds, last frame
	totalTime  atomic.Uint64 // nanoseconds, all frames

	actions map[Action]*atomic.Uint64

	mutex      sync.Mutex
	startTime  time.Time
	lastReport time.Time
	interval   time.Duration
	logger     *zap.Logger
}

// NewMonitor creates a monitor that reports every interval. A zero interval
// uses DefaultReport.
func NewMonitor(interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = DefaultReport
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	now := time.Now()
	m := &Monitor{
		actions:    make(map[Action]*atomic.Uint64),
		startTime:  now,
		lastReport: now,
		interval:   interval,
		logger:     logger,
	}
	for _, a := range []Action{ActionNavigate, ActionBuy, ActionSell, ActionUseItem, ActionRejected} {
		m.actions[a] = new(atomic.Uint64)
	}
	return m
}

// FrameTimer measures one frame
type FrameTimer struct {
	monitor   *Monitor
	startTime time.Time
}

// StartFrame begins frame timing
func (m *Monitor) StartFrame() *FrameTimer {
	return &FrameTimer{monitor: m, startTime: time.Now()}
}

// EndFrame completes frame timing
func (ft *FrameTimer) EndFrame() {
	ns := uint64(time.Since(ft.startTime).Nanoseconds())
	ft.monitor.frameTime.Store(ns)
	ft.monitor.totalTime.Add(ns)
	ft.monitor.frameCount.Add(1)
}

// Record counts one action. Unknown actions are ignored.
func (m *Monitor) Record(a Action) {
	if c, ok := m.actions[a]; ok {
		c.Add(1)
	}
}

// Count returns how many times a was recorded
func (m *Monitor) Count(a Action) uint64 {
	if c, ok := m.actions[a]; ok {
		return c.Load()
	}
	return 0
}

// Metrics is a point-in-time view of the monitor
type Metrics struct {
	Frames          uint64
	LastFrame       time.Duration
	AverageFrame    time.Duration
	FramesPerSecond float64
	MemoryUsageMB   uint64
	Goroutines      int
	Actions         map[Action]uint64
	Uptime          time.Duration
}

// CurrentMetrics returns the current metrics
func (m *Monitor) CurrentMetrics() Metrics {
	frames := m.frameCount.Load()
	last := m.frameTime.Load()

	var avg time.Duration
	if frames > 0 {
		avg = time.Duration(m.totalTime.Load() / frames)
	}
	fps := 0.0
	if last > 0 {
		fps = float64(time.Second) / float64(last)
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	actions := make(map[Action]uint64, len(m.actions))
	for a, c := range m.actions {
		actions[a] = c.Load()
	}

	m.mutex.Lock()
	uptime := time.Since(m.startTime)
	m.mutex.Unlock()

	return Metrics{
		Frames:          frames,
		LastFrame:       time.Duration(last),
		AverageFrame:    avg,
		FramesPerSecond: fps,
		MemoryUsageMB:   memStats.Alloc / 1024 / 1024,
		Goroutines:      runtime.NumGoroutine(),
		Actions:         actions,
		Uptime:          uptime,
	}
}

// Alert is a performance warning
type Alert struct {
	Type      string
	Message   string
	Value     float64
	Threshold float64
}

// CheckAlerts returns alerts for the given metrics
func CheckAlerts(metrics Metrics) []Alert {
	alerts := make([]Alert, 0)
	if metrics.LastFrame > 0 && metrics.FramesPerSecond < MinFPS {
		alerts = append(alerts, Alert{
			Type:      "low_fps",
			Message:   "Frame rate is below 30 FPS",
			Value:     metrics.FramesPerSecond,
			Threshold: MinFPS,
		})
	}
	if metrics.MemoryUsageMB > MaxMemoryMB {
		alerts = append(alerts, Alert{
			Type:      "high_memory",
			Message:   "Memory usage is above 500MB",
			Value:     float64(metrics.MemoryUsageMB),
			Threshold: MaxMemoryMB,
		})
	}
	return alerts
}

// MaybeReport logs the metrics at debug level once per interval, plus a
// warning for each alert. It returns true when a report was written.
func (m *Monitor) MaybeReport(now time.Time) bool {
	m.mutex.Lock()
	if now.Sub(m.lastReport) < m.interval {
		m.mutex.Unlock()
		return false
	}
	m.lastReport = now
	m.mutex.Unlock()

	metrics := m.CurrentMetrics()
	m.logger.Debug("performance",
		zap.Uint64("frames", metrics.Frames),
		zap.Duration("avg_frame", metrics.AverageFrame),
		zap.Float64("fps", metrics.FramesPerSecond),
		zap.Uint64("memory_mb", metrics.MemoryUsageMB),
		zap.Uint64("navigations", metrics.Actions[ActionNavigate]),
		zap.Uint64("purchases", metrics.Actions[ActionBuy]),
		zap.Uint64("sales", metrics.Actions[ActionSell]),
		zap.Uint64("rejected", metrics.Actions[ActionRejected]))
	for _, a := range CheckAlerts(metrics) {
		m.logger.Warn(a.Message, zap.String("alert", a.Type), zap.Float64("value", a.Value))
	}
	return true
}

// Reset clears all counters
func (m *Monitor) Reset() {
	m.frameCount.Store(0)
	m.frameTime.Store(0)
	m.totalTime.Store(0)
	for _, c := range m.actions {
		c.Store(0)
	}
	m.mutex.Lock()
	m.startTime = time.Now()
	m.lastReport = m.startTime
	m.mutex.Unlock()
}
