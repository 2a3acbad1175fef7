package monitoring

import (
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewMonitor(t *testing.T) {
	m := NewMonitor(0, nil)
	if m.interval != DefaultReport {
		t.Errorf("Expected default interval, got %v", m.interval)
	}
	if time.Since(m.startTime) > time.Second {
		t.Error("Start time should be recent")
	}
}

func TestFrameTiming(t *testing.T) {
	m := NewMonitor(time.Second, nil)

	ft := m.StartFrame()
	time.Sleep(10 * time.Millisecond)
	ft.EndFrame()

	if m.frameCount.Load() != 1 {
		t.Errorf("Expected frame count to be 1, got %d", m.frameCount.Load())
	}
	metrics := m.CurrentMetrics()
	if metrics.LastFrame < 10*time.Millisecond {
		t.Errorf("Expected frame time of at least 10ms, got %v", metrics.LastFrame)
	}
	if metrics.AverageFrame != metrics.LastFrame {
		t.Errorf("Average of one frame should equal it: %v vs %v", metrics.AverageFrame, metrics.LastFrame)
	}
	if metrics.FramesPerSecond <= 0 || metrics.FramesPerSecond > 100 {
		t.Errorf("Unexpected fps %f", metrics.FramesPerSecond)
	}
}

func TestRecordConcurrency(t *testing.T) {
	m := NewMonitor(time.Second, nil)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.Record(ActionBuy)
			}
		}()
	}
	wg.Wait()

	if m.Count(ActionBuy) != 1000 {
		t.Errorf("Expected 1000 purchases, got %d", m.Count(ActionBuy))
	}
	m.Record("juggle")
	if m.Count("juggle") != 0 {
		t.Error("Unknown actions should not be counted")
	}
}

func TestCheckAlerts(t *testing.T) {
	if alerts := CheckAlerts(Metrics{}); len(alerts) != 0 {
		t.Errorf("Idle monitor should raise no alerts, got %+v", alerts)
	}
	slow := Metrics{LastFrame: 100 * time.Millisecond, FramesPerSecond: 10}
	alerts := CheckAlerts(slow)
	if len(alerts) != 1 || alerts[0].Type != "low_fps" {
		t.Errorf("Expected low_fps alert, got %+v", alerts)
	}
	heavy := Metrics{MemoryUsageMB: 900}
	if alerts := CheckAlerts(heavy); len(alerts) != 1 || alerts[0].Type != "high_memory" {
		t.Errorf("Expected high_memory alert, got %+v", alerts)
	}
}

func TestMaybeReport(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	m := NewMonitor(time.Minute, zap.New(core))
	start := m.lastReport

	if m.MaybeReport(start.Add(time.Second)) {
		t.Error("Should not report before the interval")
	}
	if !m.MaybeReport(start.Add(2 * time.Minute)) {
		t.Error("Should report after the interval")
	}
	if logs.FilterMessage("performance").Len() != 1 {
		t.Error("Expected one performance entry")
	}
	if m.MaybeReport(start.Add(2*time.Minute + time.Second)) {
		t.Error("Interval should restart after a report")
	}
}

func TestReset(t *testing.T) {
	m := NewMonitor(time.Second, nil)
	m.StartFrame().EndFrame()
	m.Record(ActionSell)
	m.Reset()
	if m.frameCount.Load() != 0 || m.Count(ActionSell) != 0 {
		t.Error("Reset should clear counters")
	}
}

func BenchmarkFrameTiming(b *testing.B) {
	m := NewMonitor(time.Second, nil)
	for i := 0; i < b.N; i++ {
		m.StartFrame().EndFrame()
	}
}
