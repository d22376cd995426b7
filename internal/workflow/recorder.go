package workflow

import "time"

// Recorder receives workflow instrumentation. *metrics.Metrics implements it.
type Recorder interface {
	ObserveStage(stage string, d time.Duration)
	StageFailed(stage string)
	Fallback(point string)
	RecordProcessed(category, source string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveStage(string, time.Duration) {}
func (nopRecorder) StageFailed(string)                 {}
func (nopRecorder) Fallback(string)                    {}
func (nopRecorder) RecordProcessed(string, string)     {}
