package workflow

import (
	"bytes"
	"log/slog"
	"time"

	"github.com/Veraticus/savemoney/internal/llm"
	"github.com/Veraticus/savemoney/internal/parser"
)

var testToday = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testToday }

type fixedRand float64

func (f fixedRand) Float64() float64 { return float64(f) }

type recordingMetrics struct {
	stages    []string
	failures  []string
	fallbacks []string
	processed []string
}

func (r *recordingMetrics) ObserveStage(stage string, _ time.Duration) {
	r.stages = append(r.stages, stage)
}
func (r *recordingMetrics) StageFailed(stage string) { r.failures = append(r.failures, stage) }
func (r *recordingMetrics) Fallback(point string)    { r.fallbacks = append(r.fallbacks, point) }
func (r *recordingMetrics) RecordProcessed(category, source string) {
	r.processed = append(r.processed, category+"/"+source)
}

func newTestEngine(client llm.Client) (*Engine, *recordingMetrics, *bytes.Buffer) {
	var logs bytes.Buffer
	rec := &recordingMetrics{}
	e := NewEngine(Config{
		Rules:   parser.NewRuleParser(nil, fixedClock, fixedRand(0.5)),
		Client:  client,
		Clock:   fixedClock,
		Logger:  slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})),
		Metrics: rec,
		Timeout: time.Second,
	})
	return e, rec, &logs
}
