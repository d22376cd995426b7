package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/savemoney/internal/common"
	"github.com/Veraticus/savemoney/internal/llm"
	"github.com/Veraticus/savemoney/internal/model"
	"github.com/Veraticus/savemoney/internal/parser"
)

// maxSteps bounds a single run. A well-formed run visits at most six stages.
const maxSteps = 12

type stageFunc func(ctx context.Context, st *State) error

// Config wires an Engine. Only Rules is needed for a fully working engine; a
// nil Client disables every model-backed stage.
type Config struct {
	Rules   *parser.RuleParser
	Client  llm.Client
	Clock   parser.Clock
	Logger  *slog.Logger
	Metrics Recorder
	Timeout time.Duration
}

// Engine runs the staged refinement workflow. It holds no per-request state
// and is safe for concurrent use.
type Engine struct {
	rules      *parser.RuleParser
	enhanced   *parser.EnhancedParser
	client     llm.Client
	clock      parser.Clock
	logger     *slog.Logger
	metrics    Recorder
	handlers   map[Stage]stageFunc
	transition func(Stage, *State) Stage
	timeout    time.Duration
}

// NewEngine creates an engine from cfg, filling unset fields with defaults.
func NewEngine(cfg Config) *Engine {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Rules == nil {
		cfg.Rules = parser.NewRuleParser(nil, cfg.Clock, nil)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = nopRecorder{}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = parser.DefaultTimeout
	}

	e := &Engine{
		rules:      cfg.Rules,
		client:     cfg.Client,
		clock:      cfg.Clock,
		logger:     cfg.Logger,
		metrics:    cfg.Metrics,
		timeout:    cfg.Timeout,
		transition: next,
	}
	if cfg.Client != nil {
		e.enhanced = parser.NewEnhancedParser(cfg.Client, cfg.Clock, cfg.Timeout, cfg.Logger)
	}
	e.handlers = map[Stage]stageFunc{
		StageExtractBasic: e.extractBasic,
		StageEnhance:      e.enhance,
		StageSuggest:      e.suggest,
		StageConfirm:      e.confirm,
		StageFinalize:     e.finalize,
	}
	return e
}

// ModelEnabled reports whether a model client is configured.
func (e *Engine) ModelEnabled() bool {
	return e.client != nil
}

// Process turns one utterance into a finalized record. It never fails: any
// workflow failure, including a panic inside a stage, yields the rule parser's
// record instead.
func (e *Engine) Process(ctx context.Context, text string) model.ExpenseRecord {
	requestID := uuid.NewString()
	logger := e.logger.With("request_id", requestID)
	ctx = common.WithLogger(ctx, logger)

	start := time.Now()
	record, cause := common.Attempt(
		func() (model.ExpenseRecord, error) {
			st, err := e.run(ctx, requestID, text)
			if err != nil {
				return model.ExpenseRecord{}, err
			}
			return *st.Final, nil
		},
		func() model.ExpenseRecord {
			return e.rules.Parse(text).Finalize(e.rules.Now(), model.Annotations{})
		},
	)
	if cause != nil {
		logger.Error("workflow failed, using rule parser record", "error", cause)
		e.metrics.Fallback("workflow")
	}

	e.metrics.RecordProcessed(string(record.Category), string(record.Source))
	logger.Info("expense processed",
		"category", record.Category,
		"amount", record.Amount.String(),
		"confidence", record.Confidence,
		"needs_confirmation", record.NeedsConfirmation,
		"duration", time.Since(start))

	return record
}

// Run executes the state machine and returns the final state, including the
// visited stages and any recorded failures. Errors wrap common.ErrWorkflowFailed.
func (e *Engine) Run(ctx context.Context, text string) (*State, error) {
	requestID := uuid.NewString()
	ctx = common.WithLogger(ctx, e.logger.With("request_id", requestID))
	return e.run(ctx, requestID, text)
}

func (e *Engine) run(ctx context.Context, requestID, text string) (*State, error) {
	st := newState(requestID, text)

	stage := StageExtractBasic
	for steps := 0; stage != StageDone; steps++ {
		if steps >= maxSteps {
			return st, fmt.Errorf("%w: exceeded %d steps at stage %s", common.ErrWorkflowFailed, maxSteps, stage)
		}

		handler, ok := e.handlers[stage]
		if !ok {
			return st, fmt.Errorf("%w: no handler for stage %s", common.ErrWorkflowFailed, stage)
		}

		st.Visited = append(st.Visited, stage)
		started := time.Now()
		err := handler(ctx, st)
		e.metrics.ObserveStage(stage.String(), time.Since(started))
		if err != nil {
			return st, fmt.Errorf("%w: stage %s: %w", common.ErrWorkflowFailed, stage, err)
		}

		stage = e.transition(stage, st)
	}

	if st.Final == nil {
		return st, fmt.Errorf("%w: finished without a record", common.ErrWorkflowFailed)
	}
	return st, nil
}

// recordFailure notes an optional call that failed. The stage continues with
// its pre-call state.
func (e *Engine) recordFailure(ctx context.Context, st *State, stage Stage, err error) {
	common.LoggerFrom(ctx).Warn("workflow stage call failed",
		"stage", stage.String(),
		"error", err)
	st.fail(stage, err)
	e.metrics.StageFailed(stage.String())
}

func (e *Engine) extractBasic(ctx context.Context, st *State) error {
	if e.enhanced == nil {
		st.Draft = e.rules.Parse(st.RawText)
		return nil
	}

	draft, cause := common.Attempt(
		func() (model.ExpenseDraft, error) { return e.enhanced.Parse(ctx, st.RawText) },
		func() model.ExpenseDraft { return e.rules.Parse(st.RawText) },
	)
	if cause != nil {
		e.recordFailure(ctx, st, StageExtractBasic, cause)
		e.metrics.Fallback("extract")
	}
	st.Draft = draft
	return nil
}

func (e *Engine) finalize(_ context.Context, st *State) error {
	if st.Final != nil {
		return fmt.Errorf("record already finalized")
	}
	record := st.Draft.Finalize(e.clock(), model.Annotations{
		Suggestions:           st.Suggestions,
		ConfirmationQuestions: st.Questions,
	})
	st.Final = &record
	return nil
}
