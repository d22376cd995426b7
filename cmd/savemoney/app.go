package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/savemoney/internal/config"
	"github.com/Veraticus/savemoney/internal/llm"
	"github.com/Veraticus/savemoney/internal/metrics"
	"github.com/Veraticus/savemoney/internal/model"
	"github.com/Veraticus/savemoney/internal/parser"
	"github.com/Veraticus/savemoney/internal/sheets"
	"github.com/Veraticus/savemoney/internal/storage"
	"github.com/Veraticus/savemoney/internal/stt"
	"github.com/Veraticus/savemoney/internal/workflow"
)

// newEngine builds the workflow engine from configuration. A missing model
// API key yields a rules-only engine.
func newEngine(m *metrics.Metrics) (*workflow.Engine, error) {
	tables := parser.DefaultTables()
	if path := config.KeywordsPath(); path != "" {
		loaded, err := parser.LoadTablesFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load keyword tables: %w", err)
		}
		tables = loaded
	}

	llmCfg, err := config.LoadLLMConfig()
	if err != nil {
		return nil, err
	}
	client, err := llm.NewClient(llmCfg)
	switch {
	case errors.Is(err, llm.ErrDisabled):
		slog.Info("no model API key configured, using rule parser only")
		client = nil
	case err != nil:
		return nil, err
	}

	cfg := workflow.Config{
		Rules:   parser.NewRuleParser(tables, nil, nil),
		Client:  client,
		Logger:  slog.Default(),
		Timeout: llmCfg.Timeout,
	}
	if m != nil {
		cfg.Metrics = m
	}
	return workflow.NewEngine(cfg), nil
}

// initJournal opens and migrates the local journal.
func initJournal(ctx context.Context) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(config.DatabasePath())
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return store, nil
}

// initLedger returns the spreadsheet store, or the simulated ledger when
// Google Sheets is not configured.
func initLedger(ctx context.Context) (sheets.Store, error) {
	return sheets.NewStore(ctx, config.LoadSheetsConfig(), slog.Default())
}

func initTranscriber() (stt.Transcriber, error) {
	return stt.New(config.LoadSTTConfig())
}

// saveRecord appends rec to the ledger and mirrors it into the journal. A
// journal failure is logged and does not fail the save.
func saveRecord(ctx context.Context, ledger sheets.Store, journal *storage.SQLiteStorage, rec model.ExpenseRecord) (sheets.SaveResult, error) {
	result, err := ledger.AppendExpense(ctx, rec)
	if err != nil {
		return sheets.SaveResult{}, fmt.Errorf("failed to save record: %w", err)
	}

	if journal == nil {
		return result, nil
	}
	id, err := journal.SaveExpense(ctx, rec)
	if err != nil {
		slog.Warn("journal write failed", "error", err)
		return result, nil
	}
	if !result.Simulated {
		if err := journal.MarkSynced(ctx, id, result.Row.ID); err != nil {
			slog.Warn("journal sync mark failed", "id", id, "error", err)
		}
	}
	return result, nil
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
