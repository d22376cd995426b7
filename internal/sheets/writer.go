package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/Veraticus/savemoney/internal/common"
	"github.com/Veraticus/savemoney/internal/model"
)

// Writer appends expense rows to a Google Sheets tab.
type Writer struct {
	service    *sheets.Service
	logger     *slog.Logger
	now        func() time.Time
	config     Config
	headerMu   sync.Mutex
	hasHeader  bool
}

// NewWriter creates a new Google Sheets writer.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	service, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return newWriterWithService(service, config, logger), nil
}

func newWriterWithService(service *sheets.Service, config Config, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	if config.SheetName == "" {
		config.SheetName = DefaultSheetName
	}
	return &Writer{
		service: service,
		logger:  logger,
		now:     time.Now,
		config:  config,
	}
}

// NewStore returns a Writer when cfg is configured and a MemoryStore otherwise.
func NewStore(ctx context.Context, cfg Config, logger *slog.Logger) (Store, error) {
	if !cfg.Configured() {
		return NewMemoryStore(logger), nil
	}
	return NewWriter(ctx, cfg, logger)
}

// createSheetsService creates a Google Sheets API service.
func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	var tokenSource oauth2.TokenSource

	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}

		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		client := oauthConfig(config.ClientID, config.ClientSecret, "")
		tokenSource = client.TokenSource(ctx, &oauth2.Token{
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		})
	}

	httpClient := oauth2.NewClient(ctx, tokenSource)
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return srv, nil
}

func (w *Writer) retryOptions() common.RetryOptions {
	return common.RetryOptions{
		MaxAttempts:  max(w.config.RetryAttempts, 1),
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
}

func (w *Writer) columns(rows string) string {
	return fmt.Sprintf("'%s'!%s", w.config.SheetName, rows)
}

// AppendExpense validates rec and appends it as one row.
func (w *Writer) AppendExpense(ctx context.Context, rec model.ExpenseRecord) (SaveResult, error) {
	if err := ValidateRecord(rec); err != nil {
		return SaveResult{}, err
	}

	if err := w.ensureHeader(ctx); err != nil {
		return SaveResult{}, fmt.Errorf("failed to write header: %w", err)
	}

	row := RowFromRecord(NewRecordID(w.now()), rec)
	valueRange := &sheets.ValueRange{Values: [][]any{row.Values()}}

	var updated string
	err := common.WithRetry(ctx, func() error {
		resp, err := w.service.Spreadsheets.Values.Append(w.config.SpreadsheetID, w.columns("A:J"), valueRange).
			ValueInputOption("USER_ENTERED").
			InsertDataOption("INSERT_ROWS").
			Context(ctx).
			Do()
		if err != nil {
			return classify(err)
		}
		if resp.Updates != nil {
			updated = resp.Updates.UpdatedRange
		}
		return nil
	}, w.retryOptions())
	if err != nil {
		return SaveResult{}, fmt.Errorf("failed to append expense: %w", err)
	}

	w.logger.Info("expense appended to sheet",
		"id", row.ID,
		"range", updated,
		"category", row.Category)

	return SaveResult{Row: row}, nil
}

// ensureHeader writes Headers into row 1 when the tab is empty.
func (w *Writer) ensureHeader(ctx context.Context) error {
	w.headerMu.Lock()
	defer w.headerMu.Unlock()

	if w.hasHeader {
		return nil
	}

	resp, err := w.service.Spreadsheets.Values.Get(w.config.SpreadsheetID, w.columns("A1:J1")).Context(ctx).Do()
	if err != nil {
		return err
	}
	if len(resp.Values) == 0 || len(resp.Values[0]) == 0 {
		_, err = w.service.Spreadsheets.Values.Update(w.config.SpreadsheetID, w.columns("A1:J1"), &sheets.ValueRange{
			Values: [][]any{Headers},
		}).ValueInputOption("RAW").Context(ctx).Do()
		if err != nil {
			return err
		}
		w.logger.Debug("wrote ledger header", "sheet", w.config.SheetName)
	}

	w.hasHeader = true
	return nil
}

// ListExpenses returns up to limit rows, newest first. Rows that do not parse
// are skipped.
func (w *Writer) ListExpenses(ctx context.Context, limit int) ([]ExpenseRow, error) {
	resp, err := w.service.Spreadsheets.Values.Get(w.config.SpreadsheetID, w.columns("A2:J")).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}

	rows := make([]ExpenseRow, 0, len(resp.Values))
	for i, values := range resp.Values {
		row, err := RowFromValues(values)
		if err != nil {
			w.logger.Debug("skipping unparseable row", "row", i+2, "error", err)
			continue
		}
		rows = append(rows, row)
	}

	return newestFirst(rows, limit), nil
}

// TestConnection verifies the spreadsheet and tab are reachable.
func (w *Writer) TestConnection(ctx context.Context) error {
	ss, err := w.service.Spreadsheets.Get(w.config.SpreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("unable to access spreadsheet %s: %w", w.config.SpreadsheetID, err)
	}
	for _, sheet := range ss.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == w.config.SheetName {
			return nil
		}
	}
	return fmt.Errorf("sheet %q not found in spreadsheet %s: %w", w.config.SheetName, w.config.SpreadsheetID, common.ErrNotFound)
}

// Simulated reports false.
func (w *Writer) Simulated() bool {
	return false
}

// classify marks client errors other than 429 as permanent.
func classify(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == 429 {
			return fmt.Errorf("%w: %w", common.ErrRateLimit, err)
		}
		if apiErr.Code >= 400 && apiErr.Code < 500 {
			return &common.RetryableError{Err: err, Retryable: false}
		}
	}
	return err
}
