package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/Veraticus/hotel-itemizer/internal/common"
	"github.com/Veraticus/hotel-itemizer/internal/model"
	"github.com/Veraticus/hotel-itemizer/internal/service"
)

// Writer writes itemization results to a Google spreadsheet.
type Writer struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
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

	return &Writer{
		config:  config,
		service: service,
		logger:  logger,
	}, nil
}

// Write replaces the itemization tab with result and refreshes the
// category reference tab. It returns the spreadsheet ID written to.
func (w *Writer) Write(ctx context.Context, result model.ItemizationResult) (string, error) {
	inv := result.InvoiceDetails
	w.logger.Info("starting itemization export",
		"hotel", inv.HotelName,
		"invoice_number", inv.InvoiceNumber,
		"entries", len(result.Entries))

	spreadsheetID, err := w.getOrCreateSpreadsheet(ctx, inv)
	if err != nil {
		return "", fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	sheetID, err := w.ensureTab(ctx, spreadsheetID, ItemizationTab)
	if err != nil {
		return "", fmt.Errorf("failed to prepare %s tab: %w", ItemizationTab, err)
	}

	if clearErr := w.clearTab(ctx, spreadsheetID, ItemizationTab); clearErr != nil {
		return "", fmt.Errorf("failed to clear sheet: %w", clearErr)
	}

	values := w.prepareReportData(result)

	retryOpts := service.RetryOptions{
		MaxAttempts:  w.config.RetryAttempts,
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	err = common.WithRetry(ctx, func() error {
		return w.writeData(ctx, spreadsheetID, ItemizationTab, values)
	}, retryOpts)
	if err != nil {
		return "", fmt.Errorf("failed to write data: %w", err)
	}

	if err := w.writeCategoriesTab(ctx, spreadsheetID); err != nil {
		w.logger.Warn("failed to write category reference", "error", err)
	}

	if w.config.EnableFormatting {
		err = common.WithRetry(ctx, func() error {
			return w.applyFormatting(ctx, spreadsheetID, sheetID, len(values))
		}, retryOpts)
		if err != nil {
			// Formatting is cosmetic; the data is already written.
			w.logger.Warn("failed to apply formatting", "error", err)
		}
	}

	w.logger.Info("itemization export completed",
		"spreadsheet_id", spreadsheetID,
		"rows_written", len(values))

	return spreadsheetID, nil
}

// createSheetsService creates a Google Sheets API service.
func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	var tokenSource oauth2.TokenSource

	if config.Method() == AuthServiceAccount {
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
		token := &oauth2.Token{
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		}
		tokenSource = client.TokenSource(ctx, token)
	}

	httpClient := oauth2.NewClient(ctx, tokenSource)
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return srv, nil
}

// getOrCreateSpreadsheet returns the configured spreadsheet or creates one
// named after the invoice.
func (w *Writer) getOrCreateSpreadsheet(ctx context.Context, inv model.InvoiceDetails) (string, error) {
	if w.config.SpreadsheetID != "" {
		_, err := w.service.Spreadsheets.Get(w.config.SpreadsheetID).Context(ctx).Do()
		if err != nil {
			return "", fmt.Errorf("unable to access spreadsheet %s: %w", w.config.SpreadsheetID, err)
		}
		return w.config.SpreadsheetID, nil
	}

	spreadsheet := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title:    spreadsheetTitle(w.config.SpreadsheetName, inv),
			TimeZone: w.config.TimeZone,
		},
		Sheets: []*sheets.Sheet{
			{Properties: &sheets.SheetProperties{Title: ItemizationTab}},
			{Properties: &sheets.SheetProperties{Title: CategoriesTab}},
		},
	}

	created, err := w.service.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to create spreadsheet: %w", err)
	}

	w.logger.Info("created new spreadsheet",
		"id", created.SpreadsheetId,
		"url", created.SpreadsheetUrl)

	return created.SpreadsheetId, nil
}

func spreadsheetTitle(name string, inv model.InvoiceDetails) string {
	if name == "" {
		name = DefaultSpreadsheetName
	}
	label := inv.HotelName
	if inv.InvoiceNumber != "" {
		label = fmt.Sprintf("%s #%s", inv.HotelName, inv.InvoiceNumber)
	}
	return fmt.Sprintf("%s - %s (%s)", name, label, inv.CheckIn.Format("2006-01-02"))
}

// ensureTab returns the sheet ID of the named tab, adding it when missing.
func (w *Writer) ensureTab(ctx context.Context, spreadsheetID, title string) (int64, error) {
	ss, err := w.service.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
	if err != nil {
		return 0, err
	}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == title {
			return sh.Properties.SheetId, nil
		}
	}

	resp, err := w.service.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{AddSheet: &sheets.AddSheetRequest{Properties: &sheets.SheetProperties{Title: title}}},
		},
	}).Context(ctx).Do()
	if err != nil {
		return 0, err
	}
	if len(resp.Replies) == 0 || resp.Replies[0].AddSheet == nil {
		return 0, fmt.Errorf("no reply for added tab %q", title)
	}
	return resp.Replies[0].AddSheet.Properties.SheetId, nil
}

func (w *Writer) clearTab(ctx context.Context, spreadsheetID, title string) error {
	_, err := w.service.Spreadsheets.Values.Clear(spreadsheetID, fmt.Sprintf("'%s'!A:Z", title), &sheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

// prepareReportData lays out the header, summary, consolidated categories
// and entries. Amounts are passed as fixed two-digit strings so the sheet
// parses them without a float round trip.
func (w *Writer) prepareReportData(result model.ItemizationResult) [][]any {
	inv := result.InvoiceDetails
	cats := categoryRows(result.ConsolidatedCategories)
	entries := entryRows(result.Entries)

	status := "Passed"
	if !result.ValidationPassed {
		status = "Failed"
	}

	values := make([][]any, 0, 16+len(cats)+len(entries))
	values = append(values,
		[]any{"Hotel Itemization", inv.HotelName},
		[]any{}, // Empty row
		[]any{"Summary"},
		[]any{"Invoice Number", inv.InvoiceNumber},
		[]any{"Location", inv.Location},
		[]any{"Stay", fmt.Sprintf("%s - %s", inv.CheckIn.Format("Jan 2, 2006"), inv.CheckOut.Format("Jan 2, 2006"))},
		[]any{"Nights", result.Nights},
		[]any{"Currency", inv.Currency},
		[]any{"Original Total", result.TotalOriginal.StringFixed(2)},
		[]any{"Itemized Total", result.TotalItemized.StringFixed(2)},
		[]any{"Validation", status},
		[]any{}, // Empty row
		[]any{"Consolidated Categories"},
		[]any{"Category", "Kind", "Daily Rate", "Total", "Quantity", "Source Items"},
	)

	for _, row := range cats {
		values = append(values, []any{row.Category, row.Kind, row.DailyRate, row.TotalAmount, row.Quantity, row.SourceItems})
	}

	values = append(values,
		[]any{}, // Empty row
		[]any{"Itemization Entries"},
		[]any{"Subcategory", "Start Date", "Daily Rate", "Quantity", "Total"},
	)

	for _, row := range entries {
		values = append(values, []any{row.Subcategory, row.StartDate, row.DailyRate, row.Quantity, row.TotalAmount})
	}

	return values
}

// writeData writes values to a tab in batches.
func (w *Writer) writeData(ctx context.Context, spreadsheetID, tab string, values [][]any) error {
	for i := 0; i < len(values); i += w.config.BatchSize {
		end := i + w.config.BatchSize
		if end > len(values) {
			end = len(values)
		}

		batch := values[i:end]
		valueRange := &sheets.ValueRange{
			Values: batch,
		}

		rangeStr := fmt.Sprintf("'%s'!A%d", tab, i+1)
		_, err := w.service.Spreadsheets.Values.Update(spreadsheetID, rangeStr, valueRange).
			ValueInputOption("USER_ENTERED").
			Context(ctx).
			Do()

		if err != nil {
			return fmt.Errorf("failed to write batch starting at row %d: %w", i+1, err)
		}

		w.logger.Debug("wrote batch", "tab", tab, "start_row", i+1, "rows", len(batch))
	}

	return nil
}

// writeCategoriesTab writes the taxonomy reference table.
func (w *Writer) writeCategoriesTab(ctx context.Context, spreadsheetID string) error {
	if _, err := w.ensureTab(ctx, spreadsheetID, CategoriesTab); err != nil {
		return err
	}
	return w.writeData(ctx, spreadsheetID, CategoriesTab, categoryLookupValues())
}

func categoryLookupValues() [][]any {
	rows := categoryLookup()
	values := make([][]any, 0, len(rows)+1)
	values = append(values, []any{"Category", "Billing"})
	for _, row := range rows {
		values = append(values, []any{row.CategoryName, row.Kind})
	}
	return values
}

// applyFormatting applies formatting to the itemization tab.
func (w *Writer) applyFormatting(ctx context.Context, spreadsheetID string, sheetID int64, totalRows int) error {
	batchUpdate := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: formattingRequests(sheetID, totalRows),
	}

	_, err := w.service.Spreadsheets.BatchUpdate(spreadsheetID, batchUpdate).Context(ctx).Do()
	return err
}

func formattingRequests(sheetID int64, totalRows int) []*sheets.Request {
	return []*sheets.Request{
		// Title
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    0,
					EndRowIndex:      1,
					StartColumnIndex: 0,
					EndColumnIndex:   2,
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						TextFormat: &sheets.TextFormat{
							Bold:     true,
							FontSize: 16,
						},
					},
				},
				Fields: "userEnteredFormat.textFormat",
			},
		},
		// Section labels
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    2,
					EndRowIndex:      int64(totalRows),
					StartColumnIndex: 0,
					EndColumnIndex:   1,
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						TextFormat: &sheets.TextFormat{
							Bold: true,
						},
					},
				},
				Fields: "userEnteredFormat.textFormat",
			},
		},
		// Money columns
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    0,
					EndRowIndex:      int64(totalRows),
					StartColumnIndex: 2,
					EndColumnIndex:   5,
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						NumberFormat: &sheets.NumberFormat{
							Type:    "NUMBER",
							Pattern: "#,##0.00",
						},
					},
				},
				Fields: "userEnteredFormat.numberFormat",
			},
		},
		{
			AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
				Dimensions: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "COLUMNS",
					StartIndex: 0,
					EndIndex:   6,
				},
			},
		},
		{
			UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
				Properties: &sheets.SheetProperties{
					SheetId: sheetID,
					GridProperties: &sheets.GridProperties{
						FrozenRowCount: 1,
					},
				},
				Fields: "gridProperties.frozenRowCount",
			},
		},
	}
}
