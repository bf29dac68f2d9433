package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"cashout/internal/core"
	ports "cashout/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// rowsPerWeek is the fixed block each week occupies in the year tab:
// a header row, seven day rows, a totals row, and a blank spacer.
const rowsPerWeek = 10

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	// Base tab name without year (e.g. "Ledger"); code prefixes the year.
	sheetBase string
}

// Ensure interface conformance
var _ ports.WeekExporter = (*Client)(nil)

// NewFromEnv creates a Sheets client using environment variables.
// Required: GOOGLE_SPREADSHEET_ID
// Optional: GOOGLE_SHEET_NAME (default "Ledger"), credentials via
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	sheetBase := strings.TrimSpace(os.Getenv("GOOGLE_SHEET_NAME"))
	if sheetBase == "" {
		sheetBase = "Ledger"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetBase:     sheetBase,
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
// Uses GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))

	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error

	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	slog.InfoContext(ctx, "Google Sheets service created")
	return service, nil
}

// ExportWeek writes the week's daily totals into the year tab. Each week
// owns a fixed row block keyed by its week number, so re-exporting the
// same week overwrites the previous export in place.
func (c *Client) ExportWeek(ctx context.Context, companyName string, week core.Week) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	year, weekNum, err := core.ParseWeekID(string(week.WeekID))
	if err != nil {
		return fmt.Errorf("parse week id: %w", err)
	}

	sheetName := yearPrefixedName(c.sheetBase, year)
	if err := c.ensureSheet(ctx, sheetName); err != nil {
		return fmt.Errorf("ensure sheet %s: %w", sheetName, err)
	}

	startRow := (weekNum-1)*rowsPerWeek + 1
	values := weekRows(companyName, week)

	rng := fmt.Sprintf("%s!A%d:N%d", sheetName, startRow, startRow+len(values)-1)
	vr := &gsheet.ValueRange{Values: values}

	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", rng, err)
	}

	slog.InfoContext(ctx, "Exported week to spreadsheet",
		"week_id", week.WeekID,
		"sheet", sheetName,
		"range", rng)
	return nil
}

// ensureSheet adds the tab when the spreadsheet does not have it yet.
func (c *Client) ensureSheet(ctx context.Context, sheetName string) error {
	meta, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("get spreadsheet metadata: %w", err)
	}
	for _, s := range meta.Sheets {
		if s.Properties != nil && s.Properties.Title == sheetName {
			return nil
		}
	}

	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			AddSheet: &gsheet.AddSheetRequest{
				Properties: &gsheet.SheetProperties{Title: sheetName},
			},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}
	slog.InfoContext(ctx, "Created spreadsheet tab", "sheet", sheetName)
	return nil
}

// weekRows flattens a week into spreadsheet rows: a title row, one row per
// day with per-tender totals, and a week totals row.
func weekRows(companyName string, week core.Week) [][]any {
	rows := make([][]any, 0, len(week.Days)+2)

	title := fmt.Sprintf("%s %s (%s)", companyName, week.WeekID, core.RangeLabel(string(week.WeekID)))
	header := []any{title, "", "Direct", "Visa", "Master", "Amex", "Diner", "Coupons", "Cash", "Total", "Reading", "Tips", "Diff", "Final"}
	rows = append(rows, header)

	for _, day := range week.Days {
		row := []any{day.Date, day.DayName}
		for _, f := range core.TenderFields {
			row = append(row, round2(core.DayTotal(day, f)))
		}
		row = append(row,
			round2(core.DayGrandTotal(day)),
			round2(core.DayTotalReading(day)),
			round2(core.DayTotalTips(day)),
			round2(core.DayTotalDiff(day)),
			round2(core.DayTotalFinal(day)),
		)
		rows = append(rows, row)
	}

	totals := []any{"", "Week total"}
	for _, f := range core.TenderFields {
		totals = append(totals, round2(core.WeekTotal(week, f)))
	}
	totals = append(totals,
		round2(core.WeekGrandTotal(week)),
		round2(core.WeekTotalReading(week)),
		round2(core.WeekTotalTips(week)),
		round2(core.WeekTotalDiff(week)),
		round2(core.WeekTotalFinal(week)),
	)
	rows = append(rows, totals)

	return rows
}

func round2(v float64) float64 {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	out, _ := strconv.ParseFloat(s, 64)
	return out
}

// yearPrefixedName returns "<year> <base>" unless base already starts with a 4-digit year.
func yearPrefixedName(base string, year int) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return strconv.Itoa(year)
	}
	if len(base) >= 5 {
		if y, err := strconv.Atoi(base[0:4]); err == nil && base[4] == ' ' && y > 1900 && y < 3000 {
			return base
		}
	}
	return fmt.Sprintf("%d %s", year, base)
}
