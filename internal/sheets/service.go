// Package sheets appends completed form submissions to a Google Sheet.
package sheets

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"formassist/internal/logger"
	"formassist/pkg/models"
)

const timestampLayout = "02/01/2006 15:04:05"

// headers of the fixed columns; answers fill the columns after them.
var headers = []interface{}{"Submitted At", "Email", "Name", "Responses"}

var spreadsheetIDPattern = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`)

// Service handles Google Sheets operations
type Service struct {
	sheetsService *sheets.Service
	spreadsheetID string
	worksheet     string
	log           zerolog.Logger
}

// Submission is one completed form as logged to the sheet.
type Submission struct {
	SubmittedAt time.Time
	Email       string
	Name        string
	Answers     []models.Answer
}

// NewSubmission captures req at time now.
func NewSubmission(req models.FillRequest, now time.Time) Submission {
	return Submission{
		SubmittedAt: now,
		Email:       req.ProfileString("email"),
		Name:        req.ProfileString("name"),
		Answers:     req.OrderedAnswers(),
	}
}

// NewSheetsService creates a service that logs to worksheet in the
// spreadsheet at sheetURL, authenticating with the service account from
// GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS.
func NewSheetsService(ctx context.Context, sheetURL, worksheet string) (*Service, error) {
	const op = "NewSheetsService"

	var (
		creds []byte
		err   error
	)
	if credsFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credsFile != "" {
		creds, err = os.ReadFile(credsFile)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to read credentials file: %w", op, err)
		}
	} else if credsJSON := os.Getenv("GOOGLE_CREDENTIALS"); credsJSON != "" {
		creds = []byte(credsJSON)
	} else {
		return nil, fmt.Errorf("%s: neither GOOGLE_APPLICATION_CREDENTIALS nor GOOGLE_CREDENTIALS is set", op)
	}

	config, err := google.JWTConfigFromJSON(creds, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse credentials: %w", op, err)
	}

	return NewSheetsServiceWithOptions(ctx, sheetURL, worksheet, option.WithHTTPClient(config.Client(ctx)))
}

// NewSheetsServiceWithOptions creates a service with explicit client options.
func NewSheetsServiceWithOptions(ctx context.Context, sheetURL, worksheet string, opts ...option.ClientOption) (*Service, error) {
	const op = "NewSheetsService"

	log := logger.WithComponent("sheets")

	spreadsheetID, err := extractSpreadsheetID(sheetURL)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to extract spreadsheet ID: %w", op, err)
	}
	log.Debug().Str("spreadsheet_id", spreadsheetID).Msg("Extracted spreadsheet ID")

	sheetsService, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create sheets service: %w", op, err)
	}

	return &Service{
		sheetsService: sheetsService,
		spreadsheetID: spreadsheetID,
		worksheet:     worksheet,
		log:           log,
	}, nil
}

func extractSpreadsheetID(url string) (string, error) {
	matches := spreadsheetIDPattern.FindStringSubmatch(url)
	if len(matches) < 2 {
		return "", fmt.Errorf("invalid Google Sheets URL format")
	}
	return matches[1], nil
}

// AppendSubmission writes sub as a new row, creating the worksheet and its
// header row first when needed.
func (s *Service) AppendSubmission(ctx context.Context, sub Submission) error {
	const op = "AppendSubmission"

	if err := s.ensureSheetWithHeaders(ctx); err != nil {
		return fmt.Errorf("%s: failed to ensure sheet exists: %w", op, err)
	}

	valueRange := &sheets.ValueRange{Values: [][]interface{}{rowValues(sub)}}
	_, err := s.sheetsService.Spreadsheets.Values.Append(
		s.spreadsheetID,
		s.worksheet+"!A:A",
		valueRange,
	).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%s: failed to append values to sheet: %w", op, err)
	}

	s.log.Info().
		Str("sheet", s.worksheet).
		Int("answers", len(sub.Answers)).
		Msg("Logged form submission")
	return nil
}

// rowValues lays out one submission: the fixed columns followed by one
// "question: answer" cell per answer.
func rowValues(sub Submission) []interface{} {
	row := []interface{}{
		sub.SubmittedAt.Format(timestampLayout),
		sub.Email,
		sub.Name,
	}
	for _, a := range sub.Answers {
		row = append(row, fmt.Sprintf("%s: %s", a.Question, a.Answer))
	}
	return row
}

func (s *Service) ensureSheetWithHeaders(ctx context.Context) error {
	const op = "ensureSheetWithHeaders"

	spreadsheet, err := s.sheetsService.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%s: failed to get spreadsheet: %w", op, err)
	}

	var sheetExists bool
	var sheetID int64
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == s.worksheet {
			sheetExists = true
			sheetID = sheet.Properties.SheetId
			break
		}
	}

	if !sheetExists {
		s.log.Info().Str("sheet", s.worksheet).Msg("Creating new sheet")

		batchUpdateReq := &sheets.BatchUpdateSpreadsheetRequest{
			Requests: []*sheets.Request{
				{AddSheet: &sheets.AddSheetRequest{Properties: &sheets.SheetProperties{Title: s.worksheet}}},
			},
		}
		resp, err := s.sheetsService.Spreadsheets.BatchUpdate(s.spreadsheetID, batchUpdateReq).Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("%s: failed to create sheet: %w", op, err)
		}
		sheetID = resp.Replies[0].AddSheet.Properties.SheetId
	}

	headerRange := fmt.Sprintf("%s!A1:D1", s.worksheet)
	resp, err := s.sheetsService.Spreadsheets.Values.Get(s.spreadsheetID, headerRange).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%s: failed to get headers: %w", op, err)
	}
	if len(resp.Values) > 0 && len(resp.Values[0]) > 0 {
		return nil
	}

	s.log.Info().Str("sheet", s.worksheet).Msg("Adding headers to sheet")
	_, err = s.sheetsService.Spreadsheets.Values.Update(
		s.spreadsheetID,
		headerRange,
		&sheets.ValueRange{Values: [][]interface{}{headers}},
	).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%s: failed to add headers: %w", op, err)
	}

	if err := s.formatHeaders(ctx, sheetID); err != nil {
		s.log.Warn().Err(err).Msg("Failed to format headers, continuing anyway")
	}
	return nil
}

// formatHeaders makes the header row bold with a grey background.
func (s *Service) formatHeaders(ctx context.Context, sheetID int64) error {
	const op = "formatHeaders"

	requests := []*sheets.Request{
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    0,
					EndRowIndex:      1,
					StartColumnIndex: 0,
					EndColumnIndex:   int64(len(headers)),
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						TextFormat:      &sheets.TextFormat{Bold: true},
						BackgroundColor: &sheets.Color{Red: 0.9, Green: 0.9, Blue: 0.9},
					},
				},
				Fields: "userEnteredFormat(textFormat,backgroundColor)",
			},
		},
		{
			UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
				Properties: &sheets.SheetProperties{
					SheetId:        sheetID,
					GridProperties: &sheets.GridProperties{FrozenRowCount: 1},
				},
				Fields: "gridProperties.frozenRowCount",
			},
		},
	}

	_, err := s.sheetsService.Spreadsheets.BatchUpdate(s.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{Requests: requests}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%s: failed to format headers: %w", op, err)
	}
	return nil
}
