package storage

import (
	"context"
	"fmt"
	"strconv"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// voteRange covers the five vote columns: timestamp, rating, user id,
// display name, username.
const voteRange = "A:E"

// SheetsStore appends votes to a Google spreadsheet. The underlying service
// is constructed once and reused across webhook deliveries.
type SheetsStore struct {
	svc           *sheets.Service
	spreadsheetID string
}

// SheetsConfig carries the credentials and target spreadsheet. Exactly one
// of CredentialsJSON or CredentialsFile should be set.
type SheetsConfig struct {
	SpreadsheetID   string
	CredentialsJSON string
	CredentialsFile string
}

// NewSheetsStore builds a Sheets-backed vote store. Extra client options are
// accepted for tests pointing the service at a local endpoint.
func NewSheetsStore(ctx context.Context, cfg SheetsConfig, extra ...option.ClientOption) (*SheetsStore, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id is required")
	}

	opts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}
	switch {
	case cfg.CredentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	opts = append(opts, extra...)

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("build sheets service: %w", err)
	}
	return &SheetsStore{svc: svc, spreadsheetID: cfg.SpreadsheetID}, nil
}

// Append adds one vote row at the bottom of the sheet.
func (s *SheetsStore) Append(ctx context.Context, rec VoteRecord) error {
	username := rec.Username
	if username == "" {
		username = UsernameNone
	}
	vr := &sheets.ValueRange{
		Values: [][]any{{rec.Timestamp, rec.Rating, rec.UserID, rec.DisplayName, username}},
	}
	_, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, voteRange, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append vote row: %w", err)
	}
	return nil
}

// List reads back every vote row. Rows with an unparseable rating are kept
// with rating zero so their user id still reaches the ledger.
func (s *SheetsStore) List(ctx context.Context) ([]VoteRecord, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, voteRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read vote rows: %w", err)
	}

	records := make([]VoteRecord, 0, len(resp.Values))
	for _, row := range resp.Values {
		records = append(records, recordFromRow(row))
	}
	return records, nil
}

func recordFromRow(row []any) VoteRecord {
	var rec VoteRecord
	if len(row) > 0 {
		rec.Timestamp = cellString(row[0])
	}
	if len(row) > 1 {
		rec.Rating, _ = strconv.Atoi(cellString(row[1]))
	}
	if len(row) > 2 {
		rec.UserID = cellString(row[2])
	}
	if len(row) > 3 {
		rec.DisplayName = cellString(row[3])
	}
	if len(row) > 4 {
		rec.Username = cellString(row[4])
	}
	return rec
}

func cellString(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	default:
		return fmt.Sprint(value)
	}
}
