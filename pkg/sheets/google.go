package sheets

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	pkgerrors "github.com/dmayasari/optikpos-backend/pkg/errors"
)

// Client talks to one spreadsheet through the Sheets values API.
type Client struct {
	svc           *sheetsapi.Service
	spreadsheetID string
}

// NewClient builds a client authorized for the given spreadsheet. An empty
// credentials file falls back to application default credentials.
func NewClient(ctx context.Context, spreadsheetID, credentialsFile string) (*Client, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id required")
	}
	opts := []option.ClientOption{option.WithScopes(sheetsapi.SpreadsheetsScope)}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	svc, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}
	return &Client{svc: svc, spreadsheetID: spreadsheetID}, nil
}

func (c *Client) ReadAllRows(ctx context.Context, worksheet string) (Table, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, worksheet).Context(ctx).Do()
	if err != nil {
		return Table{}, pkgerrors.Wrap(pkgerrors.CodeRemoteRead, err, fmt.Sprintf("reading worksheet %q", worksheet))
	}
	if len(resp.Values) == 0 || len(resp.Values[0]) == 0 {
		return Table{}, pkgerrors.New(pkgerrors.CodeParseFailure, fmt.Sprintf("worksheet %q is empty or has no header", worksheet))
	}

	headers := make([]string, len(resp.Values[0]))
	for i, cell := range resp.Values[0] {
		headers[i] = NormalizeHeader(fmt.Sprint(cell))
	}

	rows := make([]Row, 0, len(resp.Values)-1)
	for _, raw := range resp.Values[1:] {
		row := make(Row, len(headers))
		for i, h := range headers {
			if i < len(raw) {
				row[h] = strings.TrimSpace(fmt.Sprint(raw[i]))
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}
	return Table{Headers: headers, Rows: rows}, nil
}

func (c *Client) AppendRow(ctx context.Context, worksheet string, values []string) error {
	return c.AppendRows(ctx, worksheet, [][]string{values})
}

func (c *Client) AppendRows(ctx context.Context, worksheet string, rows [][]string) error {
	vr := &sheetsapi.ValueRange{Values: make([][]any, len(rows))}
	for i, row := range rows {
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = v
		}
		vr.Values[i] = cells
	}
	_, err := c.svc.Spreadsheets.Values.
		Append(c.spreadsheetID, worksheet, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeRemoteWrite, err, fmt.Sprintf("appending to worksheet %q", worksheet))
	}
	return nil
}

func (c *Client) UpdateCell(ctx context.Context, worksheet string, row, col int, value string) error {
	if row < 1 || col < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("cell coordinates are 1-based, got row=%d col=%d", row, col))
	}
	rng := fmt.Sprintf("%s!%s%d", worksheet, columnLetters(col), row)
	vr := &sheetsapi.ValueRange{Values: [][]any{{value}}}
	_, err := c.svc.Spreadsheets.Values.
		Update(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeRemoteWrite, err, fmt.Sprintf("updating cell %s", rng))
	}
	return nil
}

func (c *Client) FindRow(ctx context.Context, worksheet, value string) (int, error) {
	table, err := c.ReadAllRows(ctx, worksheet)
	if err != nil {
		return 0, err
	}
	return findInTable(table, value)
}

func findInTable(table Table, value string) (int, error) {
	for i, row := range table.Rows {
		for _, cell := range row {
			if cell == value {
				return table.SheetRow(i), nil
			}
		}
	}
	return 0, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("no cell equals %q", value))
}

// columnLetters converts a 1-based column index to A1 letters (1 → A, 27 → AA).
func columnLetters(col int) string {
	var b []byte
	for col > 0 {
		col--
		b = append([]byte{byte('A' + col%26)}, b...)
		col /= 26
	}
	return string(b)
}
