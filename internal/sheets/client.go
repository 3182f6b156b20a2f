package sheets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsv4 "google.golang.org/api/sheets/v4"
)

// Logical spreadsheet keys. Each key maps to one spreadsheet ID in the
// client's id table.
const (
	KeySettings      = "settings"
	KeyRegistrations = "registrations"
	KeyDB            = "db"
)

// Tab names within the three spreadsheets.
const (
	TabForm     = "Formularantworten" // db: raw form submissions
	TabPrices   = "Preise"            // settings: category → price
	TabPayments = "Bezahlung"         // registrations: ledger + paid-status view
	TabOverview = "Übersicht"         // registrations: summary counters
	TabMembers  = "Mitglied"          // registrations: deduplicated roster
	TabZwergel  = "Zwergel"           // registrations: beginner course roster
	TabCourses  = "Kurse"             // registrations: ski/snowboard roster
)

// Update is one range write within a batched request.
type Update struct {
	Range  string
	Values [][]interface{}
}

// Client wraps the Sheets v4 service for the three spreadsheets this service
// works against. Spreadsheet metadata is cached per logical key for the
// lifetime of the client; there is only one writer per run, so no locking.
type Client struct {
	srv  *sheetsv4.Service
	ids  map[string]string
	meta map[string]*sheetsv4.Spreadsheet
}

func New(serviceAccountJSONPath string, ids map[string]string) (*Client, error) {
	if _, err := os.Stat(serviceAccountJSONPath); err != nil {
		return nil, fmt.Errorf("service account json: %w", err)
	}
	srv, err := sheetsv4.NewService(context.Background(),
		option.WithCredentialsFile(serviceAccountJSONPath),
		option.WithScopes(sheetsv4.SpreadsheetsScope),
	)
	if err != nil {
		return nil, err
	}
	return &Client{srv: srv, ids: ids, meta: map[string]*sheetsv4.Spreadsheet{}}, nil
}

func (c *Client) spreadsheetID(key string) (string, error) {
	id, ok := c.ids[key]
	if !ok || id == "" {
		return "", fmt.Errorf("no spreadsheet id configured for %q", key)
	}
	return id, nil
}

// ListTabs returns the named tables within the spreadsheet behind key.
func (c *Client) ListTabs(ctx context.Context, key string) ([]string, error) {
	id, err := c.spreadsheetID(key)
	if err != nil {
		return nil, err
	}
	meta, ok := c.meta[key]
	if !ok {
		meta, err = c.srv.Spreadsheets.Get(id).Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("get spreadsheet %s: %w", key, err)
		}
		c.meta[key] = meta
	}
	titles := make([]string, 0, len(meta.Sheets))
	for _, s := range meta.Sheets {
		titles = append(titles, s.Properties.Title)
	}
	return titles, nil
}

// ReadAll reads every populated cell of a tab.
func (c *Client) ReadAll(ctx context.Context, key, tab string) ([][]interface{}, error) {
	id, err := c.spreadsheetID(key)
	if err != nil {
		return nil, err
	}
	resp, err := c.srv.Spreadsheets.Values.Get(id, tab).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s/%s: %w", key, tab, err)
	}
	return resp.Values, nil
}

// BatchUpdate applies all updates to a tab as a single API request. Rate
// limiting is retried with exponential backoff; any other failure propagates
// immediately.
func (c *Client) BatchUpdate(ctx context.Context, key, tab string, updates []Update) error {
	id, err := c.spreadsheetID(key)
	if err != nil {
		return err
	}
	data := make([]*sheetsv4.ValueRange, 0, len(updates))
	for _, u := range updates {
		data = append(data, &sheetsv4.ValueRange{Range: tab + "!" + u.Range, Values: u.Values})
	}
	req := &sheetsv4.BatchUpdateValuesRequest{
		ValueInputOption: "RAW",
		Data:             data,
	}
	err = withBackoff(func() error {
		_, err := c.srv.Spreadsheets.Values.BatchUpdate(id, req).Context(ctx).Do()
		return err
	}, time.Sleep)
	if err != nil {
		return fmt.Errorf("batch update %s/%s: %w", key, tab, err)
	}
	return nil
}

// ClearRange blanks the given A1 range of a tab.
func (c *Client) ClearRange(ctx context.Context, key, tab, a1 string) error {
	id, err := c.spreadsheetID(key)
	if err != nil {
		return err
	}
	err = withBackoff(func() error {
		_, err := c.srv.Spreadsheets.Values.Clear(id, tab+"!"+a1, &sheetsv4.ClearValuesRequest{}).
			Context(ctx).Do()
		return err
	}, time.Sleep)
	if err != nil {
		return fmt.Errorf("clear %s/%s!%s: %w", key, tab, a1, err)
	}
	return nil
}

const maxWriteAttempts = 3

// withBackoff retries fn on rate-limit responses, waiting 2^attempt seconds
// between attempts (1s, 2s). Non-rate-limit errors and exhausted retries
// propagate.
func withBackoff(fn func() error, sleep func(time.Duration)) error {
	var err error
	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if !IsRateLimit(err) || attempt == maxWriteAttempts-1 {
			return err
		}
		sleep(time.Duration(1<<attempt) * time.Second)
	}
	return err
}

// IsRateLimit reports whether err is the store's rate-limit signal.
func IsRateLimit(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == 429
}
