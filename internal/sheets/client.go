package sheets

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pmurley/drivethumbs/internal/models"
)

// Client fetches data from public Google Sheets using CSV export
type Client struct {
	sheetURL   string
	httpClient *http.Client
}

func NewClient(sheetURL string, timeout time.Duration) (*Client, error) {
	if sheetURL == "" {
		return nil, fmt.Errorf("sheet URL is empty")
	}
	return &Client{
		sheetURL: sheetURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// FetchTable downloads the sheet and parses it with the first row as header.
func (c *Client) FetchTable(ctx context.Context) (*models.Table, error) {
	data, err := c.GetSheetDataCSV(ctx)
	if err != nil {
		return nil, err
	}

	table, err := models.NewTable(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse sheet: %w", err)
	}
	return table, nil
}

// GetSheetDataCSV fetches the raw CSV records of the sheet
func (c *Client) GetSheetDataCSV(ctx context.Context) ([][]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.sheetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sheet data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return ReadCSV(resp.Body)
}

// ReadCSV reads every record. Rows may have differing field counts.
func ReadCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	var data [][]string

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		data = append(data, record)
	}

	return data, nil
}
