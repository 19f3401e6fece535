// Package client implements records.Lookup against the remote record
// registry's REST API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/esteham/eland-portal/internal/records/models"
	"github.com/esteham/eland-portal/pkg/platform/sentinel"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) Leaves(ctx context.Context, sheetID, surveyTypeID string) ([]models.LeafRecord, error) {
	endpoint := fmt.Sprintf("%s/records?sheet_id=%s&survey_type_id=%s",
		c.baseURL, url.QueryEscape(sheetID), url.QueryEscape(surveyTypeID))
	var leaves []models.LeafRecord
	if err := c.getJSON(ctx, endpoint, &leaves); err != nil {
		return nil, err
	}
	return leaves, nil
}

func (c *Client) Detail(ctx context.Context, id string, kind models.LeafKind) (*models.LeafDetail, error) {
	endpoint := fmt.Sprintf("%s/records/%s/%s", c.baseURL, url.PathEscape(string(kind)), url.PathEscape(id))
	var detail models.LeafDetail
	if err := c.getJSON(ctx, endpoint, &detail); err != nil {
		return nil, err
	}
	if err := detail.Validate(kind); err != nil {
		return nil, err
	}
	return &detail, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("record lookup: %w: %w", sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read record response: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return sentinel.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("record lookup status %d: %w", resp.StatusCode, sentinel.ErrUnavailable)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode record response: %w", err)
	}
	return nil
}
