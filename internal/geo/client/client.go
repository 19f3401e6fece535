// Package client implements geo.Lookup against the remote geographic
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

	"github.com/esteham/eland-portal/internal/geo/models"
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

func (c *Client) Children(ctx context.Context, level models.Level, parentID string) ([]models.GeoNode, error) {
	endpoint := fmt.Sprintf("%s/geo/%s", c.baseURL, level.String())
	if parentID != "" {
		endpoint += "?parent_id=" + url.QueryEscape(parentID)
	}
	var nodes []models.GeoNode
	if err := c.getJSON(ctx, endpoint, &nodes); err != nil {
		return nil, err
	}
	for i := range nodes {
		nodes[i].Level = level
		nodes[i].LevelName = level.String()
	}
	return nodes, nil
}

func (c *Client) SurveyTypes(ctx context.Context, sheetID string) ([]models.SurveyTypeOption, error) {
	endpoint := fmt.Sprintf("%s/sheets/%s/survey-types", c.baseURL, url.PathEscape(sheetID))
	var opts []models.SurveyTypeOption
	if err := c.getJSON(ctx, endpoint, &opts); err != nil {
		return nil, err
	}
	return opts, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("geo lookup: %w: %w", sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read geo response: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return sentinel.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("geo lookup status %d: %w", resp.StatusCode, sentinel.ErrUnavailable)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode geo response: %w", err)
	}
	return nil
}
