// Package client implements submission.Submitter against the remote
// application service's REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/esteham/eland-portal/internal/submission/models"
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

func (c *Client) Submit(ctx context.Context, draft models.ApplicationDraft) (models.Application, error) {
	payload, err := json.Marshal(draft)
	if err != nil {
		return models.Application{}, fmt.Errorf("encode draft: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/applications", bytes.NewReader(payload))
	if err != nil {
		return models.Application{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return models.Application{}, fmt.Errorf("submit application: %w: %w", sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return models.Application{}, fmt.Errorf("read submit response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		// Surface the service's message verbatim so the operator can act on
		// business-rule rejections.
		var failure struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &failure) == nil && failure.Error != "" {
			return models.Application{}, fmt.Errorf("%s", failure.Error)
		}
		return models.Application{}, fmt.Errorf("application service status %d", resp.StatusCode)
	}

	var app models.Application
	if err := json.Unmarshal(body, &app); err != nil {
		return models.Application{}, fmt.Errorf("decode submit response: %w", err)
	}
	return app, nil
}
