package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/EternisAI/bot-tracker/internal/api/http/dto"
)

const requestTimeout = 10 * time.Second

// StatusError is returned when the tracker answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("tracker returned %d: %s", e.StatusCode, e.Message)
}

// Client talks to the tracker HTTP API.
type Client struct {
	httpClient *http.Client
	serverURL  string
}

func NewClient(serverURL string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		serverURL: strings.TrimRight(serverURL, "/"),
	}
}

func (c *Client) Register(ctx context.Context, req dto.RegisterInstanceRequest) (dto.RegisterInstanceResponse, error) {
	var resp dto.RegisterInstanceResponse
	err := c.do(ctx, http.MethodPost, "/api/register", req, &resp)
	return resp, err
}

func (c *Client) Pending(ctx context.Context, instanceID string) ([]dto.BroadcastResponse, error) {
	var resp dto.PendingBroadcastsResponse
	if err := c.do(ctx, http.MethodGet, "/api/broadcasts/"+url.PathEscape(instanceID), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Broadcasts, nil
}

func (c *Client) Acknowledge(ctx context.Context, instanceID, broadcastID string) error {
	req := dto.BroadcastDeliveredRequest{InstanceID: instanceID, BroadcastID: broadcastID}
	return c.do(ctx, http.MethodPost, "/api/broadcast-delivered", req, &dto.SuccessResponse{})
}

func (c *Client) Broadcast(ctx context.Context, message, ownerKey string) (dto.CreateBroadcastResponse, error) {
	var resp dto.CreateBroadcastResponse
	req := dto.CreateBroadcastRequest{Message: message, OwnerKey: ownerKey}
	err := c.do(ctx, http.MethodPost, "/api/broadcast", req, &resp)
	return resp, err
}

func (c *Client) Stats(ctx context.Context) (dto.StatsResponse, error) {
	var resp dto.StatsResponse
	err := c.do(ctx, http.MethodGet, "/api/stats", nil, &resp)
	return resp, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.serverURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(data, &errResp)
		return &StatusError{StatusCode: resp.StatusCode, Message: errResp.Error}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
