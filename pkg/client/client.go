package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"todo-back/domain/dto"
	"todo-back/domain/models"
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return "request failed: " + e.Status
}

// Client talks to the /api/Tarefa endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New builds a client for a server root such as http://localhost:8080.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/") + "/api/Tarefa",
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List returns every task, or only those with the given status.
func (c *Client) List(ctx context.Context, status *models.TaskStatus) ([]models.Task, error) {
	path := "/"
	if status != nil {
		path += "?" + url.Values{"status": {status.String()}}.Encode()
	}

	var resp []dto.TaskResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}

	tasks := make([]models.Task, 0, len(resp))
	for i := range resp {
		tasks = append(tasks, *dto.TaskResponseToTask(&resp[i]))
	}
	return tasks, nil
}

func (c *Client) Get(ctx context.Context, id uint) (*models.Task, error) {
	var resp dto.TaskResponse
	if err := c.do(ctx, http.MethodGet, taskPath(id), nil, &resp); err != nil {
		return nil, err
	}
	return dto.TaskResponseToTask(&resp), nil
}

func (c *Client) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	var resp dto.TaskResponse
	if err := c.do(ctx, http.MethodPost, "/", toRequest(task), &resp); err != nil {
		return nil, err
	}
	return dto.TaskResponseToTask(&resp), nil
}

func (c *Client) Update(ctx context.Context, id uint, task *models.Task) (*models.Task, error) {
	var resp dto.TaskResponse
	if err := c.do(ctx, http.MethodPut, taskPath(id), toRequest(task), &resp); err != nil {
		return nil, err
	}
	return dto.TaskResponseToTask(&resp), nil
}

func (c *Client) Delete(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, taskPath(id), nil, nil)
}

func (c *Client) SaveOrdering(ctx context.Context, items []models.TaskOrdering) error {
	body := make([]dto.TaskOrderingRequest, 0, len(items))
	for _, item := range items {
		body = append(body, dto.TaskOrderingRequest{ID: item.ID, Order: item.Order})
	}
	return c.do(ctx, http.MethodPut, "/Ordenacao", body, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func taskPath(id uint) string {
	return "/" + strconv.FormatUint(uint64(id), 10)
}

func toRequest(task *models.Task) *dto.TaskRequest {
	req := &dto.TaskRequest{
		Title:       task.Title,
		Description: task.Description,
		CompletedAt: task.CompletedAt,
		Status:      task.Status,
		Order:       task.Order,
	}
	if !task.CreatedAt.IsZero() {
		createdAt := task.CreatedAt
		req.CreatedAt = &createdAt
	}
	return req
}
