package dataservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/exp/slog"

	"resultpost/internal/config"
	"resultpost/internal/http-server/model"
)

// Client talks to the draw/result data service over HTTP. The workflow core
// only ever sees this boundary, not the storage behind it.
type Client struct {
	log     *slog.Logger
	baseURL string
	http    *http.Client
}

func New(log *slog.Logger, cfg config.DataService) *Client {
	return &Client{
		log:     log,
		baseURL: cfg.BaseURL,
		http: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type CreateDrawRequest struct {
	GameID       int64     `json:"game_id"`
	DrawDatetime time.Time `json:"draw_datetime"`
}

type CreateResultRequest struct {
	DrawID         int64 `json:"draw_id"`
	WinningNumbers []int `json:"winning_numbers"`
	MachineNumbers []int `json:"machine_numbers,omitempty"`
}

func (c *Client) CreateDraw(ctx context.Context, req CreateDrawRequest) (*model.Draw, error) {
	const op = "dataservice.CreateDraw"

	draw := &model.Draw{}

	if err := c.post(ctx, "/draws", req, draw); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return draw, nil
}

func (c *Client) CreateResult(ctx context.Context, req CreateResultRequest) (*model.Result, error) {
	const op = "dataservice.CreateResult"

	result := &model.Result{}

	if err := c.post(ctx, "/results", req, result); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}

func (c *Client) ListGames(ctx context.Context) ([]model.Game, error) {
	const op = "dataservice.ListGames"

	var games []model.Game

	if err := c.get(ctx, "/games", &games); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return games, nil
}

func (c *Client) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		var envelope struct {
			Error string `json:"error"`
		}

		if err = json.NewDecoder(res.Body).Decode(&envelope); err == nil && envelope.Error != "" {
			return fmt.Errorf("data service returned %d: %s", res.StatusCode, envelope.Error)
		}

		return fmt.Errorf("data service returned %d", res.StatusCode)
	}

	return json.NewDecoder(res.Body).Decode(out)
}
