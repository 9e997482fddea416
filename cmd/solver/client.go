package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/wricardo/card-match-game/game/engine"
	"github.com/wricardo/card-match-game/game/service"
)

// Client plays one session against a running server's REST API
type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SessionID returns the id of the session created by CreateSession
func (c *Client) SessionID() string {
	return c.sessionID
}

// CreateSession starts a session on levelID, or on the server's default
// level when levelID is negative
func (c *Client) CreateSession(ctx context.Context, levelID int) (*service.SessionInfo, error) {
	var body any
	if levelID >= 0 {
		body = map[string]int{"level_id": levelID}
	}

	var info service.SessionInfo
	if err := c.do(ctx, http.MethodPost, "/api/sessions", body, &info); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	c.sessionID = info.ID
	return &info, nil
}

// GetLevel fetches a level definition
func (c *Client) GetLevel(ctx context.Context, levelID int) (*engine.LevelConfig, error) {
	var level engine.LevelConfig
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/levels/%d", levelID), nil, &level); err != nil {
		return nil, fmt.Errorf("get level: %w", err)
	}
	// The server's file name decides the id
	level.LevelID = levelID
	return &level, nil
}

// GetBoard fetches the session's board
func (c *Client) GetBoard(ctx context.Context) (*engine.BoardView, error) {
	var board engine.BoardView
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/sessions/%s/board", c.sessionID), nil, &board); err != nil {
		return nil, fmt.Errorf("get board: %w", err)
	}
	return &board, nil
}

// Click clicks a card. A rejected click is not an error; check Success.
func (c *Client) Click(ctx context.Context, cardID int) (*service.ClickResult, error) {
	var result service.ClickResult
	path := fmt.Sprintf("/api/sessions/%s/click", c.sessionID)
	if err := c.do(ctx, http.MethodPost, path, map[string]int{"card_id": cardID}, &result); err != nil {
		return nil, fmt.Errorf("click: %w", err)
	}
	return &result, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("%s - %s", resp.Status, strings.TrimSpace(string(data)))
	}

	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}
