package roblox

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bloxtools/bloxsync/internal/remote"
)

// gamePassResponse is the creation response for game passes.
type gamePassResponse struct {
	GamePassID int64 `json:"gamePassId"`
}

// CreateGamePass implements remote.Gateway.
func (c *Client) CreateGamePass(ctx context.Context, universeID int64, req remote.CreateRequest) (int64, error) {
	url := fmt.Sprintf("%s/game-passes/v1/universes/%d/game-passes", c.baseURL, universeID)

	var resp gamePassResponse
	if err := c.do(ctx, "create game pass", http.MethodPost, url, createForm(req, true), &resp); err != nil {
		return 0, err
	}
	return resp.GamePassID, nil
}

// UpdateGamePass implements remote.Gateway.
func (c *Client) UpdateGamePass(ctx context.Context, universeID, passID int64, req remote.UpdateRequest) error {
	url := fmt.Sprintf("%s/game-passes/v1/universes/%d/game-passes/%d", c.baseURL, universeID, passID)

	return c.do(ctx, "update game pass", http.MethodPatch, url, updateForm(req, true), nil)
}
