package roblox

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bloxtools/bloxsync/internal/remote"
)

// devProductResponse is the creation response for developer products.
type devProductResponse struct {
	ProductID int64 `json:"productId"`
}

// CreateDevProduct implements remote.Gateway.
func (c *Client) CreateDevProduct(ctx context.Context, universeID int64, req remote.CreateRequest) (int64, error) {
	url := fmt.Sprintf("%s/developer-products/v2/universes/%d/developer-products", c.baseURL, universeID)

	var resp devProductResponse
	if err := c.do(ctx, "create dev product", http.MethodPost, url, createForm(req, false), &resp); err != nil {
		return 0, err
	}
	return resp.ProductID, nil
}

// UpdateDevProduct implements remote.Gateway.
func (c *Client) UpdateDevProduct(ctx context.Context, universeID, productID int64, req remote.UpdateRequest) error {
	url := fmt.Sprintf("%s/developer-products/v2/universes/%d/developer-products/%d", c.baseURL, universeID, productID)

	return c.do(ctx, "update dev product", http.MethodPatch, url, updateForm(req, false), nil)
}
