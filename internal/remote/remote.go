// Package remote defines the gateway through which bloxsync mutates
// resources on the Roblox platform. The reconciler depends only on the
// Gateway interface; the HTTP implementation lives in remote/roblox and
// a scriptable fake in remote/mock.
package remote

import (
	"context"
	"errors"
	"fmt"
)

// ErrRateLimited signals that the platform throttled the request.
// It is the only failure the reconciler retries; implementations must
// wrap it (errors.Is) when the platform returns HTTP 429.
var ErrRateLimited = errors.New("rate limited by Roblox")

// RejectedError reports a non-retryable rejection from the platform:
// validation failures, authorization problems, or any other non-2xx
// response that is not a rate limit.
type RejectedError struct {
	Operation string
	Status    int
	Body      string
}

func (e *RejectedError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s rejected: status %d", e.Operation, e.Status)
	}
	return fmt.Sprintf("%s rejected: status %d: %s", e.Operation, e.Status, e.Body)
}

// CreateRequest carries the full declared field set for a new resource.
// ImagePath, when set, is uploaded as the icon in the same request.
type CreateRequest struct {
	Name        string
	Price       int64
	Description string
	ImagePath   string
	Offsale     bool
}

// UpdateRequest carries a partial update. Nil scalar fields and an empty
// ImagePath are omitted from the request, which is how unchanged icons
// avoid remote-side reprocessing.
type UpdateRequest struct {
	Name        *string
	Price       *int64
	Description *string
	ImagePath   string
	Offsale     *bool
}

// Gateway is the mutation capability the reconciler calls through.
// All methods surface ErrRateLimited for throttled requests and
// *RejectedError for non-retryable platform rejections.
type Gateway interface {
	// CreateDevProduct creates a developer product and returns its remote ID.
	CreateDevProduct(ctx context.Context, universeID int64, req CreateRequest) (int64, error)

	// UpdateDevProduct applies a partial update to an existing developer product.
	UpdateDevProduct(ctx context.Context, universeID, productID int64, req UpdateRequest) error

	// CreateGamePass creates a game pass and returns its remote ID.
	CreateGamePass(ctx context.Context, universeID int64, req CreateRequest) (int64, error)

	// UpdateGamePass applies a partial update to an existing game pass.
	UpdateGamePass(ctx context.Context, universeID, passID int64, req UpdateRequest) error
}
