// Package mock provides a scriptable in-memory Gateway for testing.
package mock

import (
	"context"
	"fmt"

	"github.com/bloxtools/bloxsync/internal/remote"
)

// Call records one gateway invocation.
type Call struct {
	Operation  string // "create_dev_product", "update_gamepass", ...
	UniverseID int64
	RemoteID   int64 // zero for creates
	Create     remote.CreateRequest
	Update     remote.UpdateRequest
}

// Gateway is a fake remote.Gateway that records calls and returns
// scripted results.
type Gateway struct {
	calls  []Call
	nextID int64

	createErrs map[string]error // keyed by request name
	updateErrs map[int64]error  // keyed by remote ID

	// Err, when set, fails every call. Used to script blanket failures
	// such as a permanently rate-limited platform.
	Err error
}

var _ remote.Gateway = (*Gateway)(nil)

// New creates a mock gateway whose creates return sequential IDs
// starting at 1000.
func New() *Gateway {
	return &Gateway{
		nextID:     1000,
		createErrs: make(map[string]error),
		updateErrs: make(map[int64]error),
	}
}

// WithCreateError scripts a failure for creates whose name matches.
func (g *Gateway) WithCreateError(name string, err error) *Gateway {
	g.createErrs[name] = err
	return g
}

// WithUpdateError scripts a failure for updates of the given remote ID.
func (g *Gateway) WithUpdateError(remoteID int64, err error) *Gateway {
	g.updateErrs[remoteID] = err
	return g
}

// WithError scripts a failure for every call.
func (g *Gateway) WithError(err error) *Gateway {
	g.Err = err
	return g
}

// WithNextID sets the ID the next successful create returns.
func (g *Gateway) WithNextID(id int64) *Gateway {
	g.nextID = id
	return g
}

func (g *Gateway) create(op string, universeID int64, req remote.CreateRequest) (int64, error) {
	g.calls = append(g.calls, Call{Operation: op, UniverseID: universeID, Create: req})
	if g.Err != nil {
		return 0, g.Err
	}
	if err, ok := g.createErrs[req.Name]; ok {
		return 0, err
	}
	id := g.nextID
	g.nextID++
	return id, nil
}

func (g *Gateway) update(op string, universeID, remoteID int64, req remote.UpdateRequest) error {
	g.calls = append(g.calls, Call{Operation: op, UniverseID: universeID, RemoteID: remoteID, Update: req})
	if g.Err != nil {
		return g.Err
	}
	if err, ok := g.updateErrs[remoteID]; ok {
		return err
	}
	return nil
}

// CreateDevProduct implements remote.Gateway.
func (g *Gateway) CreateDevProduct(_ context.Context, universeID int64, req remote.CreateRequest) (int64, error) {
	return g.create("create_dev_product", universeID, req)
}

// UpdateDevProduct implements remote.Gateway.
func (g *Gateway) UpdateDevProduct(_ context.Context, universeID, productID int64, req remote.UpdateRequest) error {
	return g.update("update_dev_product", universeID, productID, req)
}

// CreateGamePass implements remote.Gateway.
func (g *Gateway) CreateGamePass(_ context.Context, universeID int64, req remote.CreateRequest) (int64, error) {
	return g.create("create_gamepass", universeID, req)
}

// UpdateGamePass implements remote.Gateway.
func (g *Gateway) UpdateGamePass(_ context.Context, universeID, passID int64, req remote.UpdateRequest) error {
	return g.update("update_gamepass", universeID, passID, req)
}

// Calls returns every recorded call in order.
func (g *Gateway) Calls() []Call {
	return g.calls
}

// CallCount returns the number of recorded calls.
func (g *Gateway) CallCount() int {
	return len(g.calls)
}

// CallsFor returns calls matching the given operation.
func (g *Gateway) CallsFor(op string) []Call {
	var filtered []Call
	for _, c := range g.calls {
		if c.Operation == op {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

// LastCall returns the most recent call, or an error when none happened.
func (g *Gateway) LastCall() (Call, error) {
	if len(g.calls) == 0 {
		return Call{}, fmt.Errorf("no calls recorded")
	}
	return g.calls[len(g.calls)-1], nil
}

// Reset clears recorded calls.
func (g *Gateway) Reset() {
	g.calls = nil
}
