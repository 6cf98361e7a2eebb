package sync

import (
	"fmt"
	"strings"

	"github.com/bloxtools/bloxsync/internal/model"
)

// Action represents the outcome of reconciling a single product.
type Action string

const (
	// ActionCreated indicates a new remote resource was created.
	ActionCreated Action = "created"

	// ActionUpdated indicates an existing remote resource was updated.
	ActionUpdated Action = "updated"

	// ActionSkipped indicates nothing changed; no remote call was made.
	ActionSkipped Action = "skipped"

	// ActionFailed indicates an error occurred processing the product.
	ActionFailed Action = "failed"
)

// ProductResult is the outcome of reconciling one declared product.
type ProductResult struct {
	// Key is the product's stable manifest key.
	Key string

	// Product is the declaration that was processed.
	Product model.Product

	// Action is the terminal outcome.
	Action Action

	// RobloxID is the remote ID the product resolved to, when known.
	RobloxID int64

	// Message provides additional context about the action.
	Message string

	// Error carries the cause when Action is ActionFailed.
	Error error
}

// Success returns true if the product was processed without failure.
func (pr *ProductResult) Success() bool {
	return pr.Action != ActionFailed
}

// Result contains the complete outcome of one reconciliation run.
type Result struct {
	// UniverseID is the universe all products were synced against.
	UniverseID int64

	// Products contains the result for each processed product, in the
	// order they were reconciled (sorted by key).
	Products []ProductResult

	// DryRun indicates no remote calls or mapping mutations were made.
	DryRun bool
}

// Created returns products that were created.
func (r *Result) Created() []ProductResult {
	return r.filterByAction(ActionCreated)
}

// Updated returns products that were updated.
func (r *Result) Updated() []ProductResult {
	return r.filterByAction(ActionUpdated)
}

// Skipped returns products that were unchanged.
func (r *Result) Skipped() []ProductResult {
	return r.filterByAction(ActionSkipped)
}

// Failed returns products that failed to sync.
func (r *Result) Failed() []ProductResult {
	return r.filterByAction(ActionFailed)
}

// filterByAction returns products with the given action.
func (r *Result) filterByAction(action Action) []ProductResult {
	var filtered []ProductResult
	for _, pr := range r.Products {
		if pr.Action == action {
			filtered = append(filtered, pr)
		}
	}
	return filtered
}

// Success returns true if no product failed.
func (r *Result) Success() bool {
	return len(r.Failed()) == 0
}

// TotalProcessed returns the number of products reconciled.
func (r *Result) TotalProcessed() int {
	return len(r.Products)
}

// Summary returns a human-readable summary of the run.
func (r *Result) Summary() string {
	var sb strings.Builder

	if r.DryRun {
		sb.WriteString("Dry run - no changes made\n")
	}

	sb.WriteString(fmt.Sprintf("Summary: %d created, %d updated, %d unchanged, %d failed\n",
		len(r.Created()), len(r.Updated()), len(r.Skipped()), len(r.Failed())))

	if !r.Success() {
		sb.WriteString("\nErrors:\n")
		for _, f := range r.Failed() {
			sb.WriteString(fmt.Sprintf("  - %s: %v\n", f.Key, f.Error))
		}
	}

	return sb.String()
}
