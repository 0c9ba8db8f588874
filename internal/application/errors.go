package application

import (
	"errors"
	"fmt"
	"strings"

	"nestedset/internal/domain"
)

// Sentinel errors for common conditions
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidID        = errors.New("invalid ID")
	ErrInvalidPlacement = errors.New("invalid placement")
	ErrCyclicMove       = errors.New("cannot move node into itself or a descendant")
	ErrConsistency      = errors.New("tree consistency violated")
	ErrTransaction      = errors.New("transaction failed")
	ErrRootHasChildren  = errors.New("cannot delete a root that has children")
	ErrTreeHalted       = errors.New("tree halted after a failed rollback")
)

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NotFoundError is returned when an id does not resolve to a row of the list.
type NotFoundError struct {
	List string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.List, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// CyclicMoveError is returned when a node would be moved relative to itself
// or one of its descendants.
type CyclicMoveError struct {
	ID       string
	TargetID string
}

func (e *CyclicMoveError) Error() string {
	return fmt.Sprintf("cannot move %s relative to %s: node into itself or a descendant", e.ID, e.TargetID)
}

func (e *CyclicMoveError) Is(target error) bool {
	return target == ErrCyclicMove
}

// ConsistencyError reports bounds that break the tree invariants. The tree is
// not repaired.
type ConsistencyError struct {
	Reason     string
	Violations []domain.Violation
}

func (e *ConsistencyError) Error() string {
	if len(e.Violations) == 0 {
		return "inconsistent tree: " + e.Reason
	}
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.String())
	}
	return fmt.Sprintf("inconsistent tree: %s: %s", e.Reason, strings.Join(parts, "; "))
}

func (e *ConsistencyError) Is(target error) bool {
	return target == ErrConsistency
}

// TransactionError wraps a failure of the store's atomic batch.
type TransactionError struct {
	Op  string
	Err error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("%s: transaction failed: %v", e.Op, e.Err)
}

func (e *TransactionError) Unwrap() error {
	return e.Err
}

func (e *TransactionError) Is(target error) bool {
	return target == ErrTransaction
}

// PlacementError represents a position request that cannot be honoured.
type PlacementError struct {
	Placement domain.Placement
	Reason    string
}

func (e *PlacementError) Error() string {
	return fmt.Sprintf("cannot place %s: %s", e.Placement, e.Reason)
}

func (e *PlacementError) Is(target error) bool {
	return target == ErrInvalidPlacement
}
