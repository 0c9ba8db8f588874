package application

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nestedset/internal/domain"
)

func TestValidateRequired(t *testing.T) {
	tests := []struct {
		name      string
		fieldName string
		value     string
		wantErr   bool
		wantMsg   string
	}{
		{
			name:      "valid value",
			fieldName: "label",
			value:     "Electronics",
			wantErr:   false,
		},
		{
			name:      "empty string",
			fieldName: "label",
			value:     "",
			wantErr:   true,
			wantMsg:   "label is required",
		},
		{
			name:      "whitespace only",
			fieldName: "parentID",
			value:     "   ",
			wantErr:   true,
			wantMsg:   "parent ID is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequired(tt.fieldName, tt.value)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			var valErr *ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Equal(t, tt.fieldName, valErr.Field)
			assert.Equal(t, tt.wantMsg, valErr.Message)
		})
	}
}

func TestValidateID(t *testing.T) {
	assert.NoError(t, ValidateID("nodeID", "0b7f2d4e-8a4c-4f5e-9f0e-1c2d3e4f5a6b"))
	assert.NoError(t, ValidateID("nodeID", "42"))
	assert.Error(t, ValidateID("nodeID", ""))
	assert.Error(t, ValidateID("nodeID", "a b"))
}

func TestValidatePlacement(t *testing.T) {
	tests := []struct {
		name      string
		p         domain.Placement
		wantField string
	}{
		{"no placement", domain.Placement{}, ""},
		{"child", domain.ChildOf("p1"), ""},
		{"before", domain.Before("s1"), ""},
		{"two anchors", domain.Placement{ParentID: "p1", PrevSiblingOf: "s1"}, "placement"},
		{"bad anchor", domain.After("s 1"), "nextSiblingOf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePlacement(tt.p)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var valErr *ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Equal(t, tt.wantField, valErr.Field)
		})
	}
}

func TestTypedErrors_MatchSentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"not found", &NotFoundError{List: "categories", ID: "x"}, ErrNotFound},
		{"cyclic", &CyclicMoveError{ID: "a", TargetID: "b"}, ErrCyclicMove},
		{"consistency", &ConsistencyError{Reason: "two roots"}, ErrConsistency},
		{"transaction", &TransactionError{Op: "move", Err: errors.New("disk full")}, ErrTransaction},
		{"placement", &PlacementError{Placement: domain.After("r"), Reason: "root has no siblings"}, ErrInvalidPlacement},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("outer: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.sentinel)
		})
	}
}

func TestTransactionError_Unwrap(t *testing.T) {
	cause := errors.New("database is locked")
	err := &TransactionError{Op: "insert", Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "insert: transaction failed")
}

func TestConsistencyError_Message(t *testing.T) {
	err := &ConsistencyError{
		Reason: "verify",
		Violations: []domain.Violation{
			{ID: "a", Message: "depth 2 but 1 ancestors"},
			{Message: "gap at bound 4"},
		},
	}
	assert.Equal(t, "inconsistent tree: verify: a: depth 2 but 1 ancestors; gap at bound 4", err.Error())
}
