package application

import "nestedset/internal/domain"

// Re-export domain types for use by adapters
type (
	Bounds    = domain.Bounds
	Record    = domain.Record
	TreeNode  = domain.TreeNode
	Placement = domain.Placement
	Predicate = domain.Predicate
	Filter    = domain.Filter
	Order     = domain.Order
	Field     = domain.Field
)

// Placement constructors
var (
	ChildOf = domain.ChildOf
	Before  = domain.Before
	After   = domain.After
)

// ParseOrder parses an order direction ("asc" or "desc")
func ParseOrder(direction string) (Order, error) {
	return domain.ParseOrder(direction)
}
