package domain

import (
	"fmt"
	"strings"
)

// Range is an inclusive integer constraint. A nil end is unbounded.
type Range struct {
	Min *int
	Max *int
}

// Eq matches exactly v.
func Eq(v int) Range { return Range{Min: &v, Max: &v} }

// Gt matches values strictly greater than v.
func Gt(v int) Range { v++; return Range{Min: &v} }

// Gte matches values greater than or equal to v.
func Gte(v int) Range { return Range{Min: &v} }

// Lt matches values strictly less than v.
func Lt(v int) Range { v--; return Range{Max: &v} }

// Lte matches values less than or equal to v.
func Lte(v int) Range { return Range{Max: &v} }

// IsZero reports whether the range places no constraint.
func (r Range) IsZero() bool {
	return r.Min == nil && r.Max == nil
}

// Empty reports whether no integer satisfies the range.
func (r Range) Empty() bool {
	return r.Min != nil && r.Max != nil && *r.Min > *r.Max
}

// Match reports whether v lies in the range.
func (r Range) Match(v int) bool {
	if r.Min != nil && v < *r.Min {
		return false
	}
	if r.Max != nil && v > *r.Max {
		return false
	}
	return true
}

// And intersects two ranges.
func (r Range) And(o Range) Range {
	out := r
	if o.Min != nil && (out.Min == nil || *o.Min > *out.Min) {
		v := *o.Min
		out.Min = &v
	}
	if o.Max != nil && (out.Max == nil || *o.Max < *out.Max) {
		v := *o.Max
		out.Max = &v
	}
	return out
}

func (r Range) String() string {
	switch {
	case r.IsZero():
		return "*"
	case r.Min != nil && r.Max != nil && *r.Min == *r.Max:
		return fmt.Sprintf("=%d", *r.Min)
	case r.Min != nil && r.Max != nil:
		return fmt.Sprintf("%d..%d", *r.Min, *r.Max)
	case r.Min != nil:
		return fmt.Sprintf(">=%d", *r.Min)
	default:
		return fmt.Sprintf("<=%d", *r.Max)
	}
}

// Filter is a store query fragment over the hierarchy columns of one field.
// All constraints are combined with AND.
type Filter struct {
	Left  Range
	Right Range
	Depth Range
	// Positioned restricts results to records that carry bounds. Any non-zero
	// range implies it.
	Positioned bool
}

// And merges two fragments.
func (f Filter) And(o Filter) Filter {
	return Filter{
		Left:       f.Left.And(o.Left),
		Right:      f.Right.And(o.Right),
		Depth:      f.Depth.And(o.Depth),
		Positioned: f.Positioned || o.Positioned,
	}
}

// Empty reports whether the filter can match nothing.
func (f Filter) Empty() bool {
	return f.Left.Empty() || f.Right.Empty() || f.Depth.Empty()
}

// Match evaluates the filter against a record.
func (f Filter) Match(r Record) bool {
	if r.Bounds == nil {
		return f.Left.IsZero() && f.Right.IsZero() && f.Depth.IsZero() && !f.Positioned
	}
	return f.Left.Match(r.Bounds.Left) && f.Right.Match(r.Bounds.Right) && f.Depth.Match(r.Bounds.Depth)
}

func (f Filter) String() string {
	var parts []string
	if !f.Left.IsZero() {
		parts = append(parts, "left"+f.Left.String())
	}
	if !f.Right.IsZero() {
		parts = append(parts, "right"+f.Right.String())
	}
	if !f.Depth.IsZero() {
		parts = append(parts, "depth"+f.Depth.String())
	}
	if len(parts) == 0 {
		if f.Positioned {
			return "positioned"
		}
		return "all"
	}
	return strings.Join(parts, " ")
}

// Order is the sort applied to query results. Sibling order is left order.
type Order struct {
	Desc bool
}

var (
	// OrderAsc sorts by left ascending (document order).
	OrderAsc = Order{}
	// OrderDesc sorts by left descending.
	OrderDesc = Order{Desc: true}
)

// ParseOrder accepts "asc" or "desc" (case-insensitive); empty means asc.
func ParseOrder(direction string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(direction)) {
	case "", "asc":
		return OrderAsc, nil
	case "desc":
		return OrderDesc, nil
	}
	return Order{}, fmt.Errorf("invalid order direction %q", direction)
}

func (o Order) String() string {
	if o.Desc {
		return "desc"
	}
	return "asc"
}
