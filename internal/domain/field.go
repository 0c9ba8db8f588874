package domain

import (
	"fmt"
	"regexp"
)

// DefaultFieldName is the hierarchy field used when none is configured.
const DefaultFieldName = "tree"

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Field maps one hierarchy field of a list to its three storage columns.
// A list may carry several fields, each an independent tree.
type Field struct {
	Name        string `yaml:"name"`
	LeftColumn  string `yaml:"left_column"`
	RightColumn string `yaml:"right_column"`
	DepthColumn string `yaml:"depth_column"`
}

// NewField returns the conventional column mapping for name:
// <name>_left, <name>_rght, <name>_depth.
func NewField(name string) Field {
	return Field{
		Name:        name,
		LeftColumn:  name + "_left",
		RightColumn: name + "_rght",
		DepthColumn: name + "_depth",
	}
}

// Columns returns left, right, depth column names.
func (f Field) Columns() [3]string {
	return [3]string{f.LeftColumn, f.RightColumn, f.DepthColumn}
}

// Validate checks the field and its columns are plain SQL identifiers.
func (f Field) Validate() error {
	if !IsIdentifier(f.Name) {
		return fmt.Errorf("invalid field name %q", f.Name)
	}
	for _, c := range f.Columns() {
		if !IsIdentifier(c) {
			return fmt.Errorf("field %s: invalid column name %q", f.Name, c)
		}
	}
	if f.LeftColumn == f.RightColumn || f.LeftColumn == f.DepthColumn || f.RightColumn == f.DepthColumn {
		return fmt.Errorf("field %s: columns must be distinct", f.Name)
	}
	return nil
}

// IsIdentifier reports whether s can be used unquoted as a table or column name.
func IsIdentifier(s string) bool {
	return identPattern.MatchString(s)
}
