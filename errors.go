package logicsim

import "github.com/pkg/errors"

// Errors returned by circuit and registry operations. Use errors.Cause to
// compare a returned error against these values.
//
var (
	ErrNotFound          = errors.New("package definition not found")
	ErrCircularReference = errors.New("circular package reference")
	ErrInvalidDefinition = errors.New("invalid package definition")
	ErrDuplicateID       = errors.New("duplicate id")
	ErrInvalidKind       = errors.New("invalid component kind")
	ErrNoComponent       = errors.New("no such component")
	ErrNoPin             = errors.New("no such pin")
	ErrNoWire            = errors.New("no such wire")
	ErrNoRegistry        = errors.New("circuit has no package registry")
)
