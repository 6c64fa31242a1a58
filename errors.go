package geometry

import (
	"github.com/cockroachdb/errors"
)

// ErrorKind is the class of a validity or structural failure. Every error returned by this package wraps exactly one or more kinds, use errors.Is to test for a kind or KindOf to retrieve the first.
type ErrorKind int

// see ErrorKind
const (
	EmptyInput ErrorKind = iota + 1
	FewPoints
	WrongDimension
	SelfIntersections
	DisconnectedInterior
	NestedHoles
	InteriorOutside
	NotImplemented
)

func (k ErrorKind) Error() string {
	return k.String()
}

func (k ErrorKind) String() string {
	switch k {
	case EmptyInput:
		return "empty input"
	case FewPoints:
		return "too few points"
	case WrongDimension:
		return "wrong dimension"
	case SelfIntersections:
		return "self intersections"
	case DisconnectedInterior:
		return "disconnected interior"
	case NestedHoles:
		return "nested holes"
	case InteriorOutside:
		return "interior outside"
	case NotImplemented:
		return "not implemented"
	}
	return "unknown"
}

// KindOf returns the first error kind found in err, or zero if err is nil or carries no kind.
func KindOf(err error) ErrorKind {
	var kind ErrorKind
	if err != nil && errors.As(err, &kind) {
		return kind
	}
	return 0
}

func errorf(kind ErrorKind, format string, args ...any) error {
	return errors.Wrapf(kind, format, args...)
}

// combine joins errs while skipping nil values, it returns nil if all are nil.
func combine(errs ...error) error {
	return errors.Join(errs...)
}
