package deob

import "errors"

// Recognition and reconstruction failures. Every one of them aborts the run;
// callers match them with errors.Is.
var (
	ErrPreconditionViolated   = errors.New("precondition violated")
	ErrUnbalancedStructure    = errors.New("unbalanced structure")
	ErrNotAStringLiteral      = errors.New("not a string literal")
	ErrBootstrapNotFound      = errors.New("bootstrap not found")
	ErrMalformedInvocation    = errors.New("malformed bootstrap invocation")
	ErrOffsetNotFound         = errors.New("decoder offset not found")
	ErrArrayLiteralNotFound   = errors.New("array literal not found")
	ErrCoercionFailed         = errors.New("numeric coercion failed")
	ErrRotationDidNotConverge = errors.New("rotation did not converge")
	ErrIndexOutOfRange        = errors.New("index out of range")
)
