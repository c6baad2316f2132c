package floatexpr

import (
	"errors"
	"strconv"
)

// Error kinds. Every EvalError matches exactly one of these with errors.Is,
// except HookError, which matches whatever the hook's error matches.
var (
	// ErrSyntax is the kind of errors for input that is not an expression.
	ErrSyntax = errors.New("syntax error")
	// ErrUndefined is the kind of errors for names that a scope does not
	// define. Scopes return it, or an error wrapping it, to signal that they
	// have no value for a name.
	ErrUndefined = errors.New("undefined variable")
	// ErrUnknownFunc is the kind of errors for calls to names which are not
	// functions.
	ErrUnknownFunc = errors.New("unknown function")
	// ErrArity is the kind of errors for calls with the wrong number of
	// arguments.
	ErrArity = errors.New("wrong number of arguments")
	// ErrPrecision is the kind of errors for functions which cannot be
	// evaluated in arbitrary precision.
	ErrPrecision = errors.New("no arbitrary-precision implementation")
)

// OperatorError is an error indicating an operator token that is not
// understood by the parser where it appears. It implements EvalError.
type OperatorError struct {
	// Col is the position of the operator.
	Col int
	// Operator is the token that was not understood.
	Operator string
	// Unary is whether the parser expected a unary operator at the time.
	Unary bool
}

func (err *OperatorError) Error() string {
	s := "binary"
	if err.Unary {
		s = "unary"
	}
	return errpos(err.Col, "unknown "+s+" operator "+strconv.Quote(err.Operator))
}

func (err *OperatorError) Pos() int {
	return err.Col
}

func (err *OperatorError) Is(target error) bool {
	return target == ErrSyntax
}

// BracketError is an error indicating mismatched brackets in the
// input. It implements EvalError.
type BracketError struct {
	// Col is the position of the operator.
	Col int
	// Left is the opening bracket.
	Left string
	// Right is the mismatched closing bracket.
	Right string
}

func (err *BracketError) Error() string {
	if err.Left == "" {
		return errpos(err.Col, "close bracket "+err.Right+" with no open bracket")
	}
	if err.Right == "" {
		return errpos(err.Col, "open bracket "+err.Left+" with no close bracket")
	}
	return errpos(err.Col, "mismatched bracket: "+err.Left+"expr"+err.Right)
}

func (err *BracketError) Pos() int {
	return err.Col
}

func (err *BracketError) Is(target error) bool {
	return target == ErrSyntax
}

// SeparatorError is an error indicating an illegal use of a comma. It
// implements EvalError.
type SeparatorError struct {
	// Col is the position of the separator.
	Col int
	// Sep is the separator.
	Sep string
}

func (err *SeparatorError) Error() string {
	return errpos(err.Col, "invalid occurrence of separator "+strconv.Quote(err.Sep))
}

func (err *SeparatorError) Pos() int {
	return err.Col
}

func (err *SeparatorError) Is(target error) bool {
	return target == ErrSyntax
}

// TokenError is an error indicating an operand where an operator or the end
// of the input was expected, e.g. trailing text. It implements EvalError.
type TokenError struct {
	// Col is the position of the token.
	Col int
	// Token is the unexpected token.
	Token string
}

func (err *TokenError) Error() string {
	return errpos(err.Col, "unexpected "+strconv.Quote(err.Token))
}

func (err *TokenError) Pos() int {
	return err.Col
}

func (err *TokenError) Is(target error) bool {
	return target == ErrSyntax
}

// EmptyExpressionError is an error indicating an empty subexpression, i.e. a
// missing operand. It implements EvalError.
type EmptyExpressionError struct {
	// Col is the position of the token that ended the subexpression.
	Col int
	// End is the token that ended the subexpression.
	End string
}

func (err *EmptyExpressionError) Error() string {
	if err.End == "" {
		if err.Col <= 1 {
			return errpos(err.Col, "no expression")
		}
		return errpos(err.Col, "no expression at end")
	}
	return errpos(err.Col, "no expression up to "+strconv.Quote(err.End))
}

func (err *EmptyExpressionError) Pos() int {
	return err.Col
}

func (err *EmptyExpressionError) Is(target error) bool {
	return target == ErrSyntax
}

// FuncError is an error indicating a call to a name that is not a function.
// It implements EvalError.
type FuncError struct {
	// Col is the position of the function name.
	Col int
	// Func is the name that was called.
	Func string
}

func (err *FuncError) Error() string {
	return errpos(err.Col, "unknown function "+strconv.Quote(err.Func))
}

func (err *FuncError) Pos() int {
	return err.Col
}

func (err *FuncError) Is(target error) bool {
	return target == ErrUnknownFunc
}

// CallError is an error indicating a function call with the wrong number of
// arguments. It implements EvalError.
type CallError struct {
	// Col is the position of the function name.
	Col int
	// Func is the function name that was called.
	Func string
	// Len is the number of arguments in the call.
	Len int
}

func (err *CallError) Error() string {
	return errpos(err.Col, "cannot call "+err.Func+" with "+strconv.Itoa(err.Len)+" arguments")
}

func (err *CallError) Pos() int {
	return err.Col
}

func (err *CallError) Is(target error) bool {
	return target == ErrArity
}

// NameError is an error from a lookup for a variable that is missing from the
// evaluation scope. It implements EvalError.
type NameError struct {
	// Col is the position of the name.
	Col int
	// Name is the name that was missing.
	Name string
}

func (err *NameError) Error() string {
	return errpos(err.Col, "undefined variable: "+strconv.Quote(err.Name))
}

func (err *NameError) Pos() int {
	return err.Col
}

func (err *NameError) Is(target error) bool {
	return target == ErrUndefined
}

// HookError is an error returned by a scope while looking up a name, other
// than ErrUndefined. Its message is the scope's message unchanged. It
// implements EvalError.
type HookError struct {
	// Col is the position of the name.
	Col int
	// Name is the name being looked up.
	Name string
	// Err is the error the scope returned.
	Err error
}

func (err *HookError) Error() string {
	return err.Err.Error()
}

func (err *HookError) Pos() int {
	return err.Col
}

func (err *HookError) Unwrap() error {
	return err.Err
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// EvalError is an error with position information. Every error resulting from
// invalid input or a failed lookup implements EvalError.
type EvalError interface {
	error
	// Pos returns the position of the error as the 1-based byte offset of the
	// start of the token that caused the error.
	Pos() int
}

var (
	_ EvalError = (*OperatorError)(nil)
	_ EvalError = (*BracketError)(nil)
	_ EvalError = (*SeparatorError)(nil)
	_ EvalError = (*TokenError)(nil)
	_ EvalError = (*EmptyExpressionError)(nil)
	_ EvalError = (*FuncError)(nil)
	_ EvalError = (*CallError)(nil)
	_ EvalError = (*NameError)(nil)
	_ EvalError = (*HookError)(nil)
	_ EvalError = (*LexError)(nil)
)
