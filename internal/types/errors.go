package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a fatal failure of an equivalence check.
type ErrorKind int

const (
	_ ErrorKind = iota
	// KindIO is a missing or unreadable bench file.
	KindIO
	// KindStructural is a proposition with inputs but no operator, or the reverse.
	KindStructural
	// KindOperandArity is a NOT without exactly one input or a fold without inputs.
	KindOperandArity
	// KindCycle is a proposition reached again while it is being resolved.
	KindCycle
	// KindConsistency is a pair of circuits whose interfaces differ.
	KindConsistency
	// KindUnrecognizedLine is a bench line matching no grammar form (strict mode).
	KindUnrecognizedLine
	// KindUndefinedSignal is a gate input that names no proposition.
	KindUndefinedSignal
	// KindCapacity is a failure inside the function representation engine.
	KindCapacity
)

func (k ErrorKind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindStructural:
		return "structural"
	case KindOperandArity:
		return "operand-arity"
	case KindCycle:
		return "cycle"
	case KindConsistency:
		return "consistency"
	case KindUnrecognizedLine:
		return "unrecognized-line"
	case KindUndefinedSignal:
		return "undefined-signal"
	case KindCapacity:
		return "capacity"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is. Every *Error matches the sentinel of its kind.
var (
	ErrIO               = errors.New("io error")
	ErrStructural       = errors.New("structural error")
	ErrOperandArity     = errors.New("operand arity error")
	ErrCycle            = errors.New("cycle error")
	ErrConsistency      = errors.New("consistency error")
	ErrUnrecognizedLine = errors.New("unrecognized line")
	ErrUndefinedSignal  = errors.New("undefined signal")
	ErrCapacity         = errors.New("capacity error")
)

var sentinels = map[ErrorKind]error{
	KindIO:               ErrIO,
	KindStructural:       ErrStructural,
	KindOperandArity:     ErrOperandArity,
	KindCycle:            ErrCycle,
	KindConsistency:      ErrConsistency,
	KindUnrecognizedLine: ErrUnrecognizedLine,
	KindUndefinedSignal:  ErrUndefinedSignal,
	KindCapacity:         ErrCapacity,
}

// Error is the structured error returned by every stage of the pipeline.
type Error struct {
	Kind ErrorKind
	// Name is the offending proposition, when there is one.
	Name string
	// Names holds a cycle path or the outputs involved in a mismatch.
	Names []string
	// OnlyInA and OnlyInB are the input or output names present in only
	// one of the two circuits.
	OnlyInA []string
	OnlyInB []string
	Path    string
	Line    int
	Msg     string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Path != "" {
		b.WriteString(": ")
		b.WriteString(e.Path)
		if e.Line > 0 {
			fmt.Fprintf(&b, ":%d", e.Line)
		}
	}
	if e.Name != "" {
		fmt.Fprintf(&b, ": %q", e.Name)
	}
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if len(e.Names) > 0 {
		fmt.Fprintf(&b, " [%s]", strings.Join(e.Names, " -> "))
	}
	if len(e.OnlyInA) > 0 {
		fmt.Fprintf(&b, "; only in reference: %s", strings.Join(e.OnlyInA, ", "))
	}
	if len(e.OnlyInB) > 0 {
		fmt.Fprintf(&b, "; only in optimized: %s", strings.Join(e.OnlyInB, ", "))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel of the error kind.
func (e *Error) Is(target error) bool {
	return sentinels[e.Kind] == target
}

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
