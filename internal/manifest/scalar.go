package manifest

import "fmt"

// ScalarKind tags which alternative of Scalar is populated.
type ScalarKind int

const (
	ScalarBool ScalarKind = iota
	ScalarInt
	ScalarString
)

// Scalar is the tagged union of property value types a manifest's props
// table and enableIf predicates compare against: bool, int, or string.
// Equality between two Scalars of different kinds is always false — there
// is no numeric-to-string coercion anywhere in predicate evaluation.
type Scalar struct {
	Kind ScalarKind
	B    bool
	I    int64
	S    string
}

func BoolScalar(b bool) Scalar     { return Scalar{Kind: ScalarBool, B: b} }
func IntScalar(i int64) Scalar     { return Scalar{Kind: ScalarInt, I: i} }
func StringScalar(s string) Scalar { return Scalar{Kind: ScalarString, S: s} }

// FromAny converts a jexpr-decoded value into a Scalar. Returns false if v
// is not one of bool/string/number.
func FromAny(v any) (Scalar, bool) {
	switch t := v.(type) {
	case bool:
		return BoolScalar(t), true
	case string:
		return StringScalar(t), true
	case float64:
		return IntScalar(int64(t)), true
	case int:
		return IntScalar(int64(t)), true
	case int64:
		return IntScalar(t), true
	default:
		return Scalar{}, false
	}
}

// Equal reports whether s and other hold the same kind and value.
// Cross-kind comparisons are always false, matching a props table where
// `cpp-root-include == true` never accidentally matches a string prop.
func (s Scalar) Equal(other Scalar) bool {
	if s.Kind != other.Kind {
		return false
	}
	switch s.Kind {
	case ScalarBool:
		return s.B == other.B
	case ScalarInt:
		return s.I == other.I
	case ScalarString:
		return s.S == other.S
	}
	return false
}

func (s Scalar) String() string {
	switch s.Kind {
	case ScalarBool:
		return fmt.Sprintf("%t", s.B)
	case ScalarInt:
		return fmt.Sprintf("%d", s.I)
	case ScalarString:
		return s.S
	}
	return ""
}

// Truthy reports whether s should be treated as true in an enableIf/requires
// boolean context: a non-zero int, a non-empty string, or true.
func (s Scalar) Truthy() bool {
	switch s.Kind {
	case ScalarBool:
		return s.B
	case ScalarInt:
		return s.I != 0
	case ScalarString:
		return s.S != ""
	}
	return false
}
