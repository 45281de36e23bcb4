package eval

import "strconv"

// Value is the evaluator's only runtime type: a float64 or a bool (§3, §4.6).
// The zero Value is the number 0.
type Value struct {
	IsBool bool
	Num    float64
	Bool   bool
}

// Number constructs a numeric Value.
func Number(v float64) Value { return Value{Num: v} }

// Boolean constructs a boolean Value.
func Boolean(b bool) Value { return Value{IsBool: true, Bool: b} }

func (v Value) String() string {
	if v.IsBool {
		return strconv.FormatBool(v.Bool)
	}
	return strconv.FormatFloat(v.Num, 'g', -1, 64)
}

// asBool applies the boolean-convertible numeric rule (0<->false,
// nonzero<->true) that lets &&, ||, !, and IF accept either a Value kind.
func asBool(v Value) bool {
	if v.IsBool {
		return v.Bool
	}
	return v.Num != 0
}

func kindName(v Value) string {
	if v.IsBool {
		return "bool"
	}
	return "number"
}
