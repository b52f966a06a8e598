package intent

import (
	"fmt"
	"strconv"
)

// Kind identifies the declared type of an extra as it was put into the broadcast.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindFloat32
	KindFloat64
	KindString
	KindInt32
	KindInt64
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	case KindString:
		return "string"
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindBool:
		return "bool"
	default:
		return "invalid"
	}
}

func parseKind(s string) (Kind, bool) {
	for k := KindFloat32; k <= KindBool; k++ {
		if k.String() == s {
			return k, true
		}
	}
	return KindInvalid, false
}

// Extra is a single typed value from a broadcast's extras bundle.
// The zero value is invalid; build one with the Float32, Float64, ... helpers.
type Extra struct {
	kind Kind
	f32  float32
	f64  float64
	i64  int64
	str  string
	b    bool
}

func Float32(v float32) Extra { return Extra{kind: KindFloat32, f32: v} }
func Float64(v float64) Extra { return Extra{kind: KindFloat64, f64: v} }
func String(v string) Extra   { return Extra{kind: KindString, str: v} }
func Int32(v int32) Extra     { return Extra{kind: KindInt32, i64: int64(v)} }
func Int64(v int64) Extra     { return Extra{kind: KindInt64, i64: v} }
func Bool(v bool) Extra       { return Extra{kind: KindBool, b: v} }

func (e Extra) Kind() Kind { return e.kind }

// Float64 returns the extra as a float64. Float32 extras are widened with the
// standard single-to-double promotion, which is exact for the stored bits.
// ok is false for every non-floating kind.
func (e Extra) Float64() (v float64, ok bool) {
	switch e.kind {
	case KindFloat32:
		return float64(e.f32), true
	case KindFloat64:
		return e.f64, true
	default:
		return 0, false
	}
}

func (e Extra) Text() (string, bool) {
	if e.kind != KindString {
		return "", false
	}
	return e.str, true
}

func (e Extra) Int() (int64, bool) {
	if e.kind != KindInt32 && e.kind != KindInt64 {
		return 0, false
	}
	return e.i64, true
}

func (e Extra) Flag() (bool, bool) {
	if e.kind != KindBool {
		return false, false
	}
	return e.b, true
}

// literal renders the value the way am(1) expects it on a command line.
func (e Extra) literal() string {
	switch e.kind {
	case KindFloat32:
		return strconv.FormatFloat(float64(e.f32), 'g', -1, 32)
	case KindFloat64:
		return strconv.FormatFloat(e.f64, 'g', -1, 64)
	case KindString:
		return e.str
	case KindInt32, KindInt64:
		return strconv.FormatInt(e.i64, 10)
	case KindBool:
		return strconv.FormatBool(e.b)
	default:
		return ""
	}
}

func (e Extra) String() string {
	return fmt.Sprintf("%s(%s)", e.kind, e.literal())
}
