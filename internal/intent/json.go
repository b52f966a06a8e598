package intent

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// JSON wire form:
//
//	{"action":"com.google.android.radar.SHOW_RADAR",
//	 "extras":{"latitude":{"float32":28.052722},"altitude":{"float64":"NaN"}}}
//
// Each extra is an object with exactly one key naming its kind. Non-finite
// floats are written as the strings "NaN", "+Inf" and "-Inf".

type wireMessage struct {
	Action string                     `json:"action"`
	Extras map[string]json.RawMessage `json:"extras,omitempty"`
}

func (m Message) MarshalJSON() ([]byte, error) {
	w := wireMessage{Action: m.Action}
	if len(m.Extras) > 0 {
		w.Extras = make(map[string]json.RawMessage, len(m.Extras))
		for k, e := range m.Extras {
			b, err := e.MarshalJSON()
			if err != nil {
				return nil, fmt.Errorf("extra %s: %w", k, err)
			}
			w.Extras[k] = b
		}
	}
	return json.Marshal(w)
}

func (m *Message) UnmarshalJSON(b []byte) error {
	var w wireMessage
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	out := Message{Action: w.Action, Extras: make(Extras, len(w.Extras))}
	for k, raw := range w.Extras {
		var e Extra
		if err := e.UnmarshalJSON(raw); err != nil {
			return fmt.Errorf("extra %s: %w", k, err)
		}
		out.Extras[k] = e
	}
	*m = out
	return nil
}

func (e Extra) MarshalJSON() ([]byte, error) {
	var v any
	switch e.kind {
	case KindFloat32:
		v = floatJSON(float64(e.f32), 32)
	case KindFloat64:
		v = floatJSON(e.f64, 64)
	case KindString:
		v = e.str
	case KindInt32, KindInt64:
		v = e.i64
	case KindBool:
		v = e.b
	default:
		return nil, fmt.Errorf("cannot encode %s extra", e.kind)
	}
	return json.Marshal(map[string]any{e.kind.String(): v})
}

func floatJSON(f float64, bits int) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'g', -1, bits)
	}
	return json.RawMessage(strconv.FormatFloat(f, 'g', -1, bits))
}

func (e *Extra) UnmarshalJSON(b []byte) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	if len(obj) != 1 {
		return fmt.Errorf("want exactly one kind key, got %d", len(obj))
	}
	for name, raw := range obj {
		kind, ok := parseKind(name)
		if !ok {
			return fmt.Errorf("unknown kind %q", name)
		}
		v, err := decodeExtraValue(kind, raw)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		*e = v
	}
	return nil
}

func decodeExtraValue(kind Kind, raw json.RawMessage) (Extra, error) {
	raw = bytes.TrimSpace(raw)
	switch kind {
	case KindFloat32, KindFloat64:
		s := string(raw)
		if len(raw) > 0 && raw[0] == '"' {
			if err := json.Unmarshal(raw, &s); err != nil {
				return Extra{}, err
			}
		}
		// parseExtra reads at the kind's width so a float32 is rounded once.
		return parseExtra(kind, s)
	case KindString:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Extra{}, err
		}
		return String(s), nil
	case KindInt32, KindInt64:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return Extra{}, err
		}
		return parseExtra(kind, n.String())
	case KindBool:
		var v bool
		if err := json.Unmarshal(raw, &v); err != nil {
			return Extra{}, err
		}
		return Bool(v), nil
	default:
		return Extra{}, fmt.Errorf("unsupported kind %s", kind)
	}
}
