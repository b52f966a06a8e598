// Package intent classifies "show radar" broadcasts sent by GPS-testing tools
// and decodes the simulated location they carry.
//
// A broadcast is modelled as an action string plus a bag of typed extras.
// Tools disagree on whether coordinates are sent as float or double extras,
// so decoding accepts both and widens floats to float64.
package intent

import "sort"

// ActionShowRadar is the broadcast action used to inject a location.
const ActionShowRadar = "com.google.android.radar.SHOW_RADAR"

const (
	KeyLatitude  = "latitude"
	KeyLongitude = "longitude"
	KeyAltitude  = "altitude"
)

// Extras maps extra names to their typed values.
type Extras map[string]Extra

// Message is an incoming broadcast: an action plus its extras.
type Message struct {
	Action string
	Extras Extras
}

func NewMessage(action string) *Message {
	return &Message{Action: action, Extras: Extras{}}
}

// Put stores an extra, replacing any previous value under the same name.
func (m *Message) Put(key string, e Extra) *Message {
	if m.Extras == nil {
		m.Extras = Extras{}
	}
	m.Extras[key] = e
	return m
}

func (m *Message) PutFloat32(key string, v float32) *Message { return m.Put(key, Float32(v)) }
func (m *Message) PutFloat64(key string, v float64) *Message { return m.Put(key, Float64(v)) }

// Extra looks up an extra by exact name.
func (m Message) Extra(key string) (Extra, bool) {
	e, ok := m.Extras[key]
	return e, ok
}

// Keys returns the extra names in sorted order.
func (m Message) Keys() []string {
	keys := make([]string, 0, len(m.Extras))
	for k := range m.Extras {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsShowRadar reports whether m is a show-radar broadcast. The action must
// match ActionShowRadar exactly. A nil message is not an error; it is simply
// not a show-radar broadcast.
func IsShowRadar(m *Message) bool {
	return m != nil && m.Action == ActionShowRadar
}
