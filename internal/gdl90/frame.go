// Package gdl90 encodes locations as GDL90 frames, the serial/UDP protocol
// EFB apps read from portable ADS-B receivers.
package gdl90

import "fmt"

const (
	flagByte   = 0x7E
	escapeByte = 0x7D
	escapeXor  = 0x20
)

// Frame appends the CRC to msg (message ID + payload), byte-stuffs the
// result and wraps it in flag bytes.
func Frame(msg []byte) []byte {
	crc := crc16(msg)
	// CRC goes out low byte first.
	body := make([]byte, 0, len(msg)+2)
	body = append(body, msg...)
	body = append(body, byte(crc), byte(crc>>8))

	out := make([]byte, 0, 2+len(body)*2)
	out = append(out, flagByte)
	for _, b := range body {
		if b == flagByte || b == escapeByte {
			out = append(out, escapeByte, b^escapeXor)
			continue
		}
		out = append(out, b)
	}
	return append(out, flagByte)
}

// Unframe reverses Frame. It returns the message without CRC and whether
// the CRC matched; malformed framing is an error.
func Unframe(frame []byte) (msg []byte, crcOK bool, err error) {
	if len(frame) < 4 {
		return nil, false, fmt.Errorf("gdl90: frame too short: %d", len(frame))
	}
	if frame[0] != flagByte || frame[len(frame)-1] != flagByte {
		return nil, false, fmt.Errorf("gdl90: missing flag bytes")
	}

	raw := make([]byte, 0, len(frame))
	for i := 1; i < len(frame)-1; i++ {
		b := frame[i]
		if b == escapeByte {
			i++
			if i >= len(frame)-1 {
				return nil, false, fmt.Errorf("gdl90: truncated escape")
			}
			b = frame[i] ^ escapeXor
		}
		raw = append(raw, b)
	}
	if len(raw) < 3 {
		return nil, false, fmt.Errorf("gdl90: payload too short: %d", len(raw))
	}

	msg = raw[:len(raw)-2]
	got := uint16(raw[len(raw)-2]) | uint16(raw[len(raw)-1])<<8
	return msg, got == crc16(msg), nil
}

// Split cuts a byte stream into frames, flag to flag. Bytes outside a
// frame are dropped.
func Split(stream []byte) [][]byte {
	var frames [][]byte
	start := -1
	for i, b := range stream {
		if b != flagByte {
			continue
		}
		if start >= 0 && i > start+1 {
			frames = append(frames, stream[start:i+1])
			start = -1
			continue
		}
		start = i
	}
	return frames
}

// crc16 is the GDL90 frame check: table-driven, polynomial 0x1021, zero init.
func crc16(data []byte) uint16 {
	var crc uint16
	for _, b := range data {
		crc = crcTable[crc>>8] ^ (crc << 8) ^ uint16(b)
	}
	return crc
}

var crcTable = func() [256]uint16 {
	var t [256]uint16
	for i := range t {
		crc := uint16(i) << 8
		for bit := 0; bit < 8; bit++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
		t[i] = crc
	}
	return t
}()
