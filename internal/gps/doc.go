// Package gps renders injected locations for downstream consumers.
//
// It is intentionally small:
// - GGA and RMC NMEA 0183 sentences (fix quality "estimated")
// - a JSON snapshot mirroring what a receiver-backed source would report
package gps
