package model

import "fmt"

// Instrument identifies one of the tracked coffee futures contracts.
type Instrument string

const (
	// InstrumentRobusta is the Robusta coffee futures root symbol.
	InstrumentRobusta Instrument = "RM"
	// InstrumentArabica is the Arabica coffee futures root symbol.
	InstrumentArabica Instrument = "KC"
)

// AllInstruments returns the instruments in their ingestion order.
func AllInstruments() []Instrument {
	return []Instrument{InstrumentRobusta, InstrumentArabica}
}

func (i Instrument) String() string {
	return string(i)
}

// Valid reports whether the instrument is one of the tracked symbols.
func (i Instrument) Valid() bool {
	return i == InstrumentRobusta || i == InstrumentArabica
}

// ParseInstrument converts a raw symbol into an Instrument.
func ParseInstrument(s string) (Instrument, error) {
	i := Instrument(s)
	if !i.Valid() {
		return "", fmt.Errorf("unknown instrument %q, allowed: RM, KC", s)
	}
	return i, nil
}
