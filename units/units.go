// Package units carries unit labels and property metadata for property
// packages. Units are descriptive only; dimensional consistency checking is
// the business of the surrounding modeling environment.
package units

import "fmt"

// Dimension identifies a base physical dimension.
type Dimension int

// The base dimensions a default-units table is keyed by.
const (
	Time Dimension = iota
	Length
	Mass
	Amount
	Temperature
)

var dimensionNames = map[Dimension]string{
	Time:        "time",
	Length:      "length",
	Mass:        "mass",
	Amount:      "amount",
	Temperature: "temperature",
}

func (d Dimension) String() string {
	name, ok := dimensionNames[d]
	if !ok {
		return fmt.Sprintf("dimension(%d)", int(d))
	}

	return name
}

// A Table maps each base dimension to its default unit label.
type Table map[Dimension]string

// SI returns the default-units table used by the shipped property packages.
func SI() Table {
	return Table{
		Time:        "s",
		Length:      "m",
		Mass:        "kg",
		Amount:      "mol",
		Temperature: "K",
	}
}

// Unit returns the default unit for a dimension.
func (t Table) Unit(d Dimension) (string, error) {
	u, ok := t[d]
	if !ok {
		return "", fmt.Errorf("no default unit for %s", d)
	}

	return u, nil
}
