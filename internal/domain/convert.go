package domain

import "fmt"

const kgPerLb = 0.45359237

// ConvertWeightToKg converts a user-supplied weight into kilograms.
// Supported units are "kg" and "lb".
func ConvertWeightToKg(v float64, unit string) (float64, error) {
	switch unit {
	case "", "kg":
		return v, nil
	case "lb":
		return v * kgPerLb, nil
	default:
		return 0, fmt.Errorf("unknown weight unit %q", unit)
	}
}
