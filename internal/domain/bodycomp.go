package domain

import "math"

// Sex selects the body-fat formula branch.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// essentialTissueOffset is the project policy constant used to derive muscle
// mass from body fat. It is a heuristic, not a published method.
const essentialTissueOffset = 32.0

// EstimateBodyFatPercent estimates body fat using the U.S. Navy circumference
// method. All inputs are centimeters. Returns nil when the estimate cannot be
// computed: estimation is best-effort enrichment, never an error.
//
// Height, neck and waist are required for both sexes; hip additionally for
// the female branch. The result is clamped to [2, 60] and rounded to one
// decimal place.
func EstimateBodyFatPercent(heightCm, neckCm, waistCm, hipCm *float64, sex Sex) *float64 {
	if !positive(heightCm) || !positive(neckCm) || !positive(waistCm) {
		return nil
	}

	var bf float64
	switch sex {
	case SexMale:
		girth := *waistCm - *neckCm
		if girth <= 0 {
			return nil
		}
		bf = 495/(1.0324-0.19077*math.Log10(girth)+0.15456*math.Log10(*heightCm)) - 450
	case SexFemale:
		if !positive(hipCm) {
			return nil
		}
		girth := *waistCm + *hipCm - *neckCm
		if girth <= 0 {
			return nil
		}
		bf = 495/(1.29579-0.35004*math.Log10(girth)+0.22100*math.Log10(*heightCm)) - 450
	default:
		return nil
	}

	bf = clamp(bf, 2, 60)
	bf = Round1(bf)
	return &bf
}

// EstimateMuscleMassPercent derives an estimated muscle-mass percentage from
// a body-fat percentage. Nil in, nil out. The result is clamped to [0, 100]
// and rounded to one decimal place.
func EstimateMuscleMassPercent(bodyFatPercent *float64) *float64 {
	if bodyFatPercent == nil || math.IsNaN(*bodyFatPercent) || math.IsInf(*bodyFatPercent, 0) {
		return nil
	}
	mm := clamp(100-*bodyFatPercent-essentialTissueOffset, 0, 100)
	mm = Round1(mm)
	return &mm
}

// Round1 rounds to one decimal place, decimal halves away from zero. A float
// subtraction can leave the scaled value a hair short of the decimal half
// (80.04-80.19 is -0.14999999999999147), so nudge it outward before rounding.
func Round1(v float64) float64 {
	return math.Round(v*10+math.Copysign(1e-9, v)) / 10
}

func positive(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0) && *v > 0
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
