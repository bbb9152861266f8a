package domain_test

import (
	"math"
	"testing"
	"time"

	"coachfit/internal/domain"
)

func almostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

func f(v float64) *float64 { return &v }

func TestEstimateBodyFatPercent(t *testing.T) {
	tests := []struct {
		name                    string
		height, neck, waist, hip *float64
		sex                     domain.Sex
		want                    *float64
	}{
		{"male typical", f(180), f(38), f(85), nil, domain.SexMale, f(16.1)},
		{"male lean", f(175), f(40), f(80), nil, domain.SexMale, f(11.1)},
		{"female typical", f(165), f(34), f(75), f(98), domain.SexFemale, f(27.9)},
		{"male high clamps below 60", f(170), f(35), f(140), nil, domain.SexMale, f(49.2)},
		{"male clamp low", f(190), f(39), f(42), nil, domain.SexMale, f(2.0)},
		{"missing height", nil, f(38), f(85), nil, domain.SexMale, nil},
		{"missing neck", f(180), nil, f(85), nil, domain.SexMale, nil},
		{"missing waist", f(180), f(38), nil, nil, domain.SexMale, nil},
		{"female missing hip", f(165), f(34), f(75), nil, domain.SexFemale, nil},
		{"zero height", f(0), f(38), f(85), nil, domain.SexMale, nil},
		{"negative waist", f(180), f(38), f(-85), nil, domain.SexMale, nil},
		{"male waist not above neck", f(180), f(40), f(40), nil, domain.SexMale, nil},
		{"unknown sex", f(180), f(38), f(85), nil, domain.Sex(""), nil},
		{"nan waist", f(180), f(38), f(math.NaN()), nil, domain.SexMale, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := domain.EstimateBodyFatPercent(tc.height, tc.neck, tc.waist, tc.hip, tc.sex)
			if tc.want == nil {
				if got != nil {
					t.Fatalf("expected nil, got %v", *got)
				}
				return
			}
			if got == nil {
				t.Fatalf("expected %v, got nil", *tc.want)
			}
			if !almostEqual(*got, *tc.want, 0.051) {
				t.Errorf("got %v; want %v", *got, *tc.want)
			}
		})
	}
}

func TestEstimateBodyFatPercent_Range(t *testing.T) {
	heights := []float64{150, 165, 180, 200}
	necks := []float64{30, 36, 42}
	waists := []float64{60, 85, 120, 160}
	for _, h := range heights {
		for _, n := range necks {
			for _, w := range waists {
				got := domain.EstimateBodyFatPercent(f(h), f(n), f(w), nil, domain.SexMale)
				if got == nil {
					continue
				}
				if *got < 2 || *got > 60 {
					t.Errorf("EstimateBodyFatPercent(%v, %v, %v) = %v out of [2, 60]", h, n, w, *got)
				}
			}
		}
	}
}

func TestEstimateMuscleMassPercent(t *testing.T) {
	tests := []struct {
		name    string
		bodyFat *float64
		want    *float64
	}{
		{"typical", f(16.1), f(51.9)},
		{"high body fat", f(60), f(8.0)},
		{"low body fat", f(2), f(66.0)},
		{"nil in nil out", nil, nil},
		{"nan in nil out", f(math.NaN()), nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := domain.EstimateMuscleMassPercent(tc.bodyFat)
			if tc.want == nil {
				if got != nil {
					t.Fatalf("expected nil, got %v", *got)
				}
				return
			}
			if got == nil {
				t.Fatalf("expected %v, got nil", *tc.want)
			}
			if !almostEqual(*got, *tc.want, 0.001) {
				t.Errorf("got %v; want %v", *got, *tc.want)
			}
			if *got < 0 || *got > 100 {
				t.Errorf("result %v out of [0, 100]", *got)
			}
		})
	}
}

func TestRound1(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{1.24, 1.2},
		{1.25, 1.3},
		{-1.25, -1.3},
		{0, 0},
		{2.05, 2.1},
		{1.15, 1.2},
		{-1.15, -1.2},
		{1.1499999, 1.1},
	}
	for _, tc := range tests {
		if got := domain.Round1(tc.in); got != tc.want {
			t.Errorf("Round1(%v) = %v; want %v", tc.in, got, tc.want)
		}
	}
}

func TestRound1_FloatDifference(t *testing.T) {
	// 80.04-80.19 evaluates to -0.14999999999999147 in binary; the decimal
	// difference is -0.15 and must round away from zero.
	if got := domain.Round1(80.04 - 80.19); got != -0.2 {
		t.Errorf("Round1(80.04-80.19) = %v; want -0.2", got)
	}
	if got := domain.Round1(80.19 - 80.04); got != 0.2 {
		t.Errorf("Round1(80.19-80.04) = %v; want 0.2", got)
	}
}

func TestNormalizeDate(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	in := time.Date(2024, 3, 10, 23, 45, 12, 99, loc)
	got := domain.NormalizeDate(in)
	want := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("NormalizeDate(%v) = %v; want %v", in, got, want)
	}
	// Two submissions on the same local day normalize identically.
	later := time.Date(2024, 3, 10, 8, 0, 0, 0, loc)
	if !domain.NormalizeDate(later).Equal(got) {
		t.Error("same local day normalized to different dates")
	}
}
