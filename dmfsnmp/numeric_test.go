package dmfsnmp

import "testing"

func TestAtoi(t *testing.T) {
	tests := map[string]int{
		"3":       3,
		"  42":    42,
		"-7":      -7,
		"+5":      5,
		"12abc":   12,
		"abc":     0,
		"":        0,
		"-":       0,
		"0x10":    0,
		"1.9":     1,
		"\t\n 8z": 8,
	}
	for in, want := range tests {
		if got := atoi(in); got != want {
			t.Errorf("atoi(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestAtof(t *testing.T) {
	tests := map[string]float64{
		"0.1":    0.1,
		"128":    128,
		" 1.5V":  1.5,
		"-2.25":  -2.25,
		".5":     0.5,
		"5.":     5,
		"1e3":    1000,
		"2e":     2,
		"3E-1x":  0.3,
		"abc":    0,
		".":      0,
		"":       0,
		"+":      0,
		"10,5":   10,
		"  -0.0": 0,
	}
	for in, want := range tests {
		if got := atof(in); got != want {
			t.Errorf("atof(%q) = %v, want %v", in, got, want)
		}
	}
}
