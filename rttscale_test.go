package main

import "testing"

func Test_rttUnitFromString(t *testing.T) {
	tests := []struct {
		in   string
		want rttUnit
	}{
		{"ms", rttInMills},
		{"s", rttInSeconds},
		{"both", rttBoth},
		{"us", rttInvalid},
		{"", rttInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := rttUnitFromString(tt.in)
			if got != tt.want {
				t.Errorf("rttUnitFromString(%q) = %v, want %v", tt.in, got, tt.want)
			}
			if got != rttInvalid && got.String() != tt.in {
				t.Errorf("rttUnit.String() = %q, want %q", got.String(), tt.in)
			}
		})
	}
}
