package otp

import (
	"testing"
)

func intPtr(value int) *int {
	return &value
}

func TestThresholds_Classify(t *testing.T) {
	thresholds := Thresholds{
		EarlySeconds: -60,
		LateSeconds:  300,
	}
	tests := []struct {
		name         string
		delaySeconds *int
		want         *bool
	}{
		{
			name:         "on time zero delay",
			delaySeconds: intPtr(0),
			want:         boolPtr(true),
		},
		{
			name:         "on time within late threshold",
			delaySeconds: intPtr(120),
			want:         boolPtr(true),
		},
		{
			name:         "late beyond threshold",
			delaySeconds: intPtr(400),
			want:         boolPtr(false),
		},
		{
			name:         "early boundary is on time",
			delaySeconds: intPtr(-60),
			want:         boolPtr(true),
		},
		{
			name:         "late boundary is on time",
			delaySeconds: intPtr(300),
			want:         boolPtr(true),
		},
		{
			name:         "just past early boundary",
			delaySeconds: intPtr(-61),
			want:         boolPtr(false),
		},
		{
			name:         "just past late boundary",
			delaySeconds: intPtr(301),
			want:         boolPtr(false),
		},
		{
			name:         "unknown delay stays unknown",
			delaySeconds: nil,
			want:         nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := thresholds.Classify(tt.delaySeconds)
			if tt.want == nil {
				if got != nil {
					t.Errorf("Classify() = %v, want nil", *got)
				}
				return
			}
			if got == nil {
				t.Errorf("Classify() = nil, want %v", *tt.want)
				return
			}
			if *got != *tt.want {
				t.Errorf("Classify() = %v, want %v", *got, *tt.want)
			}
		})
	}
}

func boolPtr(value bool) *bool {
	return &value
}
