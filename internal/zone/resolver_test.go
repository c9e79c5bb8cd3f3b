package zone

import "testing"

func TestDemoResolverThresholds(t *testing.T) {
	tests := []struct {
		name     string
		lat, lng float64
		want     string
	}{
		{"high latitude wins regardless of longitude", 48.87, 2.30, "PARIS_DEMO_1"},
		{"high latitude with high longitude", 48.90, 2.50, "PARIS_DEMO_1"},
		{"latitude boundary", 48.86, 0, "PARIS_DEMO_1"},
		{"low latitude, high longitude", 48.80, 2.36, "PARIS_DEMO_2"},
		{"low latitude, low longitude", 48.80, 2.30, "PARIS_DEMO_3"},
		{"just under both thresholds", 48.8599, 2.3599, "PARIS_DEMO_3"},
	}
	var r DemoResolver
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Resolve(tt.lat, tt.lng); got != tt.want {
				t.Errorf("Resolve(%v, %v) = %q, want %q", tt.lat, tt.lng, got, tt.want)
			}
		})
	}
}

func TestHealthZoneIsReachable(t *testing.T) {
	// The health check probes a fixed zone; the default branch must still
	// produce it or the check can never pass.
	if got := (DemoResolver{}).Resolve(0, 0); got != HealthZoneID {
		t.Errorf("default branch = %q, want %q", got, HealthZoneID)
	}
}
