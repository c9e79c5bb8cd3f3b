// Package zone maps geographic coordinates to the discrete zone identifiers
// used as scoring granularity.
package zone

// Resolver is deliberately narrow so the demo mapping can be replaced by a
// real spatial index without touching any caller.
type Resolver interface {
	Resolve(lat, lng float64) string
}

// DemoResolver is the coarse pilot mapping for Paris. The thresholds are
// ordered: latitude is checked first, then longitude, then the default.
// HealthZoneID must stay a reachable output of this mapping.
type DemoResolver struct{}

// HealthZoneID is the fixed zone the health check probes.
const HealthZoneID = "PARIS_DEMO_3"

func (DemoResolver) Resolve(lat, lng float64) string {
	if lat >= 48.86 {
		return "PARIS_DEMO_1"
	}
	if lng >= 2.36 {
		return "PARIS_DEMO_2"
	}
	return "PARIS_DEMO_3"
}
