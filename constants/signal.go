package constants

import "strings"

// SignalType is the bounded vocabulary the oracle is asked to emit.
type SignalType string

const (
	SignalPermit         SignalType = "permit"
	SignalZoning         SignalType = "zoning"
	SignalInfrastructure SignalType = "infrastructure"
	SignalRenovation     SignalType = "renovation"
	SignalCommercial     SignalType = "commercial"
	SignalUnknown        SignalType = "unknown"
)

// Impact is the oracle's judgement of a signal's effect on value.
type Impact string

const (
	ImpactPositive Impact = "positive"
	ImpactNegative Impact = "negative"
	ImpactNeutral  Impact = "neutral"
)

var allSignalTypes = []SignalType{
	SignalPermit,
	SignalZoning,
	SignalInfrastructure,
	SignalRenovation,
	SignalCommercial,
}

// SignalTypeStrings returns the emit-able types (unknown excluded; it is a
// storage default, not something the oracle should produce).
func SignalTypeStrings() []string {
	result := make([]string, len(allSignalTypes))
	for i, st := range allSignalTypes {
		result[i] = string(st)
	}
	return result
}

// CanonicalSignalType maps oracle output to the enum, defaulting to unknown.
func CanonicalSignalType(input string) SignalType {
	normalized := strings.ToLower(strings.TrimSpace(input))
	for _, st := range allSignalTypes {
		if normalized == string(st) {
			return st
		}
	}
	return SignalUnknown
}

// CanonicalImpact maps oracle output to the enum, defaulting to neutral.
func CanonicalImpact(input string) Impact {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case string(ImpactPositive):
		return ImpactPositive
	case string(ImpactNegative):
		return ImpactNegative
	default:
		return ImpactNeutral
	}
}
