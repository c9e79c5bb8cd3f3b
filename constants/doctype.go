package constants

import "strings"

// DocType classifies the municipal document being processed.
type DocType string

const (
	DocZoning         DocType = "zoning"
	DocPermit         DocType = "permit"
	DocInfrastructure DocType = "infrastructure"
	DocRenovation     DocType = "renovation"
	DocCommercial     DocType = "commercial"
	DocUnknown        DocType = "unknown"
)

var allDocTypes = []DocType{
	DocZoning,
	DocPermit,
	DocInfrastructure,
	DocRenovation,
	DocCommercial,
	DocUnknown,
}

// DocTypeStrings returns the enum as plain strings (for prompts and validation hints).
func DocTypeStrings() []string {
	result := make([]string, len(allDocTypes))
	for i, dt := range allDocTypes {
		result[i] = string(dt)
	}
	return result
}

// ParseDocType normalizes free-form input to a DocType, defaulting to unknown.
func ParseDocType(input string) DocType {
	normalized := strings.ToLower(strings.TrimSpace(input))
	for _, dt := range allDocTypes {
		if normalized == string(dt) {
			return dt
		}
	}
	return DocUnknown
}
