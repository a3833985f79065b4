// Package configuration evaluates and merges the type-specific
// configuration blobs cart items need before they can be ordered.
package configuration

import (
	"math"
	"strings"

	"github.com/fjod/go_ordering/internal/domain"
)

// Field is one required configuration entry: a dotted path into the blob
// and the human label used in validation messages.
type Field struct {
	Path  string
	Label string
}

var requiredByType = map[domain.ItemType][]Field{
	domain.ItemTypeCard: {
		{Path: "cardDetails.cardType", Label: "Card Type"},
	},
	domain.ItemTypeTest: {
		{Path: "testDetails.testDate", Label: "Test Date"},
		{Path: "testDetails.testTime", Label: "Test Time"},
		{Path: "testDetails.testCentre", Label: "Test Centre"},
	},
	domain.ItemTypeCourse: {
		{Path: "courseDetails.startDate", Label: "Start Date"},
		{Path: "courseDetails.location", Label: "Location"},
		{Path: "courseDetails.courseType", Label: "Course Type"},
	},
	domain.ItemTypeQualification: {
		{Path: "qualificationDetails.level", Label: "Level"},
		{Path: "qualificationDetails.type", Label: "Type"},
	},
}

// RequiredFields returns the required-field set for an item type. Unknown
// types have no requirements and are treated as fully configured.
func RequiredFields(t domain.ItemType) []Field {
	fields := requiredByType[t]
	out := make([]Field, len(fields))
	copy(out, fields)
	return out
}

// CompletionPercentage reports how much of the required configuration is
// filled, 0-100. A type with no required fields is 100% complete.
func CompletionPercentage(t domain.ItemType, config map[string]any) int {
	required := requiredByType[t]
	if len(required) == 0 {
		return 100
	}
	completed := 0
	for _, f := range required {
		if present(lookup(config, f.Path)) {
			completed++
		}
	}
	return int(math.Round(100 * float64(completed) / float64(len(required))))
}

// MissingFields returns the human labels of unfilled required fields,
// empty when the configuration is complete.
func MissingFields(t domain.ItemType, config map[string]any) []string {
	var missing []string
	for _, f := range requiredByType[t] {
		if !present(lookup(config, f.Path)) {
			missing = append(missing, f.Label)
		}
	}
	return missing
}

// lookup walks a dotted path against the configuration object.
func lookup(config map[string]any, path string) any {
	var current any = config
	for _, segment := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current = m[segment]
	}
	return current
}

// A field counts as missing when any path segment resolves to nil,
// absent, or the empty string.
func present(v any) bool {
	if v == nil {
		return false
	}
	if s, ok := v.(string); ok && s == "" {
		return false
	}
	return true
}
