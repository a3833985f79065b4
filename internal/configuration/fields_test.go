package configuration

import (
	"testing"

	"github.com/fjod/go_ordering/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletionPercentage_EmptyTestConfig(t *testing.T) {
	assert.Equal(t, 0, CompletionPercentage(domain.ItemTypeTest, map[string]any{}))
	assert.Equal(t, []string{"Test Date", "Test Time", "Test Centre"},
		MissingFields(domain.ItemTypeTest, map[string]any{}))
}

func TestCompletionPercentage_Partial(t *testing.T) {
	config := map[string]any{
		"testDetails": map[string]any{"testDate": "2025-01-01"},
	}
	assert.Equal(t, 33, CompletionPercentage(domain.ItemTypeTest, config))
	assert.Equal(t, []string{"Test Time", "Test Centre"},
		MissingFields(domain.ItemTypeTest, config))
}

func TestCompletionPercentage_Complete(t *testing.T) {
	config := map[string]any{
		"testDetails": map[string]any{
			"testDate":   "2025-01-01",
			"testTime":   "09:00",
			"testCentre": "Croydon",
		},
	}
	assert.Equal(t, 100, CompletionPercentage(domain.ItemTypeTest, config))
	assert.Empty(t, MissingFields(domain.ItemTypeTest, config))
}

func TestCompletionPercentage_UnknownTypeIsComplete(t *testing.T) {
	assert.Equal(t, 100, CompletionPercentage(domain.ItemTypeOther, nil))
	assert.Empty(t, MissingFields(domain.ItemTypeOther, nil))
	assert.Empty(t, RequiredFields(domain.ItemTypeOther))
}

func TestEmptyStringCountsAsMissing(t *testing.T) {
	config := map[string]any{
		"cardDetails": map[string]any{"cardType": ""},
	}
	assert.Equal(t, 0, CompletionPercentage(domain.ItemTypeCard, config))

	config["cardDetails"].(map[string]any)["cardType"] = "CSCS Green"
	assert.Equal(t, 100, CompletionPercentage(domain.ItemTypeCard, config))
}

// Filling any one missing field never decreases the percentage.
func TestCompletionMonotonicity(t *testing.T) {
	for itemType, fields := range requiredByType {
		config := map[string]any{}
		last := CompletionPercentage(itemType, config)
		for _, f := range fields {
			var err error
			config, err = Merge(config, patchForPath(f.Path, "filled"))
			require.NoError(t, err)
			pct := CompletionPercentage(itemType, config)
			assert.GreaterOrEqual(t, pct, last, "type %s field %s", itemType, f.Path)
			last = pct
		}
		assert.Equal(t, 100, last, "type %s", itemType)
	}
}

func patchForPath(path, value string) map[string]any {
	patch := map[string]any{}
	current := patch
	segments := splitPath(path)
	for i, seg := range segments {
		if i == len(segments)-1 {
			current[seg] = value
			break
		}
		next := map[string]any{}
		current[seg] = next
		current = next
	}
	return patch
}

func splitPath(path string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(path); i++ {
		if i == len(path) || path[i] == '.' {
			out = append(out, path[start:i])
			start = i + 1
		}
	}
	return out
}
