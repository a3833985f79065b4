package configuration

import (
	"encoding/json"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch/v5"
)

// Merge deep-merges patch into existing per RFC 7386: nested objects are
// merged key-by-key so sibling fields are never dropped, while scalars
// and arrays replace wholesale. An explicit null in the patch clears the
// key. Neither input is mutated.
func Merge(existing, patch map[string]any) (map[string]any, error) {
	if len(patch) == 0 {
		return clone(existing), nil
	}
	if existing == nil {
		existing = map[string]any{}
	}

	existingJSON, err := json.Marshal(existing)
	if err != nil {
		return nil, fmt.Errorf("marshal existing configuration: %w", err)
	}
	patchJSON, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("marshal configuration patch: %w", err)
	}

	mergedJSON, err := jsonpatch.MergePatch(existingJSON, patchJSON)
	if err != nil {
		return nil, fmt.Errorf("merge configuration: %w", err)
	}

	var merged map[string]any
	if err := json.Unmarshal(mergedJSON, &merged); err != nil {
		return nil, fmt.Errorf("unmarshal merged configuration: %w", err)
	}
	return merged, nil
}

func clone(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	data, err := json.Marshal(m)
	if err != nil {
		return map[string]any{}
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return map[string]any{}
	}
	return out
}
