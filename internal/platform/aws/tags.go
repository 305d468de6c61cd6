package aws

import "sort"

const (
	// TagStack marks every resource with the owning stack name. It is the
	// source of truth for discovery: teardown and status locate resources
	// purely by this tag, never by local state.
	TagStack = "aistack:stack"

	// TagManagedBy identifies resources created by this tool.
	TagManagedBy = "aistack:managed-by"

	// ManagedByValue is the value written under TagManagedBy.
	ManagedByValue = "aistack"
)

// StackTags returns the standard tag set for resources owned by a stack.
func StackTags(stack string) map[string]string {
	return map[string]string{
		TagStack:     stack,
		TagManagedBy: ManagedByValue,
	}
}

// MergeTags combines tag maps; later maps win on key collisions.
func MergeTags(maps ...map[string]string) map[string]string {
	merged := make(map[string]string)
	for _, m := range maps {
		for k, v := range m {
			merged[k] = v
		}
	}
	return merged
}

// sortedKeys returns map keys in stable order so tag lists sent to the API
// are deterministic across runs.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
