package xmldiff

import "sort"

// BuiltinIgnoredAttribute is always excluded from comparison. VTK writers
// from version 7 on emit it and it has no effect on the data.
const BuiltinIgnoredAttribute = "header_type"

// Filter decides which attributes take part in a comparison.
// The zero value ignores only the built-in name.
type Filter struct {
	ignored map[string]struct{}
}

// NewFilter returns a Filter that ignores the configured names plus the
// built-in name. The configured slice is not retained.
func NewFilter(configured []string) *Filter {
	f := &Filter{ignored: make(map[string]struct{}, len(configured)+1)}
	for _, name := range configured {
		f.ignored[name] = struct{}{}
	}
	f.ignored[BuiltinIgnoredAttribute] = struct{}{}
	return f
}

// IsIgnored reports whether the attribute with the given name is excluded.
func (f *Filter) IsIgnored(name string) bool {
	if name == BuiltinIgnoredAttribute {
		return true
	}
	if f == nil {
		return false
	}
	_, ok := f.ignored[name]
	return ok
}

// EffectiveIgnoreSet returns the sorted union of the configured names and the
// built-in name, without duplicates.
func EffectiveIgnoreSet(configured []string) []string {
	seen := map[string]bool{BuiltinIgnoredAttribute: true}
	names := []string{BuiltinIgnoredAttribute}
	for _, name := range configured {
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
