package changelog

import "strings"

// FilterByAction returns the entries whose action matches. An empty or "all"
// action returns the input unchanged.
func FilterByAction(entries []Entry, action string) []Entry {
	if action == "" || action == "all" {
		return entries
	}
	filtered := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Action == action {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// Actions returns the distinct actions present, in first-seen order. Drives
// filter dropdowns.
func Actions(entries []Entry) []string {
	seen := make(map[string]struct{}, len(entries))
	var actions []string
	for _, e := range entries {
		if _, ok := seen[e.Action]; ok {
			continue
		}
		seen[e.Action] = struct{}{}
		actions = append(actions, e.Action)
	}
	return actions
}

// FormatActionLabel renders a snake_case action as a display label:
// "shape_created" becomes "Shape Created".
func FormatActionLabel(action string) string {
	words := strings.Split(action, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
