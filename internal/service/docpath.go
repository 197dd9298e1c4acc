package service

import "strings"

// pathValue walks a dot path through a decoded document.
func pathValue(doc map[string]any, path string) (any, bool) {
	var cur any = doc
	for _, p := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[p]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func pathNumber(doc map[string]any, path string) (float64, bool) {
	v, ok := pathValue(doc, path)
	if !ok {
		return 0, false
	}
	n, ok := v.(float64)
	return n, ok
}

func pathString(doc map[string]any, path string) (string, bool) {
	v, ok := pathValue(doc, path)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// pathActive reports whether the document is explicitly flagged active.
// Absent or non-boolean values do not count.
func pathActive(doc map[string]any) bool {
	v, ok := pathValue(doc, "active")
	if !ok {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

func pathStrings(doc map[string]any, path string) []string {
	v, ok := pathValue(doc, path)
	if !ok {
		return nil
	}
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, el := range arr {
		if s, ok := el.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
