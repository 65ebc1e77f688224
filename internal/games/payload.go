package games

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// stringSliceFromPayload accepts []string or a decoded JSON array of strings.
func stringSliceFromPayload(v any) ([]string, bool) {
	switch t := v.(type) {
	case []string:
		return t, true
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

// boolFromPayload reads payload[key] as a bool; "true" and "false" strings are accepted too.
func boolFromPayload(payload map[string]any, key string) (bool, bool) {
	switch t := payload[key].(type) {
	case bool:
		return t, true
	case string:
		switch t {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return false, false
}
