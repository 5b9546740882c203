package conneg

import (
	"math"
	"strconv"
	"strings"
)

// SplitHeader splits one or more raw header values (RFC 7230 comma list
// syntax, in arrival order) into trimmed, non-empty tokens. Internal
// structure — slashes, wildcards, semicolons — is left untouched; malformed
// tokens are passed through for downstream handling.
func SplitHeader(values ...string) []string {
	var tokens []string
	for _, value := range values {
		for _, token := range strings.Split(value, ",") {
			token = strings.TrimSpace(token)
			if token != "" {
				tokens = append(tokens, token)
			}
		}
	}
	return tokens
}

// ParseValue parses one header token of the form "name[;attr=val]*".
//
// Attribute segments without "=" are dropped silently. A "q" attribute is
// parsed as a float; when it is missing, unparsable, negative or non-finite
// the weight defaults to 1. ParseValue never fails: malformed input degrades
// to a Value that simply will not match anything useful.
func ParseValue(token string) Value {
	segments := strings.Split(token, ";")
	v := Value{Name: strings.TrimSpace(segments[0]), Weight: 1}

	for _, segment := range segments[1:] {
		key, val, ok := strings.Cut(segment, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if v.Params == nil {
			v.Params = make(map[string]string, len(segments)-1)
		}
		v.Params[key] = strings.TrimSpace(val)
	}

	if w, ok := explicitWeight(v); ok {
		v.Weight = w
	}
	return v
}

// ParseHeader runs SplitHeader and ParseValue over raw header values,
// yielding one Value per token in arrival order.
func ParseHeader(values ...string) []Value {
	tokens := SplitHeader(values...)
	if len(tokens) == 0 {
		return nil
	}
	parsed := make([]Value, len(tokens))
	for i, token := range tokens {
		parsed[i] = ParseValue(token)
	}
	return parsed
}

// explicitWeight reports the parsed "q" attribute of v, and whether it is
// present and valid (finite and non-negative).
func explicitWeight(v Value) (float64, bool) {
	q, ok := v.Params["q"]
	if !ok {
		return 0, false
	}
	w, err := strconv.ParseFloat(q, 64)
	if err != nil || w < 0 || math.IsInf(w, 0) || math.IsNaN(w) {
		return 0, false
	}
	return w, true
}
