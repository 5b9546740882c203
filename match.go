package conneg

import "strings"

// Strategy pairs a match predicate with a specificity comparator. Matches
// reports whether a client preference is satisfiable by a server value.
// Compare ranks two matching client candidates against a reference server
// value: negative means a is more specific (sorts first), positive means b,
// zero means equally specific. All three variants are pure.
type Strategy interface {
	Matches(server, client Value) bool
	Compare(ref, a, b Value) int
}

// The three strategy variants. Strict requires exact name equality
// (Accept-Charset style, no wildcard concept). Wildcard additionally lets
// the client send "*" (Accept-Encoding, Accept-Language). MediaRange treats
// names as "type/subtype" where either segment may be a client wildcard
// (Accept).
var (
	Strict     Strategy = strictStrategy{}
	Wildcard   Strategy = wildcardStrategy{}
	MediaRange Strategy = mediaRangeStrategy{}
)

// paramsMatch reports whether every client attribute except "q" is present
// in the server value with an identical string value. The server side may
// carry extra attributes; an empty client attribute set always matches.
// Comparison is plain string equality, no normalization.
func paramsMatch(server, client Value) bool {
	for key, val := range client.Params {
		if key == "q" {
			continue
		}
		if sv, ok := server.Params[key]; !ok || sv != val {
			return false
		}
	}
	return true
}

// paramCompare ranks a and b by how many of their attributes (excluding "q")
// the reference value shares, more shared attributes sorting first. Equal
// counts fall back to descending weight.
func paramCompare(ref, a, b Value) int {
	ca, cb := paramMatchCount(ref, a), paramMatchCount(ref, b)
	switch {
	case ca > cb:
		return -1
	case ca < cb:
		return 1
	case a.Weight > b.Weight:
		return -1
	case a.Weight < b.Weight:
		return 1
	}
	return 0
}

func paramMatchCount(ref, v Value) int {
	n := 0
	for key, val := range v.Params {
		if key == "q" {
			continue
		}
		if rv, ok := ref.Params[key]; ok && rv == val {
			n++
		}
	}
	return n
}

// compareExact orders an exact-name match before a wildcard match.
func compareExact(aExact, bExact bool) int {
	switch {
	case aExact && !bExact:
		return -1
	case !aExact && bExact:
		return 1
	}
	return 0
}

type strictStrategy struct{}

func (strictStrategy) Matches(server, client Value) bool {
	return server.Name == client.Name && paramsMatch(server, client)
}

func (strictStrategy) Compare(ref, a, b Value) int {
	return paramCompare(ref, a, b)
}

type wildcardStrategy struct{}

// Matches is asymmetric: only the client side may generalize with "*".
// Servers declare concrete capabilities, so a server-side wildcard never
// matches.
func (wildcardStrategy) Matches(server, client Value) bool {
	if client.Name != "*" && client.Name != server.Name {
		return false
	}
	return paramsMatch(server, client)
}

func (wildcardStrategy) Compare(ref, a, b Value) int {
	if d := compareExact(a.Name != "*", b.Name != "*"); d != 0 {
		return d
	}
	return paramCompare(ref, a, b)
}

type mediaRangeStrategy struct{}

func (mediaRangeStrategy) Matches(server, client Value) bool {
	st, ss := splitMediaRange(server.Name)
	ct, cs := splitMediaRange(client.Name)
	if ct != "*" && ct != st {
		return false
	}
	if cs != "*" && cs != ss {
		return false
	}
	return paramsMatch(server, client)
}

// Compare yields the usual specificity order for a concrete reference:
// exact type/subtype, then type/*, then */subtype, then */*.
func (mediaRangeStrategy) Compare(ref, a, b Value) int {
	at, as := splitMediaRange(a.Name)
	bt, bs := splitMediaRange(b.Name)
	if d := compareExact(at != "*", bt != "*"); d != 0 {
		return d
	}
	if d := compareExact(as != "*", bs != "*"); d != 0 {
		return d
	}
	return paramCompare(ref, a, b)
}

// splitMediaRange splits "type/subtype" into its segments. A bare "*"
// (some clients send it for "any type") reads as "*/*".
func splitMediaRange(name string) (string, string) {
	if name == "*" {
		return "*", "*"
	}
	typ, sub, ok := strings.Cut(name, "/")
	if !ok {
		return name, ""
	}
	return typ, sub
}
