package conneg

import (
	"sort"
	"strings"
)

// identity is the no-transformation content-coding. RFC 7231 Section 5.3.4
// makes it acceptable at q=1 whenever the client does not mention it (or a
// wildcard covering it); the weight of 1 is a policy choice inherited from
// that default, not a protocol invariant.
const (
	identityEncoding = "identity"
	identityWeight   = 1
)

// Default weights for media-type wildcards the client sent without an
// explicit q. A client saying "*/*" is expressing indifference, not
// preference, so wildcards rank below any concretely named type.
const (
	fullWildcardWeight    = 0.01
	partialWildcardWeight = 0.02
)

// Negotiate pairs every server value with its best-matching client
// preference under the given strategy.
//
// For each server value, in input order: all matching client values are
// collected; the most specific one (per strategy.Compare, stable) is
// selected; the pairing is emitted with score = server.Weight *
// client.Weight unless the score is zero or negative — a weight of 0
// explicitly vetoes a value. Results come back sorted by descending score,
// ties keeping server input order. An empty result is the "no acceptable
// value" outcome, not an error.
//
// Neither input needs to be pre-sorted; client lists usually go through
// ResolveWeights first.
func Negotiate(client, server []Value, strategy Strategy) []Result {
	var results []Result
	for _, sv := range server {
		var matched []Value
		for _, cv := range client {
			if strategy.Matches(sv, cv) {
				matched = append(matched, cv)
			}
		}
		if len(matched) == 0 {
			continue
		}
		sort.SliceStable(matched, func(i, j int) bool {
			return strategy.Compare(sv, matched[i], matched[j]) < 0
		})

		best := matched[0]
		score := sv.Weight * best.Weight
		if score <= 0 {
			continue
		}
		results = append(results, Result{Server: sv, Client: best, Score: score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

// NegotiateEncoding selects the server content-coding best matching the
// client's Accept-Encoding preferences.
//
// An empty client list means no Accept-Encoding header was present, which
// per RFC 7231 means the client accepts anything: the greatest-weight
// server value wins outright. Otherwise, when the client mentions neither
// "identity" nor "*", an implicit identity;q=1 entry is prepended before
// negotiating with the Wildcard strategy.
//
// The second return is false when nothing is acceptable (the caller's cue
// for 406 or an identity fallback).
func NegotiateEncoding(client, server []Value) (Value, bool) {
	if len(client) == 0 {
		return bestByWeight(server)
	}

	covered := false
	for _, cv := range client {
		if cv.Name == identityEncoding || cv.Name == "*" {
			covered = true
			break
		}
	}
	if !covered {
		implicit := Value{Name: identityEncoding, Weight: identityWeight}
		client = append([]Value{implicit}, client...)
	}

	results := Negotiate(ResolveWeights(client), server, Wildcard)
	if len(results) == 0 {
		return Value{}, false
	}
	return results[0].Server, true
}

// NegotiateType selects the server media type best matching the client's
// Accept preferences.
//
// An empty client list means no Accept header was present: the
// greatest-weight server value wins outright. Otherwise client wildcard
// ranges without an explicit (valid) q are demoted to the RFC-implied
// defaults — 0.01 for "*/*", 0.02 for one-segment wildcards — so a concrete
// type always beats an indifferent wildcard; explicit q values are kept
// unconditionally. Negotiation runs with the MediaRange strategy.
func NegotiateType(client, server []Value) (Value, bool) {
	if len(client) == 0 {
		return bestByWeight(server)
	}

	adjusted := make([]Value, len(client))
	for i, cv := range client {
		if _, explicit := explicitWeight(cv); !explicit {
			if w, ok := wildcardDefault(cv.Name); ok {
				cv.Weight = w
			}
		}
		adjusted[i] = cv
	}

	results := Negotiate(ResolveWeights(adjusted), server, MediaRange)
	if len(results) == 0 {
		return Value{}, false
	}
	return results[0].Server, true
}

// wildcardDefault reports the default weight for a wildcard media range,
// and whether name is one at all.
func wildcardDefault(name string) (float64, bool) {
	typ, sub := splitMediaRange(name)
	switch {
	case typ == "*" && sub == "*":
		return fullWildcardWeight, true
	case typ == "*" || sub == "*":
		return partialWildcardWeight, true
	}
	return 0, false
}

// bestByWeight returns the greatest-weight server value, ties broken by
// input order. Used when the client sent no preference header at all.
func bestByWeight(server []Value) (Value, bool) {
	if len(server) == 0 {
		return Value{}, false
	}
	best := server[0]
	for _, sv := range server[1:] {
		if sv.Weight > best.Weight {
			best = sv
		}
	}
	return best, true
}

// isMediaRange reports whether a name looks like "type/subtype".
func isMediaRange(name string) bool {
	return name == "*" || strings.Contains(name, "/")
}
