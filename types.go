// Package conneg implements proactive HTTP content negotiation per RFC 7231
// Section 5.3: given a client's weighted preferences (Accept, Accept-Encoding
// and friends) and a server's supported values, it selects the mutually-best
// value, honoring q-weights, wildcard matching, parameter-subset matching and
// media-type specificity.
//
// The core is transport-agnostic and pure: parse headers with ParseHeader,
// run Negotiate (or the NegotiateEncoding / NegotiateType wrappers) and act
// on the result. Middleware wires the same pipeline into net/http.
package conneg

// Value is one negotiable value: a name token (which may contain wildcard
// segments such as "*" or "text/*"), its attributes parsed from ";key=value"
// segments, and the resolved negotiation weight.
//
// Values are created by parsing and never mutated afterwards; negotiation
// copies before overriding weights.
type Value struct {
	// Name is the value token, e.g. "gzip" or "text/html" or "*/*".
	Name string

	// Params holds the ";key=value" attributes with unique, case-sensitive
	// keys. A "q" entry, when present, is the raw quality string.
	Params map[string]string

	// Weight is the resolved negotiation score: the parsed "q" attribute if
	// present and valid, else a default (1 for ordinary values; media-type
	// wildcards get 0.01 or 0.02 in NegotiateType). Always >= 0; a weight of
	// 0 vetoes the value.
	Weight float64
}

// Result is one server/client pairing produced by Negotiate.
// Score is Server.Weight * Client.Weight; only scores > 0 are emitted.
type Result struct {
	Server Value
	Client Value
	Score  float64
}

// contextKey is the type for context values to avoid collisions
type contextKey string

// negotiatedKey is the context key under which Middleware stores the
// negotiation outcome.
const negotiatedKey contextKey = "conneg.negotiated"
