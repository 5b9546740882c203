package conneg

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/net/http/httpguts"
)

// Header names the middleware negotiates on.
const (
	acceptHeader         = "Accept"
	acceptEncodingHeader = "Accept-Encoding"
)

// Offers holds a server's negotiable representations: the media types and
// content-codings it can produce. Construct with NewOffers; a nil axis (no
// offers) disables negotiation on that axis.
type Offers struct {
	Types     []Value
	Encodings []Value
}

// NewOffers parses the server's offered media types and content-codings.
// Offers use the same token syntax as the corresponding headers, so a
// server-side q expresses preference: "text/html;q=1, application/json;q=0.8".
//
// Returns an error for an empty or non-header-safe token, or a type offer
// that is not a concrete type/subtype — server offers never contain
// wildcards.
func NewOffers(types, encodings []string) (*Offers, error) {
	o := &Offers{}
	for _, t := range types {
		v, err := parseOffer(t)
		if err != nil {
			return nil, fmt.Errorf("media type offer: %w", err)
		}
		if !isMediaRange(v.Name) || v.Name == "*" || wildcardOffer(v.Name) {
			return nil, fmt.Errorf("media type offer %q: must be a concrete type/subtype", t)
		}
		o.Types = append(o.Types, v)
	}
	for _, e := range encodings {
		v, err := parseOffer(e)
		if err != nil {
			return nil, fmt.Errorf("content-coding offer: %w", err)
		}
		if v.Name == "*" {
			return nil, fmt.Errorf("content-coding offer %q: must be concrete", e)
		}
		o.Encodings = append(o.Encodings, v)
	}
	return o, nil
}

func parseOffer(token string) (Value, error) {
	if !httpguts.ValidHeaderFieldValue(token) {
		return Value{}, fmt.Errorf("invalid token %q", token)
	}
	v := ParseValue(token)
	if v.Name == "" {
		return Value{}, fmt.Errorf("empty token %q", token)
	}
	return v, nil
}

func wildcardOffer(name string) bool {
	_, ok := wildcardDefault(name)
	return ok
}

// Negotiated is the outcome of request negotiation, stored in the request
// context for handlers. An axis with no configured offers is left as the
// zero Value.
type Negotiated struct {
	// Type is the selected media type (set the response Content-Type from it).
	Type Value

	// Encoding is the selected content-coding. It may be "identity", which
	// handlers should treat as "do not encode".
	Encoding Value
}

// Middleware negotiates Content-Type and Content-Encoding for every request
// against the configured offers. The outcome is stored in the request
// context (see GetNegotiated), and Vary plus a structured-fields Variants
// header describe the negotiated axes on the response.
//
// A request whose preferences rule out every offer on some axis is answered
// with 406 Not Acceptable and a JSON error envelope; deciding on a fallback
// representation instead is the caller's policy, in which case it should
// not use this middleware for that axis.
func Middleware(offers *Offers, logger *slog.Logger) func(http.Handler) http.Handler {
	variants := variantsValue(offers)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var negotiated Negotiated

			if len(offers.Types) > 0 {
				client := ParseHeader(r.Header.Values(acceptHeader)...)
				selected, ok := NegotiateType(client, offers.Types)
				if !ok {
					logger.Warn("no acceptable media type",
						slog.String("accept", r.Header.Get(acceptHeader)),
						slog.String("path", r.URL.Path))
					writeNotAcceptable(w, "not_acceptable",
						"none of the server's media types is acceptable")
					return
				}
				negotiated.Type = selected
				w.Header().Add("Vary", acceptHeader)
			}

			if len(offers.Encodings) > 0 {
				client := ParseHeader(r.Header.Values(acceptEncodingHeader)...)
				selected, ok := NegotiateEncoding(client, offers.Encodings)
				if !ok {
					logger.Warn("no acceptable content-coding",
						slog.String("accept_encoding", r.Header.Get(acceptEncodingHeader)),
						slog.String("path", r.URL.Path))
					writeNotAcceptable(w, "encoding_not_acceptable",
						"none of the server's content-codings is acceptable")
					return
				}
				negotiated.Encoding = selected
				w.Header().Add("Vary", acceptEncodingHeader)
			}

			if variants != "" {
				w.Header().Set("Variants", variants)
			}

			ctx := context.WithValue(r.Context(), negotiatedKey, &negotiated)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetNegotiated retrieves the negotiation outcome from the request context.
// Returns nil when the request did not pass through Middleware.
func GetNegotiated(ctx context.Context) *Negotiated {
	v := ctx.Value(negotiatedKey)
	if v == nil {
		return nil
	}
	return v.(*Negotiated)
}

// writeNotAcceptable writes the 406 error envelope.
func writeNotAcceptable(w http.ResponseWriter, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotAcceptable)

	resp := struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}{}
	resp.Error.Code = code
	resp.Error.Message = message

	json.NewEncoder(w).Encode(resp)
}
