package conneg

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOffers(t *testing.T) *Offers {
	t.Helper()
	offers, err := NewOffers(
		[]string{"text/html", "application/json;q=0.8"},
		[]string{"gzip", "identity;q=0.5"},
	)
	require.NoError(t, err)
	return offers
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewOffersRejectsInvalid(t *testing.T) {
	tests := []struct {
		name      string
		types     []string
		encodings []string
	}{
		{"wildcard type", []string{"text/*"}, nil},
		{"bare star type", []string{"*"}, nil},
		{"type without subtype", []string{"text"}, nil},
		{"empty type token", []string{";q=1"}, nil},
		{"wildcard encoding", nil, []string{"*"}},
		{"control character", nil, []string{"gz\x00ip"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewOffers(tt.types, tt.encodings)
			assert.Error(t, err)
		})
	}
}

func TestMiddlewareStoresNegotiatedContext(t *testing.T) {
	var seen *Negotiated
	handler := Middleware(testOffers(t), discard())(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			seen = GetNegotiated(r.Context())
			w.WriteHeader(http.StatusOK)
		}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip, br")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "application/json", seen.Type.Name)
	assert.Equal(t, "gzip", seen.Encoding.Name)
}

func TestMiddlewareNoHeadersPicksServerPreference(t *testing.T) {
	var seen *Negotiated
	handler := Middleware(testOffers(t), discard())(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			seen = GetNegotiated(r.Context())
		}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotNil(t, seen)
	assert.Equal(t, "text/html", seen.Type.Name, "highest-weight offer wins without Accept")
	assert.Equal(t, "gzip", seen.Encoding.Name)
}

func TestMiddlewareNotAcceptableType(t *testing.T) {
	handler := Middleware(testOffers(t), discard())(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler must not run on 406")
		}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept", "image/png")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotAcceptable, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "not_acceptable", resp.Error.Code)
	assert.NotEmpty(t, resp.Error.Message)
}

func TestMiddlewareNotAcceptableEncoding(t *testing.T) {
	handler := Middleware(testOffers(t), discard())(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler must not run on 406")
		}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "br, identity;q=0, *;q=0")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotAcceptable, rec.Code)

	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "encoding_not_acceptable", resp.Error.Code)
}

func TestMiddlewareVaryAndVariants(t *testing.T) {
	handler := Middleware(testOffers(t), discard())(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.ElementsMatch(t, []string{"Accept", "Accept-Encoding"}, rec.Header().Values("Vary"))

	variants := rec.Header().Get("Variants")
	assert.Contains(t, variants, "accept=(text/html application/json)")
	assert.Contains(t, variants, "accept-encoding=(gzip identity)")
}

func TestMiddlewareSingleAxis(t *testing.T) {
	offers, err := NewOffers(nil, []string{"gzip", "br"})
	require.NoError(t, err)

	var seen *Negotiated
	handler := Middleware(offers, discard())(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			seen = GetNegotiated(r.Context())
		}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept", "image/png") // ignored: no type offers configured
	req.Header.Set("Accept-Encoding", "br")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.NotNil(t, seen)
	assert.Empty(t, seen.Type.Name)
	assert.Equal(t, "br", seen.Encoding.Name)
	assert.Equal(t, []string{"Accept-Encoding"}, rec.Header().Values("Vary"))
}

func TestGetNegotiatedMissing(t *testing.T) {
	assert.Nil(t, GetNegotiated(context.Background()))
}
