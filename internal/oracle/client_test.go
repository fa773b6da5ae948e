package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "test-model" {
			t.Errorf("expected test-model, got %s", req.Model)
		}
		if req.Stream {
			t.Error("stream should be disabled")
		}
		json.NewEncoder(w).Encode(chatResponse{
			Message: chatMessage{Role: "assistant", Content: "  INCREASE\n"},
		})
	}))
	defer server.Close()

	client := NewClientWith(server.URL, "test-model", server.Client())
	got, err := client.Complete(context.Background(), "trend?", 0.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "INCREASE" {
		t.Errorf("expected trimmed INCREASE, got %q", got)
	}
}

func TestClient_Complete_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClientWith(server.URL, "test-model", server.Client())
	_, err := client.Complete(context.Background(), "trend?", 0.0)
	if !errors.Is(err, ErrOracleUnavailable) {
		t.Errorf("expected ErrOracleUnavailable, got %v", err)
	}
}

func TestPriceClient_Lookup(t *testing.T) {
	price := 42.5
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("product"); got != "product_7" {
			t.Errorf("unexpected product: %s", got)
		}
		json.NewEncoder(w).Encode(priceResponse{Price: &price})
	}))
	defer server.Close()

	client := NewPriceClientWith(server.URL, server.Client())
	got, err := client.Lookup(context.Background(), "product_7")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || *got != price {
		t.Errorf("expected %v, got %v", price, got)
	}
}

func TestPriceClient_Lookup_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := NewPriceClientWith(server.URL, server.Client())
	got, err := client.Lookup(context.Background(), "product_7")
	if err != nil {
		t.Fatalf("absence should not be an error, got %v", err)
	}
	if got != nil {
		t.Errorf("expected nil price, got %v", *got)
	}
}

func TestPriceClient_Lookup_Unconfigured(t *testing.T) {
	client := NewPriceClientWith("", nil)
	got, err := client.Lookup(context.Background(), "product_7")
	if err != nil || got != nil {
		t.Errorf("unconfigured client must be a no-op, got (%v, %v)", got, err)
	}
}
