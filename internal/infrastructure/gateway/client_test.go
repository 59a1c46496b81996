package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/haunted-sh/haunted/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := NewClient(domain.ModelSettings{Endpoint: server.URL, Name: "test-model"})
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	return client, server
}

func TestClientRejectsNonLoopbackEndpoint(t *testing.T) {
	_, err := NewClient(domain.ModelSettings{Endpoint: "http://example.com:11434"})
	if err == nil {
		t.Fatal("expected non-loopback endpoint to be refused")
	}
}

func TestClientAcceptsLocalhost(t *testing.T) {
	if _, err := NewClient(domain.ModelSettings{Endpoint: "http://localhost:11434"}); err != nil {
		t.Fatalf("localhost endpoint refused: %v", err)
	}
}

func TestInterpretExtractsCommand(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if req.Model != "test-model" {
			t.Errorf("unexpected model %q", req.Model)
		}
		json.NewEncoder(w).Encode(generateResponse{Response: "ls -la"})
	})

	got, err := client.Interpret(context.Background(), "list files")
	if err != nil {
		t.Fatalf("Interpret error: %v", err)
	}
	if got != "ls -la" {
		t.Fatalf("unexpected command %q", got)
	}
}

func TestInterpretTimeout(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	})
	client.timeout = 50 * time.Millisecond

	_, err := client.Interpret(context.Background(), "slow request")
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}

func TestInterpretUnavailable(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	server.Close()

	_, err := client.Interpret(context.Background(), "anything")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestInterpretUnparsableReply(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(generateResponse{Response: "I cannot help with that."})
	})

	_, err := client.Interpret(context.Background(), "something")
	if !errors.Is(err, ErrUnparsable) {
		t.Fatalf("expected ErrUnparsable, got %v", err)
	}
}

func TestInterpretServerError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.Interpret(context.Background(), "anything")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
