package httpstore

import (
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"

	"github.com/riskibarqy/hr-admin/internal/domain/asset"
	"github.com/riskibarqy/hr-admin/internal/platform/resilience"
)

func startStorageServer(t *testing.T, handler fasthttp.RequestHandler) *fasthttp.Client {
	t.Helper()

	ln := fasthttputil.NewInmemoryListener()
	server := &fasthttp.Server{Handler: handler}
	go func() {
		_ = server.Serve(ln)
	}()
	t.Cleanup(func() {
		_ = server.Shutdown()
		_ = ln.Close()
	})

	return &fasthttp.Client{
		Dial: func(string) (net.Conn, error) {
			return ln.Dial()
		},
	}
}

func newTestClient(t *testing.T, handler fasthttp.RequestHandler, breaker resilience.Config) *Client {
	t.Helper()
	client, err := NewClient(startStorageServer(t, handler), Config{
		BaseURL:        "http://storage.internal/",
		Token:          "secret",
		Timeout:        time.Second,
		CircuitBreaker: breaker,
	}, nil)
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	return client
}

func TestClient_Put_Success(t *testing.T) {
	var gotPath, gotAuth, gotType string
	var gotBody []byte
	client := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
		gotPath = string(ctx.Path())
		gotAuth = string(ctx.Request.Header.Peek("Authorization"))
		gotType = string(ctx.Request.Header.ContentType())
		gotBody = append([]byte(nil), ctx.PostBody()...)
		ctx.SetContentType("application/json")
		ctx.SetBodyString(`{"url":"https://cdn.example.com/profile-images/a.png"}`)
	}, resilience.Config{})

	stored, err := client.Put(t.Context(), asset.Object{Key: "profile-images/a.png", ContentType: "image/png", Data: []byte("png")})
	if err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if stored.URL != "https://cdn.example.com/profile-images/a.png" {
		t.Fatalf("unexpected url: %s", stored.URL)
	}
	if gotPath != "/objects/profile-images/a.png" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("unexpected authorization header: %s", gotAuth)
	}
	if gotType != "image/png" || string(gotBody) != "png" {
		t.Fatalf("unexpected payload: type=%s body=%s", gotType, gotBody)
	}
}

func TestClient_Put_RejectsUnexpectedShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "extra fields", body: `{"url":"https://cdn.example.com/a.png","status":"pending"}`},
		{name: "missing url", body: `{}`},
		{name: "not json", body: `ok`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
				ctx.SetBodyString(tc.body)
			}, resilience.Config{})

			_, err := client.Put(t.Context(), asset.Object{Key: "a.png", ContentType: "image/png", Data: []byte("png")})
			if !errors.Is(err, asset.ErrStorageUnavailable) {
				t.Fatalf("expected ErrStorageUnavailable, got %v", err)
			}
		})
	}
}

func TestClient_Put_OpensCircuitOnServerErrors(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
		calls.Add(1)
		ctx.SetStatusCode(fasthttp.StatusServiceUnavailable)
	}, resilience.Config{Enabled: true, FailureThreshold: 2, OpenTimeout: time.Minute, HalfOpenMaxReq: 1})

	object := asset.Object{Key: "a.png", ContentType: "image/png", Data: []byte("png")}
	for i := 0; i < 2; i++ {
		if _, err := client.Put(t.Context(), object); !errors.Is(err, asset.ErrStorageUnavailable) {
			t.Fatalf("expected ErrStorageUnavailable, got %v", err)
		}
	}

	_, err := client.Put(t.Context(), object)
	if !errors.Is(err, resilience.ErrCircuitOpen) {
		t.Fatalf("expected open circuit, got %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected 2 upstream calls, got %d", got)
	}
}

func TestNewClient_InvalidBaseURL(t *testing.T) {
	if _, err := NewClient(nil, Config{BaseURL: "storage.internal"}, nil); err == nil {
		t.Fatalf("expected error for base url without scheme")
	}
}
