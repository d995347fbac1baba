package transport

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

func TestDefaultHTTPSConfig(t *testing.T) {
	config := DefaultHTTPSConfig()

	if config == nil {
		t.Fatal("expected non-nil config")
	}

	if config.MinTLSVersion != TLS12 {
		t.Errorf("expected MinTLSVersion TLS12, got %d", config.MinTLSVersion)
	}
	if config.MaxTLSVersion != TLS13 {
		t.Errorf("expected MaxTLSVersion TLS13, got %d", config.MaxTLSVersion)
	}
	if len(config.CipherSuites) == 0 {
		t.Error("expected CipherSuites to be set")
	}
	if config.Timeout != 30*time.Second {
		t.Errorf("expected Timeout 30s, got %v", config.Timeout)
	}
	if config.IdleConnTimeout != 90*time.Second {
		t.Errorf("expected IdleConnTimeout 90s, got %v", config.IdleConnTimeout)
	}
}

func TestRecommendedTLS12CipherSuites(t *testing.T) {
	for _, suite := range RecommendedTLS12CipherSuites {
		name := tls.CipherSuiteName(suite)
		if name == "" {
			t.Errorf("unknown cipher suite: %d", suite)
		}
	}
}

func TestNewHTTPSClient_NilConfig(t *testing.T) {
	client := NewHTTPSClient(nil)

	if client.client == nil {
		t.Error("expected http.Client to be initialized")
	}
	if client.config == nil {
		t.Error("expected config to be set to default")
	}
}

func TestNewHTTPSClient_CustomConfig(t *testing.T) {
	client := NewHTTPSClient(&HTTPSConfig{
		MinTLSVersion: TLS13,
		MaxTLSVersion: TLS13,
		Timeout:       60 * time.Second,
	})

	if client.config.MinTLSVersion != TLS13 {
		t.Error("expected custom MinTLSVersion")
	}
	if client.client.Timeout != 60*time.Second {
		t.Errorf("expected custom Timeout, got %v", client.client.Timeout)
	}
}

func TestHTTPSClient_Send(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != ContentTypeSOAP11 {
			t.Errorf("expected content-type %q, got %q", ContentTypeSOAP11, ct)
		}
		if r.Header.Get("User-Agent") != UserAgent {
			t.Errorf("expected User-Agent %q", UserAgent)
		}
		if action := r.Header.Get("SOAPAction"); action != `"SeiAction"` {
			t.Errorf("expected quoted SOAPAction, got %q", action)
		}

		w.Header().Set("Content-Type", ContentTypeSOAP11)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("<Response/>"))
	}))
	defer server.Close()

	client := NewHTTPSClient(nil)
	defer client.CloseIdleConnections()

	response, err := client.Send(context.Background(), server.URL, []byte("<Request/>"), ContentTypeSOAP11, "SeiAction")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(response) != "<Response/>" {
		t.Errorf("unexpected response: %s", string(response))
	}
}

func TestHTTPSClient_Send_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("<Fault/>"))
	}))
	defer server.Close()

	client := NewHTTPSClient(nil)
	defer client.CloseIdleConnections()

	_, err := client.Send(context.Background(), server.URL, []byte("<Request/>"), ContentTypeSOAP11, "")
	if err == nil {
		t.Fatal("expected error for non-200 status")
	}
	if !errors.Is(err, ErrTransport) {
		t.Errorf("expected ErrTransport, got %v", err)
	}

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %T", err)
	}
	if statusErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", statusErr.StatusCode)
	}
	if string(statusErr.Body) != "<Fault/>" {
		t.Errorf("expected body to be kept, got %q", statusErr.Body)
	}
}

func TestHTTPSClient_Send_InvalidURL(t *testing.T) {
	client := NewHTTPSClient(nil)

	_, err := client.Send(context.Background(), "http://invalid.invalid.invalid:99999", []byte("<Request/>"), ContentTypeSOAP11, "")
	if err == nil {
		t.Error("expected error for invalid URL")
	}
	if !errors.Is(err, ErrTransport) {
		t.Errorf("expected ErrTransport, got %v", err)
	}
}

func TestHTTPSClient_Send_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewHTTPSClient(&HTTPSConfig{
		Timeout: 10 * time.Second,
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Send(ctx, server.URL, []byte("<Request/>"), ContentTypeSOAP11, "")
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled in chain, got %v", err)
	}
}

func TestHTTPSClient_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Query().Get("servico") != "sei" {
			t.Errorf("expected servico=sei query, got %q", r.URL.RawQuery)
		}
		w.Write([]byte("<definitions/>"))
	}))
	defer server.Close()

	client := NewHTTPSClient(nil)
	defer client.CloseIdleConnections()

	body, err := client.Get(context.Background(), server.URL+"/sei/controlador_ws.php?servico=sei")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(body) != "<definitions/>" {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestHTTPSClient_Get_NotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	client := NewHTTPSClient(nil)
	defer client.CloseIdleConnections()

	_, err := client.Get(context.Background(), server.URL)

	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 StatusError, got %v", err)
	}
}

func TestTLSConstants(t *testing.T) {
	if TLS12 != tls.VersionTLS12 {
		t.Errorf("TLS12 constant mismatch")
	}
	if TLS13 != tls.VersionTLS13 {
		t.Errorf("TLS13 constant mismatch")
	}
}
