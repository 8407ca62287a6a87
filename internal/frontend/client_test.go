package frontend

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gavioto/sysdb/internal/logging"
	"github.com/gavioto/sysdb/internal/store"
)

func startTestServer(t *testing.T, handler Handler) string {
	t.Helper()

	srv := NewServer(logging.Discard(), handler)
	sockPath := filepath.Join(t.TempDir(), "sysdb.sock")
	if err := srv.Listen(sockPath); err != nil {
		t.Fatalf("Listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	serveDone := make(chan error, 1)
	go func() { serveDone <- srv.Serve(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-serveDone
	})
	return sockPath
}

func TestClientPingAndList(t *testing.T) {
	s := store.New(logging.Discard())
	s.StoreHost("h1", 1)
	sockPath := startTestServer(t, NewStoreHandler(s))

	c, err := Dial(sockPath)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer c.Close()

	if err := c.Ping(); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	sub, body, err := c.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if sub != SubtypeHost {
		t.Fatalf("subtype = %v, want SubtypeHost", sub)
	}
	if !strings.Contains(string(body), `"h1"`) {
		t.Fatalf("List body missing h1: %q", body)
	}
}

func TestClientPingSurfacesErrorReply(t *testing.T) {
	handler := func(code Code, payload []byte) (Code, []byte, error) {
		return CodeError, []byte("boom"), nil
	}
	sockPath := startTestServer(t, handler)

	c, err := Dial(sockPath)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer c.Close()

	err = c.Ping()
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("Ping error = %v, want it to mention 'boom'", err)
	}
}
