package server

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/hyperjump/ugcdrift/internal/config"
)

func TestServer_StopWhileStarting(t *testing.T) {
	srv, err := NewServer(&config.ServerConfig{Host: "127.0.0.1", Port: 0})
	if err != nil {
		t.Fatal(err)
	}
	if srv.server.Addr != "127.0.0.1:0" {
		t.Errorf("Addr = %q", srv.server.Addr)
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Start() }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			t.Errorf("Start returned %v, want http.ErrServerClosed", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after Stop")
	}
}

func TestServer_StopBeforeStart(t *testing.T) {
	srv, err := NewServer(&config.ServerConfig{Host: "127.0.0.1", Port: 0})
	if err != nil {
		t.Fatal(err)
	}
	if err := srv.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := srv.Start(); !errors.Is(err, http.ErrServerClosed) {
		t.Errorf("Start after Stop = %v, want http.ErrServerClosed", err)
	}
}
