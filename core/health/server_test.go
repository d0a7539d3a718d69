package health

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
)

func TestEndpoints(t *testing.T) {
	s := New("")
	cases := map[string]string{
		"/":       "Bot is running",
		"/health": "OK",
	}
	for path, want := range cases {
		resp, err := s.App().Test(httptest.NewRequest("GET", path, nil))
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if resp.StatusCode != 200 || string(body) != want {
			t.Fatalf("GET %s = %d %q, want 200 %q", path, resp.StatusCode, body, want)
		}
	}
}

func TestDisabledServerIsNoop(t *testing.T) {
	s := New("  ")
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := s.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
