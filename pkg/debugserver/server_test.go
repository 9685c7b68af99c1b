package debugserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/decker502/arena/pkg/config"
	"github.com/decker502/arena/pkg/session"
)

func startServer(t *testing.T) *httptest.Server {
	t.Helper()
	content, err := config.LoadContent(os.ReadFile, "../../data")
	if err != nil {
		t.Fatalf("LoadContent() failed: %v", err)
	}
	s, err := session.New(content, session.Options{Seed: 7})
	if err != nil {
		t.Fatalf("session.New() failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go s.Run(ctx, 5*time.Millisecond)

	srv := httptest.NewServer(NewRouter(s))
	t.Cleanup(func() {
		srv.Close()
		cancel()
		s.Close()
	})
	return srv
}

func do(t *testing.T, method, url string, out any) int {
	t.Helper()
	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, url, err)
		}
	}
	return resp.StatusCode
}

func TestLevels(t *testing.T) {
	srv := startServer(t)

	var levels []levelInfo
	if code := do(t, http.MethodGet, srv.URL+"/levels", &levels); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if len(levels) != 3 || levels[0].Name != "Easy" || levels[0].Waves != 10 {
		t.Errorf("levels = %+v", levels)
	}
	if !levels[2].Endless {
		t.Errorf("%s should be endless", levels[2].Name)
	}
}

func TestWaveControl(t *testing.T) {
	srv := startServer(t)

	var snap session.Snapshot
	if code := do(t, http.MethodGet, srv.URL+"/state", &snap); code != http.StatusOK || snap.Phase != "PREGAME" {
		t.Fatalf("initial state: %d %+v", code, snap)
	}

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"next wave without level", http.MethodPost, "/waves/next", http.StatusConflict},
		{"unknown level", http.MethodPost, "/levels/Nowhere/start", http.StatusNotFound},
		{"start level", http.MethodPost, "/levels/Easy/start", http.StatusOK},
		{"force while in progress", http.MethodPost, "/waves/5/force", http.StatusConflict},
		{"bad wave number", http.MethodPost, "/waves/abc/force", http.StatusBadRequest},
		{"next while in progress", http.MethodPost, "/waves/next", http.StatusConflict},
		{"get on post route", http.MethodGet, "/waves/next", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code := do(t, tt.method, srv.URL+tt.path, nil); code != tt.want {
				t.Errorf("%s %s = %d, want %d", tt.method, tt.path, code, tt.want)
			}
		})
	}

	if code := do(t, http.MethodGet, srv.URL+"/state", &snap); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if snap.Level != "Easy" || snap.Wave != 1 || !snap.InProgress {
		t.Errorf("state after start = %+v", snap)
	}
}
