package classify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func staticFrames(frame []byte) FrameProvider {
	return func(context.Context) ([]byte, error) { return frame, nil }
}

func failingFrames() FrameProvider {
	return func(context.Context) ([]byte, error) { return nil, errors.New("no camera") }
}

func TestModelSourcePredict(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req detectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if !strings.HasPrefix(req.Image, "data:image/jpeg;base64,") {
			t.Errorf("image is not a jpeg data URL: %.40s", req.Image)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"label": "distracted", "confidence": 0.92})
	}))
	defer srv.Close()

	src := NewModelSource(srv.URL, staticFrames([]byte("jpeg-bytes")), time.Second)
	ev, err := src.Predict(context.Background())
	if err != nil {
		t.Fatalf("predict failed: %v", err)
	}
	if ev.Label != LabelDistracted || ev.Confidence != 0.92 {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestModelSourceUnknownLabelIsAmbiguous(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"label": "slouching-v2", "confidence": 0.5})
	}))
	defer srv.Close()

	src := NewModelSource(srv.URL, staticFrames([]byte("f")), time.Second)
	ev, err := src.Predict(context.Background())
	if err != nil {
		t.Fatalf("predict failed: %v", err)
	}
	if ev.Label != LabelUnknown {
		t.Fatalf("label = %s, want %s", ev.Label, LabelUnknown)
	}
}

func TestModelSourceServerErrorIsUnavailable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	src := NewModelSource(srv.URL, staticFrames([]byte("f")), time.Second)
	if _, err := src.Predict(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestModelSourceFrameFailureIsUnavailable(t *testing.T) {
	t.Parallel()

	src := NewModelSource("http://127.0.0.1:0", failingFrames(), time.Second)
	if _, err := src.Predict(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestEyeSourcePredict(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		detected bool
		want     Label
	}{
		{"eyes visible means focused", true, LabelFocused},
		{"eyes hidden means distracted", false, LabelDistracted},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_ = json.NewEncoder(w).Encode(map[string]any{"eyes_detected": c.detected})
			}))
			defer srv.Close()

			src := NewEyeSource(srv.URL, staticFrames([]byte("f")), time.Second)
			ev, err := src.Predict(context.Background())
			if err != nil {
				t.Fatalf("predict failed: %v", err)
			}
			if ev.Label != c.want || ev.Confidence != 1 {
				t.Fatalf("unexpected event: %+v", ev)
			}
		})
	}
}

func TestOCRSourcePredict(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"text": "lobby chat: respawn in 3"})
	}))
	defer srv.Close()

	kw := NewKeywordClassifier(nil, nil, []string{"respawn", "lobby"}, 2)
	src := NewOCRSource(srv.URL, staticFrames([]byte("f")), kw, time.Second)
	ev, err := src.Predict(context.Background())
	if err != nil {
		t.Fatalf("predict failed: %v", err)
	}
	if ev.Label != LabelGaming {
		t.Fatalf("label = %s, want %s", ev.Label, LabelGaming)
	}
}

func TestHTTPFrames(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte{0xFF, 0xD8, 0xFF})
	}))
	defer srv.Close()

	frames := HTTPFrames(srv.URL, time.Second)
	frame, err := frames(context.Background())
	if err != nil {
		t.Fatalf("frame fetch failed: %v", err)
	}
	if len(frame) != 3 || frame[0] != 0xFF {
		t.Fatalf("unexpected frame: %v", frame)
	}
}

func TestHTTPFramesNonOKStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	frames := HTTPFrames(srv.URL, time.Second)
	if _, err := frames(context.Background()); err == nil {
		t.Fatalf("expected error on non-OK status")
	}
}
