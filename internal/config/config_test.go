package config

import (
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	t.Parallel()

	cfg := Defaults()

	if cfg.DistractionThreshold != 15 {
		t.Fatalf("DistractionThreshold = %d, want 15", cfg.DistractionThreshold)
	}
	if cfg.RecoveryThreshold != 2 {
		t.Fatalf("RecoveryThreshold = %d, want 2", cfg.RecoveryThreshold)
	}
	if cfg.AlarmFrequencyHz != 1200 || cfg.AlarmToneDuration != 400*time.Millisecond {
		t.Fatalf("unexpected alarm defaults: %dHz %s", cfg.AlarmFrequencyHz, cfg.AlarmToneDuration)
	}
	if cfg.BurstCount != 3 || cfg.BurstPause != 10*time.Second {
		t.Fatalf("unexpected burst defaults: count=%d pause=%s", cfg.BurstCount, cfg.BurstPause)
	}
	if cfg.SessionDuration != 25*time.Minute {
		t.Fatalf("SessionDuration = %s, want 25m", cfg.SessionDuration)
	}
	if cfg.PostureInterval != time.Second || cfg.ScreenInterval != 10*time.Second {
		t.Fatalf("unexpected poll intervals: %s / %s", cfg.PostureInterval, cfg.ScreenInterval)
	}
	if len(cfg.StudyKeywords) == 0 || len(cfg.CodeKeywords) == 0 || len(cfg.GameKeywords) == 0 {
		t.Fatalf("keyword defaults must not be empty")
	}
	if cfg.WakeWord == "" || cfg.FallbackReply == "" {
		t.Fatalf("chat defaults must not be empty")
	}
}

func TestParseListFlag(t *testing.T) {
	t.Parallel()

	def := []string{"a", "b"}

	cases := []struct {
		name string
		in   string
		want []string
	}{
		{"empty falls back to default", "", []string{"a", "b"}},
		{"splits and trims", " x ; y;z ", []string{"x", "y", "z"}},
		{"drops empty items", "x;;y;", []string{"x", "y"}},
		{"only separators falls back", ";;;", []string{"a", "b"}},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			got := parseListFlag(c.in, def)
			if len(got) != len(c.want) {
				t.Fatalf("got %v, want %v", got, c.want)
			}
			for i := range got {
				if got[i] != c.want[i] {
					t.Fatalf("got %v, want %v", got, c.want)
				}
			}
		})
	}
}
