package alarm

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"FocusGuard/internal/clock"
)

// recordingEmitter сигналит о каждом тоне в канал вместо реального звука.
type recordingEmitter struct {
	emits chan emitCall
	err   error
}

type emitCall struct {
	duration  time.Duration
	frequency int
	volume    int
}

func newRecordingEmitter() *recordingEmitter {
	return &recordingEmitter{emits: make(chan emitCall, 32)}
}

func (e *recordingEmitter) Emit(_ context.Context, d time.Duration, hz int, vol int) error {
	if e.err != nil {
		return e.err
	}
	select {
	case e.emits <- emitCall{duration: d, frequency: hz, volume: vol}:
	default:
	}
	return nil
}

func waitEmit(t *testing.T, e *recordingEmitter) emitCall {
	t.Helper()
	select {
	case c := <-e.emits:
		return c
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for tone")
		return emitCall{}
	}
}

// collectEmits подгоняет фейковые часы, пока не соберёт want тонов.
func collectEmits(t *testing.T, e *recordingEmitter, clk *clock.Fake, step time.Duration, want int) []emitCall {
	t.Helper()
	got := make([]emitCall, 0, want)
	deadline := time.After(2 * time.Second)
	for len(got) < want {
		select {
		case c := <-e.emits:
			got = append(got, c)
		case <-deadline:
			t.Fatalf("collected %d tones, want %d", len(got), want)
		default:
			clk.Advance(step)
			time.Sleep(time.Millisecond)
		}
	}
	return got
}

func TestSequencerEmitsConfiguredTone(t *testing.T) {
	t.Parallel()

	emitter := newRecordingEmitter()
	clk := clock.NewFake(time.Time{})
	seq := NewSequencer(emitter, clk, zap.NewNop().Sugar())

	seq.Start(Params{
		FrequencyHz:   1200,
		ToneDuration:  400 * time.Millisecond,
		ToneCount:     1,
		CyclePause:    300 * time.Millisecond,
		VolumePercent: 80,
	})
	defer seq.Stop()

	call := waitEmit(t, emitter)
	if call.frequency != 1200 || call.duration != 400*time.Millisecond || call.volume != 80 {
		t.Fatalf("unexpected tone: %+v", call)
	}
	if !seq.IsRunning() {
		t.Fatalf("sequencer should report running")
	}
}

func TestSequencerStartIsIdempotent(t *testing.T) {
	t.Parallel()

	emitter := newRecordingEmitter()
	clk := clock.NewFake(time.Time{})
	seq := NewSequencer(emitter, clk, zap.NewNop().Sugar())

	params := Params{FrequencyHz: 1200, ToneCount: 1, CyclePause: time.Hour, VolumePercent: 80}
	seq.Start(params)
	seq.Start(params)
	defer seq.Stop()

	waitEmit(t, emitter)

	// Часы стоят, цикл спит в паузе: второго тона от повторного Start быть не должно
	select {
	case c := <-emitter.emits:
		t.Fatalf("unexpected extra tone: %+v", c)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSequencerBurstPlaysSeries(t *testing.T) {
	t.Parallel()

	emitter := newRecordingEmitter()
	clk := clock.NewFake(time.Time{})
	seq := NewSequencer(emitter, clk, zap.NewNop().Sugar())

	seq.Start(Params{
		FrequencyHz:   880,
		ToneDuration:  200 * time.Millisecond,
		ToneGap:       150 * time.Millisecond,
		ToneCount:     3,
		CyclePause:    10 * time.Second,
		VolumePercent: 80,
	})
	defer seq.Stop()

	tones := collectEmits(t, emitter, clk, 150*time.Millisecond, 3)
	for i, c := range tones {
		if c.frequency != 880 {
			t.Fatalf("tone %d frequency = %d, want 880", i, c.frequency)
		}
	}
}

func TestSequencerStopWaitsAndIsIdempotent(t *testing.T) {
	t.Parallel()

	emitter := newRecordingEmitter()
	clk := clock.NewFake(time.Time{})
	seq := NewSequencer(emitter, clk, zap.NewNop().Sugar())

	seq.Start(Params{FrequencyHz: 1200, ToneCount: 1, CyclePause: time.Hour, VolumePercent: 80})
	waitEmit(t, emitter)

	seq.Stop()
	if seq.IsRunning() {
		t.Fatalf("sequencer should be stopped")
	}
	// Повторный Stop и Stop без Start безвредны
	seq.Stop()

	// После Stop цикл не продолжается
	select {
	case c := <-emitter.emits:
		t.Fatalf("tone after stop: %+v", c)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSequencerRestartsAfterStop(t *testing.T) {
	t.Parallel()

	emitter := newRecordingEmitter()
	clk := clock.NewFake(time.Time{})
	seq := NewSequencer(emitter, clk, zap.NewNop().Sugar())

	params := Params{FrequencyHz: 1200, ToneCount: 1, CyclePause: time.Hour, VolumePercent: 80}
	seq.Start(params)
	waitEmit(t, emitter)
	seq.Stop()

	seq.Start(params)
	defer seq.Stop()
	waitEmit(t, emitter)
}

func TestSequencerContinuesSilentlyWithoutAudio(t *testing.T) {
	t.Parallel()

	emitter := newRecordingEmitter()
	emitter.err = ErrAudioUnavailable
	clk := clock.NewFake(time.Time{})
	seq := NewSequencer(emitter, clk, zap.NewNop().Sugar())

	seq.Start(Params{FrequencyHz: 1200, ToneDuration: 400 * time.Millisecond, ToneCount: 1, CyclePause: time.Hour, VolumePercent: 80})
	if !seq.IsRunning() {
		t.Fatalf("channel should stay logically active without audio")
	}
	seq.Stop()
	if seq.IsRunning() {
		t.Fatalf("sequencer should be stopped")
	}
}

func TestVolumeDB(t *testing.T) {
	t.Parallel()

	if got := volumeDB(100); got != 0 {
		t.Fatalf("volumeDB(100) = %v, want 0", got)
	}
	if got := volumeDB(80); got != -4 {
		t.Fatalf("volumeDB(80) = %v, want -4", got)
	}
	if got := volumeDB(0); got != -20 {
		t.Fatalf("volumeDB(0) = %v, want -20", got)
	}
}
