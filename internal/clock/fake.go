package clock

import (
	"sync"
	"time"
)

// Fake — управляемые часы для тестов. Время сдвигается только вызовом Advance.
type Fake struct {
	mu      sync.Mutex
	now     time.Time
	timers  []*fakeTimer
	tickers []*fakeTicker
}

func NewFake(start time.Time) *Fake {
	if start.IsZero() {
		start = time.Unix(0, 0)
	}
	return &Fake{now: start}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *Fake) After(d time.Duration) <-chan time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTimer{deadline: f.now.Add(d), ch: make(chan time.Time, 1)}
	f.timers = append(f.timers, t)
	return t.ch
}

func (f *Fake) NewTicker(d time.Duration) Ticker {
	f.mu.Lock()
	defer f.mu.Unlock()
	tk := &fakeTicker{f: f, interval: d, next: f.now.Add(d), ch: make(chan time.Time, 1)}
	f.tickers = append(f.tickers, tk)
	return tk
}

// Advance сдвигает время вперёд и срабатывает все таймеры/тикеры, чей срок наступил.
// Тикеры срабатывают по одному разу на каждый прошедший интервал; непрочитанные тики
// не накапливаются (канал с буфером 1, как у time.Ticker).
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	target := f.now.Add(d)

	remaining := f.timers[:0]
	for _, t := range f.timers {
		if !t.deadline.After(target) {
			t.ch <- t.deadline
			continue
		}
		remaining = append(remaining, t)
	}
	f.timers = remaining

	for _, tk := range f.tickers {
		if tk.stopped {
			continue
		}
		for !tk.next.After(target) {
			select {
			case tk.ch <- tk.next:
			default:
			}
			tk.next = tk.next.Add(tk.interval)
		}
	}

	f.now = target
}

type fakeTimer struct {
	deadline time.Time
	ch       chan time.Time
}

type fakeTicker struct {
	f        *Fake
	interval time.Duration
	next     time.Time
	ch       chan time.Time
	stopped  bool
}

func (tk *fakeTicker) C() <-chan time.Time { return tk.ch }

func (tk *fakeTicker) Stop() {
	tk.f.mu.Lock()
	tk.stopped = true
	tk.f.mu.Unlock()
}
