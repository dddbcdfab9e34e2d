package clock

import "time"

// Clock абстрагирует источник времени, чтобы периодические циклы
// можно было прогонять в тестах на виртуальном времени.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
	NewTicker(d time.Duration) Ticker
}

// Ticker минимальный контракт тикера.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Real — обычные часы поверх пакета time.
type Real struct{}

func New() Real { return Real{} }

func (Real) Now() time.Time { return time.Now() }

func (Real) After(d time.Duration) <-chan time.Time { return time.After(d) }

func (Real) NewTicker(d time.Duration) Ticker { return realTicker{t: time.NewTicker(d)} }

type realTicker struct{ t *time.Ticker }

func (rt realTicker) C() <-chan time.Time { return rt.t.C }
func (rt realTicker) Stop()               { rt.t.Stop() }
