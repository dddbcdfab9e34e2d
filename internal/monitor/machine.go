package monitor

import (
	"sync"

	"go.uber.org/zap"

	"FocusGuard/internal/alarm"
	"FocusGuard/internal/classify"
	"FocusGuard/internal/metrics"
)

// AlarmChannel — контракт канала тревоги, которым владеет машина.
// Каналы разных машин независимы и не делят состояние таймеров.
type AlarmChannel interface {
	Start(alarm.Params)
	Stop()
	IsRunning() bool
}

// Config — параметры гистерезиса и тревоги машины.
type Config struct {
	// Сколько тиков отвлечения подряд до включения тревоги.
	DistractionThreshold int
	// Сколько тиков сосредоточенности подряд до отбоя.
	RecoveryThreshold int
	// Параметры цикла тревоги этого канала.
	Alarm alarm.Params
}

// Status — снимок состояния машины для отображения.
type Status struct {
	Monitoring      bool
	DistractedTicks int
	FocusedTicks    int
	AlarmActive     bool
}

// Machine — машина состояний отвлечения одной сессии наблюдения.
// Гистерезис: одиночная ошибка классификации не должна дёргать тревогу,
// поэтому тревога включается только после устойчивого отвлечения, а
// выключается после более короткого устойчивого возврата внимания.
type Machine struct {
	name   string
	cfg    Config
	alarm  AlarmChannel
	logger *zap.SugaredLogger

	// Вызывается ровно один раз на каждое пересечение порога отвлечения.
	onDistraction func()

	mu          sync.Mutex
	monitoring  bool
	distracted  int
	focused     int
	alarmActive bool
}

// Option настраивает машину при создании.
type Option func(*Machine)

// WithDistractionNotice задаёт уведомление «слишком долго отвлекаешься».
func WithDistractionNotice(fn func()) Option {
	return func(m *Machine) { m.onDistraction = fn }
}

func NewMachine(name string, cfg Config, alarmCh AlarmChannel, logger *zap.SugaredLogger, opts ...Option) *Machine {
	if cfg.DistractionThreshold <= 0 {
		cfg.DistractionThreshold = 15
	}
	if cfg.RecoveryThreshold <= 0 {
		cfg.RecoveryThreshold = 2
	}
	m := &Machine{name: name, cfg: cfg, alarm: alarmCh, logger: logger}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start переводит машину в режим наблюдения и обнуляет счётчики.
func (m *Machine) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.monitoring {
		return
	}
	m.monitoring = true
	m.resetLocked()
}

// Observe обрабатывает одно событие классификации.
func (m *Machine) Observe(ev classify.Event) {
	m.mu.Lock()
	if !m.monitoring {
		m.mu.Unlock()
		return
	}

	var startAlarm, stopAlarm bool
	switch ev.Label.Verdict() {
	case classify.VerdictDistracting:
		m.distracted++
		m.focused = 0
		if m.distracted >= m.cfg.DistractionThreshold && !m.alarmActive {
			m.alarmActive = true
			startAlarm = true
		}
	case classify.VerdictProductive:
		m.focused++
		m.distracted = 0
		if m.focused >= m.cfg.RecoveryThreshold && m.alarmActive {
			m.alarmActive = false
			stopAlarm = true
		}
	default:
		// Неопределённый тик: счётчики и тревога заморожены —
		// неоднозначный вход сам по себе тревогу не включает и не гасит.
	}
	ticks := m.distracted
	m.mu.Unlock()

	// Управление каналом вне блокировки: Stop канала ждёт выхода его цикла.
	if startAlarm {
		m.alarm.Start(m.cfg.Alarm)
		metrics.AlarmActivations.WithLabelValues(m.name).Inc()
		m.logger.Infow("Distraction alarm started", "monitor", m.name, "ticks", ticks, "label", string(ev.Label))
		if m.onDistraction != nil {
			m.onDistraction()
		}
	}
	if stopAlarm {
		m.alarm.Stop()
		m.logger.Infow("Distraction alarm cleared", "monitor", m.name)
	}
}

// Stop завершает наблюдение и принудительно гасит канал тревоги независимо
// от его текущего состояния — осиротевшей тревоги после остановки не бывает.
func (m *Machine) Stop() {
	m.mu.Lock()
	if !m.monitoring {
		m.mu.Unlock()
		return
	}
	m.monitoring = false
	m.resetLocked()
	m.mu.Unlock()

	m.alarm.Stop()
}

// Status возвращает снимок без побочных эффектов.
func (m *Machine) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Status{
		Monitoring:      m.monitoring,
		DistractedTicks: m.distracted,
		FocusedTicks:    m.focused,
		AlarmActive:     m.alarmActive,
	}
}

func (m *Machine) resetLocked() {
	m.distracted = 0
	m.focused = 0
	m.alarmActive = false
}
