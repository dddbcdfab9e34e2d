package classify

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable означает, что источник классификации недоступен (модель не
// отвечает, нет кадра и т.п.). Вызывающий пропускает тик, не сбрасывая счётчики.
var ErrUnavailable = errors.New("classification source unavailable")

// Label — метка активности от классификатора.
type Label string

const (
	LabelFocused    Label = "focused"
	LabelDistracted Label = "distracted"
	LabelStudying   Label = "studying"
	LabelCoding     Label = "coding"
	LabelGaming     Label = "gaming"
	LabelUnknown    Label = "unknown"
)

// Verdict — приговор метки для машины состояний.
type Verdict int

const (
	VerdictAmbiguous Verdict = iota // классификатор не определился
	VerdictProductive
	VerdictDistracting
)

// Verdict сводит метку к трём исходам. Gaming считается отвлечением,
// Studying/Coding — продуктивной работой.
func (l Label) Verdict() Verdict {
	switch l {
	case LabelFocused, LabelStudying, LabelCoding:
		return VerdictProductive
	case LabelDistracted, LabelGaming:
		return VerdictDistracting
	default:
		return VerdictAmbiguous
	}
}

// Event — одно событие классификации за тик опроса. Неизменяемое, не хранится.
type Event struct {
	Label      Label
	Confidence float64
	At         time.Time
}

// Source — контракт «предсказать один раз». Реализации могут быть асинхронными
// внутри, но для вызывающего предсказание синхронно.
type Source interface {
	Predict(ctx context.Context) (Event, error)
}

// Combine объединяет первичный и вторичный сигналы по политике логического И:
// пользователь сосредоточен, только если оба доступных сигнала это подтверждают.
// Объединение выполняется до гистерезиса, на уровне вывода метки.
// Отсутствующий вторичный сигнал (nil) никогда сам по себе не даёт «отвлечён».
func Combine(primary Event, secondary *Event) Event {
	if secondary == nil {
		return primary
	}
	// Неопределившийся первичный сигнал остаётся неопределившимся:
	// вторичный — вспомогательный и один тревогу не решает.
	if primary.Label.Verdict() == VerdictAmbiguous {
		return primary
	}
	if secondary.Label.Verdict() == VerdictDistracting {
		out := primary
		out.Label = LabelDistracted
		if secondary.Confidence < out.Confidence {
			out.Confidence = secondary.Confidence
		}
		return out
	}
	return primary
}

// Combined — источник, опрашивающий первичный и вторичный классификаторы и
// сводящий их в одно событие. Недоступность вторичного деградирует к первичному.
type Combined struct {
	Primary   Source
	Secondary Source
}

func (c *Combined) Predict(ctx context.Context) (Event, error) {
	primary, err := c.Primary.Predict(ctx)
	if err != nil {
		return Event{}, err
	}
	if c.Secondary == nil {
		return primary, nil
	}
	secondary, err := c.Secondary.Predict(ctx)
	if err != nil {
		// Вторичный сигнал offline — работаем по первичному
		return primary, nil
	}
	return Combine(primary, &secondary), nil
}
