package speech

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Transcript — одно событие распознавания: промежуточный или финальный текст.
type Transcript struct {
	Text  string `json:"text"`
	Final bool   `json:"final"`
}

// Stream — клиент непрерывного распознавания речи по WebSocket. Обрывы
// соединения переживаются переподключением с экспоненциальной задержкой;
// события отдаются в буферизованный канал, медленный потребитель теряет
// события, а не блокирует чтение.
type Stream struct {
	url    string
	token  string
	logger *zap.SugaredLogger
	out    chan Transcript
}

func NewStream(url, token string, logger *zap.SugaredLogger) *Stream {
	return &Stream{url: url, token: token, logger: logger, out: make(chan Transcript, 64)}
}

// Transcripts — канал событий распознавания. Закрывается при выходе Run.
func (s *Stream) Transcripts() <-chan Transcript { return s.out }

// newReconnectPolicy возвращает политику переподключения без предельного
// суммарного времени: у ExponentialBackOff по умолчанию MaxElapsedTime 15 минут,
// после которых NextBackOff отдаёт Stop — а поток обязан переживать сколь
// угодно долгий простой сервиса распознавания.
func newReconnectPolicy() *backoff.ExponentialBackOff {
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 0
	return bo
}

// Run блокирует до отмены контекста.
func (s *Stream) Run(ctx context.Context) error {
	defer close(s.out)

	policy := backoff.WithContext(newReconnectPolicy(), ctx)
	for {
		conn, err := s.dial(ctx)
		if err != nil {
			wait := policy.NextBackOff()
			if wait == backoff.Stop {
				return context.Cause(ctx)
			}
			s.logger.Warnw("Speech stream connect failed", "error", err, "retryIn", wait.String())
			select {
			case <-ctx.Done():
				return context.Cause(ctx)
			case <-time.After(wait):
			}
			continue
		}

		policy.Reset()
		s.logger.Infow("Speech stream connected", "url", s.url)
		if err := s.consume(ctx, conn); err != nil && ctx.Err() == nil {
			s.logger.Warnw("Speech stream dropped", "error", err)
		}
		_ = conn.Close()

		if ctx.Err() != nil {
			return context.Cause(ctx)
		}
	}
}

func (s *Stream) dial(ctx context.Context) (*websocket.Conn, error) {
	headers := http.Header{}
	if s.token != "" {
		headers.Set("Authorization", "Token "+s.token)
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.url, headers)
	return conn, err
}

func (s *Stream) consume(ctx context.Context, conn *websocket.Conn) error {
	// Закрываем соединение при отмене контекста, чтобы разблокировать чтение
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		var tr Transcript
		if err := conn.ReadJSON(&tr); err != nil {
			return err
		}
		if strings.TrimSpace(tr.Text) == "" {
			continue
		}
		select {
		case s.out <- tr:
		default:
		}
	}
}
