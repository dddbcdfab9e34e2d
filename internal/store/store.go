package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"FocusGuard/internal/metrics"
)

// SessionRecord — запись завершённой (или прерванной) фокус-сессии.
type SessionRecord struct {
	StartTime       time.Time `json:"startTime"`
	EndTime         time.Time `json:"endTime"`
	DurationMinutes int       `json:"durationMinutes"`
	Completed       bool      `json:"completed"`
}

// QuizRecord — результат викторины.
type QuizRecord struct {
	Topic string    `json:"topic"`
	Score int       `json:"score"`
	Total int       `json:"total"`
	Date  time.Time `json:"date"`
}

// Store пишет записи пользователя в Redis. Только добавление в конец списка:
// никаких чтений, обновлений и миграций. Ошибка записи нефатальна —
// логируется и считается, приложение продолжает работать.
type Store struct {
	rdb    *redis.Client
	logger *zap.SugaredLogger
}

func New(addr, password string, db int, logger *zap.SugaredLogger) *Store {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &Store{rdb: rdb, logger: logger}
}

// NewWithClient используется в тестах с miniredis.
func NewWithClient(rdb *redis.Client, logger *zap.SugaredLogger) *Store {
	return &Store{rdb: rdb, logger: logger}
}

func (s *Store) Close() error { return s.rdb.Close() }

// AddSession дописывает запись сессии в список пользователя.
func (s *Store) AddSession(ctx context.Context, userID string, rec SessionRecord) error {
	return s.push(ctx, "focusguard:sessions:"+userID, rec)
}

// AddQuiz дописывает результат викторины в список пользователя.
func (s *Store) AddQuiz(ctx context.Context, userID string, rec QuizRecord) error {
	return s.push(ctx, "focusguard:quizzes:"+userID, rec)
}

func (s *Store) push(ctx context.Context, key string, rec any) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if err := s.rdb.RPush(ctx, key, payload).Err(); err != nil {
		metrics.StoreFailures.Inc()
		s.logger.Warnw("Store write failed", "key", key, "error", err)
		return err
	}
	return nil
}
