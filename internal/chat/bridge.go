package chat

import (
	"context"

	"go.uber.org/zap"

	"FocusGuard/internal/metrics"
)

// Bridge пересылает текст пользователя сервису дополнений. Любой отказ
// транспорта или сервиса деградирует к фиксированному ответу — наружу ошибка
// не выходит никогда, пользователь не должен видеть падение чата.
type Bridge struct {
	completer Completer
	fallback  string
	logger    *zap.SugaredLogger
}

func NewBridge(completer Completer, fallback string, logger *zap.SugaredLogger) *Bridge {
	return &Bridge{completer: completer, fallback: fallback, logger: logger}
}

// SendMessage возвращает ответ коуча либо запасную реплику.
func (b *Bridge) SendMessage(ctx context.Context, text string) string {
	reply, err := b.completer.Complete(ctx, text)
	if err != nil {
		metrics.CompletionFailures.Inc()
		b.logger.Warnw("Completion service failed, using fallback", "error", err)
		return b.fallback
	}
	return reply
}
