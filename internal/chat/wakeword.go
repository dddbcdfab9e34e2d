package chat

import (
	"context"
	"strings"
	"unicode"

	"go.uber.org/zap"
)

// Speaker озвучивает реплику. Ошибки озвучки нефатальны и только логируются.
type Speaker interface {
	Say(ctx context.Context, text string) error
}

// Gate — затвор по фразе-триггеру над непрерывным потоком распознанной речи.
// Обычная речь игнорируется; фраза с триггером превращается в запрос коучу.
type Gate struct {
	wake    string
	prompt  string
	bridge  *Bridge
	speaker Speaker
	logger  *zap.SugaredLogger
}

func NewGate(wake, prompt string, bridge *Bridge, speaker Speaker, logger *zap.SugaredLogger) *Gate {
	return &Gate{wake: wake, prompt: prompt, bridge: bridge, speaker: speaker, logger: logger}
}

// Run потребляет финальные фразы до закрытия канала или отмены контекста.
func (g *Gate) Run(ctx context.Context, phrases <-chan string) {
	for {
		select {
		case <-ctx.Done():
			return
		case phrase, ok := <-phrases:
			if !ok {
				return
			}
			g.HandleTranscript(ctx, phrase)
		}
	}
}

// HandleTranscript обрабатывает одну финальную фразу потока.
func (g *Gate) HandleTranscript(ctx context.Context, phrase string) {
	query, ok := g.extract(phrase)
	if !ok {
		return
	}
	if query == "" {
		// Триггер без вопроса: просим ввод, сервис дополнений не дёргаем
		g.say(ctx, g.prompt)
		return
	}
	g.logger.Infow("Wake word query", "query", query)
	reply := g.bridge.SendMessage(ctx, query)
	g.say(ctx, reply)
}

// extract ищет триггер внутри фразы и возвращает остаток после него.
func (g *Gate) extract(phrase string) (string, bool) {
	wake := strings.ToLower(strings.TrimSpace(g.wake))
	if wake == "" {
		return "", false
	}
	// Ищем и режем одну и ту же строку: понижение регистра в Unicode меняет
	// длину в байтах, индекс из lowered к исходной фразе неприменим.
	lowered := strings.ToLower(phrase)
	idx := strings.Index(lowered, wake)
	if idx < 0 {
		return "", false
	}
	rest := lowered[idx+len(wake):]
	rest = strings.TrimFunc(rest, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	})
	return rest, true
}

func (g *Gate) say(ctx context.Context, text string) {
	if g.speaker == nil || text == "" {
		return
	}
	if err := g.speaker.Say(ctx, text); err != nil {
		g.logger.Warnw("Speech output failed", "error", err)
	}
}
