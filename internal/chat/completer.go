package chat

import (
	"context"
	"errors"
	"sync"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/responses"
)

// Completer — контракт сервиса дополнений. Реализации взаимозаменяемы.
type Completer interface {
	Complete(ctx context.Context, text string) (string, error)
}

// OpenAICompleter ведёт диалог коуча поверх Responses API: системные
// инструкции + компактная локальная история последних реплик.
type OpenAICompleter struct {
	client       *openai.Client
	model        openai.ChatModel
	instructions string

	mu      sync.Mutex
	history []historyEntry
}

type historyEntry struct {
	role    responses.EasyInputMessageRole
	content responses.ResponseInputMessageContentListParam
}

func NewOpenAICompleter(client *openai.Client, model openai.ChatModel, instructions string) *OpenAICompleter {
	return &OpenAICompleter{client: client, model: model, instructions: instructions}
}

func (c *OpenAICompleter) Complete(ctx context.Context, text string) (string, error) {
	if c.client == nil {
		return "", errors.New("nil openai client")
	}

	sys := responses.ResponseInputMessageContentListParam{
		{OfInputText: &responses.ResponseInputTextParam{Text: c.instructions}},
	}
	user := responses.ResponseInputMessageContentListParam{
		{OfInputText: &responses.ResponseInputTextParam{Text: text}},
	}

	// Собираем вход: system + короткая история + текущее user сообщение.
	inputItems := responses.ResponseInputParam{
		responses.ResponseInputItemParamOfMessage(sys, responses.EasyInputMessageRoleSystem),
	}
	c.mu.Lock()
	// оставим максимум 2 пары истории, чтобы не раздувать контекст
	if n := len(c.history); n > 0 {
		start := 0
		if n > 4 {
			start = n - 4
		}
		for _, h := range c.history[start:] {
			inputItems = append(inputItems, responses.ResponseInputItemParamOfMessage(h.content, h.role))
		}
	}
	c.mu.Unlock()
	inputItems = append(inputItems, responses.ResponseInputItemParamOfMessage(user, responses.EasyInputMessageRoleUser))

	resp, err := c.client.Responses.New(ctx, responses.ResponseNewParams{
		Model: c.model,
		Input: responses.ResponseNewParamsInputUnion{OfInputItemList: inputItems},
	})
	if err != nil {
		return "", err
	}

	out := resp.OutputText()

	c.mu.Lock()
	c.history = append(c.history, historyEntry{role: responses.EasyInputMessageRoleUser, content: user})
	c.history = append(c.history, historyEntry{
		role: responses.EasyInputMessageRoleAssistant,
		content: responses.ResponseInputMessageContentListParam{
			{OfInputText: &responses.ResponseInputTextParam{Text: out}},
		},
	})
	if n := len(c.history); n > 8 {
		c.history = append(c.history[:0:0], c.history[n-8:]...)
	}
	c.mu.Unlock()

	return out, nil
}

// StubCompleter — заглушка без реальных запросов (офлайн-запуск, тесты).
type StubCompleter struct{ Reply string }

func NewStubCompleter(reply string) *StubCompleter { return &StubCompleter{Reply: reply} }

func (c *StubCompleter) Complete(_ context.Context, _ string) (string, error) {
	return c.Reply, nil
}
