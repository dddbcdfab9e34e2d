package google

import (
	"bytes"
	"context"
	"io"
	"time"

	gctts "cloud.google.com/go/texttospeech/apiv1"
	ttspb "cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"go.uber.org/zap"

	"FocusGuard/internal/config"
	"FocusGuard/internal/tts/player"
)

// Client реализует синтез речи через Google Cloud Text-to-Speech и воспроизводит результат.
type Client struct {
	cfg    config.GoogleTTSConfig
	player player.Player
	logger *zap.SugaredLogger
}

func New(cfg config.GoogleTTSConfig, p player.Player, logger *zap.SugaredLogger) *Client {
	return &Client{cfg: cfg, player: p, logger: logger}
}

// Synthesize выполняет запрос к Google TTS и воспроизводит аудио.
func (c *Client) Synthesize(ctx context.Context, text string) error {
	// Создаём клиента SDK
	ttsClient, err := gctts.NewClient(ctx)
	if err != nil {
		return err
	}
	defer ttsClient.Close()

	input := &ttspb.SynthesisInput{InputSource: &ttspb.SynthesisInput_Text{Text: text}}
	voice := &ttspb.VoiceSelectionParams{
		LanguageCode: c.cfg.Language,
		Name:         c.cfg.Voice,
	}
	// Только MP3
	audio := &ttspb.AudioConfig{
		AudioEncoding: ttspb.AudioEncoding_MP3,
		SpeakingRate:  c.cfg.SpeakingRate,
		Pitch:         c.cfg.Pitch,
		VolumeGainDb:  c.cfg.VolumeGainDb,
	}

	req := &ttspb.SynthesizeSpeechRequest{Input: input, Voice: voice, AudioConfig: audio}
	started := time.Now()
	resp, err := ttsClient.SynthesizeSpeech(ctx, req)
	if err != nil {
		return err
	}
	if c.logger != nil {
		c.logger.Infow("Google TTS synthesize completed", "took", time.Since(started).String())
	}

	// Проигрываем MP3
	r := io.NopCloser(bytes.NewReader(resp.GetAudioContent()))
	return c.player.Play(r)
}
