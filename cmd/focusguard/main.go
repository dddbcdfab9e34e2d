package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"FocusGuard/internal/alarm"
	"FocusGuard/internal/chat"
	"FocusGuard/internal/classify"
	"FocusGuard/internal/clock"
	"FocusGuard/internal/config"
	"FocusGuard/internal/metrics"
	"FocusGuard/internal/monitor"
	"FocusGuard/internal/session"
	"FocusGuard/internal/speech"
	"FocusGuard/internal/store"
	"FocusGuard/internal/tts"
	"FocusGuard/internal/tts/google"
	"FocusGuard/internal/tts/player"

	"github.com/openai/openai-go/v3"
	"go.uber.org/zap"
)

// synthSpeaker адаптирует синтезатор речи к интерфейсу озвучки чата.
type synthSpeaker struct {
	synth tts.Synthesizer
}

func (s synthSpeaker) Say(ctx context.Context, text string) error {
	return s.synth.Synthesize(ctx, text)
}

func main() {

	cfg := config.NewConfig()
	// создаём предустановленный регистратор zap
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	//сброс буфера логгера
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Errorw("Failed to sync logger", "error", err)
		}
	}()

	// Завершение по Ctrl+C / SIGTERM; таймер сессии тоже зовёт stop()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sugar.Infow(
		"Starting app",
		"DebugMode", cfg.DebugMode,
		"PostureEnabled", cfg.PostureEnabled,
		"ScreenEnabled", cfg.ScreenEnabled,
		"SessionDuration", cfg.SessionDuration,
	)

	clk := clock.New()

	// Метрики
	if cfg.MetricsAddr != "" {
		go metrics.Serve(ctx, cfg.MetricsAddr, sugar)
	}

	// Хранилище записей сессий
	var st *store.Store
	if cfg.RedisAddr != "" && cfg.UserID != "" {
		st = store.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, sugar)
		defer func() {
			if err := st.Close(); err != nil {
				sugar.Warnw("Failed to close store", "error", err)
			}
		}()
	}

	// Озвучка реплик коуча; без озвучки подставляем синтезатор-пустышку
	var synth tts.Synthesizer = tts.Noop{}
	if cfg.SpeakReplies {
		synth = google.New(cfg.GoogleTTS, player.New(), sugar)
	}
	speaker := synthSpeaker{synth: synth}

	// Чат-коуч: без ключа API работаем на заглушке
	var completer chat.Completer
	if os.Getenv("OPENAI_API_KEY") != "" {
		oClient := openai.NewClient()
		completer = chat.NewOpenAICompleter(&oClient, openai.ChatModelGPT4o, cfg.AssistantInstructions)
	} else {
		sugar.Warnw("OPENAI_API_KEY is not set, coach replies with the fallback message")
		completer = chat.NewStubCompleter(cfg.FallbackReply)
	}
	bridge := chat.NewBridge(completer, cfg.FallbackReply, sugar)

	// Уведомление о долгом отвлечении: озвучиваем фиксированную реплику в фоне
	notice := func() {
		sugar.Infow("Distraction threshold crossed", "notice", cfg.DistractionNotice)
		go func() {
			sctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := speaker.Say(sctx, cfg.DistractionNotice); err != nil {
				sugar.Warnw("Failed to speak distraction notice", "error", err)
			}
		}()
	}

	emitter := alarm.NewSpeakerEmitter()

	var wg sync.WaitGroup

	// Монитор позы: модель позы как первичный сигнал, детектор глаз как вторичный
	if cfg.PostureEnabled {
		frames := classify.HTTPFrames(cfg.CameraFrameURL, cfg.ClassifierTimeout)
		var src classify.Source = classify.NewModelSource(cfg.PostureModelURL, frames, cfg.ClassifierTimeout)
		if cfg.EyeDetectorURL != "" {
			src = &classify.Combined{
				Primary:   src,
				Secondary: classify.NewEyeSource(cfg.EyeDetectorURL, frames, cfg.ClassifierTimeout),
			}
		}
		machine := monitor.NewMachine("posture", monitor.Config{
			DistractionThreshold: cfg.DistractionThreshold,
			RecoveryThreshold:    cfg.RecoveryThreshold,
			Alarm: alarm.Params{
				FrequencyHz:   cfg.AlarmFrequencyHz,
				ToneDuration:  cfg.AlarmToneDuration,
				ToneCount:     1,
				CyclePause:    cfg.AlarmPause,
				VolumePercent: cfg.AlarmVolumePercent,
			},
		}, alarm.NewSequencer(emitter, clk, sugar), sugar, monitor.WithDistractionNotice(notice))
		runner := monitor.NewRunner("posture", src, machine, cfg.PostureInterval, clk, sugar)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				sugar.Errorw("Posture monitor stopped", "error", err)
			}
		}()
	}

	// Монитор экрана: скриншот → OCR → ключевые слова; тревога пачечная
	if cfg.ScreenEnabled && cfg.OCRServiceURL != "" {
		kw := classify.NewKeywordClassifier(cfg.StudyKeywords, cfg.CodeKeywords, cfg.GameKeywords, cfg.KeywordMinHits)
		src := classify.NewOCRSource(cfg.OCRServiceURL, classify.ScreenFrames(), kw, cfg.ClassifierTimeout)
		machine := monitor.NewMachine("screen", monitor.Config{
			DistractionThreshold: cfg.DistractionThreshold,
			RecoveryThreshold:    cfg.RecoveryThreshold,
			Alarm: alarm.Params{
				FrequencyHz:   cfg.BurstFrequencyHz,
				ToneDuration:  cfg.BurstToneDuration,
				ToneGap:       cfg.BurstGap,
				ToneCount:     cfg.BurstCount,
				CyclePause:    cfg.BurstPause,
				VolumePercent: cfg.AlarmVolumePercent,
			},
		}, alarm.NewSequencer(emitter, clk, sugar), sugar)
		runner := monitor.NewRunner("screen", src, machine, cfg.ScreenInterval, clk, sugar)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				sugar.Errorw("Screen monitor stopped", "error", err)
			}
		}()
	}

	// Таймер фокус-сессии: по истечении пишем запись и гасим приложение
	var timer *session.Timer
	var sessionDone atomic.Bool
	sessionStart := time.Now()
	if cfg.SessionDuration > 0 {
		timer = session.NewTimer(clk, sugar, nil, func() {
			sessionDone.Store(true)
			writeSessionRecord(st, cfg.UserID, sessionStart, cfg.SessionDuration, true, sugar)
			stop()
		})
		timer.Start(cfg.SessionDuration)
		defer timer.Stop()
	}

	// Голосовой ввод: поток распознавания → финальные фразы → затвор по wake word
	if cfg.SpeechStreamURL != "" {
		stream := speech.NewStream(cfg.SpeechStreamURL, cfg.SpeechAuthToken, sugar)
		gate := chat.NewGate(cfg.WakeWord, cfg.WakePrompt, bridge, speaker, sugar)
		finals := make(chan string, 16)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := stream.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				sugar.Errorw("Speech stream stopped", "error", err)
			}
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer close(finals)
			// Промежуточные гипотезы отбрасываем, затвор видит только финальные
			for tr := range stream.Transcripts() {
				if !tr.Final {
					continue
				}
				select {
				case finals <- tr.Text:
				default:
				}
			}
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			gate.Run(ctx, finals)
		}()
	}

	<-ctx.Done()

	// Прерванную сессию тоже фиксируем, но как незавершённую
	if timer != nil && !sessionDone.Load() {
		writeSessionRecord(st, cfg.UserID, sessionStart, time.Since(sessionStart), false, sugar)
	}

	sugar.Infow("Shutting down")
	wg.Wait()
}

// writeSessionRecord сохраняет итог фокус-сессии. Хранилище может быть выключено.
func writeSessionRecord(st *store.Store, userID string, start time.Time, elapsed time.Duration, completed bool, sugar *zap.SugaredLogger) {
	if st == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	rec := store.SessionRecord{
		StartTime:       start,
		EndTime:         start.Add(elapsed),
		DurationMinutes: int(elapsed.Minutes()),
		Completed:       completed,
	}
	if err := st.AddSession(ctx, userID, rec); err != nil {
		sugar.Warnw("Failed to store session record", "error", err)
		return
	}
	sugar.Infow("Session record stored", "completed", completed, "minutes", rec.DurationMinutes)
}
