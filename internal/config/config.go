package config

import (
	"flag"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	DebugMode bool   `env:"DEBUG_MODE"` //Режим дебага
	UserID    string `env:"USER_ID"`    // Идентификатор пользователя для записей; пусто — записи не пишутся

	// Монитор позы (камера → модель позы + детектор глаз)
	PostureEnabled    bool          `env:"POSTURE_ENABLED"`    // Включить монитор позы
	PostureInterval   time.Duration `env:"POSTURE_INTERVAL"`   // Период опроса модели позы
	PostureModelURL   string        `env:"POSTURE_MODEL_URL"`  // Адрес сервера модели позы
	EyeDetectorURL    string        `env:"EYE_DETECTOR_URL"`   // Адрес детектора глаз; пусто — вторичный сигнал выключен
	CameraFrameURL    string        `env:"CAMERA_FRAME_URL"`   // Адрес источника кадров с камеры (JPEG по GET)
	ClassifierTimeout time.Duration `env:"CLASSIFIER_TIMEOUT"` // Таймаут одного запроса к классификатору

	// Монитор экрана (скриншот → OCR → ключевые слова)
	ScreenEnabled  bool          `env:"SCREEN_ENABLED"`                  // Включить монитор активности экрана
	ScreenInterval time.Duration `env:"SCREEN_INTERVAL"`                 // Период опроса экрана
	OCRServiceURL  string        `env:"OCR_SERVICE_URL"`                 // Адрес OCR-сервиса; пусто — монитор экрана не стартует
	StudyKeywords  []string      `env:"STUDY_KEYWORDS" envSeparator:";"` // Ключевые слова «учёба»
	CodeKeywords   []string      `env:"CODE_KEYWORDS" envSeparator:";"`  // Ключевые слова «код»
	GameKeywords   []string      `env:"GAME_KEYWORDS" envSeparator:";"`  // Ключевые слова «игра»
	KeywordMinHits int           `env:"KEYWORD_MIN_HITS"`                // Минимум совпадений для уверенного ответа

	// Гистерезис машины состояний
	DistractionThreshold int `env:"DISTRACTION_THRESHOLD"` // Тиков отвлечения подряд до тревоги
	RecoveryThreshold    int `env:"RECOVERY_THRESHOLD"`    // Тиков сосредоточенности подряд до отбоя

	// Тревога: непрерывный канал
	AlarmFrequencyHz   int           `env:"ALARM_FREQUENCY_HZ"`   // Частота тона
	AlarmToneDuration  time.Duration `env:"ALARM_TONE_DURATION"`  // Длительность тона в цикле
	AlarmPause         time.Duration `env:"ALARM_PAUSE"`          // Пауза между циклами
	AlarmVolumePercent int           `env:"ALARM_VOLUME_PERCENT"` // Громкость 0-100

	// Тревога: пачечный канал (редкие «напоминания»)
	BurstFrequencyHz  int           `env:"BURST_FREQUENCY_HZ"`  // Частота тона пачки
	BurstToneDuration time.Duration `env:"BURST_TONE_DURATION"` // Длительность одного тона пачки
	BurstGap          time.Duration `env:"BURST_GAP"`           // Пауза между тонами внутри пачки
	BurstCount        int           `env:"BURST_COUNT"`         // Тонов в пачке
	BurstPause        time.Duration `env:"BURST_PAUSE"`         // Пауза между пачками

	// Таймер сессии
	SessionDuration time.Duration `env:"SESSION_DURATION"` // Длительность фокус-сессии; 0 — без таймера

	// Чат-коуч
	AssistantInstructions string `env:"ASSISTANT_INSTRUCTIONS"` // Системные инструкции коуча
	FallbackReply         string `env:"FALLBACK_REPLY"`         // Ответ при недоступности сервиса
	WakeWord              string `env:"WAKE_WORD"`              // Фраза-триггер для голосовых запросов
	WakePrompt            string `env:"WAKE_PROMPT"`            // Реплика, когда после триггера нет вопроса
	SpeakReplies          bool   `env:"SPEAK_REPLIES"`          // Озвучивать ответы коуча
	DistractionNotice     string `env:"DISTRACTION_NOTICE"`     // Реплика при пересечении порога отвлечения

	// Поток распознавания речи
	SpeechStreamURL string `env:"SPEECH_STREAM_URL"` // WebSocket-адрес распознавания; пусто — голосовой ввод выключен
	SpeechAuthToken string `env:"SPEECH_AUTH_TOKEN"` // Токен авторизации потока (опционально)

	// TTS (Google Cloud Text-to-Speech)
	GoogleTTS GoogleTTSConfig

	// Хранилище записей (Redis)
	RedisAddr     string `env:"REDIS_ADDR"`     // Адрес Redis; пусто — хранилище выключено
	RedisPassword string `env:"REDIS_PASSWORD"` // Пароль Redis (опционально)
	RedisDB       int    `env:"REDIS_DB"`       // Номер базы

	// Метрики
	MetricsAddr string `env:"METRICS_ADDR"` // Адрес /metrics; пусто — метрики не поднимаются
}

// GoogleTTSConfig конфигурация для синтеза речи через Google Cloud Text-to-Speech.
type GoogleTTSConfig struct {
	// Путь к файлу ключа сервисного аккаунта. Фактически читается из ENV GOOGLE_APPLICATION_CREDENTIALS.
	CredentialsPath string  `env:"GOOGLE_APPLICATION_CREDENTIALS"`
	Language        string  `env:"GOOGLE_TTS_LANGUAGE"`
	Voice           string  `env:"GOOGLE_TTS_VOICE"`
	SpeakingRate    float64 `env:"GOOGLE_TTS_SPEAKING_RATE"`
	Pitch           float64 `env:"GOOGLE_TTS_PITCH"`
	VolumeGainDb    float64 `env:"GOOGLE_TTS_VOLUME_DB"`
}

// Defaults возвращает конфигурацию с предустановленными значениями по умолчанию.
// Эти значения перекрываются .env, переменными окружения и флагами CLI.
func Defaults() *Config {
	return &Config{
		DebugMode: false,
		// Монитор позы: тик 1 секунда, как у детектора глаз
		PostureEnabled:    true,
		PostureInterval:   time.Second,
		PostureModelURL:   "http://127.0.0.1:5001/predict",
		EyeDetectorURL:    "http://127.0.0.1:5000/detect",
		CameraFrameURL:    "http://127.0.0.1:5002/frame",
		ClassifierTimeout: 5 * time.Second,
		// Монитор экрана: OCR дорогой, тик 10 секунд
		ScreenEnabled:  true,
		ScreenInterval: 10 * time.Second,
		OCRServiceURL:  "http://127.0.0.1:5003/ocr",
		StudyKeywords:  []string{"lecture", "tutorial", "course", "chapter", "exam", "notes"},
		CodeKeywords:   []string{"func", "class", "import", "def", "return", "console", "terminal"},
		GameKeywords:   []string{"score", "level", "respawn", "lobby", "victory", "defeat"},
		KeywordMinHits: 2,
		// Гистерезис: 15 тиков до тревоги, 2 тика до отбоя
		DistractionThreshold: 15,
		RecoveryThreshold:    2,
		// Непрерывный канал тревоги
		AlarmFrequencyHz:   1200,
		AlarmToneDuration:  400 * time.Millisecond,
		AlarmPause:         300 * time.Millisecond,
		AlarmVolumePercent: 80,
		// Пачечный канал: три коротких тона, затем долгая пауза
		BurstFrequencyHz:  880,
		BurstToneDuration: 200 * time.Millisecond,
		BurstGap:          150 * time.Millisecond,
		BurstCount:        3,
		BurstPause:        10 * time.Second,
		// Сессия
		SessionDuration: 25 * time.Minute,
		// Чат-коуч
		AssistantInstructions: "You are a friendly study coach. Keep answers short and encouraging.",
		FallbackReply:         "I could not reach the coaching service, but keep going - you are doing fine.",
		WakeWord:              "hey buddy",
		WakePrompt:            "I am listening. What would you like to ask?",
		DistractionNotice:     "You have been distracted for a while. Let's get back to work.",
		SpeakReplies:          true,
		// Redis
		RedisAddr: "127.0.0.1:6379",
		RedisDB:   0,
		// TTS
		GoogleTTS: GoogleTTSConfig{
			CredentialsPath: "service-account.json",
			Language:        "en-US",
			Voice:           "en-US-Standard-C",
			SpeakingRate:    1.0,
			Pitch:           0.0,
			VolumeGainDb:    0.0,
		},
	}
}

// NewConfig загружает конфигурацию приложения.
func NewConfig() *Config {
	_ = godotenv.Load()

	// Стартуем с дефолтов, затем перекрываем .env/окружением и флагами
	cfg := Defaults()
	_ = env.Parse(cfg)

	flag.BoolVar(&cfg.DebugMode, "debug-mode", cfg.DebugMode, "включить режим дебага")
	flag.StringVar(&cfg.UserID, "user-id", cfg.UserID, "идентификатор пользователя для записей сессий")
	// Монитор позы
	flag.BoolVar(&cfg.PostureEnabled, "posture-enabled", cfg.PostureEnabled, "включить монитор позы")
	flag.DurationVar(&cfg.PostureInterval, "posture-interval", cfg.PostureInterval, "период опроса модели позы, напр. 1s")
	flag.StringVar(&cfg.PostureModelURL, "posture-model-url", cfg.PostureModelURL, "адрес сервера модели позы")
	flag.StringVar(&cfg.EyeDetectorURL, "eye-detector-url", cfg.EyeDetectorURL, "адрес детектора глаз; пусто — выключен")
	flag.StringVar(&cfg.CameraFrameURL, "camera-frame-url", cfg.CameraFrameURL, "адрес источника кадров камеры")
	flag.DurationVar(&cfg.ClassifierTimeout, "classifier-timeout", cfg.ClassifierTimeout, "таймаут запроса к классификатору")
	// Монитор экрана
	flag.BoolVar(&cfg.ScreenEnabled, "screen-enabled", cfg.ScreenEnabled, "включить монитор активности экрана")
	flag.DurationVar(&cfg.ScreenInterval, "screen-interval", cfg.ScreenInterval, "период опроса экрана, напр. 10s")
	flag.StringVar(&cfg.OCRServiceURL, "ocr-service-url", cfg.OCRServiceURL, "адрес OCR-сервиса")
	// Принимаем списки ключевых слов одной строкой, разделённой ';'
	studyFlag := strings.Join(cfg.StudyKeywords, ";")
	codeFlag := strings.Join(cfg.CodeKeywords, ";")
	gameFlag := strings.Join(cfg.GameKeywords, ";")
	flag.StringVar(&studyFlag, "study-keywords", studyFlag, "ключевые слова «учёба», разделённые ';'")
	flag.StringVar(&codeFlag, "code-keywords", codeFlag, "ключевые слова «код», разделённые ';'")
	flag.StringVar(&gameFlag, "game-keywords", gameFlag, "ключевые слова «игра», разделённые ';'")
	flag.IntVar(&cfg.KeywordMinHits, "keyword-min-hits", cfg.KeywordMinHits, "минимум совпадений ключевых слов")
	// Гистерезис
	flag.IntVar(&cfg.DistractionThreshold, "distraction-threshold", cfg.DistractionThreshold, "тиков отвлечения подряд до тревоги")
	flag.IntVar(&cfg.RecoveryThreshold, "recovery-threshold", cfg.RecoveryThreshold, "тиков сосредоточенности подряд до отбоя")
	// Тревога
	flag.IntVar(&cfg.AlarmFrequencyHz, "alarm-frequency", cfg.AlarmFrequencyHz, "частота тона тревоги, Гц")
	flag.DurationVar(&cfg.AlarmToneDuration, "alarm-tone-duration", cfg.AlarmToneDuration, "длительность тона тревоги")
	flag.DurationVar(&cfg.AlarmPause, "alarm-pause", cfg.AlarmPause, "пауза между циклами тревоги")
	flag.IntVar(&cfg.AlarmVolumePercent, "alarm-volume", cfg.AlarmVolumePercent, "громкость тревоги 0-100")
	flag.IntVar(&cfg.BurstFrequencyHz, "burst-frequency", cfg.BurstFrequencyHz, "частота тона пачки, Гц")
	flag.DurationVar(&cfg.BurstToneDuration, "burst-tone-duration", cfg.BurstToneDuration, "длительность тона пачки")
	flag.DurationVar(&cfg.BurstGap, "burst-gap", cfg.BurstGap, "пауза между тонами пачки")
	flag.IntVar(&cfg.BurstCount, "burst-count", cfg.BurstCount, "тонов в пачке")
	flag.DurationVar(&cfg.BurstPause, "burst-pause", cfg.BurstPause, "пауза между пачками")
	// Сессия
	flag.DurationVar(&cfg.SessionDuration, "session-duration", cfg.SessionDuration, "длительность фокус-сессии; 0 — без таймера")
	// Чат-коуч
	flag.StringVar(&cfg.AssistantInstructions, "assistant-instructions", cfg.AssistantInstructions, "системные инструкции коуча")
	flag.StringVar(&cfg.FallbackReply, "fallback-reply", cfg.FallbackReply, "ответ при недоступности сервиса")
	flag.StringVar(&cfg.WakeWord, "wake-word", cfg.WakeWord, "фраза-триггер голосовых запросов")
	flag.StringVar(&cfg.WakePrompt, "wake-prompt", cfg.WakePrompt, "реплика при пустом запросе после триггера")
	flag.StringVar(&cfg.DistractionNotice, "distraction-notice", cfg.DistractionNotice, "реплика при пересечении порога отвлечения")
	flag.BoolVar(&cfg.SpeakReplies, "speak-replies", cfg.SpeakReplies, "озвучивать ответы коуча")
	// Поток распознавания речи
	flag.StringVar(&cfg.SpeechStreamURL, "speech-stream-url", cfg.SpeechStreamURL, "websocket-адрес распознавания речи")
	flag.StringVar(&cfg.SpeechAuthToken, "speech-auth-token", cfg.SpeechAuthToken, "токен авторизации потока речи")
	// Параметры Google TTS
	flag.StringVar(&cfg.GoogleTTS.CredentialsPath, "google-tts-credentials", cfg.GoogleTTS.CredentialsPath, "путь к service-account.json (также читается из ENV GOOGLE_APPLICATION_CREDENTIALS)")
	flag.StringVar(&cfg.GoogleTTS.Language, "google-tts-language", cfg.GoogleTTS.Language, "язык синтеза, напр. en-US")
	flag.StringVar(&cfg.GoogleTTS.Voice, "google-tts-voice", cfg.GoogleTTS.Voice, "имя голоса, напр. en-US-Standard-C")
	flag.Float64Var(&cfg.GoogleTTS.SpeakingRate, "google-tts-speaking-rate", cfg.GoogleTTS.SpeakingRate, "скорость речи (1.0 по умолчанию)")
	flag.Float64Var(&cfg.GoogleTTS.Pitch, "google-tts-pitch", cfg.GoogleTTS.Pitch, "тон (полутоны), может быть отрицательным")
	flag.Float64Var(&cfg.GoogleTTS.VolumeGainDb, "google-tts-volume-db", cfg.GoogleTTS.VolumeGainDb, "усиление громкости (дБ)")
	// Redis
	flag.StringVar(&cfg.RedisAddr, "redis-addr", cfg.RedisAddr, "адрес Redis; пусто — хранилище выключено")
	flag.StringVar(&cfg.RedisPassword, "redis-password", cfg.RedisPassword, "пароль Redis")
	flag.IntVar(&cfg.RedisDB, "redis-db", cfg.RedisDB, "номер базы Redis")
	// Метрики
	flag.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "адрес /metrics, напр. 127.0.0.1:9090; пусто — выключено")
	flag.Parse()

	// Разбор списков по общему правилу (trim + убрать пустые), дефолты различаются
	cfg.StudyKeywords = parseListFlag(studyFlag, Defaults().StudyKeywords)
	cfg.CodeKeywords = parseListFlag(codeFlag, Defaults().CodeKeywords)
	cfg.GameKeywords = parseListFlag(gameFlag, Defaults().GameKeywords)

	return cfg
}

// parseListFlag разбирает значение флага со списком, разделённым ';'
func parseListFlag(v string, def []string) []string {
	// Пустая строка → дефолт
	if v == "" {
		return def
	}
	parts := strings.Split(v, ";")
	cleaned := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			cleaned = append(cleaned, p)
		}
	}
	if len(cleaned) == 0 {
		return def
	}
	return cleaned
}
