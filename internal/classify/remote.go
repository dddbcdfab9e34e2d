package classify

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// FrameProvider отдаёт очередной кадр в формате JPEG.
type FrameProvider func(ctx context.Context) ([]byte, error)

// detectRequest — общий формат запроса к сайдкару с моделями:
// изображение передаётся как data URL.
type detectRequest struct {
	Image string `json:"image"`
}

func dataURL(jpeg []byte) string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(jpeg)
}

// postJSON шлёт запрос на сайдкар и декодирует ответ в out.
// Любая транспортная ошибка или не-2xx статус трактуются как недоступность источника.
func postJSON(ctx context.Context, client *http.Client, url string, in any, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// ModelSource опрашивает внешний сервер предобученной модели (например, модель позы):
// кадр → {label, confidence}.
type ModelSource struct {
	URL    string
	Frames FrameProvider
	Client *http.Client
}

func NewModelSource(url string, frames FrameProvider, timeout time.Duration) *ModelSource {
	return &ModelSource{URL: url, Frames: frames, Client: &http.Client{Timeout: timeout}}
}

func (s *ModelSource) Predict(ctx context.Context) (Event, error) {
	frame, err := s.Frames(ctx)
	if err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	var out struct {
		Label      string  `json:"label"`
		Confidence float64 `json:"confidence"`
	}
	if err := postJSON(ctx, s.Client, s.URL, detectRequest{Image: dataURL(frame)}, &out); err != nil {
		return Event{}, err
	}
	label := Label(out.Label)
	if label.Verdict() == VerdictAmbiguous {
		label = LabelUnknown
	}
	return Event{Label: label, Confidence: out.Confidence, At: time.Now()}, nil
}

// EyeSource опрашивает детектор глаз (каскад Хаара за HTTP):
// кадр → {eyes_detected}. Видимые глаза трактуем как «сосредоточен».
type EyeSource struct {
	URL    string
	Frames FrameProvider
	Client *http.Client
}

func NewEyeSource(url string, frames FrameProvider, timeout time.Duration) *EyeSource {
	return &EyeSource{URL: url, Frames: frames, Client: &http.Client{Timeout: timeout}}
}

func (s *EyeSource) Predict(ctx context.Context) (Event, error) {
	frame, err := s.Frames(ctx)
	if err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	var out struct {
		EyesDetected bool `json:"eyes_detected"`
	}
	if err := postJSON(ctx, s.Client, s.URL, detectRequest{Image: dataURL(frame)}, &out); err != nil {
		return Event{}, err
	}
	label := LabelDistracted
	if out.EyesDetected {
		label = LabelFocused
	}
	return Event{Label: label, Confidence: 1, At: time.Now()}, nil
}

// OCRSource извлекает текст с кадра через OCR-сервис и классифицирует его
// по ключевым словам: кадр → {text} → метка активности.
type OCRSource struct {
	URL      string
	Frames   FrameProvider
	Keywords *KeywordClassifier
	Client   *http.Client
}

func NewOCRSource(url string, frames FrameProvider, kw *KeywordClassifier, timeout time.Duration) *OCRSource {
	return &OCRSource{URL: url, Frames: frames, Keywords: kw, Client: &http.Client{Timeout: timeout}}
}

func (s *OCRSource) Predict(ctx context.Context) (Event, error) {
	frame, err := s.Frames(ctx)
	if err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	var out struct {
		Text string `json:"text"`
	}
	if err := postJSON(ctx, s.Client, s.URL, detectRequest{Image: dataURL(frame)}, &out); err != nil {
		return Event{}, err
	}
	label, confidence := s.Keywords.Classify(out.Text)
	return Event{Label: label, Confidence: confidence, At: time.Now()}, nil
}

// HTTPFrames — источник кадров по GET (например, мост к веб-камере, отдающий JPEG).
func HTTPFrames(url string, timeout time.Duration) FrameProvider {
	client := &http.Client{Timeout: timeout}
	return func(ctx context.Context) ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("frame source: status %d", resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	}
}
