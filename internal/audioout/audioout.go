package audioout

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

// ErrUnavailable — звуковой выход не удалось инициализировать (нет устройства,
// нет прав и т.п.). Все проигрыватели обязаны переживать это молча.
var ErrUnavailable = errors.New("audio output unavailable")

// SampleRate — общая частота дискретизации микшера. Потоки с другой частотой
// ресемплируются перед проигрыванием; инициализировать динамик повторно нельзя,
// иначе каналы тревоги и TTS оборвут друг друга.
const SampleRate beep.SampleRate = 44100

var (
	once    sync.Once
	initErr error
)

// Init инициализирует динамик один раз на процесс. Повторные вызовы дёшевы.
func Init() error {
	once.Do(func() {
		if err := speaker.Init(SampleRate, SampleRate.N(time.Second/10)); err != nil {
			initErr = fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	})
	return initErr
}
