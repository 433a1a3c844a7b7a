package goroutine

import (
	"runtime/debug"

	"github.com/Artixsss/MVDProject/internal/logger"
)

// SafeGo запускает fn в отдельной горутине и перехватывает panic.
// Все фоновые задачи (классификация, рассылка уведомлений, аудит)
// уходят через эту обёртку: упавшая задача не роняет процесс.
func SafeGo(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Log.WithField("panic", r).
					Errorf("goroutine: паника в фоновой задаче\n%s", debug.Stack())
			}
		}()
		fn()
	}()
}
