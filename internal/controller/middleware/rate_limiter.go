package middleware

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// RateLimiter ограничивает частоту запросов пользователя скользящим окном.
// Просроченные отметки времени удаляются при каждой проверке, чтобы память
// не росла неограниченно.
type RateLimiter struct {
	mu      sync.Mutex
	window  time.Duration
	max     int
	hits    map[int64][]time.Time
	limited map[int64]bool // кому уже отправлено уведомление в текущем эпизоде
	now     func() time.Time
	logger  *zap.Logger
}

// NewRateLimiter создаёт лимитер с окном в одну минуту
func NewRateLimiter(maxPerMinute int, logger *zap.Logger) *RateLimiter {
	return &RateLimiter{
		window:  time.Minute,
		max:     maxPerMinute,
		hits:    make(map[int64][]time.Time),
		limited: make(map[int64]bool),
		now:     time.Now,
		logger:  logger,
	}
}

// Allow регистрирует запрос пользователя. Возвращает allowed=false, если
// лимит превышен, и notify=true, если пользователя стоит уведомить
// (один раз за эпизод превышения).
func (l *RateLimiter) Allow(telegramID int64) (allowed, notify bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	// Чистим просроченные отметки этого пользователя
	fresh := l.hits[telegramID][:0]
	for _, t := range l.hits[telegramID] {
		if t.After(cutoff) {
			fresh = append(fresh, t)
		}
	}

	if len(fresh) >= l.max {
		l.hits[telegramID] = fresh

		l.logger.Warn("Rate limit exceeded",
			zap.Int64("telegram_id", telegramID),
			zap.Int("requests", len(fresh)),
			zap.Int("limit", l.max))

		first := !l.limited[telegramID]
		l.limited[telegramID] = true
		return false, first
	}

	l.hits[telegramID] = append(fresh, now)
	delete(l.limited, telegramID)

	return true, false
}
