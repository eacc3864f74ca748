package client

import (
	"context"
	"sync"
	"time"

	"golang.org/x/exp/slog"
)

// HealthChecker - минимальный контракт проверки доступности сервера
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// NetMonitor следит за доступностью сервера. Переход из офлайна в онлайн
// вызывает onOnline - так отложенные данные уходят сразу после
// восстановления связи, не дожидаясь планового интервала.
type NetMonitor struct {
	checker  HealthChecker
	log      *slog.Logger
	interval time.Duration
	onOnline func()

	mu     sync.RWMutex
	online bool
}

// NewNetMonitor создает новый монитор соединения
func NewNetMonitor(checker HealthChecker, interval time.Duration, log *slog.Logger) *NetMonitor {
	return &NetMonitor{
		checker:  checker,
		log:      log,
		interval: interval,
	}
}

// OnOnline регистрирует обработчик перехода в онлайн
func (m *NetMonitor) OnOnline(fn func()) {
	m.onOnline = fn
}

// Online сообщает последнее известное состояние соединения
func (m *NetMonitor) Online() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.online
}

// Check выполняет разовую проверку и обновляет состояние
func (m *NetMonitor) Check(ctx context.Context) bool {
	err := m.checker.HealthCheck(ctx)

	m.mu.Lock()
	wasOnline := m.online
	m.online = err == nil
	nowOnline := m.online
	m.mu.Unlock()

	if !wasOnline && nowOnline {
		m.log.Info("соединение с сервером восстановлено")
		if m.onOnline != nil {
			m.onOnline()
		}
	}
	if wasOnline && !nowOnline {
		m.log.Warn("соединение с сервером потеряно", "error", err)
	}

	return nowOnline
}

// Start запускает периодическую проверку соединения
func (m *NetMonitor) Start(ctx context.Context) {
	m.log.Info("запуск монитора соединения", "interval", m.interval)

	// Первая проверка сразу, не дожидаясь тикера
	m.Check(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.log.Info("монитор соединения остановлен")
			return
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}
