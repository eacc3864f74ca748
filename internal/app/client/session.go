package client

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"

	"tabelkeeper/internal/app/client/config"
)

// ErrBadPIN - неверный PIN администратора
var ErrBadPIN = errors.New("неверный PIN")

// ErrPINNotSet - PIN администратора еще не настроен
var ErrPINNotSet = errors.New("PIN администратора не настроен")

const sessionTTL = 15 * time.Minute

// Session управляет административным доступом киоска.
// PIN хранится как bcrypt-хеш, успешный вход открывает сессию
// на ограниченное время.
type Session struct {
	cfg *config.Config
	log *slog.Logger
	now func() time.Time
}

// NewSession создает новый менеджер административной сессии
func NewSession(cfg *config.Config, log *slog.Logger) *Session {
	return &Session{
		cfg: cfg,
		log: log,
		now: time.Now,
	}
}

// PINConfigured проверяет, настроен ли PIN
func (s *Session) PINConfigured() bool {
	_, err := os.Stat(s.cfg.PINPath)
	return err == nil
}

// SetPIN устанавливает PIN администратора
func (s *Session) SetPIN(pin string) error {
	pin = strings.TrimSpace(pin)
	if len(pin) < 4 {
		return fmt.Errorf("PIN должен содержать минимум 4 символа")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("ошибка хеширования PIN: %w", err)
	}

	if err := os.WriteFile(s.cfg.PINPath, hash, 0600); err != nil {
		return fmt.Errorf("ошибка сохранения PIN: %w", err)
	}

	s.log.Info("PIN администратора обновлен")
	return nil
}

// Login проверяет PIN и открывает административную сессию
func (s *Session) Login(pin string) error {
	hash, err := os.ReadFile(s.cfg.PINPath)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrPINNotSet
		}
		return fmt.Errorf("ошибка чтения PIN: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(hash, []byte(strings.TrimSpace(pin))); err != nil {
		return ErrBadPIN
	}

	expiry := s.now().Add(sessionTTL).Format(time.RFC3339)
	if err := os.WriteFile(s.cfg.SessionPath, []byte(expiry+"\n"), 0600); err != nil {
		return fmt.Errorf("ошибка открытия сессии: %w", err)
	}

	s.log.Info("административная сессия открыта")
	return nil
}

// IsAdmin проверяет, открыта ли действующая административная сессия
func (s *Session) IsAdmin() bool {
	data, err := os.ReadFile(s.cfg.SessionPath)
	if err != nil {
		return false
	}

	expiry, err := time.Parse(time.RFC3339, strings.TrimSpace(string(data)))
	if err != nil {
		return false
	}

	return s.now().Before(expiry)
}

// Logout закрывает административную сессию
func (s *Session) Logout() error {
	if err := os.Remove(s.cfg.SessionPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("ошибка закрытия сессии: %w", err)
	}

	s.log.Info("административная сессия закрыта")
	return nil
}
