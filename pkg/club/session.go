package club

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// HeartbeatInterval — период фоновой проверки сессии.
const HeartbeatInterval = 5 * time.Minute

// State — снимок состояния сессии.
type State struct {
	User            *User
	IsAuthenticated bool
	IsLoading       bool
}

// Session — единственный владелец состояния аутентификации.
// Все изменения проходят через её методы; маршрутные правила и
// оркестратор оплаты только читают снимки через Snapshot.
//
// Сессия подписывается на истечение токенов у клиента: невосстановимый
// 401 из любого запроса приводит её в разлогиненное состояние без
// участия вызывающего кода.
type Session struct {
	client *Client
	log    *slog.Logger

	mu         sync.Mutex
	user       *User
	authed     bool
	loading    bool
	generation uint64

	heartbeatCancel context.CancelFunc
	onChange        func(State)
}

// NewSession создает сессию поверх клиента и подключает обработчик
// истечения токенов. Начальное состояние — загрузка: до завершения
// Rehydrate правила маршрутизации обязаны ждать.
func NewSession(client *Client, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}
	s := &Session{
		client:  client,
		log:     log,
		loading: true,
	}
	client.SetSessionExpiredHook(s.expire)
	return s
}

// OnChange задает подписчика изменений состояния. Вызывается под
// снимком, уже вне мьютекса сессии.
func (s *Session) OnChange(fn func(State)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Snapshot возвращает текущий снимок состояния.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() State {
	return State{
		User:            s.user,
		IsAuthenticated: s.authed,
		IsLoading:       s.loading,
	}
}

// Rehydrate восстанавливает сессию на старте: подсказка из хранилища
// даёт оптимистичное состояние, затем сервер подтверждает или
// опровергает его. До ответа сервера IsLoading остаётся истинным.
func (s *Session) Rehydrate(ctx context.Context) {
	s.mu.Lock()
	s.loading = true
	if hint, err := s.client.Hints().Load(); err == nil && hint != nil {
		// Оптимистично, но не окончательно: подтверждает только сервер.
		s.user = hint
		s.authed = true
	}
	gen := s.bumpGenerationLocked()
	s.notifyLocked()
	s.mu.Unlock()

	user, err := s.client.GetMe(ctx)
	s.settle(gen, user, err)
}

// Login выполняет вход. Профиль из ответа входа не используется как
// источник истины: после успешного входа сессия запрашивает GetMe.
func (s *Session) Login(ctx context.Context, req LoginRequest) (*User, error) {
	if _, err := s.client.Login(ctx, req); err != nil {
		return nil, err
	}
	return s.confirm(ctx)
}

// Register создает учётную запись и открывает сессию, подтверждая
// профиль тем же запросом GetMe, что и вход.
func (s *Session) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	if _, err := s.client.Register(ctx, req); err != nil {
		return nil, err
	}
	return s.confirm(ctx)
}

// Logout завершает сессию. Запрос к серверу — по возможности: локальное
// состояние сбрасывается безусловно, даже если сервер недоступен.
func (s *Session) Logout(ctx context.Context) {
	if err := s.client.Logout(ctx); err != nil {
		s.log.Warn("server logout failed, resetting locally", slog.Any("err", err))
	}
	s.reset()
}

// UpdateProfile изменяет профиль и обновляет состояние сессии.
func (s *Session) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*User, error) {
	user, err := s.client.UpdateProfile(ctx, req)
	if err != nil {
		return nil, err
	}
	s.adopt(user)
	return user, nil
}

// Refresh перечитывает профиль с сервера, например после оплаты.
func (s *Session) Refresh(ctx context.Context) (*User, error) {
	return s.confirm(ctx)
}

// StartHeartbeat запускает фоновую проверку сессии раз в
// HeartbeatInterval. Сама проверка никогда не разлогинивает: сбросом
// занимается каскад обновления токенов внутри клиента. Повторный
// запуск перезапускает проверку.
func (s *Session) StartHeartbeat(ctx context.Context) {
	s.mu.Lock()
	if s.heartbeatCancel != nil {
		s.heartbeatCancel()
	}
	hbCtx, cancel := context.WithCancel(ctx)
	s.heartbeatCancel = cancel
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(HeartbeatInterval)
		defer ticker.Stop()
		for {
			select {
			case <-hbCtx.Done():
				return
			case <-ticker.C:
				if !s.Snapshot().IsAuthenticated {
					continue
				}
				gen := s.bumpGeneration()
				user, err := s.client.GetMe(hbCtx)
				if err != nil {
					s.log.Debug("heartbeat check failed", slog.Any("err", err))
					continue
				}
				s.settle(gen, user, nil)
			}
		}
	}()
}

// StopHeartbeat останавливает фоновую проверку.
func (s *Session) StopHeartbeat() {
	s.mu.Lock()
	if s.heartbeatCancel != nil {
		s.heartbeatCancel()
		s.heartbeatCancel = nil
	}
	s.mu.Unlock()
}

// confirm запрашивает профиль и делает его новым состоянием сессии.
func (s *Session) confirm(ctx context.Context) (*User, error) {
	gen := s.bumpGeneration()
	user, err := s.client.GetMe(ctx)
	s.settle(gen, user, err)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// settle применяет результат проверки профиля, если за время запроса
// не началась более новая проверка. Устаревшие ответы отбрасываются.
//
// Разлогинивает только отказ в авторизации. Прочие ошибки (сеть, 5xx)
// не трогают текущее состояние: кешированный профиль может быть
// действителен, заканчивается только загрузка.
func (s *Session) settle(gen uint64, user *User, err error) {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return
	}
	unauthorized := false
	switch {
	case err == nil:
		s.user = user
		s.authed = true
	case isUnauthorized(err):
		unauthorized = true
		s.user = nil
		s.authed = false
	}
	s.loading = false
	s.notifyLocked()
	s.mu.Unlock()

	if err == nil && user != nil {
		if saveErr := s.client.Hints().Save(user); saveErr != nil {
			s.log.Warn("failed to save profile hint", slog.Any("err", saveErr))
		}
	}
	if unauthorized {
		if clearErr := s.client.Hints().Clear(); clearErr != nil {
			s.log.Warn("failed to clear profile hint", slog.Any("err", clearErr))
		}
	}
}

func isUnauthorized(err error) bool {
	apiErr, ok := asAPIError(err)
	return ok && apiErr.IsUnauthorized()
}

// adopt принимает профиль, полученный попутно (обновление профиля,
// сохранение изображения), без обращения к серверу.
func (s *Session) adopt(user *User) {
	s.mu.Lock()
	s.bumpGenerationLocked()
	s.user = user
	s.authed = true
	s.loading = false
	s.notifyLocked()
	s.mu.Unlock()

	if err := s.client.Hints().Save(user); err != nil {
		s.log.Warn("failed to save profile hint", slog.Any("err", err))
	}
}

// reset безусловно переводит сессию в разлогиненное состояние.
func (s *Session) reset() {
	if err := s.client.Hints().Clear(); err != nil {
		s.log.Warn("failed to clear profile hint", slog.Any("err", err))
	}
	s.mu.Lock()
	s.bumpGenerationLocked()
	s.user = nil
	s.authed = false
	s.loading = false
	s.notifyLocked()
	s.mu.Unlock()
}

// expire — обработчик невосстановимого 401 из клиента. Подсказку
// клиент уже стёр.
func (s *Session) expire() {
	s.mu.Lock()
	s.bumpGenerationLocked()
	s.user = nil
	s.authed = false
	s.loading = false
	s.notifyLocked()
	s.mu.Unlock()
}

func (s *Session) bumpGeneration() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bumpGenerationLocked()
}

func (s *Session) bumpGenerationLocked() uint64 {
	s.generation++
	return s.generation
}

func (s *Session) notifyLocked() {
	if s.onChange == nil {
		return
	}
	fn := s.onChange
	state := s.snapshotLocked()
	go fn(state)
}
