// Package auth содержит бизнес-логику регистрации, входа и обновления
// пары токенов. Авторизация построена на паре access/refresh JWT:
// access живёт минуты, refresh — дни; при обновлении пара выпускается заново.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/theclub367services-boop/club369/internal/lib/jwt"
	"github.com/theclub367services-boop/club369/internal/lib/password"
	"github.com/theclub367services-boop/club369/internal/models"
)

// ErrInvalidCredentials возвращается при неверной паре email/пароль.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrInvalidToken возвращается, когда токен не прошёл проверку.
var ErrInvalidToken = errors.New("invalid token")

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает его UID.
	CreateUser(ctx context.Context, user models.User) (string, error)

	// GetUserByEmail возвращает пользователя по email или ошибку, если не найден.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUser возвращает пользователя по UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)

	// UpdateProfile обновляет имя и телефон, возвращает свежую запись.
	UpdateProfile(ctx context.Context, userUID, name, mobile string) (*models.User, error)
}

// TokenPair — пара выпущенных токенов.
type TokenPair struct {
	Access  string
	Refresh string
}

// Service отвечает за регистрацию, авторизацию и работу с токенами.
type Service struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// New создает новый экземпляр Service.
func New(users UserRepository, jwtMaker jwt.Maker) *Service {
	return &Service{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Register создает нового пользователя. Учётная запись стартует в статусе
// PENDING без членства: до первой оплаты пользователь допускается только
// на страницу оплаты.
func (s *Service) Register(ctx context.Context, name, email, mobile, rawPassword string) (*models.User, TokenPair, error) {
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, TokenPair{}, err
	}
	user := models.User{
		Name:             name,
		Email:            email,
		Mobile:           mobile,
		PasswordHash:     hashed,
		Role:             models.RoleUser,
		Status:           models.StatusPending,
		MembershipStatus: models.MembershipNone,
	}
	uid, err := s.users.CreateUser(ctx, user)
	if err != nil {
		return nil, TokenPair{}, err
	}
	created, err := s.users.GetUser(ctx, uid)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.issuePair(created)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return created, pair, nil
}

// Login проверяет пароль пользователя и выпускает пару токенов.
func (s *Service) Login(ctx context.Context, email, rawPassword string) (*models.User, TokenPair, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, TokenPair{}, ErrInvalidCredentials
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, TokenPair{}, ErrInvalidCredentials
	}
	pair, err := s.issuePair(user)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return user, pair, nil
}

// Refresh проверяет refresh-токен и выпускает новую пару (ротация).
// Пользователь перечитывается из хранилища, чтобы роль и статус
// в новом access-токене были актуальными.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*models.User, TokenPair, error) {
	claims, err := s.jwtMaker.ParseToken(refreshToken, jwt.TypeRefresh)
	if err != nil {
		return nil, TokenPair{}, ErrInvalidToken
	}
	user, err := s.users.GetUser(ctx, claims.UserUID)
	if err != nil {
		return nil, TokenPair{}, ErrInvalidToken
	}
	pair, err := s.issuePair(user)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return user, pair, nil
}

// Authenticate проверяет access-токен и возвращает актуального пользователя.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (*models.User, error) {
	claims, err := s.jwtMaker.ParseToken(accessToken, jwt.TypeAccess)
	if err != nil {
		return nil, ErrInvalidToken
	}
	user, err := s.users.GetUser(ctx, claims.UserUID)
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", ErrInvalidToken)
	}
	return user, nil
}

// UpdateProfile обновляет имя и телефон пользователя.
func (s *Service) UpdateProfile(ctx context.Context, userUID, name, mobile string) (*models.User, error) {
	return s.users.UpdateProfile(ctx, userUID, name, mobile)
}

func (s *Service) issuePair(user *models.User) (TokenPair, error) {
	access, err := s.jwtMaker.GenerateAccessToken(user.UID, user.Email, user.Role)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.jwtMaker.GenerateRefreshToken(user.UID)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}
