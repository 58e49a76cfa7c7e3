// Package jwt реализует генерацию и парсинг JWT токенов с пользовательскими claim полями.
//
// Сервис выпускает пару токенов: короткоживущий access и долгоживущий refresh.
// Оба подписываются одним секретом, различаются полем TokenType.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// TypeAccess — тип access-токена.
	TypeAccess = "access"
	// TypeRefresh — тип refresh-токена.
	TypeRefresh = "refresh"
)

// ErrWrongTokenType возвращается, когда тип токена не совпадает с ожидаемым
// (например, refresh-токен предъявлен вместо access).
var ErrWrongTokenType = errors.New("wrong token type")

// CustomClaims описывает пользовательские данные, хранящиеся в JWT.
type CustomClaims struct {
	UserUID              string `json:"uid"`   // Уникальный идентификатор пользователя
	Email                string `json:"email"` // Электронная почта
	Role                 string `json:"role"`  // Роль пользователя, admin или user
	TokenType            string `json:"typ"`   // access или refresh
	jwt.RegisteredClaims        // Встроенные стандартные claims JWT (ExpiresAt, IssuedAt и пр.)
}

// GenerateAccessToken создает access-токен с uid, email и ролью пользователя.
func (j *MakerImpl) GenerateAccessToken(userUID, email, role string) (string, error) {
	return j.generate(userUID, email, role, TypeAccess, j.accessTTL)
}

// GenerateRefreshToken создает refresh-токен. Email и роль в него не кладутся:
// при обновлении пары пользователь перечитывается из хранилища.
func (j *MakerImpl) GenerateRefreshToken(userUID string) (string, error) {
	return j.generate(userUID, "", "", TypeRefresh, j.refreshTTL)
}

func (j *MakerImpl) generate(userUID, email, role, tokenType string, ttl time.Duration) (string, error) {
	const op = "jwt.generate"
	claims := CustomClaims{
		UserUID:   userUID,
		Email:     email,
		Role:      role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return signed, nil
}

// ParseToken парсит JWT, проверяет подпись, срок действия и тип токена,
// возвращает CustomClaims, если токен корректен.
func (j *MakerImpl) ParseToken(tokenStr, wantType string) (*CustomClaims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(j.secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	if claims.TokenType != wantType {
		return nil, fmt.Errorf("%s: %w", op, ErrWrongTokenType)
	}
	return claims, nil
}
