package jwt

import (
	"time"
)

// Maker описывает интерфейс для генерации и парсинга JWT токенов.
type Maker interface {
	// GenerateAccessToken выпускает access-токен для пользователя.
	GenerateAccessToken(userUID, email, role string) (string, error)
	// GenerateRefreshToken выпускает refresh-токен для пользователя.
	GenerateRefreshToken(userUID string) (string, error)
	// ParseToken разбирает токен и проверяет его тип.
	ParseToken(tokenStr, wantType string) (*CustomClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и отдельных TTL для access и refresh токенов.
type MakerImpl struct {
	secretKey  string        // Секретный ключ для подписи токенов.
	accessTTL  time.Duration // Время жизни access-токена.
	refreshTTL time.Duration // Время жизни refresh-токена.
}

// NewMaker создаёт новый экземпляр MakerImpl.
func NewMaker(secretKey string, accessTTL, refreshTTL time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey:  secretKey,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}
