// Package cookies устанавливает и сбрасывает HttpOnly cookie с парой токенов.
package cookies

import (
	"net/http"
	"time"

	"github.com/theclub367services-boop/club369/internal/http/middlewarectx"
)

// Set записывает пару токенов в HttpOnly cookie. Access-токен доступен
// на всём сайте, refresh — только на маршруте обновления.
func Set(w http.ResponseWriter, access, refresh string, accessTTL, refreshTTL time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     middlewarectx.AccessTokenCookie,
		Value:    access,
		Path:     "/",
		MaxAge:   int(accessTTL.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     middlewarectx.RefreshTokenCookie,
		Value:    refresh,
		Path:     "/api/v1/auth/refresh",
		MaxAge:   int(refreshTTL.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear сбрасывает обе cookie с токенами.
func Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middlewarectx.AccessTokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     middlewarectx.RefreshTokenCookie,
		Value:    "",
		Path:     "/api/v1/auth/refresh",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}
