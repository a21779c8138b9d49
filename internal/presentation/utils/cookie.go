package utils

import (
	"encoding/base64"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const CookieNameMemberID = "member_id"

// EnsureMemberID returns the caller's stable member identity, minting and
// setting a fresh one when the request carries none.
func EnsureMemberID(w http.ResponseWriter, r *http.Request) string {
	if id := GetMemberIDFromCookie(r); id != "" {
		return id
	}
	newID := uuid.New().String()
	SetPersistentMemberIDCookie(newID, w)
	return newID
}

func GetMemberIDFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(CookieNameMemberID)
	if err != nil {
		return ""
	}
	decoded, err := base64.StdEncoding.DecodeString(cookie.Value)
	if err != nil {
		return ""
	}
	return string(decoded)
}

func SetPersistentMemberIDCookie(memberID string, w http.ResponseWriter) {
	expires := time.Now().Add(30 * 24 * time.Hour)
	http.SetCookie(w, &http.Cookie{
		Name:     CookieNameMemberID,
		Value:    base64.StdEncoding.EncodeToString([]byte(memberID)),
		Path:     "/",
		HttpOnly: true,
		Expires:  expires,
		SameSite: http.SameSiteLaxMode,
		Secure:   true,
	})
}

func GetMemberIDFromRequest(r *http.Request) string {
	// First try header (for API clients)
	if token := r.Header.Get("X-Member-Token"); token != "" {
		return token
	}

	// Fall back to cookie (for WebSocket)
	return GetMemberIDFromCookie(r)
}
