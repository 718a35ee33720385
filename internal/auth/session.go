package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Session cookie lifetimes. The back-office is a higher-risk surface
// and gets the shorter window plus stricter cookie attributes.
const (
	UserSessionMaxAge  = 7 * 24 * time.Hour
	AdminSessionMaxAge = 24 * time.Hour

	SessionCookie = "fixdesk_session"
)

// SessionCodec turns a user id into a tamper-evident cookie value and
// back. The value is signed, not encrypted: "<uid>.<unix>.<hmac-hex>".
type SessionCodec struct {
	secret []byte
	now    func() time.Time
}

func NewSessionCodec(secret string) *SessionCodec {
	return &SessionCodec{secret: []byte(secret), now: time.Now}
}

func (c *SessionCodec) Encode(userID uint) string {
	payload := fmt.Sprintf("%d.%d", userID, c.now().UTC().Unix())
	return payload + "." + c.sign(payload)
}

// Decode verifies the signature and issue age. Any tampering or expiry
// yields (0, false); it never panics on malformed input.
func (c *SessionCodec) Decode(value string, maxAge time.Duration) (uint, bool) {
	i := strings.LastIndexByte(value, '.')
	if i <= 0 {
		return 0, false
	}
	payload, sig := value[:i], value[i+1:]
	if !hmac.Equal([]byte(sig), []byte(c.sign(payload))) {
		return 0, false
	}
	parts := strings.Split(payload, ".")
	if len(parts) != 2 {
		return 0, false
	}
	uid, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil || uid == 0 {
		return 0, false
	}
	issued, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, false
	}
	age := c.now().UTC().Sub(time.Unix(issued, 0).UTC())
	if age < 0 || age > maxAge {
		return 0, false
	}
	return uint(uid), true
}

func (c *SessionCodec) sign(payload string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

// SetSessionCookie writes the signed session cookie for a regular user.
func SetSessionCookie(w http.ResponseWriter, value string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   int(UserSessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
