package auth

import (
	"testing"
	"time"
)

func TestSessionRoundTrip(t *testing.T) {
	c := NewSessionCodec("test-secret")
	value := c.Encode(42)

	uid, ok := c.Decode(value, UserSessionMaxAge)
	if !ok {
		t.Fatalf("Decode rejected a freshly encoded value %q", value)
	}
	if uid != 42 {
		t.Fatalf("Decode returned uid %d, want 42", uid)
	}
}

func TestSessionRejectsTampering(t *testing.T) {
	c := NewSessionCodec("test-secret")
	good := c.Encode(7)

	cases := []struct {
		name  string
		value string
	}{
		{"empty", ""},
		{"garbage", "not-a-session"},
		{"no signature", "7.1700000000"},
		{"flipped uid", "8" + good[1:]},
		{"truncated signature", good[:len(good)-2]},
		{"other key", NewSessionCodec("other-secret").Encode(7)},
		{"zero uid", func() string {
			z := NewSessionCodec("test-secret")
			return z.Encode(0)
		}()},
	}
	for _, tc := range cases {
		if uid, ok := c.Decode(tc.value, UserSessionMaxAge); ok {
			t.Errorf("%s: Decode accepted %q as uid %d", tc.name, tc.value, uid)
		}
	}
}

func TestSessionExpiry(t *testing.T) {
	now := time.Now().UTC()
	c := NewSessionCodec("test-secret")
	c.now = func() time.Time { return now }
	value := c.Encode(3)

	// just inside the window
	c.now = func() time.Time { return now.Add(UserSessionMaxAge - time.Minute) }
	if _, ok := c.Decode(value, UserSessionMaxAge); !ok {
		t.Fatalf("Decode rejected a still-valid session")
	}

	// past the window
	c.now = func() time.Time { return now.Add(UserSessionMaxAge + time.Minute) }
	if _, ok := c.Decode(value, UserSessionMaxAge); ok {
		t.Fatalf("Decode accepted an expired session")
	}

	// a shorter window rejects earlier
	c.now = func() time.Time { return now.Add(AdminSessionMaxAge + time.Minute) }
	if _, ok := c.Decode(value, AdminSessionMaxAge); ok {
		t.Fatalf("Decode accepted a session past the admin window")
	}

	// issued in the future is as bad as expired
	c.now = func() time.Time { return now.Add(-time.Hour) }
	if _, ok := c.Decode(value, UserSessionMaxAge); ok {
		t.Fatalf("Decode accepted a session issued in the future")
	}
}
