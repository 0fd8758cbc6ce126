package transport

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newTestCodec(t *testing.T, cfg Config) *Codec {
	t.Helper()
	if cfg.Secret == nil {
		cfg.Secret = testSecret
	}
	codec, err := NewCodec(cfg)
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	return codec
}

func TestNewCodecRejectsShortSecret(t *testing.T) {
	if _, err := NewCodec(Config{Secret: []byte("too short")}); err == nil {
		t.Fatal("short secret must be rejected")
	}
	if _, err := NewCodec(Config{}); err == nil {
		t.Fatal("missing secret must be rejected")
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	codec := newTestCodec(t, Config{})

	value, err := codec.Encode("the-token")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	token, err := codec.Decode(value)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if token != "the-token" {
		t.Fatalf("token = %q, want the-token", token)
	}
}

func TestDecodeRejectsTampering(t *testing.T) {
	codec := newTestCodec(t, Config{})

	value, err := codec.Encode("the-token")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	// Flip a character in the payload segment.
	parts := strings.Split(value, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected envelope shape: %q", value)
	}
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	if _, err := codec.Decode(tampered); err == nil {
		t.Fatal("tampered envelope accepted")
	}
}

func TestDecodeRejectsForeignSecret(t *testing.T) {
	ours := newTestCodec(t, Config{})
	theirs := newTestCodec(t, Config{Secret: []byte("another secret, also 32+ bytes..")})

	value, err := theirs.Encode("the-token")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, err := ours.Decode(value); err == nil {
		t.Fatal("envelope signed with a foreign secret accepted")
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	codec := newTestCodec(t, Config{})

	for _, value := range []string{"", "not.a.jwt", "the-token"} {
		if _, err := codec.Decode(value); err == nil {
			t.Errorf("value %q accepted", value)
		}
	}
}

func TestSetTokenAndReadToken(t *testing.T) {
	codec := newTestCodec(t, Config{CookieName: "sid"})

	rec := httptest.NewRecorder()
	if err := codec.SetToken(rec, "the-token"); err != nil {
		t.Fatalf("SetToken: %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("got %d cookies, want 1", len(cookies))
	}
	cookie := cookies[0]
	if cookie.Name != "sid" {
		t.Fatalf("cookie name = %q, want sid", cookie.Name)
	}
	if !cookie.HttpOnly {
		t.Fatal("session cookie must be HttpOnly")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)

	token, ok := codec.ReadToken(req)
	if !ok {
		t.Fatal("ReadToken failed on a cookie we just issued")
	}
	if token != "the-token" {
		t.Fatalf("token = %q, want the-token", token)
	}
}

func TestReadTokenMissingCookie(t *testing.T) {
	codec := newTestCodec(t, Config{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := codec.ReadToken(req); ok {
		t.Fatal("ReadToken reported a token on a bare request")
	}
}

func TestReadTokenTamperedCookie(t *testing.T) {
	codec := newTestCodec(t, Config{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: "forged-value"})

	if _, ok := codec.ReadToken(req); ok {
		t.Fatal("ReadToken accepted a forged cookie")
	}
}

func TestClearExpiresCookie(t *testing.T) {
	codec := newTestCodec(t, Config{})

	rec := httptest.NewRecorder()
	codec.Clear(rec)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("got %d cookies, want 1", len(cookies))
	}
	if cookies[0].MaxAge >= 0 {
		t.Fatalf("MaxAge = %d, want negative (immediate expiry)", cookies[0].MaxAge)
	}
	if cookies[0].Value != "" {
		t.Fatalf("cleared cookie still carries value %q", cookies[0].Value)
	}
}
