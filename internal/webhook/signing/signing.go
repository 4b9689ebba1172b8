package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	dErrors "warden/pkg/domain-errors"
)

// Header names.
const (
	HeaderDate          = "x-ms-date"
	HeaderContentSHA256 = "x-ms-content-sha256"
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"

	authScheme = "HMAC-SHA256 SignedHeaders=x-ms-date;host;x-ms-content-sha256&Signature="
)

// Config is the shared secret and the receiver's host and path. Every field
// is required.
type Config struct {
	Secret string
	Host   string
	Path   string
}

func (c Config) Validate() error {
	if c.Secret == "" || c.Host == "" || c.Path == "" {
		return dErrors.New(dErrors.CodeInvalidConfiguration, "webhook signing requires secret, host and path")
	}
	return nil
}

// Headers are the signing headers carried by a webhook request.
type Headers struct {
	Date          string `json:"x-ms-date"`
	ContentSHA256 string `json:"x-ms-content-sha256"`
	Authorization string `json:"Authorization"`
	ContentType   string `json:"Content-Type"`
}

// Apply copies the headers onto an outgoing request.
func (h Headers) Apply(dst http.Header) {
	dst.Set(HeaderDate, h.Date)
	dst.Set(HeaderContentSHA256, h.ContentSHA256)
	dst.Set(HeaderAuthorization, h.Authorization)
	dst.Set(HeaderContentType, h.ContentType)
}

// HeadersFrom reads the signing headers from a received request.
func HeadersFrom(src http.Header) Headers {
	return Headers{
		Date:          src.Get(HeaderDate),
		ContentSHA256: src.Get(HeaderContentSHA256),
		Authorization: src.Get(HeaderAuthorization),
		ContentType:   src.Get(HeaderContentType),
	}
}

// Signature returns the value after "Signature=" in the Authorization header,
// or "" when absent.
func (h Headers) Signature() string {
	_, sig, ok := strings.Cut(h.Authorization, "Signature=")
	if !ok {
		return ""
	}
	return sig
}

// Signed is the result of signing one body.
type Signed struct {
	Headers      Headers
	StringToSign string
	ContentHash  string
	Signature    string
}

// ContentHash is base64(SHA-256(body)).
func ContentHash(body []byte) string {
	sum := sha256.Sum256(body)
	return base64.StdEncoding.EncodeToString(sum[:])
}

// CanonicalString is the string covered by the signature.
func CanonicalString(path, date, host, contentHash string) string {
	return "POST\n" + path + "\n" + date + ";" + host + ";" + contentHash
}

// ComputeSignature is base64(HMAC-SHA256(secret, canonical)).
func ComputeSignature(secret, canonical string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(canonical))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Sign hashes body and signs it for cfg at time now.
func Sign(body []byte, cfg Config, now time.Time) (Signed, error) {
	if err := cfg.Validate(); err != nil {
		return Signed{}, err
	}
	date := now.UTC().Format(http.TimeFormat)
	hash := ContentHash(body)
	canonical := CanonicalString(cfg.Path, date, cfg.Host, hash)
	sig := ComputeSignature(cfg.Secret, canonical)
	return Signed{
		Headers: Headers{
			Date:          date,
			ContentSHA256: hash,
			Authorization: authScheme + sig,
			ContentType:   "application/json",
		},
		StringToSign: canonical,
		ContentHash:  hash,
		Signature:    sig,
	}, nil
}
