// Package idgen provides the cryptographic primitives shared across the
// orchestrator: HMAC-SHA256 signing/verification, API-key hashing and
// generation, and random identifier generation. Grounded on the
// teacher's signature_service.go (HMAC) and auth_service.go
// (generateRandomHex), generalized to byte-slice inputs so it can sign
// both canonical request strings and webhook payload bytes.
package idgen

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// HMACSHA256Hex computes HMAC-SHA256(payload, secret) and returns it as
// lowercase hex.
func HMACSHA256Hex(payload, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyHMAC recomputes HMAC-SHA256(payload, secret) and compares it to
// hexSig in constant time, regardless of length difference.
func VerifyHMAC(payload, secret []byte, hexSig string) bool {
	expected := HMACSHA256Hex(payload, secret)
	return hmac.Equal([]byte(expected), []byte(hexSig))
}

// HashAPIKey returns the storage form of an API key: an algorithm
// prefix followed by the hex-encoded SHA-256 digest. The plaintext key
// is never persisted.
func HashAPIKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return "sha256:" + hex.EncodeToString(sum[:])
}

// GenerateAPIKey returns a new plaintext API key of the form
// "sk_live_<base64url>". The caller must hash it with HashAPIKey before
// persisting and must show the plaintext value to the merchant exactly
// once.
func GenerateAPIKey() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("idgen: generate api key: %w", err)
	}
	return "sk_live_" + base64.RawURLEncoding.EncodeToString(buf), nil
}

// GenerateID returns a new 128-bit unique identifier rendered
// canonically (a UUIDv4 string). This is the canonical identifier form
// for every entity in the data model.
func GenerateID() string {
	return uuid.New().String()
}

// GenerateShortID returns hex(16 random bytes), used for correlation
// identifiers that don't need to be valid UUIDs (e.g. request IDs
// echoed to clients that didn't supply their own).
func GenerateShortID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("idgen: generate short id: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Fingerprint returns the SHA-256 digest, as lowercase hex, of the
// canonical serialization of (body, path, method). Canonicalization
// parses body as JSON and re-marshals it with object keys sorted
// recursively, so two clients whose JSON libraries emit different key
// order or incidental whitespace produce byte-identical fingerprints
// for the same logical request. A body that is not valid JSON (or
// empty) is hashed as its raw bytes instead.
func Fingerprint(body []byte, path, method string) string {
	canonicalBody := body
	if len(body) > 0 {
		var v any
		if err := json.Unmarshal(body, &v); err == nil {
			if encoded, err := json.Marshal(canonicalizeJSON(v)); err == nil {
				canonicalBody = encoded
			}
		}
	}

	h := sha256.New()
	h.Write(canonicalBody)
	h.Write([]byte{0})
	h.Write([]byte(path))
	h.Write([]byte{0})
	h.Write([]byte(method))
	return hex.EncodeToString(h.Sum(nil))
}

// canonicalizeJSON rebuilds v so that json.Marshal emits map keys in
// sorted order at every nesting level; encoding/json already sorts
// map[string]any keys, but canonicalizeJSON makes the ordering
// explicit and stable across Go versions and within nested slices.
func canonicalizeJSON(v any) any {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make(map[string]any, len(t))
		for _, k := range keys {
			out[k] = canonicalizeJSON(t[k])
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = canonicalizeJSON(e)
		}
		return out
	default:
		return t
	}
}
