// Package auth implements the credential and token primitives of the
// identity subsystem: PBKDF2 password material and signed, time-bound JWTs.
package auth

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// KDF parameters. They are shared between SetPassword and VerifyPassword;
// changing any of them invalidates every stored credential, and no
// migration path exists.
const (
	saltBytes     = 16
	kdfIterations = 10000
	kdfKeyBytes   = 512
)

// SetPassword derives fresh credential material for a plaintext password.
// It returns a random hex-encoded salt and the hex-encoded PBKDF2-SHA512
// hash of the password with that salt. The plaintext is never stored.
func SetPassword(plaintext string) (salt, hash string, err error) {
	b := make([]byte, saltBytes)
	if _, err := rand.Read(b); err != nil {
		return "", "", fmt.Errorf("generating salt: %w", err)
	}

	salt = hex.EncodeToString(b)
	return salt, deriveHash(plaintext, salt), nil
}

// VerifyPassword re-derives the hash from plaintext and salt with the same
// KDF parameters and compares it to storedHash in constant time. Missing
// salt or hash yields false, never a panic.
func VerifyPassword(plaintext, salt, storedHash string) bool {
	if salt == "" || storedHash == "" {
		return false
	}
	candidate := deriveHash(plaintext, salt)
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(storedHash)) == 1
}

// deriveHash seeds the KDF with plaintext and the hex form of the salt,
// matching how the credentials were originally minted.
func deriveHash(plaintext, salt string) string {
	key := pbkdf2.Key([]byte(plaintext), []byte(salt), kdfIterations, kdfKeyBytes, sha512.New)
	return hex.EncodeToString(key)
}
