package auth

import (
	"testing"
	"time"

	"github.com/nerrad567/projecthub/internal/infrastructure/config"
)

// ─── Password hashing (intentionally slow) ──────────────────────────

func benchHasher(b *testing.B, cfg config.PasswordConfig) *Hasher {
	b.Helper()
	h, err := NewHasher(cfg)
	if err != nil {
		b.Fatalf("NewHasher: %v", err)
	}
	return h
}

func BenchmarkHash_Argon2idDefault(b *testing.B) {
	h := benchHasher(b, config.PasswordConfig{Algorithm: "argon2id", Memory: 64 * 1024, Iterations: 3, Parallelism: 1})

	for b.Loop() {
		h.Hash("correct-horse-battery-staple") //nolint:errcheck // benchmark
	}
}

func BenchmarkVerify_Bcrypt12(b *testing.B) {
	h := benchHasher(b, config.PasswordConfig{Algorithm: "bcrypt", BcryptCost: 12})
	hash, err := h.Hash("correct-horse-battery-staple")
	if err != nil {
		b.Fatalf("Hash: %v", err)
	}

	for b.Loop() {
		h.Verify("correct-horse-battery-staple", hash)
	}
}

// ─── Tokens (per-request hot path) ──────────────────────────────────

func BenchmarkEncode(b *testing.B) {
	codec, err := NewTokenCodec("benchmark-secret-key-32-bytes-xx", "HS256", 30*time.Minute)
	if err != nil {
		b.Fatalf("NewTokenCodec: %v", err)
	}
	now := time.Now()

	for b.Loop() {
		codec.Encode("42", RoleAdmin, now) //nolint:errcheck // benchmark
	}
}

func BenchmarkDecode(b *testing.B) {
	codec, err := NewTokenCodec("benchmark-secret-key-32-bytes-xx", "HS256", 30*time.Minute)
	if err != nil {
		b.Fatalf("NewTokenCodec: %v", err)
	}
	now := time.Now()
	token, err := codec.Encode("42", RoleAdmin, now)
	if err != nil {
		b.Fatalf("Encode: %v", err)
	}

	for b.Loop() {
		codec.Decode(token, now) //nolint:errcheck // benchmark
	}
}
