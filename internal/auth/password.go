package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"

	"github.com/nerrad567/projecthub/internal/infrastructure/config"
)

// Argon2id output sizes. The work factor comes from configuration.
const (
	argonKeyLen  = 32
	argonSaltLen = 16
)

const (
	algorithmArgon2id = "argon2id"
	algorithmBcrypt   = "bcrypt"
)

// maxBcryptInput is the number of password bytes bcrypt reads. Longer
// passwords are rejected rather than truncated.
const maxBcryptInput = 72

// Hasher hashes and verifies passwords.
//
// New hashes use the configured algorithm. Verify reads the algorithm and
// parameters back out of the stored hash, so hashes produced under an
// earlier configuration keep working.
//
// A Hasher is immutable and safe for concurrent use.
type Hasher struct {
	algorithm   string
	memory      uint32
	iterations  uint32
	parallelism uint8
	bcryptCost  int
}

// NewHasher creates a Hasher from the password section of the configuration.
func NewHasher(cfg config.PasswordConfig) (*Hasher, error) {
	h := &Hasher{
		algorithm:   cfg.Algorithm,
		memory:      cfg.Memory,
		iterations:  cfg.Iterations,
		parallelism: cfg.Parallelism,
		bcryptCost:  cfg.BcryptCost,
	}

	switch h.algorithm {
	case algorithmArgon2id:
		if h.memory == 0 || h.iterations == 0 || h.parallelism == 0 {
			return nil, errors.New("argon2id parameters must be positive")
		}
	case algorithmBcrypt:
		if h.bcryptCost < bcrypt.MinCost || h.bcryptCost > bcrypt.MaxCost {
			return nil, fmt.Errorf("bcrypt cost %d out of range", h.bcryptCost)
		}
	default:
		return nil, fmt.Errorf("unsupported password algorithm: %q", h.algorithm)
	}

	return h, nil
}

// Hash returns a salted hash of password. Argon2id hashes use the PHC string
// format: $argon2id$v=19$m=65536,t=3,p=1$<salt>$<hash>
//
// Under bcrypt, passwords longer than 72 bytes return ErrPasswordTooLong.
// Otherwise the only failure mode is the system random source failing.
func (h *Hasher) Hash(password string) (string, error) {
	if h.algorithm == algorithmBcrypt {
		if len(password) > maxBcryptInput {
			return "", ErrPasswordTooLong
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), h.bcryptCost)
		if err != nil {
			return "", fmt.Errorf("hashing password: %w", err)
		}
		return string(hash), nil
	}

	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, h.iterations, h.memory, h.parallelism, argonKeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.memory, h.iterations, h.parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether password matches encodedHash.
// Malformed or unrecognised hashes never match, and neither does a
// password bcrypt could not have hashed in full.
func (h *Hasher) Verify(password, encodedHash string) bool {
	switch {
	case strings.HasPrefix(encodedHash, "$argon2id$"):
		return verifyArgon2id(password, encodedHash)
	case strings.HasPrefix(encodedHash, "$2a$"),
		strings.HasPrefix(encodedHash, "$2b$"),
		strings.HasPrefix(encodedHash, "$2y$"):
		if len(password) > maxBcryptInput {
			return false
		}
		return bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password)) == nil
	default:
		return false
	}
}

func verifyArgon2id(password, encodedHash string) bool {
	salt, key, params, err := decodePHC(encodedHash)
	if err != nil {
		return false
	}

	candidate := argon2.IDKey([]byte(password), salt, params.time, params.memory, params.threads, uint32(len(key))) //nolint:gosec // G115: key length always fits uint32

	return subtle.ConstantTimeCompare(key, candidate) == 1
}

type argonParams struct {
	time    uint32
	memory  uint32
	threads uint8
}

// decodePHC parses an Argon2id PHC string into its components.
func decodePHC(encoded string) (salt, key []byte, params argonParams, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 { //nolint:mnd // PHC format has exactly 6 $-delimited parts
		return nil, nil, params, errors.New("invalid PHC hash format")
	}

	if parts[1] != algorithmArgon2id {
		return nil, nil, params, fmt.Errorf("unsupported algorithm: %s", parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil { //nolint:govet // shadow
		return nil, nil, params, fmt.Errorf("parsing version: %w", err)
	}
	if version != argon2.Version {
		return nil, nil, params, fmt.Errorf("unsupported argon2 version: %d", version)
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.memory, &params.time, &params.threads); err != nil { //nolint:govet // shadow
		return nil, nil, params, fmt.Errorf("parsing parameters: %w", err)
	}
	if params.memory == 0 || params.time == 0 || params.threads == 0 {
		return nil, nil, params, errors.New("argon2 parameters must be positive")
	}

	salt, err = base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, nil, params, fmt.Errorf("decoding salt: %w", err)
	}

	key, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return nil, nil, params, fmt.Errorf("decoding hash: %w", err)
	}
	if len(key) == 0 {
		return nil, nil, params, errors.New("empty hash")
	}

	return salt, key, params, nil
}
