package auth

import (
	"errors"
	"strings"

	"github.com/alexedwards/argon2id"
	"golang.org/x/crypto/bcrypt"

	"github.com/elskow/legoset/internal/config"
)

const (
	HasherBcrypt   = "bcrypt"
	HasherArgon2id = "argon2id"

	argon2idPrefix = "$argon2id$"
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	// Compare reports a mismatch as (false, nil); err is reserved for
	// malformed hashes.
	Compare(password, hash string) (bool, error)
}

type bcryptHasher struct {
	cost int
}

func (h bcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	return string(bytes), err
}

func (h bcryptHasher) Compare(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return err == nil, err
}

type argon2idHasher struct {
	params *argon2id.Params
}

func (h argon2idHasher) Hash(password string) (string, error) {
	return argon2id.CreateHash(password, h.params)
}

func (h argon2idHasher) Compare(password, hash string) (bool, error) {
	match, _, err := argon2id.CheckHash(password, hash)
	return match, err
}

// hasherSet hashes with the configured algorithm and verifies with whichever
// algorithm produced the stored hash.
type hasherSet struct {
	primary  PasswordHasher
	bcrypt   bcryptHasher
	argon2id argon2idHasher
}

func (h *hasherSet) Hash(password string) (string, error) {
	return h.primary.Hash(password)
}

func (h *hasherSet) Compare(password, hash string) (bool, error) {
	if strings.HasPrefix(hash, argon2idPrefix) {
		return h.argon2id.Compare(password, hash)
	}
	return h.bcrypt.Compare(password, hash)
}

func NewHasher(cfg *config.AuthConfig) PasswordHasher {
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = 10
	}

	set := &hasherSet{
		bcrypt:   bcryptHasher{cost: cost},
		argon2id: argon2idHasher{params: argon2id.DefaultParams},
	}
	if cfg.Hasher == HasherArgon2id {
		set.primary = set.argon2id
	} else {
		set.primary = set.bcrypt
	}
	return set
}
