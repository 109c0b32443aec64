// Package boltstore is the record store behind the mediator: parsed game
// states keyed by game name and operator accounts keyed by email, all in a
// single bbolt file.
package boltstore

import (
	"fmt"
	"log"
	"strings"
	"time"

	bbolt "go.etcd.io/bbolt"
	"golang.org/x/crypto/bcrypt"

	"github.com/dipgate/judged/pkg/judge"
)

// Store wraps a bbolt database holding games and operator accounts.
type Store struct {
	bolt *bbolt.DB
}

// Open opens or creates a bbolt database file and ensures all buckets exist.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("boltstore: open %s: %w", path, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketGames, bucketUsers} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("boltstore: create buckets: %w", err)
	}

	return &Store{bolt: db}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	if s.bolt != nil {
		return s.bolt.Close()
	}
	return nil
}

// Path returns the filesystem path of the underlying bbolt database.
func (s *Store) Path() string {
	if s.bolt != nil {
		return s.bolt.Path()
	}
	return ""
}

// PutGame persists a game state (write-through, whole-record overwrite).
func (s *Store) PutGame(gs *judge.GameState) error {
	if !judge.ValidGameName(gs.Name) {
		return fmt.Errorf("boltstore: bad game name %q", gs.Name)
	}
	data, err := encodeGame(gs)
	if err != nil {
		return fmt.Errorf("boltstore: encode game %q: %w", gs.Name, err)
	}
	return s.bolt.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketGames).Put(gameKey(gs.Name), data)
	})
}

// GetGame loads a game state by name. Returns (nil, nil) when the game is
// unknown.
func (s *Store) GetGame(name string) (*judge.GameState, error) {
	var gs *judge.GameState
	err := s.bolt.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketGames).Get(gameKey(name))
		if v == nil {
			return nil
		}
		decoded, err := decodeGame(v)
		if err != nil {
			return fmt.Errorf("decode game %q: %w", name, err)
		}
		gs = decoded
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("boltstore: %w", err)
	}
	return gs, nil
}

// DeleteGame removes a game record.
func (s *Store) DeleteGame(name string) error {
	return s.bolt.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketGames).Delete(gameKey(name))
	})
}

// ListGames loads every stored game state, keyed by game name.
func (s *Store) ListGames() (map[string]*judge.GameState, error) {
	games := make(map[string]*judge.GameState)
	err := s.bolt.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketGames).ForEach(func(k, v []byte) error {
			gs, err := decodeGame(v)
			if err != nil {
				return fmt.Errorf("decode game %q: %w", string(k), err)
			}
			games[gs.Name] = gs
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("boltstore: %w", err)
	}
	return games, nil
}

// Lookup adapts the store to the mediator's injected accessor shape.
func (s *Store) Lookup(name string) (*judge.GameState, bool, error) {
	gs, err := s.GetGame(name)
	if err != nil {
		return nil, false, err
	}
	return gs, gs != nil, nil
}

// User is one operator account. JudgePasswords holds the per-game engine
// passwords replayed into sign-on lines; PasswordHash is the bcrypt hash
// of the operator's own login password, consumed by the external web layer.
type User struct {
	Email          string
	PasswordHash   []byte
	JudgePasswords map[string]string // game name -> engine password
	Created        time.Time
}

// PutUser persists an operator account.
func (s *Store) PutUser(u *User) error {
	if u.Email == "" {
		return fmt.Errorf("boltstore: user with empty email")
	}
	data, err := encodeUser(u)
	if err != nil {
		return fmt.Errorf("boltstore: encode user %q: %w", u.Email, err)
	}
	return s.bolt.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketUsers).Put(userKey(u.Email), data)
	})
}

// GetUser loads an operator account by email. Returns (nil, nil) when the
// account is unknown.
func (s *Store) GetUser(email string) (*User, error) {
	var u *User
	err := s.bolt.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketUsers).Get(userKey(email))
		if v == nil {
			return nil
		}
		decoded, err := decodeUser(v)
		if err != nil {
			return fmt.Errorf("decode user %q: %w", email, err)
		}
		u = decoded
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("boltstore: %w", err)
	}
	return u, nil
}

// CreateUser registers an account with a bcrypt-hashed login password.
func (s *Store) CreateUser(email, password string) (*User, error) {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("boltstore: bad email %q", email)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("boltstore: hash password: %w", err)
	}
	u := &User{
		Email:          email,
		PasswordHash:   hash,
		JudgePasswords: make(map[string]string),
		Created:        time.Now(),
	}
	if err := s.PutUser(u); err != nil {
		return nil, err
	}
	log.Printf("boltstore: registered operator %s", email)
	return u, nil
}

// CheckPassword verifies an operator's login password.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)) == nil
}

// SetJudgePassword records the engine password the operator uses in one
// game.
func (s *Store) SetJudgePassword(email, game, password string) error {
	if !judge.ValidGameName(game) {
		return fmt.Errorf("boltstore: bad game name %q", game)
	}
	u, err := s.GetUser(email)
	if err != nil {
		return err
	}
	if u == nil {
		return fmt.Errorf("boltstore: no such user %q", email)
	}
	if u.JudgePasswords == nil {
		u.JudgePasswords = make(map[string]string)
	}
	u.JudgePasswords[strings.ToLower(game)] = password
	return s.PutUser(u)
}

// JudgePassword returns the stored engine password for a game, or "".
func (u *User) JudgePassword(game string) string {
	if u == nil || u.JudgePasswords == nil {
		return ""
	}
	return u.JudgePasswords[strings.ToLower(game)]
}
