package boltstore

import (
	"bytes"
	"encoding/gob"

	"github.com/dipgate/judged/pkg/judge"
)

func init() {
	gob.Register(judge.GameState{})
	gob.Register(judge.Player{})
	gob.Register(User{})
}

// encodeGame serializes a GameState to bytes using gob.
func encodeGame(gs *judge.GameState) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(gs); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeGame deserializes bytes back into a GameState.
func decodeGame(data []byte) (*judge.GameState, error) {
	var gs judge.GameState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&gs); err != nil {
		return nil, err
	}
	return &gs, nil
}

// encodeUser serializes a User to bytes using gob.
func encodeUser(u *User) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(u); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeUser deserializes bytes back into a User.
func decodeUser(data []byte) (*User, error) {
	var u User
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}
