package boltstore

import "strings"

// Bucket names.
var (
	bucketGames = []byte("games")
	bucketUsers = []byte("users")
)

// gameKey returns the bucket key for a game: the lowercased name, since
// the engine treats game names case-insensitively.
func gameKey(name string) []byte {
	return []byte(strings.ToLower(name))
}

// userKey returns the bucket key for an operator account.
func userKey(email string) []byte {
	return []byte(strings.ToLower(strings.TrimSpace(email)))
}
