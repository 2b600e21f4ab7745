/*
Package randx generates unique identifiers: UUID player ids and random
avatar storage keys.
*/
package randx

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

const (
	// Base62Chars is the character set used for random key suffixes.
	Base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// avatarKeySuffixLength is the length of the random part of an avatar key.
	avatarKeySuffixLength = 12
)

// PlayerID generates a UUID v4 string to identify a new player.
func PlayerID() string {
	return uuid.New().String()
}

// AvatarKey generates a storage key for a player's avatar upload. The
// random suffix makes every upload a fresh object, so a stale cached copy
// is never served after a change.
func AvatarKey(playerID string) (string, error) {
	suffix := make([]byte, avatarKeySuffixLength)

	for i := range avatarKeySuffixLength {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(Base62Chars))))
		if err != nil {
			return "", fmt.Errorf("failed to generate random avatar key: %v", err)
		}
		suffix[i] = Base62Chars[num.Int64()]
	}

	return fmt.Sprintf("avatars/%s/%s", playerID, string(suffix)), nil
}
