package simconf

import (
	"crypto/rand"
	"encoding/hex"
)

func NewEventID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
