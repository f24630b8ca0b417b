package utils

import (
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// GenerateQRCode returns a code like QR3FA91C0B.
func GenerateQRCode() string {
	id := uuid.New()
	return "QR" + strings.ToUpper(hex.EncodeToString(id[:4]))
}
