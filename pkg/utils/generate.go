package utils

import (
	"math/rand"
	"strings"
)

const barcodeLength = 13

// GenerateBarcode produces a 13-digit numeric barcode candidate. Uniqueness
// against existing items is the caller's responsibility.
func GenerateBarcode() string {
	var sb strings.Builder
	sb.Grow(barcodeLength)

	for i := 0; i < barcodeLength; i++ {
		sb.WriteByte(byte('0' + rand.Intn(10)))
	}

	return sb.String()
}
