package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateBarcode(t *testing.T) {
	for i := 0; i < 100; i++ {
		barcode := GenerateBarcode()
		require.Len(t, barcode, 13)
		for _, c := range barcode {
			require.True(t, c >= '0' && c <= '9', "expected digit, got %q in %q", c, barcode)
		}
	}
}
