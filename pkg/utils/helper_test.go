package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseInt(t *testing.T) {
	require.Equal(t, 5, ParseInt("5", 1))
	require.Equal(t, 1, ParseInt("", 1))
	require.Equal(t, 1, ParseInt("abc", 1))
	require.Equal(t, 1, ParseInt("0", 1))
	require.Equal(t, 1, ParseInt("-3", 1))
}

func TestParseDate(t *testing.T) {
	parsed := ParseDate("2026-06-01")
	require.NotNil(t, parsed)
	require.Equal(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), *parsed)

	require.Nil(t, ParseDate(""))
	require.Nil(t, ParseDate("01/06/2026"))
}
