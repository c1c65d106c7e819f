package util

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrapErrorf(t *testing.T) {
	orig := errors.New("connection refused")
	err := WrapErrorf(orig, ErrRouteSource, "fetching route for %s", "abc")

	require.Equal(t, "fetching route for abc", err.Error())
	require.Equal(t, ErrRouteSource, CodeOf(err))
	require.ErrorIs(t, err, orig)
}

func TestCodeOfPlainError(t *testing.T) {
	require.Equal(t, ErrInternalServerError, CodeOf(errors.New("boom")))
}

func TestNormalizeAddress(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{"Jl. Malioboro 1", "jl. malioboro 1"},
		{"  Jl.   Malioboro   1  ", "jl. malioboro 1"},
		{"JL. MALIOBORO 1", "jl. malioboro 1"},
		{"", ""},
	}
	for _, tt := range testCases {
		require.Equal(t, tt.want, NormalizeAddress(tt.in))
	}
}

func TestReverseG(t *testing.T) {
	in := []int{1, 2, 3, 4}
	out := ReverseG(in)
	require.Equal(t, []int{4, 3, 2, 1}, out)
	require.Equal(t, []int{1, 2, 3, 4}, in)
}

func TestRoundFloat(t *testing.T) {
	require.Equal(t, 1.23, RoundFloat(1.2345, 2))
	require.Equal(t, 1.24, RoundFloat(1.235, 2))
}
