package resource

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse_OriginForm(t *testing.T) {
	target, err := Parse("/a/b?c=d#frag", false)

	require.NoError(t, err)
	require.Equal(t, "/a/b", target.Path)
	require.Equal(t, "c=d", target.Query)
	require.Equal(t, "frag", target.Fragment)
	require.False(t, target.IsAuthority)
}

func TestParse_AbsoluteForm(t *testing.T) {
	target, err := Parse("http://example.com:8080/a?x=1", false)

	require.NoError(t, err)
	require.Equal(t, "example.com", target.Host)
	require.Equal(t, "8080", target.Port)
	require.Equal(t, "/a", target.Path)
	require.Equal(t, "x=1", target.Query)
}

func TestParse_AuthorityFormForConnect(t *testing.T) {
	target, err := Parse("example.com:443", true)

	require.NoError(t, err)
	require.True(t, target.IsAuthority)
	require.Equal(t, "example.com", target.Host)
	require.Equal(t, "443", target.Port)
}

func TestParse_EmptyAuthorityFails(t *testing.T) {
	_, err := Parse("", true)

	require.Error(t, err)
}

func TestParse_RootPathDefaultedWhenMissing(t *testing.T) {
	target, err := Parse("http://example.com", false)

	require.NoError(t, err)
	require.Equal(t, "/", target.Path)
}
