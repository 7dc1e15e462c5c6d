package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringListScan(t *testing.T) {
	var l StringList

	require.NoError(t, l.Scan(`["a","b"]`))
	assert.Equal(t, StringList{"a", "b"}, l)

	// Malformed text degrades to empty, never an error
	require.NoError(t, l.Scan("not json"))
	assert.Equal(t, StringList{}, l)

	require.NoError(t, l.Scan(nil))
	assert.Equal(t, StringList{}, l)

	require.NoError(t, l.Scan([]byte(`["c"]`)))
	assert.Equal(t, StringList{"c"}, l)

	assert.Error(t, l.Scan(42))
}

func TestStringListValue(t *testing.T) {
	v, err := StringList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	v, err = StringList{"a"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["a"]`, v)
}

func TestJSONMapScan(t *testing.T) {
	var m JSONMap

	require.NoError(t, m.Scan(`{"k":"v"}`))
	assert.Equal(t, JSONMap{"k": "v"}, m)

	require.NoError(t, m.Scan("{broken"))
	assert.Equal(t, JSONMap{}, m)

	v, err := JSONMap(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "{}", v)
}

func TestRemoteListScan(t *testing.T) {
	var r RemoteList

	require.NoError(t, r.Scan(`[{"name":"origin","url":"git@x:y.git"}]`))
	require.Len(t, r, 1)
	assert.Equal(t, "origin", r[0].Name)

	require.NoError(t, r.Scan(""))
	assert.Equal(t, RemoteList{}, r)
}
