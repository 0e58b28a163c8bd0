package storage_test

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/mindengage-papers/internal/storage"
)

func TestFSStorePutGetList(t *testing.T) {
	bs, err := storage.NewFSStore(t.TempDir())
	require.NoError(t, err)

	key, err := bs.Put("exports/Question_Paper_Science_Grade 6.csv", strings.NewReader("a,b\n"))
	require.NoError(t, err)
	assert.Equal(t, "exports/Question_Paper_Science_Grade 6.csv", key)
	_, err = bs.Put("other/x.bin", strings.NewReader("x"))
	require.NoError(t, err)

	rc, err := bs.Get(key)
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(body))

	objs, err := bs.List("exports/")
	require.NoError(t, err)
	require.Len(t, objs, 1)
	assert.Equal(t, key, objs[0].Key)
	assert.EqualValues(t, 4, objs[0].Size)
}

func TestFSStoreKeysStayInsideBase(t *testing.T) {
	bs, err := storage.NewFSStore(t.TempDir())
	require.NoError(t, err)

	key, err := bs.Put("../../escape.txt", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, "escape.txt", key)

	_, err = bs.Put("/", strings.NewReader("x"))
	assert.ErrorIs(t, err, storage.ErrInvalidKey)

	_, err = bs.Get("exports/missing.csv")
	assert.Error(t, err)
}
