package assoofs_test

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/assoofs-project/assoofs/internal/ondisk"
)

func TestDirLookupMiss(t *testing.T) {
	sb, _ := mustMount(t, ondisk.MaxObjects)

	root, err := sb.Root().Dir()
	require.NoError(t, err)

	_, err = root.Lookup("missing")
	require.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestDirLookupHit(t *testing.T) {
	sb, _ := mustMount(t, ondisk.MaxObjects)
	child, err := sb.Mkdir(sb.Root(), "sub", 0755)
	require.NoError(t, err)

	root, err := sb.Root().Dir()
	require.NoError(t, err)

	found, err := root.Lookup("sub")
	require.NoError(t, err)
	require.Equal(t, child.Ino, found.Ino)
}

func TestDirReadDirListsChildren(t *testing.T) {
	sb, mem := mustMount(t, ondisk.MaxObjects)
	_, err := sb.Mkdir(sb.Root(), "sub", 0755)
	require.NoError(t, err)
	_, err = sb.Create(sb.Root(), "f.txt", 0644)
	require.NoError(t, err)

	root, err := sb.Root().Dir()
	require.NoError(t, err)

	entries, err := root.ReadDir(-1)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	names := map[string]bool{}
	for _, e := range entries {
		names[e.Name()] = e.IsDir()
	}
	require.Equal(t, true, names["sub"])
	require.Equal(t, false, names["f.txt"])
	checkInvariants(t, mem)
}

// TestDirReadDirIsOneShot exercises the one-shot cursor contract: once a
// *Dir's cursor reaches the end, further ReadDir calls on that same object
// return an empty slice rather than restarting.
func TestDirReadDirIsOneShot(t *testing.T) {
	sb, _ := mustMount(t, ondisk.MaxObjects)
	_, err := sb.Create(sb.Root(), "f.txt", 0644)
	require.NoError(t, err)

	root, err := sb.Root().Dir()
	require.NoError(t, err)

	first, err := root.ReadDir(-1)
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := root.ReadDir(-1)
	require.NoError(t, err)
	require.Empty(t, second)

	// A fresh *Dir view starts back at cursor 0.
	fresh, err := sb.Root().Dir()
	require.NoError(t, err)
	entries, err := fresh.ReadDir(-1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestDirReadDirPaginates(t *testing.T) {
	sb, _ := mustMount(t, ondisk.MaxObjects)
	for i := 0; i < 3; i++ {
		_, err := sb.Create(sb.Root(), nameFor(i), 0644)
		require.NoError(t, err)
	}

	root, err := sb.Root().Dir()
	require.NoError(t, err)

	total := 0
	for {
		entries, err := root.ReadDir(1)
		require.NoError(t, err)
		if len(entries) == 0 {
			break
		}
		total += len(entries)
	}
	require.Equal(t, 3, total)
}
