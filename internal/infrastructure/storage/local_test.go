package storage

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalBucketPutListDelete(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	b, err := NewLocalBucket(root, "/files/")
	require.NoError(t, err)

	url, err := b.Put(ctx, "invoices/abc/scan.pdf", strings.NewReader("pdf"))
	require.NoError(t, err)
	assert.Equal(t, "/files/invoices/abc/scan.pdf", url)

	_, err = b.Put(ctx, "logo.png", strings.NewReader("png!"))
	require.NoError(t, err)

	old := time.Now().Add(-20 * 24 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(root, "logo.png"), old, old))

	objects, err := b.List(ctx)
	require.NoError(t, err)
	require.Len(t, objects, 2)
	sort.Slice(objects, func(i, j int) bool { return objects[i].Name < objects[j].Name })
	assert.Equal(t, "invoices/abc/scan.pdf", objects[0].Name)
	assert.Equal(t, int64(3), objects[0].Size)
	assert.Equal(t, "logo.png", objects[1].Name)
	assert.WithinDuration(t, old, objects[1].CreatedAt, time.Second)

	require.NoError(t, b.Delete(ctx, "logo.png"))
	objects, err = b.List(ctx)
	require.NoError(t, err)
	assert.Len(t, objects, 1)

	assert.Error(t, b.Delete(ctx, "logo.png"))
}

func TestLocalBucketKeysStayInsideRoot(t *testing.T) {
	ctx := context.Background()
	parent := t.TempDir()
	root := filepath.Join(parent, "bucket")
	b, err := NewLocalBucket(root, "/files")
	require.NoError(t, err)

	url, err := b.Put(ctx, "../../escape.txt", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, "/files/escape.txt", url)
	assert.FileExists(t, filepath.Join(root, "escape.txt"))
	assert.NoFileExists(t, filepath.Join(parent, "escape.txt"))

	_, err = b.Put(ctx, "", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrInvalidKey)
	_, err = b.Put(ctx, "dir/.hidden", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestLocalBucketListEmpty(t *testing.T) {
	b, err := NewLocalBucket(t.TempDir(), "")
	require.NoError(t, err)

	objects, err := b.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, objects)
}

func TestLocalBucketListSkipsHiddenEntries(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	b, err := NewLocalBucket(root, "/files")
	require.NoError(t, err)

	_, err = b.Put(ctx, "invoices/x/scan.pdf", strings.NewReader("pdf"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(root, "invoices", "x", ".upload-123"), []byte("partial"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".cache"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".cache", "blob"), []byte("b"), 0o644))

	objects, err := b.List(ctx)
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, "invoices/x/scan.pdf", objects[0].Name)

	for _, obj := range objects {
		assert.NoError(t, b.Delete(ctx, obj.Name), "every listed object is deletable")
	}
}
