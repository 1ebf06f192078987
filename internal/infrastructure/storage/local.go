package storage

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalBucket stores objects on the local filesystem under root. Object names
// are slash-separated paths relative to root; the creation time reported by
// List is the file's modification time.
type LocalBucket struct {
	root      string
	publicURL string
}

// NewLocalBucket creates root if needed.
func NewLocalBucket(root, publicURL string) (*LocalBucket, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &LocalBucket{root: root, publicURL: strings.TrimRight(publicURL, "/")}, nil
}

// List walks root. Hidden files and directories, including interrupted
// uploads, are not objects and are skipped.
func (b *LocalBucket) List(ctx context.Context) ([]Object, error) {
	var objects []Object
	err := filepath.WalkDir(b.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		hidden := p != b.root && strings.HasPrefix(d.Name(), ".")
		if d.IsDir() {
			if hidden {
				return filepath.SkipDir
			}
			return nil
		}
		if hidden {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(b.root, p)
		if err != nil {
			return err
		}
		objects = append(objects, Object{
			Name:      filepath.ToSlash(rel),
			Size:      info.Size(),
			CreatedAt: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list bucket: %w", err)
	}
	return objects, nil
}

func (b *LocalBucket) Delete(ctx context.Context, name string) error {
	full, _, err := b.resolve(name)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	return nil
}

// Put writes r to key, replacing any existing object, and returns its public URL.
func (b *LocalBucket) Put(ctx context.Context, key string, r io.Reader) (string, error) {
	full, name, err := b.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create directory for %s: %w", key, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(full), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create %s: %w", key, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("write %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), full); err != nil {
		return "", fmt.Errorf("store %s: %w", key, err)
	}

	return b.publicURL + "/" + name, nil
}

// resolve maps a key to a path inside root and returns the normalized object name.
func (b *LocalBucket) resolve(key string) (string, string, error) {
	clean := path.Clean("/" + strings.ReplaceAll(key, "\\", "/"))
	if clean == "/" || strings.HasPrefix(path.Base(clean), ".") {
		return "", "", ErrInvalidKey
	}
	name := strings.TrimPrefix(clean, "/")
	return filepath.Join(b.root, filepath.FromSlash(name)), name, nil
}
