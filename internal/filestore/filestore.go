// Package filestore stores recipe images behind a backend-agnostic interface.
package filestore

import (
	"fmt"
	"math/rand"
	"path"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/avelichko/foodgram/internal/fileserver"
)

const (
	recipesDir = "recipes"
	thumbsDir  = "thumbs"
)

const (
	KeyPrefix = "/files"
)

type FileStore interface {
	// WriteRecipeImage stores an image and returns its URL path.
	WriteRecipeImage(suffix string, data []byte) (key string, n int, err error)

	// WriteRecipeThumbnail stores a thumbnail as the sibling of an already
	// written image so deleting the image reaps the thumbnail too.
	WriteRecipeThumbnail(imageKey string, data []byte) (key string, n int, err error)

	// DeleteURLPath removes a previously written image, and its thumbnail if
	// one exists, by the image's URL path.
	DeleteURLPath(urlpath string) error

	// FileURL resolves a URL path into a full URL.
	FileURL(urlpath string) string
}

type LocalStore struct {
	keyPrefix string
	host      string
	fs        fileserver.FileServerInterface
}

var _ FileStore = (*LocalStore)(nil)

func New(baseDirectory, keyPrefix, host string) *LocalStore {
	return &LocalStore{
		keyPrefix: keyPrefix,
		host:      strings.TrimRight(host, "/"),
		fs:        fileserver.New(baseDirectory),
	}
}

func (f *LocalStore) WriteRecipeImage(suffix string, data []byte) (key string, n int, err error) {
	return f.write(recipeImagePath(suffix), data)
}

func (f *LocalStore) WriteRecipeThumbnail(imageKey string, data []byte) (key string, n int, err error) {
	return f.write(thumbnailSibling(trimKeyPrefix(imageKey, f.keyPrefix)), data)
}

func (f *LocalStore) write(relpath string, data []byte) (key string, n int, err error) {
	_, n, err = f.fs.Write(relpath, data)
	if err != nil {
		return "", n, err
	}
	return joinKey(f.keyPrefix, relpath), n, nil
}

func (f *LocalStore) FileURL(urlpath string) string {
	return f.host + "/" + strings.TrimLeft(urlpath, "/")
}

func (f *LocalStore) DeleteURLPath(urlpath string) error {
	relpath := trimKeyPrefix(urlpath, f.keyPrefix)
	_ = f.fs.Delete(thumbnailSibling(relpath))
	return f.fs.Delete(relpath)
}

func recipeImagePath(suffix string) string {
	return path.Join(recipesDir, newImageID()+suffix)
}

// thumbnailSibling maps recipes/<name> to thumbs/<name>.
func thumbnailSibling(relpath string) string {
	return path.Join(thumbsDir, path.Base(relpath))
}

func newImageID() string {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	return strings.ToLower(ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String())
}

func joinKey(prefix, relpath string) string {
	return fmt.Sprintf("%s/%s", strings.TrimRight(prefix, "/"), strings.TrimLeft(relpath, "/"))
}

func trimKeyPrefix(urlpath, prefix string) string {
	key := strings.Trim(urlpath, "/")
	key = strings.TrimPrefix(key, strings.Trim(prefix, "/"))
	return strings.TrimLeft(key, "/")
}
