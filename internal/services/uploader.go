package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"strings"
	"sync"
	"time"

	"ngosocial/internal/apperr"
	"ngosocial/internal/engagement"
	"ngosocial/internal/models"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// ObjectStore 对象存储，GCSStore 是生产实现
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) error
	URLFor(key string) string
	Delete(ctx context.Context, key string) error
}

// File 待上传的文件
type File struct {
	Name        string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

func FilesFromMultipart(headers []*multipart.FileHeader) []File {
	files := make([]File, 0, len(headers))
	for _, h := range headers {
		files = append(files, File{
			Name:        h.Filename,
			ContentType: h.Header.Get("Content-Type"),
			Size:        h.Size,
			Open: func() (io.ReadCloser, error) {
				return h.Open()
			},
		})
	}
	return files
}

// MediaKey builds <folder>/<user|ngo>/<ownerId>/<uuid><ext>.
func MediaKey(folder string, owner engagement.Principal, filename string) string {
	return path.Join(folder, strings.ToLower(string(owner.Kind)), owner.ID, uuid.NewString()+strings.ToLower(path.Ext(filename)))
}

func mediaType(contentType string) string {
	major, _, _ := strings.Cut(contentType, "/")
	switch major {
	case "image", "video":
		return major
	}
	return "file"
}

const compensateTimeout = 30 * time.Second

// Uploader 并行上传媒体，失败时删除本次已上传的对象
type Uploader struct {
	store       ObjectStore
	maxParallel int
	maxFiles    int
	retries     uint64
	log         *zap.Logger
}

func NewUploader(s ObjectStore, maxParallel, maxFiles int, retries uint64, log *zap.Logger) *Uploader {
	if maxParallel < 1 {
		maxParallel = 1
	}
	return &Uploader{store: s, maxParallel: maxParallel, maxFiles: maxFiles, retries: retries, log: log}
}

// Upload stores every file under folder and returns the media in input
// order. If any upload fails, the objects already written are deleted
// before the error is returned.
func (u *Uploader) Upload(ctx context.Context, folder string, owner engagement.Principal, files []File) ([]models.Media, error) {
	if u.maxFiles > 0 && len(files) > u.maxFiles {
		return nil, apperr.Validation(fmt.Sprintf("at most %d files are allowed", u.maxFiles))
	}

	media := make([]models.Media, len(files))
	done := make([]bool, len(files))

	p := pool.New().
		WithMaxGoroutines(u.maxParallel).
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError()
	for i, f := range files {
		p.Go(func(ctx context.Context) error {
			key := MediaKey(folder, owner, f.Name)
			if err := u.put(ctx, key, f); err != nil {
				return fmt.Errorf("upload %s: %w", f.Name, err)
			}
			media[i] = models.Media{Key: key, URL: u.store.URLFor(key), Type: mediaType(f.ContentType)}
			done[i] = true
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		var written []string
		for i, ok := range done {
			if ok {
				written = append(written, media[i].Key)
			}
		}
		u.compensate(ctx, written)
		return nil, apperr.Upstream("media upload failed", err)
	}
	return media, nil
}

func (u *Uploader) put(ctx context.Context, key string, f File) error {
	r, err := f.Open()
	if err != nil {
		return err
	}
	defer r.Close()
	return u.store.Put(ctx, key, r, f.ContentType)
}

// compensate deletes keys and returns those that could not be removed.
// It runs to completion even when the request context is gone.
func (u *Uploader) compensate(ctx context.Context, keys []string) []string {
	if len(keys) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensateTimeout)
	defer cancel()

	var (
		mu     sync.Mutex
		failed []string
	)
	p := pool.New().WithMaxGoroutines(u.maxParallel)
	for _, key := range keys {
		p.Go(func() {
			b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(
				backoff.WithInitialInterval(100*time.Millisecond),
				backoff.WithMaxInterval(2*time.Second),
			), u.retries), ctx)
			err := backoff.Retry(func() error {
				return u.store.Delete(ctx, key)
			}, b)
			if err != nil {
				// 需要人工清理的孤儿对象
				u.log.Error("compensating delete failed", zap.String("key", key), zap.Error(err))
				mu.Lock()
				failed = append(failed, key)
				mu.Unlock()
			}
		})
	}
	p.Wait()
	return failed
}

// CreateWithMedia uploads files and then calls create with the stored media.
// When create fails the uploaded objects are deleted again.
func (u *Uploader) CreateWithMedia(ctx context.Context, folder string, owner engagement.Principal, files []File, create func([]models.Media) error) error {
	media, err := u.Upload(ctx, folder, owner, files)
	if err != nil {
		return err
	}
	if err := create(media); err != nil {
		keys := make([]string, len(media))
		for i, m := range media {
			keys[i] = m.Key
		}
		u.compensate(ctx, keys)
		return err
	}
	return nil
}
