// Package inmem holds an in-memory blob store for tests.
package inmem

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/assignkun/assignkun/core"
)

type object struct {
	content []byte
	obj     core.BlobObject
}

// Store keeps blobs in a map guarded by a mutex.
type Store struct {
	mu        sync.RWMutex
	container string
	objects   map[string]object
}

var _ core.BlobStore = (*Store)(nil) // interface compliance check

func NewStore(container string) *Store {
	return &Store{
		container: container,
		objects:   make(map[string]object),
	}
}

func (s *Store) Put(_ context.Context, key string, content []byte, opts core.BlobPutOptions) (core.BlobObject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	md := make(map[string]string, len(opts.Metadata))
	for k, v := range opts.Metadata {
		md[k] = v
	}
	obj := core.BlobObject{
		Name:         key,
		Container:    s.container,
		URL:          fmt.Sprintf("https://%s.blob.local/%s", s.container, key),
		Size:         int64(len(content)),
		ContentType:  opts.ContentType,
		LastModified: time.Now().UTC(),
		Metadata:     md,
	}
	s.objects[key] = object{content: append([]byte{}, content...), obj: obj}
	return obj, nil
}

func (s *Store) Get(_ context.Context, key string) (core.BlobObject, []byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.objects[key]
	if !ok {
		return core.BlobObject{}, nil, errors.Wrap(core.ErrBlobNotFound, key)
	}
	return o.obj, append([]byte{}, o.content...), nil
}

func (s *Store) Head(_ context.Context, key string) (core.BlobObject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.objects[key]
	if !ok {
		return core.BlobObject{}, errors.Wrap(core.ErrBlobNotFound, key)
	}
	return o.obj, nil
}

func (s *Store) SetMetadata(_ context.Context, key string, updates map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.objects[key]
	if !ok {
		return errors.Wrap(core.ErrBlobNotFound, key)
	}
	md := make(map[string]string, len(o.obj.Metadata)+len(updates))
	for k, v := range o.obj.Metadata {
		md[k] = v
	}
	for k, v := range updates {
		md[k] = v
	}
	o.obj.Metadata = md
	s.objects[key] = o
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.objects[key]; !ok {
		return errors.Wrap(core.ErrBlobNotFound, key)
	}
	delete(s.objects, key)
	return nil
}

// Keys lists stored blob names; test helper.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.objects))
	for k := range s.objects {
		keys = append(keys, k)
	}
	return keys
}
