package kvstore_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"cloud.google.com/go/storage"
	"github.com/illmade-knight/go-vacario/pkg/kvstore"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- GCS fakes ---

type fakeGCSClient struct {
	mu      sync.Mutex
	objects map[string][]byte // keyed by bucket/object
	// writeErr, when set, is returned from every writer Close.
	writeErr error
	// attrsErr, when set, is returned from every bucket Attrs call.
	attrsErr error
}

func newFakeGCSClient() *fakeGCSClient {
	return &fakeGCSClient{objects: make(map[string][]byte)}
}

func (c *fakeGCSClient) Bucket(name string) kvstore.GCSBucketHandle {
	return &fakeBucket{client: c, name: name}
}

type fakeBucket struct {
	client *fakeGCSClient
	name   string
}

func (b *fakeBucket) Object(name string) kvstore.GCSObjectHandle {
	return &fakeObject{client: b.client, path: b.name + "/" + name}
}

func (b *fakeBucket) Attrs(_ context.Context) error {
	return b.client.attrsErr
}

type fakeObject struct {
	client *fakeGCSClient
	path   string
}

func (o *fakeObject) NewReader(_ context.Context) (io.ReadCloser, error) {
	o.client.mu.Lock()
	defer o.client.mu.Unlock()
	data, ok := o.client.objects[o.path]
	if !ok {
		return nil, storage.ErrObjectNotExist
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (o *fakeObject) NewWriter(_ context.Context) io.WriteCloser {
	return &fakeWriter{object: o}
}

func (o *fakeObject) Delete(_ context.Context) error {
	o.client.mu.Lock()
	defer o.client.mu.Unlock()
	if _, ok := o.client.objects[o.path]; !ok {
		return storage.ErrObjectNotExist
	}
	delete(o.client.objects, o.path)
	return nil
}

type fakeWriter struct {
	object *fakeObject
	buf    bytes.Buffer
}

func (w *fakeWriter) Write(p []byte) (int, error) { return w.buf.Write(p) }

func (w *fakeWriter) Close() error {
	c := w.object.client
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeErr != nil {
		return c.writeErr
	}
	c.objects[w.object.path] = w.buf.Bytes()
	return nil
}

// --- Tests ---

func TestGCSStore(t *testing.T) {
	store, err := kvstore.NewGCSStore(newFakeGCSClient(), kvstore.GCSConfig{BucketName: "vacario"}, zerolog.Nop())
	require.NoError(t, err)
	runStoreContract(t, store)
}

func TestGCSStore_UsesObjectPrefix(t *testing.T) {
	ctx := context.Background()
	client := newFakeGCSClient()
	store, err := kvstore.NewGCSStore(client, kvstore.GCSConfig{BucketName: "vacario", ObjectPrefix: "caches"}, zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, store.Set(ctx, "day-cache", []byte("[]")))

	_, ok := client.objects["vacario/caches/day-cache"]
	assert.True(t, ok, "object should be written under the configured prefix")
}

func TestGCSStore_WriteFailure(t *testing.T) {
	ctx := context.Background()
	client := newFakeGCSClient()
	client.writeErr = errors.New("bucket is read-only")
	store, err := kvstore.NewGCSStore(client, kvstore.GCSConfig{BucketName: "vacario"}, zerolog.Nop())
	require.NoError(t, err)

	err = store.Set(ctx, "day-cache", []byte("[]"))

	require.Error(t, err)
	assert.ErrorIs(t, err, client.writeErr)
}

func TestNewGCSStore_Validation(t *testing.T) {
	_, err := kvstore.NewGCSStore(nil, kvstore.GCSConfig{BucketName: "b"}, zerolog.Nop())
	assert.Error(t, err)

	_, err = kvstore.NewGCSStore(newFakeGCSClient(), kvstore.GCSConfig{}, zerolog.Nop())
	assert.Error(t, err)
}

func TestGCSStore_Ping(t *testing.T) {
	ctx := context.Background()
	client := newFakeGCSClient()
	store, err := kvstore.NewGCSStore(client, kvstore.GCSConfig{BucketName: "vacario"}, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, store.Ping(ctx))

	client.attrsErr = storage.ErrBucketNotExist

	err = store.Ping(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrBucketNotExist)
}
