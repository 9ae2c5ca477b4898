package inmem

import (
	"context"
	"testing"

	"github.com/pkg/errors"

	"github.com/assignkun/assignkun/core"
)

func TestStore_roundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewStore("bucket")

	put, err := s.Put(ctx, "a/b.csv", []byte("data"), core.BlobPutOptions{
		ContentType: "text/csv",
		Metadata:    map[string]string{"k": "v"},
	})
	if err != nil {
		t.Fatalf("Put() failed: %v", err)
	}
	if put.Size != 4 || put.ContentType != "text/csv" {
		t.Errorf("Put() = %+v", put)
	}

	obj, content, err := s.Get(ctx, "a/b.csv")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if string(content) != "data" || obj.Metadata["k"] != "v" {
		t.Errorf("Get() = %+v, %q", obj, content)
	}
}

func TestStore_setMetadataMerges(t *testing.T) {
	ctx := context.Background()
	s := NewStore("bucket")

	if _, err := s.Put(ctx, "a.csv", []byte("x"), core.BlobPutOptions{
		Metadata: map[string]string{"keep": "1", "replace": "old"},
	}); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}

	if err := s.SetMetadata(ctx, "a.csv", map[string]string{"replace": "new", "added": "2"}); err != nil {
		t.Fatalf("SetMetadata() failed: %v", err)
	}

	obj, err := s.Head(ctx, "a.csv")
	if err != nil {
		t.Fatalf("Head() failed: %v", err)
	}
	want := map[string]string{"keep": "1", "replace": "new", "added": "2"}
	for k, v := range want {
		if obj.Metadata[k] != v {
			t.Errorf("Metadata[%s] = %q; want %q", k, obj.Metadata[k], v)
		}
	}
}

func TestStore_notFound(t *testing.T) {
	ctx := context.Background()
	s := NewStore("bucket")

	if _, _, err := s.Get(ctx, "nope"); errors.Cause(err) != core.ErrBlobNotFound {
		t.Errorf("Get() error = %v; want ErrBlobNotFound", err)
	}
	if _, err := s.Head(ctx, "nope"); errors.Cause(err) != core.ErrBlobNotFound {
		t.Errorf("Head() error = %v; want ErrBlobNotFound", err)
	}
	if err := s.SetMetadata(ctx, "nope", nil); errors.Cause(err) != core.ErrBlobNotFound {
		t.Errorf("SetMetadata() error = %v; want ErrBlobNotFound", err)
	}
	if err := s.Delete(ctx, "nope"); errors.Cause(err) != core.ErrBlobNotFound {
		t.Errorf("Delete() error = %v; want ErrBlobNotFound", err)
	}
}
