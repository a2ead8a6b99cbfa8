package minio

import (
	"context"
	"errors"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildsim/idfkit/blobstore"
)

func TestKeyPrefix(t *testing.T) {
	s := &Store{prefix: "models/site-a"}
	assert.Equal(t, "models/site-a/office.idf", s.key("office.idf"))

	s = &Store{prefix: ""}
	assert.Equal(t, "office.idf", s.key("office.idf"))
}

// TestMinioStore_Integration requires a running MinIO instance.
// Skip if not available.
func TestMinioStore_Integration(t *testing.T) {
	endpoint := "localhost:9000"
	accessKey := "minioadmin"
	secretKey := "minioadmin"
	bucket := "test-idfkit"

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: false,
	})
	if err != nil {
		t.Skipf("MinIO client creation failed: %v", err)
	}

	ctx := context.Background()

	// Check if MinIO is reachable
	_, err = client.ListBuckets(ctx)
	if err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	// Ensure bucket exists
	exists, err := client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		err = client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{})
		require.NoError(t, err)
	}

	store := NewStore(client, bucket, "test-prefix")

	// Put and Fetch round-trip
	data := []byte("Version,\n    9.4;\n")
	err = store.Put(ctx, "model.idf", data)
	require.NoError(t, err)

	got, err := store.Fetch(ctx, "model.idf")
	require.NoError(t, err)
	require.Equal(t, data, got)

	// List strips the root prefix
	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Contains(t, names, "model.idf")

	// Delete, then Fetch maps the missing key to ErrNotFound
	err = store.Delete(ctx, "model.idf")
	require.NoError(t, err)

	_, err = store.Fetch(ctx, "model.idf")
	require.True(t, errors.Is(err, blobstore.ErrNotFound))

	// Deleting a missing key is not an error
	err = store.Delete(ctx, "model.idf")
	require.NoError(t, err)
}
