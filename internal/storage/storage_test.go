package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentKey(t *testing.T) {
	assert.Equal(t, "documents/p1/abc.pdf", DocumentKey("p1", "abc", "Resume.PDF"))
	assert.Equal(t, "documents/unassigned/abc.docx", DocumentKey("", "abc", "cv.docx"))
	assert.Equal(t, "documents/p1/abc", DocumentKey("p1", "abc", "noext"))
}

func TestMemory_RoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	info, err := m.Put(ctx, "k", strings.NewReader("hello"), PutObjectOptions{Size: 5, ContentType: "application/pdf", Metadata: map[string]string{"a": "b"}})
	require.NoError(t, err)
	assert.Equal(t, int64(5), info.Size)
	assert.Equal(t, "5d41402abc4b2a76b9719d911017c592", info.ETag)

	rc, got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	defer func() { _ = rc.Close() }()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
	assert.Equal(t, "application/pdf", got.ContentType)
	assert.Equal(t, "b", got.Metadata["a"])

	require.NoError(t, m.Delete(ctx, "k"))
	_, _, err = m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrObjectNotFound)
	assert.NoError(t, m.Delete(ctx, "k"))
	assert.Equal(t, 0, m.Len())
}

func TestMemory_SizeMismatch(t *testing.T) {
	_, err := NewMemory().Put(context.Background(), "k", strings.NewReader("hello"), PutObjectOptions{Size: 3})
	assert.ErrorContains(t, err, "size mismatch")

	_, err = NewMemory().Put(context.Background(), "k", strings.NewReader("hello"), PutObjectOptions{Size: -1})
	assert.NoError(t, err)
}

func TestNewMinIO_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  MinIOConfig
		want string
	}{
		{"no endpoint", MinIOConfig{}, "endpoint is required"},
		{"no credentials", MinIOConfig{Endpoint: "localhost:9000", Bucket: "b"}, "credentials are required"},
		{"no bucket", MinIOConfig{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s"}, "bucket is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMinIO(context.Background(), tt.cfg)
			assert.ErrorContains(t, err, tt.want)
		})
	}
	assert.False(t, MinIOConfig{}.Enabled())
	assert.True(t, MinIOConfig{Endpoint: "x"}.Enabled())
}
