package s3

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clarity-backend/internal/shared/storage/object"
)

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "reports/abc/r1.json", want: "reports/abc/r1.json"},
		{name: "simple prefix", prefix: "root", key: "reports/abc/r1.json", want: "root/reports/abc/r1.json"},
		{name: "prefix trailing slash", prefix: "root/", key: "reports/abc/r1.json", want: "root/reports/abc/r1.json"},
		{name: "prefix and key slashes", prefix: "/root/", key: "/reports/abc/r1.json", want: "root/reports/abc/r1.json"},
		{name: "nested prefix", prefix: "root/sub", key: "reports/abc/r1.json", want: "root/sub/reports/abc/r1.json"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, applyPrefix(tt.prefix, tt.key))
		})
	}
}

type fakeS3 struct {
	put    *s3.PutObjectInput
	body   string
	getErr error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.put = in
	b, err := io.ReadAll(in.Body)
	f.body = string(b)
	return &s3.PutObjectOutput{}, err
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.body))}, nil
}

func TestPutEncryptsAndCounts(t *testing.T) {
	fake := &fakeS3{}
	store := &Store{client: fake, bucket: "b", prefix: "env", kmsKeyID: "kms-1"}

	n, err := store.Put(context.Background(), "reports/abc/r1.json", "application/json", strings.NewReader(`{"a":1}`))
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	assert.Equal(t, "env/reports/abc/r1.json", aws.ToString(fake.put.Key))
	assert.Equal(t, s3types.ServerSideEncryptionAwsKms, fake.put.ServerSideEncryption)
	assert.Equal(t, "kms-1", aws.ToString(fake.put.SSEKMSKeyId))
	assert.Equal(t, int64(7), aws.ToInt64(fake.put.ContentLength))
	assert.Equal(t, "private, no-store", aws.ToString(fake.put.CacheControl))
	_, seekable := fake.put.Body.(io.Seeker)
	assert.True(t, seekable)

	rc, err := store.Open(context.Background(), "reports/abc/r1.json")
	require.NoError(t, err)
	body, _ := io.ReadAll(rc)
	assert.Equal(t, `{"a":1}`, string(body))
}

func TestPutDefaultsToAES(t *testing.T) {
	fake := &fakeS3{}
	store := &Store{client: fake, bucket: "b"}
	_, err := store.Put(context.Background(), "k.json", "application/json", strings.NewReader("{}"))
	require.NoError(t, err)
	assert.Equal(t, s3types.ServerSideEncryptionAes256, fake.put.ServerSideEncryption)

	_, err = store.Put(context.Background(), "../k.json", "application/json", strings.NewReader("{}"))
	assert.ErrorIs(t, err, object.ErrInvalidKey)
}

func TestPutRejectsOversizedReport(t *testing.T) {
	fake := &fakeS3{}
	store := &Store{client: fake, bucket: "b"}
	big := strings.NewReader(strings.Repeat("x", MaxObjectBytes+1))

	_, err := store.Put(context.Background(), "reports/abc/r1.json", "", big)
	assert.ErrorIs(t, err, ErrTooLarge)
	assert.Nil(t, fake.put)
}

func TestOpenMissingKey(t *testing.T) {
	fake := &fakeS3{getErr: &s3types.NoSuchKey{}}
	store := &Store{client: fake, bucket: "b", prefix: "env"}

	_, err := store.Open(context.Background(), "reports/abc/missing.json")
	assert.ErrorIs(t, err, object.ErrNotFound)

	_, err = store.Open(context.Background(), "../x")
	assert.ErrorIs(t, err, object.ErrInvalidKey)
}
