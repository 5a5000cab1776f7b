package media_storage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mediaUC "github.com/MoSamy004/Portfolio/internal/application/usecase/media"
	"github.com/MoSamy004/Portfolio/pkg/apperror"
	"github.com/MoSamy004/Portfolio/pkg/logger"
)

type fakeS3 struct {
	putErrs   []error // consumed one per PutObject call
	createErr error
	deleteErr error

	puts, creates, deletes int
	lastPut               *s3.PutObjectInput
	lastBody              []byte
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.puts++
	f.lastPut = in
	f.lastBody, _ = io.ReadAll(in.Body)
	if len(f.putErrs) > 0 {
		err := f.putErrs[0]
		f.putErrs = f.putErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) CreateBucket(_ context.Context, _ *s3.CreateBucketInput, _ ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	f.creates++
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &s3.CreateBucketOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, _ *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deletes++
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	return &s3.DeleteObjectOutput{}, nil
}

var errNoSuchBucket = &smithy.GenericAPIError{Code: "NoSuchBucket", Message: "The specified bucket does not exist"}

func newS3ForTest(client *fakeS3, origin string) *s3Adapter {
	return newS3Adapter(client, S3Options{PublicOrigin: origin, Bucket: "uploads"}, logger.NewNop())
}

func TestS3Adapter_Put(t *testing.T) {
	fake := &fakeS3{}
	up := newS3ForTest(fake, "https://proj.supabase.co/")

	url, err := up.Put(context.Background(), "1700-a.png", []byte("data"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://proj.supabase.co/storage/v1/object/public/uploads/1700-a.png", url)
	assert.Equal(t, 1, fake.puts)
	assert.Equal(t, 0, fake.creates)
	assert.Equal(t, "uploads", aws.ToString(fake.lastPut.Bucket))
	assert.Equal(t, "1700-a.png", aws.ToString(fake.lastPut.Key))
	assert.Equal(t, "image/png", aws.ToString(fake.lastPut.ContentType))
	assert.Equal(t, []byte("data"), fake.lastBody)
}

func TestS3Adapter_Put_NoSuchBucket_CreatesAndRetriesOnce(t *testing.T) {
	fake := &fakeS3{putErrs: []error{errNoSuchBucket, nil}}
	up := newS3ForTest(fake, "https://proj.supabase.co")

	url, err := up.Put(context.Background(), "a.png", []byte("data"), "image/png")
	require.NoError(t, err)
	assert.Contains(t, url, "/uploads/a.png")
	assert.Equal(t, 2, fake.puts)
	assert.Equal(t, 1, fake.creates)
	assert.Equal(t, []byte("data"), fake.lastBody, "retry must resend the full body")
}

func TestS3Adapter_Put_NoSuchBucket_RetryFailureIsNotRetriedAgain(t *testing.T) {
	fake := &fakeS3{putErrs: []error{errNoSuchBucket, errNoSuchBucket, nil}}
	up := newS3ForTest(fake, "https://proj.supabase.co")

	_, err := up.Put(context.Background(), "a.png", []byte("data"), "image/png")
	require.Error(t, err)
	assert.Equal(t, 2, fake.puts)
	assert.Equal(t, 1, fake.creates)
	assert.Equal(t, http.StatusInternalServerError, apperror.ToHTTPStatus(err))
	assert.True(t, strings.HasPrefix(asAppError(t, err).Message, "Bucket creation failed or upload retry failed: "))
}

func TestS3Adapter_Put_CreateBucketFails(t *testing.T) {
	fake := &fakeS3{
		putErrs:   []error{errNoSuchBucket},
		createErr: &smithy.GenericAPIError{Code: "AccessDenied", Message: "Access Denied"},
	}
	up := newS3ForTest(fake, "")

	_, err := up.Put(context.Background(), "a.png", []byte("data"), "")
	require.Error(t, err)
	assert.Equal(t, 1, fake.puts)
	assert.Equal(t, 1, fake.creates)
	assert.Contains(t, asAppError(t, err).Message, "Bucket creation failed or upload retry failed")
	assert.Contains(t, asAppError(t, err).Message, "Access Denied")
}

func TestS3Adapter_Put_TLSFailure(t *testing.T) {
	fake := &fakeS3{putErrs: []error{errors.New("operation error S3: PutObject, https response error: remote error: tls: handshake failure")}}
	up := newS3ForTest(fake, "")

	_, err := up.Put(context.Background(), "a.png", []byte("data"), "image/png")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, apperror.ToHTTPStatus(err))
	assert.Equal(t, tlsGuidanceS3, asAppError(t, err).Message)
	assert.Equal(t, 0, fake.creates)
}

func TestS3Adapter_Put_UpstreamPassthrough(t *testing.T) {
	fake := &fakeS3{putErrs: []error{&smithy.GenericAPIError{Code: "AccessDenied", Message: "Access Denied"}}}
	up := newS3ForTest(fake, "")

	_, err := up.Put(context.Background(), "a.png", []byte("data"), "image/png")
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, apperror.ToHTTPStatus(err))
	assert.Equal(t, "Access Denied", asAppError(t, err).Message)
	assert.Equal(t, 1, fake.puts)
}

func TestS3Adapter_PublicURLWithoutOrigin(t *testing.T) {
	up := newS3ForTest(&fakeS3{}, "")
	assert.Equal(t, "https://uploads.s3.amazonaws.com/a%20b.png", up.publicURL("a b.png"))

	regional := newS3Adapter(&fakeS3{}, S3Options{Bucket: "uploads", Region: "eu-west-1"}, logger.NewNop())
	assert.Equal(t, "https://uploads.s3.eu-west-1.amazonaws.com/sub/a.png", regional.publicURL("sub/a.png"))
}

func TestS3Adapter_Delete(t *testing.T) {
	fake := &fakeS3{}
	up := newS3ForTest(fake, "")
	require.NoError(t, up.Delete(context.Background(), "a.png"))
	assert.Equal(t, 1, fake.deletes)

	fake.deleteErr = &smithy.GenericAPIError{Code: "InternalError", Message: "We encountered an internal error"}
	err := up.Delete(context.Background(), "a.png")
	assert.Equal(t, http.StatusInternalServerError, apperror.ToHTTPStatus(err))
}

func TestIsTLSFailure(t *testing.T) {
	assert.True(t, isTLSFailure(errors.New("write EPROTO 1234:error:SSL routines:ssl3_read_bytes:tlsv1 alert")))
	assert.True(t, isTLSFailure(errors.New("x509: certificate signed by unknown authority")))
	assert.False(t, isTLSFailure(errors.New("dial tcp 127.0.0.1:9: connect: connection refused")))
	assert.False(t, isTLSFailure(nil))
}

func TestS3Adapter_DeleteByReturnedURL(t *testing.T) {
	cases := []struct {
		name    string
		opts    S3Options
		key     string
		wantURL string
	}{
		{name: "virtual host", opts: S3Options{Bucket: "uploads"}, key: "1700-a_b.png", wantURL: "https://uploads.s3.amazonaws.com/1700-a_b.png"},
		{name: "virtual host with region", opts: S3Options{Bucket: "uploads", Region: "eu-west-1"}, key: "sub/dir/file.png", wantURL: "https://uploads.s3.eu-west-1.amazonaws.com/sub/dir/file.png"},
		{name: "public origin", opts: S3Options{Bucket: "uploads", PublicOrigin: "https://proj.supabase.co"}, key: "1700-x.png", wantURL: "https://proj.supabase.co/storage/v1/object/public/uploads/1700-x.png"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fake := &fakeS3{}
			up := newS3Adapter(fake, tc.opts, logger.NewNop())

			u, err := up.Put(context.Background(), tc.key, []byte("x"), "")
			require.NoError(t, err)
			assert.Equal(t, tc.wantURL, u)

			uc := mediaUC.NewDeleteMediaUseCase(up, nil, logger.NewNop())
			out, err := uc.Execute(context.Background(), mediaUC.DeleteMediaInput{URL: u})
			require.NoError(t, err)
			assert.Equal(t, tc.key, out.Key)
			assert.Equal(t, 1, fake.deletes)
		})
	}
}

func TestS3Adapter_KeyFromURL(t *testing.T) {
	up := newS3Adapter(&fakeS3{}, S3Options{Bucket: "uploads", Endpoint: "http://localhost:9000"}, logger.NewNop())

	cases := []struct {
		url     string
		wantKey string
		wantOK  bool
	}{
		{url: "https://s3.amazonaws.com/uploads/a/b.png", wantKey: "a/b.png", wantOK: true},
		{url: "https://s3.us-east-2.amazonaws.com/uploads/c.png", wantKey: "c.png", wantOK: true},
		{url: "http://localhost:9000/uploads/space%20name.png", wantKey: "space name.png", wantOK: true},
		{url: "https://uploads.s3.amazonaws.com/", wantOK: false},
		{url: "https://other.s3.amazonaws.com/c.png", wantOK: false},
		{url: "https://s3.amazonaws.com/other-bucket/c.png", wantOK: false},
		{url: "https://cdn.example.com/uploads/c.png", wantOK: false},
		{url: "not a url", wantOK: false},
	}
	for _, tc := range cases {
		key, ok := up.KeyFromURL(tc.url)
		assert.Equal(t, tc.wantOK, ok, tc.url)
		assert.Equal(t, tc.wantKey, key, tc.url)
	}
}
