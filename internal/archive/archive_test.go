package archive

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	recruiterErrors "github.com/Elm-as/ai-recruitment-score-sub000/internal/errors"
)

type fakeObjects struct {
	objects map[string][]byte
	types   map[string]string
	putErr  error
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeObjects) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = data
	f.types[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjects) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	k := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	data, ok := f.objects[k]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{
		Body:        io.NopCloser(bytes.NewReader(data)),
		ContentType: aws.String(f.types[k]),
	}, nil
}

func TestArchive_PutGet(t *testing.T) {
	objects := newFakeObjects()
	a := NewWithClient(objects, "resumes", "/uploads/", nil)
	ctx := context.Background()

	key := a.Key("pos-1", "cand-1", "C:\\Users\\jane\\cv.pdf")
	assert.Equal(t, "uploads/pos-1/cand-1/cv.pdf", key)

	got, err := a.Put(ctx, key, "application/pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, key, got)
	assert.Contains(t, objects.objects, "resumes/uploads/pos-1/cand-1/cv.pdf")

	obj, err := a.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), obj.Data)
	assert.Equal(t, "application/pdf", obj.ContentType)
}

func TestArchive_PutFailure(t *testing.T) {
	objects := newFakeObjects()
	objects.putErr = errors.New("access denied")
	a := NewWithClient(objects, "resumes", "", nil)

	_, err := a.Put(context.Background(), "k", "text/plain", []byte("x"))
	require.Error(t, err)
	assert.Equal(t, recruiterErrors.ErrorTypeNetwork, recruiterErrors.TypeOf(err))
}

func TestArchive_GetMissing(t *testing.T) {
	a := NewWithClient(newFakeObjects(), "resumes", "", nil)
	_, err := a.Get(context.Background(), "missing")
	require.Error(t, err)
}

func TestArchive_NilIsDisabled(t *testing.T) {
	var a *Archive
	ctx := context.Background()

	assert.False(t, a.Enabled())
	assert.Equal(t, "p/c/cv.txt", a.Key("p", "c", "cv.txt"))

	key, err := a.Put(ctx, "p/c/cv.txt", "text/plain", []byte("x"))
	require.NoError(t, err)
	assert.Empty(t, key)

	_, err = a.Get(ctx, "p/c/cv.txt")
	require.Error(t, err)
	assert.Equal(t, recruiterErrors.ErrorTypeNotFound, recruiterErrors.TypeOf(err))
}

func TestNew_RequiresBucket(t *testing.T) {
	_, err := New(context.Background(), Options{}, nil)
	require.Error(t, err)
}
