package archive

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	inputs []*s3.PutObjectInput
	bodies [][]byte
	err    error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, _ := io.ReadAll(in.Body)
	f.inputs = append(f.inputs, in)
	f.bodies = append(f.bodies, body)
	return &s3.PutObjectOutput{}, nil
}

func TestPutUploadsUnderUniqueKeys(t *testing.T) {
	t.Parallel()

	putter := &fakePutter{}
	a := NewS3Archive(putter, "uploads", nil)

	pdf := []byte("%PDF-1.7\n%âãÏÓ\n1 0 obj")
	first, err := a.Put(context.Background(), "../reports/q1.pdf", pdf)
	require.NoError(t, err)
	second, err := a.Put(context.Background(), "q1.pdf", pdf)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, strings.HasPrefix(first, "documents/"))
	assert.True(t, strings.HasSuffix(first, "/q1.pdf"))

	require.Len(t, putter.inputs, 2)
	assert.Equal(t, "uploads", *putter.inputs[0].Bucket)
	assert.Equal(t, first, *putter.inputs[0].Key)
	assert.Equal(t, "application/pdf", *putter.inputs[0].ContentType)
	assert.Equal(t, pdf, putter.bodies[0])
}

func TestPutContentTypeFallbacks(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "application/octet-stream", contentType("blob", []byte("plain bytes")))
	assert.Contains(t, contentType("notes.html", []byte("<p>hi</p>")), "text/html")
	assert.Equal(t, "upload", safeName(""))
}

func TestPutPropagatesErrors(t *testing.T) {
	t.Parallel()

	a := NewS3Archive(&fakePutter{err: errors.New("access denied")}, "uploads", nil)
	_, err := a.Put(context.Background(), "notes.txt", []byte("hello"))
	assert.ErrorContains(t, err, "access denied")
}
