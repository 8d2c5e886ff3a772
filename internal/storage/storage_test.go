package storage

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFilename(t *testing.T) {
	name := normalizeFilename("My Page (1).JPG")
	assert.True(t, strings.HasPrefix(name, "My_Page_1_"), name)
	assert.True(t, strings.HasSuffix(name, ".jpg"), name)

	assert.True(t, strings.HasPrefix(normalizeFilename("???.png"), "file_"))
	assert.NotEqual(t, normalizeFilename("a.png"), normalizeFilename("a.png"))
}

func TestCleanFolder(t *testing.T) {
	assert.Equal(t, "worksheets/3", cleanFolder("worksheets/3"))
	assert.Equal(t, "etc", cleanFolder("../../etc"))
	assert.Equal(t, "misc", cleanFolder(""))
}

func TestLocalStorage_SaveBytes(t *testing.T) {
	dir := t.TempDir()
	ls := NewLocalStorage(dir)

	url, err := ls.SaveBytes([]byte("img"), "page.png", "quran/7")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/quran/7/page_"), url)

	data, err := os.ReadFile(filepath.Join(dir, "quran", "7", filepath.Base(url)))
	require.NoError(t, err)
	assert.Equal(t, "img", string(data))
}

type fakeS3 struct {
	s3iface.S3API
	input *s3.PutObjectInput
	body  []byte
}

func (f *fakeS3) PutObject(in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
	f.input = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestSpacesStorage_SaveBytes(t *testing.T) {
	client := &fakeS3{}
	ss := NewSpacesStorageWithClient(client, "bucket", "https://cdn.example.com/")

	url, err := ss.SaveBytes([]byte("pdf"), "answers.pdf", "worksheets/9")
	require.NoError(t, err)

	require.NotNil(t, client.input)
	assert.Equal(t, "bucket", aws.StringValue(client.input.Bucket))
	assert.Equal(t, "application/pdf", aws.StringValue(client.input.ContentType))
	assert.True(t, strings.HasPrefix(aws.StringValue(client.input.Key), "worksheets/9/answers_"))
	assert.Equal(t, "https://cdn.example.com/"+aws.StringValue(client.input.Key), url)
	assert.Equal(t, "pdf", string(client.body))
}

func TestIsImage(t *testing.T) {
	assert.True(t, IsImage("a.JPEG"))
	assert.False(t, IsImage("a.pdf"))
}
