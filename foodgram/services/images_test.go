package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ellavondegurechaff/foodgram/internal/domain/errs"
)

const pixelPNG = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

func TestParseDataURI(t *testing.T) {
	img, err := ParseDataURI(pixelPNG)
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, "png", img.Ext)
	assert.True(t, strings.HasPrefix(string(img.Data), "\x89PNG"))

	rejected := map[string]string{
		"not a data uri":   "hello",
		"not base64":       "data:image/png,plain",
		"unsupported type": "data:image/tiff;base64,AAAA",
		"broken payload":   "data:image/png;base64,@@@",
		"not an image":     "data:image/png;base64,aGVsbG8gd29ybGQ=",
	}
	for name, input := range rejected {
		t.Run(name, func(t *testing.T) {
			_, err := ParseDataURI(input)
			assert.True(t, errs.IsValidation(err), "got %v", err)
		})
	}
}

type fakeObjects struct {
	put     []*s3.PutObjectInput
	deleted []string
}

func (f *fakeObjects) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.put = append(f.put, in)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjects) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleted = append(f.deleted, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestSpacesService_SaveAndRemove(t *testing.T) {
	ctx := context.Background()
	objects := &fakeObjects{}
	s := NewSpacesServiceWithClient(objects, "fra1", "foodgram", "/recipes/images/")

	ref, err := s.Save(ctx, pixelPNG)
	require.NoError(t, err)
	require.Len(t, objects.put, 1)
	key := *objects.put[0].Key
	assert.True(t, strings.HasPrefix(key, "recipes/images/"), key)
	assert.True(t, strings.HasSuffix(key, ".png"), key)
	assert.Equal(t, "https://foodgram.fra1.digitaloceanspaces.com/"+key, ref)

	require.NoError(t, s.Remove(ctx, ref))
	assert.Equal(t, []string{key}, objects.deleted)

	// Foreign references are left alone.
	require.NoError(t, s.Remove(ctx, "https://elsewhere.example.com/a.png"))
	assert.Len(t, objects.deleted, 1)
}

func TestSpacesService_KeepsRemoteURL(t *testing.T) {
	objects := &fakeObjects{}
	s := NewSpacesServiceWithClient(objects, "fra1", "foodgram", "recipes/images")

	ref, err := s.Save(context.Background(), "https://cdn.example.com/pie.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/pie.jpg", ref)
	assert.Empty(t, objects.put)
}

func TestLocalImageStore(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s := NewLocalImageStore(root, "/media/", "recipes/images")

	ref, err := s.Save(ctx, pixelPNG)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(ref, "/media/recipes/images/"), ref)

	file := filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(ref, "/media/")))
	_, err = os.Stat(file)
	require.NoError(t, err)

	require.NoError(t, s.Remove(ctx, ref))
	_, err = os.Stat(file)
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, s.Remove(ctx, "/media/../config.toml"))
}

func TestImageStore_Owns(t *testing.T) {
	spaces := NewSpacesServiceWithClient(&fakeObjects{}, "fra1", "foodgram", "recipes/images")
	local := NewLocalImageStore(t.TempDir(), "/media/", "recipes/images")

	assert.True(t, spaces.Owns("https://foodgram.fra1.digitaloceanspaces.com/recipes/images/a.png"))
	assert.False(t, spaces.Owns("https://cdn.example.com/a.png"))
	assert.False(t, spaces.Owns(pixelPNG))

	assert.True(t, local.Owns("/media/recipes/images/a.png"))
	assert.False(t, local.Owns("https://cdn.example.com/media/a.png"))
	assert.False(t, local.Owns(pixelPNG))
}
