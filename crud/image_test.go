package crud

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simpleTwitter/domain"
	"simpleTwitter/errs"
)

var (
	pngHeader  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	jpegHeader = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00")
)

func TestImageService_Upload(t *testing.T) {
	s, host := setupTestServices(t)
	ctx := context.Background()

	t.Run("Png", func(t *testing.T) {
		img := &domain.Image{
			OwnerID:  7,
			Kind:     domain.ImageKindAvatar,
			File:     bytes.NewReader(pngHeader),
			Filename: "me.PNG",
		}
		require.NoError(t, s.Image.Upload(ctx, img))
		assert.Equal(t, "image/png", img.ContentType)
		assert.Equal(t, int64(len(pngHeader)), img.Size)
		assert.True(t, strings.HasPrefix(img.Key, "users/7/avatar/"), img.Key)
		assert.True(t, strings.HasSuffix(img.Key, ".png"), img.Key)
		assert.Equal(t, "https://images.example.com/"+img.Key, img.URL)
		assert.Equal(t, pngHeader, host.objects[img.Key])
	})

	t.Run("JpgExtension", func(t *testing.T) {
		img := &domain.Image{
			OwnerID:  7,
			Kind:     domain.ImageKindCover,
			File:     bytes.NewReader(jpegHeader),
			Filename: "cover.jpg",
		}
		require.NoError(t, s.Image.Upload(ctx, img))
		assert.Equal(t, "image/jpeg", img.ContentType)
		assert.True(t, strings.HasSuffix(img.Key, ".jpeg"), img.Key)
	})

	t.Run("UniqueKeys", func(t *testing.T) {
		a := &domain.Image{OwnerID: 7, Kind: domain.ImageKindAvatar, File: bytes.NewReader(pngHeader), Filename: "a.png"}
		b := &domain.Image{OwnerID: 7, Kind: domain.ImageKindAvatar, File: bytes.NewReader(pngHeader), Filename: "a.png"}
		require.NoError(t, s.Image.Upload(ctx, a))
		require.NoError(t, s.Image.Upload(ctx, b))
		assert.NotEqual(t, a.Key, b.Key)
	})

	tooBig := make([]byte, domain.MaxUploadSize+1)
	copy(tooBig, pngHeader)

	failures := []struct {
		name string
		img  domain.Image
	}{
		{"InvalidKind", domain.Image{Kind: "banner", File: bytes.NewReader(pngHeader), Filename: "a.png"}},
		{"InvalidExtension", domain.Image{Kind: domain.ImageKindAvatar, File: bytes.NewReader(pngHeader), Filename: "a.gif"}},
		{"NotAnImage", domain.Image{Kind: domain.ImageKindAvatar, File: strings.NewReader("just some text"), Filename: "a.png"}},
		{"ExtensionMismatch", domain.Image{Kind: domain.ImageKindAvatar, File: bytes.NewReader(pngHeader), Filename: "a.jpeg"}},
		{"TooBig", domain.Image{Kind: domain.ImageKindAvatar, File: bytes.NewReader(tooBig), Filename: "a.png"}},
	}
	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			img := tt.img
			before := len(host.objects)
			requireCode(t, errs.EINVALID, s.Image.Upload(ctx, &img))
			assert.Empty(t, img.URL)
			assert.Equal(t, before, len(host.objects), fmt.Sprintf("%s must not be stored", img.Filename))
		})
	}
}

func TestImageService_Delete(t *testing.T) {
	s, host := setupTestServices(t)
	ctx := context.Background()

	img := &domain.Image{OwnerID: 1, Kind: domain.ImageKindAvatar, File: bytes.NewReader(pngHeader), Filename: "a.png"}
	require.NoError(t, s.Image.Upload(ctx, img))
	require.Contains(t, host.objects, img.Key)

	require.NoError(t, s.Image.Delete(ctx, img))
	assert.NotContains(t, host.objects, img.Key)

	requireCode(t, errs.EINVALID, s.Image.Delete(ctx, &domain.Image{}))
}
