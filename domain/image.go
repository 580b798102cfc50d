package domain

import (
	"context"
	"fmt"
	"io"
)

const (
	// ImageKindAvatar expresses that an Image is a user's avatar.
	ImageKindAvatar = "avatar"
	// ImageKindCover expresses that an Image is a user's cover image.
	ImageKindCover = "cover"
	// MaxUploadSize determines the maximum filesize of an image to be uploaded.
	MaxUploadSize int64 = 5 << 20 // 5 Megabyte
)

// Image represents an uploaded user image. Images have no table of their own: they are
// handed over to an external ImageHost, and only the resulting URL is stored on the User.
// File contains the uploaded file; Key and URL are set once the image has been stored.
type Image struct {
	OwnerID     int
	Kind        string
	File        io.ReadSeeker
	Filename    string
	Extension   string
	ContentType string
	Size        int64

	Key string
	URL string
}

// ObjectKey returns the location of the image within the image host,
// for example: users/1/avatar/6f1c....png.
func (i *Image) ObjectKey(name string) string {
	return fmt.Sprintf("users/%v/%v/%v%v", i.OwnerID, i.Kind, name, i.Extension)
}

// ImageService validates uploaded images and delegates their storage to an ImageHost.
type ImageService interface {
	Upload(ctx context.Context, img *Image) error
	Delete(ctx context.Context, img *Image) error
}

// ImageHost stores image files and serves them under a public URL.
type ImageHost interface {
	Put(ctx context.Context, key, contentType string, r io.Reader, size int64) (string, error)
	Remove(ctx context.Context, key string) error
}
