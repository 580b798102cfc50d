package crud

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"simpleTwitter/domain"
	"simpleTwitter/errs"
)

// ImageService manages uploaded Images.
// It implements the domain.ImageService interface.
type ImageService struct {
	imageValidator
}

// imageValidator runs validations on incoming Image data.
// On success, it passes the data on to imageCrud.
// Otherwise, it returns the error of the validation that has failed.
type imageValidator struct {
	imageCrud
}

// imageCrud hands validated images over to the image host.
type imageCrud struct {
	host domain.ImageHost
}

// NewImageService returns an instance of ImageService.
func NewImageService(host domain.ImageHost) *ImageService {
	return &ImageService{
		imageValidator{
			imageCrud{
				host: host,
			},
		},
	}
}

// Ensure the ImageService struct properly implements the domain.ImageService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.ImageService = &ImageService{}

// Upload runs validations needed for storing uploaded images with the image host.
// On success, the image's Key and URL are set.
func (iv *imageValidator) Upload(ctx context.Context, img *domain.Image) error {
	err := runImageValFns(img,
		iv.kindValid,
		iv.extensionValid,
		iv.contentTypeValid,
		iv.contentTypeExtensionMatch,
		iv.belowMaxSize,
		iv.keyUnique,
	)
	if err != nil {
		return err
	}
	return iv.imageCrud.upload(ctx, img)
}

// Delete removes a previously uploaded image from the image host.
func (iv *imageValidator) Delete(ctx context.Context, img *domain.Image) error {
	if img.Key == "" {
		return errs.Errorf(errs.EINVALID, "Image key is missing.")
	}
	return iv.imageCrud.delete(ctx, img)
}

// runImageValFns runs any number of functions of type imageValFn on the passed in Image object.
func runImageValFns(img *domain.Image, fns ...imageValFn) error {
	for _, fn := range fns {
		if err := fn(img); err != nil {
			return err
		}
	}
	return nil
}

// A imageValFn is any function that takes in a pointer to a domain.Image object and returns an error.
type imageValFn func(img *domain.Image) error

// kindValid makes sure that the image is either an avatar or a cover image.
func (iv *imageValidator) kindValid(img *domain.Image) error {
	if img.Kind != domain.ImageKindAvatar && img.Kind != domain.ImageKindCover {
		return errs.Errorf(errs.EINVALID, "Invalid image type, must be '%s' or '%s'.", domain.ImageKindAvatar, domain.ImageKindCover)
	}
	return nil
}

// extensionValid makes sure the filename ends in .jpg, .jpeg or .png and normalizes the extension.
func (iv *imageValidator) extensionValid(img *domain.Image) error {
	ext := strings.ToLower(filepath.Ext(img.Filename))
	if ext != ".png" && ext != ".jpg" && ext != ".jpeg" {
		return errs.Errorf(errs.EINVALID, "Image %s has an invalid extension, must be .jpeg or .png.", img.Filename)
	}
	if ext == ".jpg" {
		ext = ".jpeg"
	}
	img.Extension = ext
	return nil
}

// contentTypeValid makes sure that the image to be uploaded is a valid jpeg or png file.
func (iv *imageValidator) contentTypeValid(img *domain.Image) error {
	buffer := make([]byte, 512)
	n, err := img.File.Read(buffer)
	if err != nil && err != io.EOF {
		return err
	}
	if err = resetFilePointer(img); err != nil {
		return err
	}
	contentType := http.DetectContentType(buffer[:n])
	if contentType != "image/jpeg" && contentType != "image/png" {
		return errs.Errorf(errs.EINVALID, "Image %s has an invalid content-type, must be image/jpeg or image/png.", img.Filename)
	}
	img.ContentType = contentType
	return nil
}

// contentTypeExtensionMatch makes sure that the file extension fits the sniffed content type.
func (iv *imageValidator) contentTypeExtensionMatch(img *domain.Image) error {
	contentType := strings.TrimPrefix(img.ContentType, "image/")
	ext := strings.TrimPrefix(img.Extension, ".")
	if contentType != ext {
		return errs.Errorf(errs.EINVALID, "Image %s content-type %s does not match extension %s.", img.Filename, img.ContentType, img.Extension)
	}
	return nil
}

// belowMaxSize makes sure that the image to be uploaded does not exceed MaxUploadSize.
func (iv *imageValidator) belowMaxSize(img *domain.Image) error {
	size, err := img.File.Seek(0, io.SeekEnd)
	if err != nil {
		return err
	}
	if err = resetFilePointer(img); err != nil {
		return err
	}
	if size > domain.MaxUploadSize {
		return errs.Errorf(errs.EINVALID, "Image %s exceeds upload size limit of %dMB.", img.Filename, domain.MaxUploadSize>>20)
	}
	img.Size = size
	return nil
}

// keyUnique gives the image a unique location within the image host.
func (iv *imageValidator) keyUnique(img *domain.Image) error {
	img.Key = img.ObjectKey(uuid.NewString())
	return nil
}

// resetFilePointer moves back to the beginning of the file, so that subsequent reads will work.
func resetFilePointer(img *domain.Image) error {
	_, err := img.File.Seek(0, io.SeekStart)
	return err
}

// upload stores the image with the image host and remembers its public URL.
func (ic *imageCrud) upload(ctx context.Context, img *domain.Image) error {
	url, err := ic.host.Put(ctx, img.Key, img.ContentType, img.File, img.Size)
	if err != nil {
		return err
	}
	img.URL = url
	return nil
}

// delete removes the image from the image host.
func (ic *imageCrud) delete(ctx context.Context, img *domain.Image) error {
	return ic.host.Remove(ctx, img.Key)
}
