package http

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"simpleTwitter/domain"
	"simpleTwitter/errs"
)

// maxMultipartBytes caps the body of a multipart profile update: two images
// of the maximum size plus room for the text fields.
const maxMultipartBytes = 2*domain.MaxUploadSize + 1<<20

// imageFields maps the multipart file fields of a profile update to image kinds.
var imageFields = map[string]string{
	"avatar":      domain.ImageKindAvatar,
	"cover_image": domain.ImageKindCover,
}

var errBodyTooLarge = errs.Errorf(errs.EINVALID, "Request body is too large.")

// isMultipart reports whether the request carries a multipart form.
func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// parseMultipartUpdate reads a profile update from a multipart form. Text fields are
// only applied when present. The avatar and cover_image files are uploaded to the image
// host and the update points at their URLs. On failure, images uploaded so far are discarded.
func (s *Server) parseMultipartUpdate(w http.ResponseWriter, r *http.Request, userID int) (*domain.UserUpdate, []*domain.Image, error) {
	if r.ContentLength > maxMultipartBytes {
		return nil, nil, errBodyTooLarge
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxMultipartBytes)
	if err := r.ParseMultipartForm(maxMultipartBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, nil, errBodyTooLarge
		}
		return nil, nil, errs.Errorf(errs.EINVALID, "Invalid multipart form.")
	}

	upd := &domain.UserUpdate{}
	texts := map[string]**string{
		"account":        &upd.Account,
		"name":           &upd.Name,
		"email":          &upd.Email,
		"introduction":   &upd.Introduction,
		"password":       &upd.Password,
		"check_password": &upd.CheckPassword,
	}
	for field, dst := range texts {
		if vs, ok := r.MultipartForm.Value[field]; ok && len(vs) > 0 {
			v := vs[0]
			*dst = &v
		}
	}

	var uploaded []*domain.Image
	for field, kind := range imageFields {
		headers := r.MultipartForm.File[field]
		if len(headers) == 0 {
			continue
		}
		img, err := s.uploadImage(r, userID, kind, headers[0])
		if err != nil {
			s.discardImages(r, uploaded)
			return nil, nil, err
		}
		uploaded = append(uploaded, img)

		url := img.URL
		if kind == domain.ImageKindAvatar {
			upd.Avatar = &url
		} else {
			upd.CoverImage = &url
		}
	}
	return upd, uploaded, nil
}

// uploadImage validates one uploaded file and stores it with the image host.
func (s *Server) uploadImage(r *http.Request, userID int, kind string, header *multipart.FileHeader) (*domain.Image, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img := &domain.Image{
		OwnerID:  userID,
		Kind:     kind,
		File:     file,
		Filename: header.Filename,
	}
	if err := s.is.Upload(r.Context(), img); err != nil {
		return nil, err
	}
	return img, nil
}

// discardImages removes images from the image host that are not referenced after all.
// Failures are only logged; the request has failed already.
func (s *Server) discardImages(r *http.Request, imgs []*domain.Image) {
	for _, img := range imgs {
		if err := s.is.Delete(r.Context(), img); err != nil {
			errs.LogError(r, err)
		}
	}
}
