package helpers

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Uploader pushes profile photos to Cloudinary. The returned URL is what
// conversations snapshot as the participant photo reference.
type Uploader struct {
	cld *cloudinary.Cloudinary
}

func NewUploader(cloudinaryURL string) (*Uploader, error) {
	if cloudinaryURL == "" {
		return nil, fmt.Errorf("cloudinary: CLOUDINARY_URL is empty")
	}
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: init: %w", err)
	}
	return &Uploader{cld: cld}, nil
}

// UploadPhoto uploads an image stream and returns its secure URL.
func (u *Uploader) UploadPhoto(ctx context.Context, file multipart.File, fileHeader *multipart.FileHeader, folder string) (string, error) {
	// Reset file pointer before upload
	file.Seek(0, 0)

	res, err := u.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       folder,
		ResourceType: "image",
		PublicID:     fileHeader.Filename,
	})
	if err != nil {
		log.Println("❌ [UploadPhoto] Cloudinary upload error:", err)
		return "", err
	}

	return res.SecureURL, nil
}
