package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Cloudinary uploads product images to a Cloudinary folder.
type Cloudinary struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinary(cloudName, apiKey, apiSecret, folder string) (*Cloudinary, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, errors.New("cloudinary credentials are not configured")
	}
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	return &Cloudinary{cld: cld, folder: folder}, nil
}

// Upload stores r as an image and returns its https URL.
func (c *Cloudinary) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	res, err := c.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:       c.folder,
		ResourceType: "image",
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", filename, err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("upload %s: %s", filename, res.Error.Message)
	}
	return res.SecureURL, nil
}

// Unavailable rejects every upload. It stands in when Cloudinary is not
// configured so product creation fails cleanly instead of the process.
type Unavailable struct{ Err error }

func (u Unavailable) Upload(context.Context, string, io.Reader) (string, error) {
	return "", u.Err
}
