package filemgr

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"nitrojack/utils"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

type EntityType string

const (
	EntityPost EntityType = "post"
	EntityUser EntityType = "user"
)

var entityDirs = map[EntityType]string{
	EntityPost: "./static/postpic",
	EntityUser: "./static/userpic",
}

var entityRoutes = map[EntityType]string{
	EntityPost: "/static/postpic",
	EntityUser: "/static/userpic",
}

const thumbWidth = 320

var ErrUnsupportedImage = errors.New("unsupported image payload")

// SaveImage decodes a base64 data URI (or bare base64 image payload), stores
// it as a JPEG under the entity's static directory, and writes a thumbnail
// beside it. Returns the public URI of the stored image.
func SaveImage(data string, entity EntityType) (string, error) {
	dir, ok := entityDirs[entity]
	if !ok {
		return "", fmt.Errorf("unknown entity type: %s", entity)
	}

	raw, err := decodeDataURI(data)
	if err != nil {
		return "", err
	}

	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", ErrUnsupportedImage
	}

	if err := utils.EnsureDir(dir); err != nil {
		return "", err
	}
	if err := utils.EnsureDir(filepath.Join(dir, "thumb")); err != nil {
		return "", err
	}

	filename := uuid.New().String() + ".jpg"
	if err := imaging.Save(img, filepath.Join(dir, filename), imaging.JPEGQuality(90)); err != nil {
		return "", err
	}

	// thumbnail keeps aspect ratio
	thumb := imaging.Resize(img, thumbWidth, 0, imaging.Lanczos)
	if err := imaging.Save(thumb, filepath.Join(dir, "thumb", filename)); err != nil {
		return "", err
	}

	return entityRoutes[entity] + "/" + filename, nil
}

// DeleteImage removes a previously stored image and its thumbnail by public
// URI. Callers treat failures as best-effort.
func DeleteImage(uri string) error {
	for entity, route := range entityRoutes {
		if strings.HasPrefix(uri, route+"/") {
			filename := strings.TrimPrefix(uri, route+"/")
			if strings.Contains(filename, "/") || strings.Contains(filename, "..") {
				return fmt.Errorf("invalid image uri: %s", uri)
			}
			dir := entityDirs[entity]
			err := os.Remove(filepath.Join(dir, filename))
			if rmErr := os.Remove(filepath.Join(dir, "thumb", filename)); err == nil {
				err = rmErr
			}
			return err
		}
	}
	return fmt.Errorf("unknown image uri: %s", uri)
}

func decodeDataURI(data string) ([]byte, error) {
	payload := data
	if strings.HasPrefix(data, "data:") {
		idx := strings.Index(data, ",")
		if idx < 0 {
			return nil, ErrUnsupportedImage
		}
		payload = data[idx+1:]
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, ErrUnsupportedImage
	}
	return raw, nil
}
