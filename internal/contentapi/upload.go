package contentapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/bilgisen/newsportal/internal/models"
)

// UploadMedia sends a file to the media library as multipart form data:
// file, alt[<locale>], folder and comma separated tags.
func (c *Client) UploadMedia(ctx context.Context, u models.MediaUpload) (*models.Media, error) {
	if u.Body == nil {
		return nil, errors.New("upload has no file")
	}

	form := map[string]string{}
	if u.Alt.IsLocalized() {
		for _, locale := range u.Alt.Locales() {
			if text := strings.TrimSpace(u.Alt.Get(locale)); text != "" {
				form["alt["+locale+"]"] = text
			}
		}
	} else if text := strings.TrimSpace(u.Alt.Get("")); text != "" {
		form["alt[en]"] = text
	}
	if u.Folder != "" {
		form["folder"] = u.Folder
	}
	if len(u.Tags) > 0 {
		form["tags"] = strings.Join(u.Tags, ",")
	}

	env, err := c.do(ctx, http.MethodPost, "/media/upload", nil, nil, func(r *resty.Request) {
		r.SetFileReader("file", u.Filename, u.Body)
		if len(form) > 0 {
			r.SetFormData(form)
		}
	})
	if err != nil {
		return nil, err
	}

	media, err := Decode[models.Media](env.Data, nil)
	if err != nil {
		return nil, err
	}
	return &media, nil
}
