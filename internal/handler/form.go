package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"yatube/internal/model"
)

// maxFormMemory bounds the in-memory part of a multipart form; larger
// files spill to disk.
const maxFormMemory = 8 << 20

// parseForm accepts multipart/form-data and urlencoded bodies alike.
func parseForm(w http.ResponseWriter, r *http.Request, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	err := r.ParseMultipartForm(maxFormMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		return r.ParseForm()
	}
	return err
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

// postFormInput is what a create or edit submission carried.
type postFormInput struct {
	req    model.PostRequest
	group  *int64
	file   multipart.File
	errors *model.ValidationError
}

func (in *postFormInput) Close() {
	if in.file != nil {
		in.file.Close()
	}
}

// readPostForm pulls text, group and image out of a parsed form. Values
// that cannot be interpreted end up in errors rather than failing the
// request.
func readPostForm(r *http.Request) *postFormInput {
	in := &postFormInput{errors: model.NewValidationError()}
	in.req.Text = r.FormValue("text")

	if raw := strings.TrimSpace(r.FormValue("group")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			in.errors.Add("group", model.MsgInvalidChoice)
		} else {
			in.group = &id
			in.req.GroupID = &id
		}
	}

	file, header, err := r.FormFile("image")
	switch {
	case err == nil:
		in.file = file
		in.req.Image = &model.ImageUpload{
			File:        file,
			Size:        header.Size,
			ContentType: header.Header.Get("Content-Type"),
		}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		in.errors.Add("image", model.MsgInvalidImage)
	}

	if in.errors.HasErrors() && strings.TrimSpace(in.req.Text) == "" {
		in.errors.Add("text", model.MsgRequired)
	}
	return in
}
