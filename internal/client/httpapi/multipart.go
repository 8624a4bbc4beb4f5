package httpapi

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
)

// Multipart is a pre-encoded multipart/form-data body. Client.Do sends it
// untouched with its own boundary content type.
type Multipart struct {
	Body        io.Reader
	ContentType string
}

// FilePart is one file field of a multipart form.
type FilePart struct {
	Field       string
	FileName    string
	ContentType string
	Data        []byte
}

// NewMultipart encodes fields (in the given order) followed by files.
func NewMultipart(fields [][2]string, files ...FilePart) (*Multipart, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, fmt.Errorf("write field %s: %w", f[0], err)
		}
	}

	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.Field, f.FileName))
		ct := f.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)

		part, err := w.CreatePart(h)
		if err != nil {
			return nil, fmt.Errorf("create part %s: %w", f.Field, err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, fmt.Errorf("write part %s: %w", f.Field, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}
	return &Multipart{Body: &buf, ContentType: w.FormDataContentType()}, nil
}
