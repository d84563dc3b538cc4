package mediatest

import (
	"bytes"
	"fmt"
	"mime"
	"mime/multipart"
	"net/textproto"
)

// File is one part of a multipart test body.
type File struct {
	Field       string
	Name        string
	ContentType string
	Data        []byte
}

// Image returns a PNG part for field.
func Image(field, name string) File {
	return File{Field: field, Name: name, ContentType: "image/png", Data: PNG}
}

// Body encodes fields and files as multipart/form-data.
func Body(fields map[string]string, files []File) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.Field, f.Name))
		h.Set("Content-Type", f.ContentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}

// FileHeaders parses files back into headers as a server would see them.
func FileHeaders(files []File) ([]*multipart.FileHeader, error) {
	buf, ct, err := Body(nil, files)
	if err != nil {
		return nil, err
	}
	_, params, err := mime.ParseMediaType(ct)
	if err != nil {
		return nil, err
	}
	form, err := multipart.NewReader(buf, params["boundary"]).ReadForm(32 << 20)
	if err != nil {
		return nil, err
	}

	var out []*multipart.FileHeader
	seen := map[string]bool{}
	for _, f := range files {
		if seen[f.Field] {
			continue
		}
		seen[f.Field] = true
		out = append(out, form.File[f.Field]...)
	}
	return out, nil
}
