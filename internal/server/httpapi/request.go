package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/ndenisov/showcase/internal/common"
	"github.com/ndenisov/showcase/internal/server/entity"
)

const multipartMemory = 10 << 20

var (
	imageExts  = []string{"jpeg", "jpg", "png", "webp"}
	resumeExts = []string{"pdf", "doc", "docx"}
)

// parseBody reads either a JSON body or a multipart form into a document.
// Multipart form fields arrive as strings; only the fields listed in
// jsonFields are decoded as JSON values (booleans, numbers, arrays), every
// other field stays the raw string the client sent. The file under
// uploadField, if any, is returned as an attachment after size and extension
// checks. An empty body yields an empty document.
func parseBody(r *http.Request, uploadField string, allowedExts []string, maxUpload int64, jsonFields []string) (entity.Document, *entity.Attachment, error) {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		return parseMultipart(r, uploadField, allowedExts, maxUpload, jsonFields)
	}

	doc := entity.Document{}
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, nil, common.NewValidationError("invalid request body")
	}
	return doc, nil, nil
}

func parseMultipart(r *http.Request, uploadField string, allowedExts []string, maxUpload int64, jsonFields []string) (entity.Document, *entity.Attachment, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return nil, nil, common.NewValidationError("invalid form data")
	}

	doc := entity.Document{}
	for k, vs := range r.MultipartForm.Value {
		if len(vs) == 0 {
			continue
		}
		if containsField(jsonFields, k) {
			doc[k] = coerceFormValue(vs[0])
		} else {
			doc[k] = vs[0]
		}
	}

	if uploadField == "" {
		return doc, nil, nil
	}

	f, fh, err := r.FormFile(uploadField)
	if errors.Is(err, http.ErrMissingFile) {
		return doc, nil, nil
	}
	if err != nil {
		return nil, nil, common.NewValidationError("invalid form data")
	}
	defer f.Close()

	if fh.Size > maxUpload {
		return nil, nil, common.NewValidationError("File too large")
	}
	if !extAllowed(fh.Filename, allowedExts) {
		if len(allowedExts) > 0 && allowedExts[0] == "pdf" {
			return nil, nil, common.NewValidationError("Only PDF, DOC, DOCX allowed")
		}
		return nil, nil, common.NewValidationError("Only image files allowed")
	}

	data, err := io.ReadAll(io.LimitReader(f, maxUpload+1))
	if err != nil {
		return nil, nil, err
	}
	if int64(len(data)) > maxUpload {
		return nil, nil, common.NewValidationError("File too large")
	}

	return doc, &entity.Attachment{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func containsField(fields []string, name string) bool {
	for _, f := range fields {
		if f == name {
			return true
		}
	}
	return false
}

// coerceFormValue interprets a form field that carries a JSON value, so that
// multipart clients can send booleans, numbers and arrays. Anything that
// does not parse stays a plain string.
func coerceFormValue(s string) any {
	t := strings.TrimSpace(s)
	if t == "" {
		return s
	}
	switch t[0] {
	case 't', 'f', 'n', '[', '{', '"', '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var v any
		if err := json.Unmarshal([]byte(t), &v); err == nil {
			return v
		}
	}
	return s
}

func extAllowed(name string, allowed []string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	for _, a := range allowed {
		if ext == a {
			return true
		}
	}
	return false
}
