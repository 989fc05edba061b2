// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: d.ramirez.baez@gmail.com

package request

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/dramirezb/cinemateca/internal/platform/apperr"
	"github.com/dramirezb/cinemateca/internal/platform/constants"
	"github.com/dramirezb/cinemateca/internal/platform/validate"
	"github.com/dramirezb/cinemateca/internal/upload"
)

// # Multipart Forms

// deleteSentinel is the literal form value clients send to clear a stored
// media field instead of replacing it.
const deleteSentinel = "null"

// Form wraps a parsed multipart request and offers typed field accessors.
type Form struct {
	request *http.Request
}

// Multipart parses the request body as a multipart form and returns a typed
// accessor. Oversized or malformed bodies yield a validation error.
func Multipart(request *http.Request) (*Form, error) {

	if err := request.ParseMultipartForm(constants.MaxMultipartMemory); err != nil {
		return nil, validate.ErrInvalidForm
	}

	return &Form{request: request}, nil
}

// String returns the trimmed form value for the given field name.
func (form *Form) String(name string) string {
	return strings.TrimSpace(form.request.FormValue(name))
}

// StringPtr returns the trimmed value, or nil when the field is absent.
// An explicitly submitted empty string is returned as a pointer to "".
func (form *Form) StringPtr(name string) *string {

	values, found := form.request.MultipartForm.Value[name]
	if !found || len(values) == 0 {
		return nil
	}

	trimmed := strings.TrimSpace(values[0])
	return &trimmed
}

// Int parses an optional integer field. A missing field returns (0, false, nil).
func (form *Form) Int(name string) (int, bool, error) {

	raw := form.String(name)
	if raw == "" {
		return 0, false, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, apperr.ValidationError("Invalid form field").
			WithFields(map[string]string{name: "Must be an integer"})
	}

	return value, true, nil
}

// Float parses an optional decimal field. A missing field returns (0, false, nil).
func (form *Form) Float(name string) (float64, bool, error) {

	raw := form.String(name)
	if raw == "" {
		return 0, false, nil
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, apperr.ValidationError("Invalid form field").
			WithFields(map[string]string{name: "Must be a number"})
	}

	return value, true, nil
}

// IntSlice parses a list of integers. Both repeated fields and a single
// comma-separated value are accepted. A missing field returns (nil, false, nil).
func (form *Form) IntSlice(name string) ([]int, bool, error) {

	values, found := form.request.MultipartForm.Value[name]
	if !found || len(values) == 0 {
		return nil, false, nil
	}

	var parsed []int
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {

			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}

			number, err := strconv.Atoi(part)
			if err != nil {
				return nil, false, apperr.ValidationError("Invalid form field").
					WithFields(map[string]string{name: "Must be a list of integers"})
			}

			parsed = append(parsed, number)
		}
	}

	return parsed, true, nil
}

// File extracts an uploaded file part into memory.
//
// The second return value reports whether the field was present at all.
// A present field with a nil FileInput means the client sent the delete
// sentinel and wants the stored media removed.
func (form *Form) File(name string, maxBytes int64) (*upload.FileInput, bool, error) {

	// 1. A plain form value of "null" clears the stored media
	if values, found := form.request.MultipartForm.Value[name]; found && len(values) > 0 {
		if strings.TrimSpace(values[0]) == deleteSentinel {
			return nil, true, nil
		}
	}

	// 2. Look for an actual file part
	file, header, err := form.request.FormFile(name)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, false, nil
		}
		return nil, false, validate.ErrInvalidForm
	}
	defer file.Close()

	// 3. Enforce the size cap while reading; LimitReader makes an oversized
	// part detectable without buffering the full body
	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return nil, false, apperr.ValidationError("Could not read uploaded file").
			WithFields(map[string]string{name: "Upload failed, please retry"})
	}

	if int64(len(data)) > maxBytes {
		return nil, true, apperr.ValidationError("Uploaded file is too large").
			WithFields(map[string]string{name: "Exceeds the maximum allowed size"})
	}

	if len(data) == 0 {
		return nil, true, apperr.ValidationError("Uploaded file is empty").
			WithFields(map[string]string{name: "Must not be empty"})
	}

	// 4. Resolve the content type, sniffing when the client omitted it
	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	return &upload.FileInput{
		Filename:    header.Filename,
		ContentType: contentType,
		Data:        data,
	}, true, nil
}
