package model

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"heirloom/pkg/apperr"
)

var supportedFileTypes = map[string]bool{
	"image/jpeg":         true,
	"image/png":          true,
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// Upload is the immutable result of a finished multipart stream.
type Upload struct {
	DisplayName  string
	DocumentType string
	Description  string
	AssignTo     string
	Filename     string
	FileType     string
	FileToken    string
	Size         int64
	Content      []byte
}

// UploadBuilder accumulates the events of a multipart upload stream. Call
// File and Field as parts arrive, then Finalize exactly once when the stream
// completes.
type UploadBuilder struct {
	fileToken string
	fields    map[string]string
	filename  string
	fileType  string
	content   []byte
	hasFile   bool
	finalized bool
}

func NewUploadBuilder() *UploadBuilder {
	return &UploadBuilder{
		fileToken: uuid.NewString(),
		fields:    map[string]string{},
	}
}

// File consumes the file part. Unsupported media types are rejected before
// any bytes are read.
func (b *UploadBuilder) File(originalName, mimeType string, r io.Reader) error {
	if b.finalized {
		return errors.New("upload already finalized")
	}
	if !supportedFileTypes[mimeType] {
		return apperr.Validationf("Document could not be uploaded",
			map[string]string{"file": "File type not supported"})
	}

	content, err := io.ReadAll(r)
	if err != nil {
		return apperr.Storef(err, "Document could not be uploaded")
	}

	parts := strings.Split(originalName, ".")
	ext := parts[len(parts)-1]

	b.filename = fmt.Sprintf("%s.%s", b.fileToken, ext)
	b.fileType = mimeType
	b.content = content
	b.hasFile = true
	return nil
}

// Field records a non-file form field.
func (b *UploadBuilder) Field(name, value string) {
	if b.finalized {
		return
	}
	b.fields[name] = value
}

// Finalize seals the builder and returns the immutable upload record.
func (b *UploadBuilder) Finalize() (*Upload, error) {
	if b.finalized {
		return nil, errors.New("upload already finalized")
	}
	b.finalized = true

	if !b.hasFile {
		return nil, apperr.Validationf("Document could not be uploaded",
			map[string]string{"file": "A file must be provided"})
	}

	return &Upload{
		DisplayName:  b.fields["displayName"],
		DocumentType: b.fields["documentType"],
		Description:  b.fields["description"],
		AssignTo:     b.fields["assignTo"],
		Filename:     b.filename,
		FileType:     b.fileType,
		FileToken:    b.fileToken,
		Size:         int64(len(b.content)),
		Content:      b.content,
	}, nil
}
