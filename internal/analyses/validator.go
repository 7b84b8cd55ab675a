package analyses

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// MaxUploadBytes is the fixed upload ceiling.
const MaxUploadBytes = 20 << 20 // 20MiB

var allowedMIMETypes = []string{
	"application/pdf",
	"text/csv",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"image/png",
	"image/jpeg",
	"image/jpg",
}

var allowedMIMESet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(allowedMIMETypes))
	for _, t := range allowedMIMETypes {
		set[t] = struct{}{}
	}
	return set
}()

// AllowedMIMETypes returns the upload allow-list.
func AllowedMIMETypes() []string {
	out := make([]string, len(allowedMIMETypes))
	copy(out, allowedMIMETypes)
	return out
}

// Upload is a validated uploaded document, immutable for the request.
type Upload struct {
	Content       []byte
	MIMEType      string
	SizeBytes     int64
	FileName      string
	WalletAddress string
}

// ParseUpload extracts and validates the uploaded file and wallet address
// from a multipart request. Pure validation: no external calls are made.
func ParseUpload(r *http.Request) (Upload, *Error) {
	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
		// Bodies past the handler's reader cap surface here as a read
		// error, not as a parsed file header.
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			size := r.ContentLength
			if size <= 0 {
				size = maxErr.Limit
			}
			return Upload{}, fileTooLargeError(size)
		}
		return Upload{}, newError(KindMalformedRequest, http.StatusBadRequest,
			"Request body must be multipart/form-data with a file field.")
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return Upload{}, newError(KindMissingFile, http.StatusBadRequest,
			"No file provided. Attach the document under the \"file\" field.")
	}
	defer file.Close()

	wallet := strings.TrimSpace(r.FormValue("walletAddress"))
	if wallet == "" {
		return Upload{}, newError(KindMissingWallet, http.StatusBadRequest,
			"No wallet address provided. Include \"walletAddress\" in the form data.")
	}

	mimeType := header.Header.Get("Content-Type")
	if _, ok := allowedMIMESet[mimeType]; !ok {
		return Upload{}, &Error{
			Kind:    KindUnsupportedFileType,
			Status:  http.StatusBadRequest,
			Details: fmt.Sprintf("File type %q is not supported. Please upload PDF, CSV, DOC, DOCX, or image files.", mimeType),
			Meta:    map[string]any{"supportedFormats": AllowedMIMETypes()},
		}
	}

	if header.Size > MaxUploadBytes {
		return Upload{}, fileTooLargeError(header.Size)
	}

	content, err := io.ReadAll(file)
	if err != nil {
		return Upload{}, newError(KindMalformedRequest, http.StatusBadRequest,
			"Unable to read the uploaded file.")
	}

	return Upload{
		Content:       content,
		MIMEType:      mimeType,
		SizeBytes:     header.Size,
		FileName:      header.Filename,
		WalletAddress: wallet,
	}, nil
}

func fileTooLargeError(sizeBytes int64) *Error {
	return newError(KindFileTooLarge, http.StatusBadRequest,
		fmt.Sprintf("File size is %.2fMB. Maximum allowed size is 20MB.", float64(sizeBytes)/(1024*1024)))
}
