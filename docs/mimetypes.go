package docs

import (
	"path/filepath"
	"strings"
)

type Mimetype string
type Filetype string

const (
	Document    Filetype = "document"
	Spreadsheet Filetype = "spreadsheet"
	Other       Filetype = "other"

	MimeAppPDF         Mimetype = "application/pdf"
	MimeAppXlsx        Mimetype = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MimeAppJSON        Mimetype = "application/json"
	MimeTextPlain      Mimetype = "text/plain"
	MimeAppOctetStream Mimetype = "application/octet-stream"
)

func GetFileCategory(mimeType Mimetype) Filetype {
	switch mimeType {
	case MimeAppPDF:
		return Document
	case MimeAppXlsx:
		return Spreadsheet
	default:
		return Other
	}
}

func IsValidMimeType(mimeType string) bool {
	switch Mimetype(mimeType) {
	case MimeAppPDF, MimeAppXlsx, MimeAppJSON, MimeTextPlain, MimeAppOctetStream:
		return true
	default:
		return false
	}
}

// DetectMimetype trusts the mime type Telegram reports and falls back to the
// file extension. Some clients send PDFs as octet-stream.
func DetectMimetype(reported, fileName string) Mimetype {
	if IsValidMimeType(reported) && Mimetype(reported) != MimeAppOctetStream {
		return Mimetype(reported)
	}
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return MimeAppPDF
	case ".xlsx":
		return MimeAppXlsx
	case ".json":
		return MimeAppJSON
	case ".txt":
		return MimeTextPlain
	default:
		return MimeAppOctetStream
	}
}
