package filekind

// DefaultMIME is the generic binary content type used when no better
// mapping exists.
const DefaultMIME = "application/octet-stream"

var mimeByExtension = map[string]string{
	"pdf":  "application/pdf",
	"doc":  "application/msword",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"xls":  "application/vnd.ms-excel",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"ppt":  "application/vnd.ms-powerpoint",
	"pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	"txt":  "text/plain",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
	"zip":  "application/zip",
	"rar":  "application/x-rar-compressed",
}

// MIMEByExtension returns the content type for a lowercased file extension.
// The second return reports whether the extension had an explicit mapping;
// unmapped extensions resolve to DefaultMIME.
func MIMEByExtension(ext string) (string, bool) {
	if mime, ok := mimeByExtension[ext]; ok {
		return mime, true
	}

	return DefaultMIME, false
}
