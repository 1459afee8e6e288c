package artifact

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/studyshare/docview/internal/filekind"
)

const defaultName = "download"

// Artifact is the locally materialized, correctly named and typed binary
// result of a completed transfer. It never carries the origin locator.
type Artifact struct {
	Name        string
	Path        string
	ContentType string
	Size        int64
}

// ResolveName reconciles the caller's preferred display name with the
// locator's extension. A name already ending with that extension
// (case-insensitive) is reused verbatim, otherwise the extension is
// appended, so neither "name.pdf.pdf" nor a bare "name" can result.
// ResolveName is idempotent.
func ResolveName(desiredName, locator string) string {
	if desiredName == "" {
		desiredName = baseName(locator)
	}

	if desiredName == "" {
		desiredName = defaultName
	}

	ext := filekind.Extension(locator)
	if ext == "" {
		return desiredName
	}

	if strings.HasSuffix(strings.ToLower(desiredName), "."+ext) {
		return desiredName
	}

	return desiredName + "." + ext
}

// ContentType resolves the content type for a downloaded artifact. The
// server-declared type wins; otherwise the name's extension is looked up in
// the static table; otherwise the leading bytes are sniffed; the generic
// binary type is the last resort.
func ContentType(declared, name string, data []byte) string {
	if declared != "" && declared != filekind.DefaultMIME {
		return declared
	}

	if mime, ok := filekind.MIMEByExtension(filekind.Extension(name)); ok {
		return mime
	}

	if len(data) > 0 {
		if mt := mimetype.Detect(data); mt.String() != filekind.DefaultMIME {
			return mt.String()
		}
	}

	return filekind.DefaultMIME
}

// baseName extracts the final path segment of a locator, stripped of any
// query string or fragment.
func baseName(locator string) string {
	if i := strings.IndexAny(locator, "?#"); i >= 0 {
		locator = locator[:i]
	}

	if i := strings.LastIndex(locator, "/"); i >= 0 {
		locator = locator[i+1:]
	}

	return locator
}
