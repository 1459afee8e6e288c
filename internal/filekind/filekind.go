package filekind

import "strings"

// Kind is the canonical document category derived from a file's extension.
type Kind int32

const (
	Unknown Kind = iota
	PDF
	Word
	Excel
	PowerPoint
)

func (k Kind) String() string {
	switch k {
	case PDF:
		return "PDF"
	case Word:
		return "Word"
	case Excel:
		return "Excel"
	case PowerPoint:
		return "PowerPoint"
	default:
		return "Unknown"
	}
}

// Extension returns the lowercased extension of the locator's final path
// segment, with any query string or fragment stripped first. It returns ""
// when the locator carries no extension.
func Extension(locator string) string {
	if i := strings.IndexAny(locator, "?#"); i >= 0 {
		locator = locator[:i]
	}

	segment := locator
	if i := strings.LastIndex(segment, "/"); i >= 0 {
		segment = segment[i+1:]
	}

	i := strings.LastIndex(segment, ".")
	if i < 0 || i == len(segment)-1 {
		return ""
	}

	return strings.ToLower(segment[i+1:])
}

// Classify maps a resource locator to its Kind. It is total: every locator
// maps to exactly one Kind, defaulting to Unknown when the extension is
// absent or unrecognized. Both preview selection and download typing route
// through this function so the two can never diverge.
func Classify(locator string) Kind {
	switch Extension(locator) {
	case "pdf":
		return PDF
	case "doc", "docx":
		return Word
	case "xls", "xlsx":
		return Excel
	case "ppt", "pptx":
		return PowerPoint
	default:
		return Unknown
	}
}
