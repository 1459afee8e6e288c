package preview

import (
	"fmt"
	"net/url"

	"github.com/studyshare/docview/internal/filekind"
)

// Mode selects how a document is rendered.
type Mode int32

const (
	// ModeUnsupported renders a fallback card with a download call-to-action.
	ModeUnsupported Mode = iota
	// ModeInline embeds the document directly.
	ModeInline
	// ModeDelegated hands the document to a third-party online viewer.
	ModeDelegated
)

func (m Mode) String() string {
	switch m {
	case ModeInline:
		return "Inline"
	case ModeDelegated:
		return "Delegated"
	default:
		return "Unsupported"
	}
}

// DefaultOfficeViewerBase is the third-party viewer used for proprietary
// office formats the application does not parse natively.
const DefaultOfficeViewerBase = "https://view.officeapps.live.com/op/embed.aspx"

// pdfEmbedHints are presentation hints for the embedding surface, carried as
// URL fragment parameters. They are not semantic data.
const pdfEmbedHints = "#toolbar=1&navpanes=1&scrollbar=1"

// Directive is the chosen rendering approach for a document.
type Directive struct {
	Mode     Mode
	EmbedURL string
}

// Selector maps file kinds to render directives.
type Selector struct {
	officeViewerBase string
}

// NewSelector returns a Selector delegating office formats to viewerBase,
// falling back to DefaultOfficeViewerBase when viewerBase is empty.
func NewSelector(viewerBase string) *Selector {
	if viewerBase == "" {
		viewerBase = DefaultOfficeViewerBase
	}

	return &Selector{officeViewerBase: viewerBase}
}

// Select returns the render directive for a kind and locator. The mapping is
// total: every kind yields exactly one directive.
func (s *Selector) Select(kind filekind.Kind, locator string) Directive {
	switch kind {
	case filekind.PDF:
		return Directive{
			Mode:     ModeInline,
			EmbedURL: locator + pdfEmbedHints,
		}
	case filekind.Word, filekind.Excel, filekind.PowerPoint:
		return Directive{
			Mode:     ModeDelegated,
			EmbedURL: fmt.Sprintf("%s?src=%s", s.officeViewerBase, url.QueryEscape(locator)),
		}
	default:
		return Directive{Mode: ModeUnsupported}
	}
}

// Select returns the render directive using the default office viewer.
func Select(kind filekind.Kind, locator string) Directive {
	return NewSelector("").Select(kind, locator)
}
