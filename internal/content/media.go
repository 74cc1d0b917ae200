package content

import (
	"bytes"
	"html/template"
	"regexp"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var driveFileID = regexp.MustCompile(`/file/d/([^/]+)/`)

// DrivePreviewURL turns a Drive share link into its iframe preview URL.
// Links without a file id are returned unchanged.
func DrivePreviewURL(shared string) string {
	m := driveFileID.FindStringSubmatch(shared)
	if m == nil {
		return shared
	}
	return "https://drive.google.com/file/d/" + m[1] + "/preview"
}

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Markdown renders authored markdown. Raw HTML in the source is not passed
// through, so the result is safe to inline.
func Markdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", errors.Wrap(err, "rendering markdown")
	}
	return template.HTML(buf.String()), nil
}
