package content

import (
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// StepKind discriminates the payload of a case-study step.
type StepKind string

const (
	KindPDF   StepKind = "pdf"
	KindImage StepKind = "image"
	KindVideo StepKind = "video"
	KindText  StepKind = "text"
)

// Step is one section of a case study. Exactly one payload matches Kind.
type Step struct {
	Kind  StepKind
	Title string
	Desc  string

	PDF   *PDFPayload
	Image *ImagePayload
	Video *VideoPayload
	Text  *TextPayload
}

type PDFPayload struct {
	File string
}

type ImagePayload struct {
	File string
}

// VideoPayload lists externally hosted previews.
type VideoPayload struct {
	Videos []Video
}

type Video struct {
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
}

// Preview is the embeddable URL for the video.
func (v Video) Preview() string {
	return DrivePreviewURL(v.URL)
}

type TextPayload struct {
	Markdown string
}

// stepDoc is the authored shape of a step before it is split by kind.
type stepDoc struct {
	Kind   StepKind `yaml:"kind"`
	Title  string   `yaml:"title"`
	Desc   string   `yaml:"desc"`
	File   string   `yaml:"file"`
	Text   string   `yaml:"text"`
	Videos []Video  `yaml:"videos"`
}

// UnmarshalYAML builds the payload for the step's kind and rejects steps
// whose fields do not match it.
func (s *Step) UnmarshalYAML(node *yaml.Node) error {
	var doc stepDoc
	if err := node.Decode(&doc); err != nil {
		return err
	}
	step := Step{Kind: doc.Kind, Title: doc.Title, Desc: doc.Desc}

	switch doc.Kind {
	case KindPDF:
		if doc.File == "" {
			return errors.Errorf("line %d: pdf step %q needs a file", node.Line, doc.Title)
		}
		step.PDF = &PDFPayload{File: doc.File}
	case KindImage:
		if doc.File == "" {
			return errors.Errorf("line %d: image step %q needs a file", node.Line, doc.Title)
		}
		step.Image = &ImagePayload{File: doc.File}
	case KindVideo:
		if len(doc.Videos) == 0 {
			return errors.Errorf("line %d: video step %q needs videos", node.Line, doc.Title)
		}
		step.Video = &VideoPayload{Videos: doc.Videos}
	case KindText:
		if doc.Text == "" {
			return errors.Errorf("line %d: text step %q needs text", node.Line, doc.Title)
		}
		step.Text = &TextPayload{Markdown: doc.Text}
	default:
		return errors.Errorf("line %d: unknown step kind %q", node.Line, doc.Kind)
	}

	*s = step
	return nil
}

// Anchor is the element id used to jump to step i.
func Anchor(i int) string {
	return "step-" + strconv.Itoa(i+1)
}
