// Package content holds the site's static records: owner profile, skills,
// work history, projects and case studies. Records are authored once in
// site.yaml and never mutated at runtime.
package content

import (
	_ "embed"
	"os"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed site.yaml
var embedded []byte

// Site is the whole authored content.
type Site struct {
	Owner       Owner        `yaml:"owner"`
	Skills      []SkillGroup `yaml:"skills"`
	Works       []Work       `yaml:"works"`
	Projects    []Project    `yaml:"projects"`
	CaseStudies []CaseStudy  `yaml:"case_studies"`
}

type Owner struct {
	Name         string   `yaml:"name"`
	Hero         string   `yaml:"hero"`
	Subtitle     string   `yaml:"subtitle"`
	Tagline      string   `yaml:"tagline"`
	Email        string   `yaml:"email"`
	Bio          string   `yaml:"bio"`
	ContactIntro string   `yaml:"contact_intro"`
	Socials      []Social `yaml:"socials"`
}

type Social struct {
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
}

// SkillGroup is the content behind one About tab.
type SkillGroup struct {
	Key   string  `yaml:"key"`
	Label string  `yaml:"label"`
	Color string  `yaml:"color"`
	Items []Skill `yaml:"items"`
}

// MaxSkillLevel is the full width of a skill bar, in years.
const MaxSkillLevel = 2.0

type Skill struct {
	Name  string  `yaml:"name"`
	Level float64 `yaml:"level"`
}

// Percent is the bar width for the skill.
func (s Skill) Percent() float64 {
	p := s.Level / MaxSkillLevel * 100
	if p > 100 {
		return 100
	}
	if p < 0 {
		return 0
	}
	return p
}

type Work struct {
	Role     string      `yaml:"role"`
	Company  string      `yaml:"company"`
	Period   string      `yaml:"period"`
	Location string      `yaml:"location"`
	Summary  string      `yaml:"summary"`
	Skills   []WorkSkill `yaml:"skills"`
}

// WorkSkill is a skill pill with its popover sections.
type WorkSkill struct {
	Name    string `yaml:"name"`
	What    string `yaml:"what"`
	Achieve string `yaml:"achieve"`
	IT      string `yaml:"it"`
}

type Project struct {
	ID        int      `yaml:"id"`
	Title     string   `yaml:"title"`
	Tech      []string `yaml:"tech"`
	Image     string   `yaml:"image"`
	Summary   string   `yaml:"summary"`
	Details   string   `yaml:"details"`
	CaseStudy string   `yaml:"case_study"`
	CaseLabel string   `yaml:"case_label"`
	GitHub    string   `yaml:"github"`
}

// CaseStudy is a long-form narrative page. It is either a list of steps or a
// tabbed set of sections.
type CaseStudy struct {
	Path         string `yaml:"path"`
	Title        string `yaml:"title"`
	Subtitle     string `yaml:"subtitle"`
	Breakpoint   int    `yaml:"breakpoint"`
	Confidential bool   `yaml:"confidential"`
	Steps        []Step `yaml:"steps"`
	Tabs         []Tab  `yaml:"tabs"`
}

type Tab struct {
	Key   string `yaml:"key"`
	Label string `yaml:"label"`
	Body  string `yaml:"body"`
}

// Default parses the embedded content.
func Default() (*Site, error) {
	return Parse(embedded)
}

// LoadFile parses content from path.
func LoadFile(path string) (*Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading content %s", path)
	}
	return Parse(data)
}

// Parse decodes and validates YAML content.
func Parse(data []byte) (*Site, error) {
	var s Site
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(err, "decoding content")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks what the page views rely on.
func (s *Site) Validate() error {
	if len(s.Skills) == 0 {
		return errors.New("content: at least one skill group is required")
	}
	keys := make(map[string]bool)
	for _, g := range s.Skills {
		if g.Key == "" || len(g.Items) == 0 {
			return errors.Errorf("content: skill group %q is empty", g.Key)
		}
		if keys[g.Key] {
			return errors.Errorf("content: duplicate skill group %q", g.Key)
		}
		keys[g.Key] = true
	}

	ids := make(map[int]bool)
	for _, p := range s.Projects {
		if ids[p.ID] {
			return errors.Errorf("content: duplicate project id %d", p.ID)
		}
		ids[p.ID] = true
	}

	paths := make(map[string]bool)
	for _, cs := range s.CaseStudies {
		if cs.Path == "" || cs.Path[0] != '/' {
			return errors.Errorf("content: case study %q needs an absolute path", cs.Title)
		}
		if strings.ContainsAny(cs.Path, ":*") {
			return errors.Errorf("content: case study path %s must not contain route parameters", cs.Path)
		}
		if Reserved(cs.Path) {
			return errors.Errorf("content: case study path %s is reserved by the site", cs.Path)
		}
		if paths[cs.Path] {
			return errors.Errorf("content: duplicate case study path %s", cs.Path)
		}
		paths[cs.Path] = true
	}
	return nil
}

// reservedPaths are the site's own pages and endpoints.
var reservedPaths = []string{
	"/", "/about", "/work", "/portfolio", "/contact",
	"/privacy", "/healthz", "/particles.json", "/viewport",
}

// reservedPrefixes are served as whole subtrees.
var reservedPrefixes = []string{"/static", "/images", "/admin", "/export", "/theme"}

// Reserved reports whether path belongs to a fixed route of the site, so
// content cannot claim it.
func Reserved(path string) bool {
	if slices.Contains(reservedPaths, path) {
		return true
	}
	for _, p := range reservedPrefixes {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

// SkillKeys returns the tab keys in authored order.
func (s *Site) SkillKeys() []string {
	keys := make([]string, len(s.Skills))
	for i, g := range s.Skills {
		keys[i] = g.Key
	}
	return keys
}

// SkillGroup returns the group for key.
func (s *Site) SkillGroup(key string) (SkillGroup, bool) {
	for _, g := range s.Skills {
		if g.Key == key {
			return g, true
		}
	}
	return SkillGroup{}, false
}

// Project returns the project with id.
func (s *Site) Project(id int) (Project, bool) {
	for _, p := range s.Projects {
		if p.ID == id {
			return p, true
		}
	}
	return Project{}, false
}

// CaseStudy returns the case study mounted at path.
func (s *Site) CaseStudy(path string) (CaseStudy, bool) {
	for _, cs := range s.CaseStudies {
		if cs.Path == path {
			return cs, true
		}
	}
	return CaseStudy{}, false
}
