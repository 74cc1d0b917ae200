package server

import (
	"fmt"
	"html/template"
	"net/url"
	"strconv"

	"github.com/jaeyunjks/portfolio/internal/contact"
	"github.com/jaeyunjks/portfolio/internal/content"
	"github.com/jaeyunjks/portfolio/internal/disclosure"
	"github.com/jaeyunjks/portfolio/internal/nav"
	"github.com/jaeyunjks/portfolio/internal/viewport"
)

// summaryLimit is where collapsed work summaries are cut.
const summaryLimit = 180

// Routes builds the page table: the five nav pages, then the case studies.
func Routes(site *content.Site) nav.Table {
	t := nav.Table{
		{Path: "/", Label: "Home", View: homeView(site), InNav: true},
		{Path: "/about", Label: "About", View: aboutView(site), InNav: true},
		{Path: "/work", Label: "Work", View: workView(site), InNav: true},
		{Path: "/portfolio", Label: "Portfolio", View: portfolioView(site), InNav: true},
		{Path: "/contact", Label: "Contact", View: contactView(site), InNav: true},
	}
	for _, cs := range site.CaseStudies {
		t = append(t, nav.Route{Path: cs.Path, Label: cs.Title, View: caseStudyView(cs)})
	}
	return t
}

// transient query keys describe one event and never carry into links.
var transient = map[string]bool{
	"key": true, "backdrop": true, "tap": true, "jump": true, "menu": true, viewport.WidthParam: true,
}

// links derives hrefs from the mounted page's query state.
type links struct {
	path string
	q    url.Values
}

func linksFor(m *nav.Mount) links {
	return links{path: m.Path, q: m.Query}
}

func (l links) href(set map[string]string, drop ...string) string {
	q := url.Values{}
	for k, v := range l.q {
		if !transient[k] {
			q[k] = append([]string(nil), v...)
		}
	}
	for _, k := range drop {
		q.Del(k)
	}
	for k, v := range set {
		q.Set(k, v)
	}
	if len(q) == 0 {
		return l.path
	}
	return l.path + "?" + q.Encode()
}

// settle returns l without keys whose state the request's events closed.
func (l links) settle(keys ...string) links {
	q := make(url.Values, len(l.q))
	for k, v := range l.q {
		q[k] = v
	}
	for _, k := range keys {
		q.Del(k)
	}
	return links{path: l.path, q: q}
}

func (l links) with(key, value string) string { return l.href(map[string]string{key: value}) }

func (l links) without(keys ...string) string { return l.href(nil, keys...) }

func homeView(site *content.Site) nav.View {
	return func(m *nav.Mount) (nav.Page, error) {
		compact := m.Compact(viewport.DefaultBreakpoint)
		iconSize := 36
		if compact {
			iconSize = 28
		}
		return nav.Page{
			Template: "home",
			Data: map[string]any{
				"Owner":    site.Owner,
				"Compact":  compact,
				"IconSize": iconSize,
			},
		}, nil
	}
}

type tabLink struct {
	Key    string
	Label  string
	Href   string
	Active bool
}

func aboutView(site *content.Site) nav.View {
	return func(m *nav.Mount) (nav.Page, error) {
		tabs := disclosure.NewTabs(site.SkillKeys()...)
		if k := m.Query.Get("tab"); k != "" {
			tabs.Select(k)
		}
		l := linksFor(m)
		group, _ := site.SkillGroup(tabs.Active())

		var tl []tabLink
		for _, g := range site.Skills {
			tl = append(tl, tabLink{Key: g.Key, Label: g.Label, Href: l.with("tab", g.Key), Active: g.Key == tabs.Active()})
		}
		return nav.Page{
			Template: "about",
			Data: map[string]any{
				"Owner":   site.Owner,
				"Compact": m.Compact(viewport.DefaultBreakpoint),
				"Tabs":    tl,
				"Group":   group,
			},
		}, nil
	}
}

type workEntry struct {
	content.Work
	Summary    string
	Truncated  bool
	Expanded   bool
	ToggleHref string
	Pills      []skillPill
}

type skillPill struct {
	content.WorkSkill
	ID    string
	Panel string
	Open  bool
	Href  string
}

// workView renders the history with expandable summaries. Skill pills are
// hover popovers on wide layouts; on compact ones the `skill` query names the
// tapped pill and `tap` names an element tapped elsewhere on the page. Links
// are derived once the tap has settled, so a closed pill stays closed.
func workView(site *content.Site) nav.View {
	return func(m *nav.Mount) (nav.Page, error) {
		compact := m.Compact(viewport.DefaultBreakpoint)

		type mounted struct {
			pop  disclosure.Popover
			pill *skillPill
		}
		var pops []mounted

		entries := make([]workEntry, len(site.Works))
		for i, w := range site.Works {
			var ex disclosure.Expandable
			if m.Query.Get("expand") == strconv.Itoa(i) {
				ex.Expand()
			}
			summary, truncated := disclosure.Truncate(w.Summary, summaryLimit, ex.Expanded())

			e := workEntry{
				Work:      w,
				Summary:   summary,
				Truncated: truncated,
				Expanded:  ex.Expanded(),
				Pills:     make([]skillPill, len(w.Skills)),
			}
			for j, sk := range w.Skills {
				id := fmt.Sprintf("skill-%d-%d", i, j)
				e.Pills[j] = skillPill{WorkSkill: sk, ID: id, Panel: id + "-panel"}
				pop := disclosure.NewPopover(compact, m.Document, id, id+"-panel")
				m.Defer(pop.Release)
				if m.Query.Get("skill") == id {
					pop.Tap()
				}
				pops = append(pops, mounted{pop: pop, pill: &e.Pills[j]})
			}
			entries[i] = e
		}

		if t := m.Query.Get("tap"); t != "" {
			m.Document.Dispatch(disclosure.Element{ID: t})
		}

		anyOpen := false
		for _, p := range pops {
			p.pill.Open = p.pop.IsOpen()
			anyOpen = anyOpen || p.pill.Open
		}
		l := linksFor(m)
		if !anyOpen {
			l = l.settle("skill")
		}

		for i := range entries {
			e := &entries[i]
			if e.Expanded {
				e.ToggleHref = l.without("expand")
			} else {
				e.ToggleHref = l.with("expand", strconv.Itoa(i))
			}
			for j := range e.Pills {
				p := &e.Pills[j]
				if p.Open {
					p.Href = l.without("skill")
				} else {
					p.Href = l.with("skill", p.ID)
				}
			}
		}

		return nav.Page{
			Template: "work",
			Data: map[string]any{
				"Compact":      compact,
				"Works":        entries,
				"PopoverOpen":  anyOpen,
				"BackdropHref": l.href(map[string]string{"tap": "backdrop"}),
			},
		}, nil
	}
}

type projectCard struct {
	content.Project
	Open    bool
	Href    string
	Details template.HTML
}

func portfolioView(site *content.Site) nav.View {
	return func(m *nav.Mount) (nav.Page, error) {
		compact := m.Compact(viewport.DefaultBreakpoint)
		l := linksFor(m)

		var acc disclosure.Accordion[int]
		if id, err := strconv.Atoi(m.Query.Get("open")); err == nil {
			if _, ok := site.Project(id); ok {
				acc.Select(id)
			}
		}

		cards := make([]projectCard, 0, len(site.Projects))
		for _, p := range site.Projects {
			card := projectCard{Project: p, Open: acc.IsOpen(p.ID)}
			if next, ok := acc.Next(p.ID); ok {
				card.Href = l.with("open", strconv.Itoa(next))
			} else {
				card.Href = l.without("open")
			}
			if card.Open {
				html, err := content.Markdown(p.Details)
				if err != nil {
					return nav.Page{}, err
				}
				card.Details = html
			}
			cards = append(cards, card)
		}

		columns := 2
		if compact {
			columns = 1
		}
		return nav.Page{
			Template: "portfolio",
			Data: map[string]any{
				"Compact": compact,
				"Columns": columns,
				"Cards":   cards,
			},
		}, nil
	}
}

func contactView(site *content.Site) nav.View {
	return func(m *nav.Mount) (nav.Page, error) {
		return nav.Page{
			Template: "contact",
			Data: map[string]any{
				"Owner":   site.Owner,
				"Compact": m.Compact(viewport.DefaultBreakpoint),
				"Form":    &contact.Form{},
			},
		}, nil
	}
}

type stepView struct {
	content.Step
	Index    int
	Anchor   string
	Body     template.HTML
	Videos   []videoView
	OpenHref string
}

type videoView struct {
	Label   string
	Preview string
}

// modalContent is what the case-study lightbox shows.
type modalContent struct {
	Kind  content.StepKind
	Title string
	File  string
}

type caseTab struct {
	tabLink
	Body template.HTML
}

// caseStudyView renders a case study. The `pdf` and `view` queries open the
// single modal slot, pdf first so an image view wins when both are present.
// `key` and `backdrop` report the events that close it.
func caseStudyView(cs content.CaseStudy) nav.View {
	return func(m *nav.Mount) (nav.Page, error) {
		compact := m.Compact(cs.Breakpoint)
		data := map[string]any{
			"Case":       cs,
			"Compact":    compact,
			"ExportHref": "/export" + cs.Path,
		}

		var modal disclosure.Modal[modalContent]
		if st, ok := stepAt(cs, m.Query.Get("pdf"), content.KindPDF); ok {
			modal.Open(modalContent{Kind: st.Kind, Title: st.Title, File: st.PDF.File})
		}
		if st, ok := stepAt(cs, m.Query.Get("view"), content.KindImage); ok {
			modal.Open(modalContent{Kind: st.Kind, Title: st.Title, File: st.Image.File})
		}
		if k := m.Query.Get("key"); k != "" {
			modal.HandleKey(k)
		}
		if m.Query.Get("backdrop") != "" {
			modal.BackdropClick()
		}
		l := linksFor(m)
		if !modal.IsOpen() {
			l = l.settle("pdf", "view")
		}

		if len(cs.Tabs) > 0 {
			keys := make([]string, len(cs.Tabs))
			for i, t := range cs.Tabs {
				keys[i] = t.Key
			}
			tabs := disclosure.NewTabs(keys...)
			if k := m.Query.Get("tab"); k != "" {
				tabs.Select(k)
			}
			var tl []caseTab
			for _, t := range cs.Tabs {
				ct := caseTab{tabLink: tabLink{Key: t.Key, Label: t.Label, Href: l.with("tab", t.Key), Active: t.Key == tabs.Active()}}
				if ct.Active {
					body, err := content.Markdown(t.Body)
					if err != nil {
						return nav.Page{}, err
					}
					ct.Body = body
					data["ActiveTab"] = ct
				}
				tl = append(tl, ct)
			}
			data["Tabs"] = tl
		}

		steps := make([]stepView, len(cs.Steps))
		anchors := make(map[string]bool, len(cs.Steps))
		for i, st := range cs.Steps {
			sv := stepView{Step: st, Index: i, Anchor: content.Anchor(i)}
			anchors[sv.Anchor] = true
			switch st.Kind {
			case content.KindText:
				body, err := content.Markdown(st.Text.Markdown)
				if err != nil {
					return nav.Page{}, err
				}
				sv.Body = body
			case content.KindVideo:
				for _, v := range st.Video.Videos {
					sv.Videos = append(sv.Videos, videoView{Label: v.Label, Preview: v.Preview()})
				}
			case content.KindPDF:
				sv.OpenHref = l.href(map[string]string{"pdf": strconv.Itoa(i)}, "view")
			case content.KindImage:
				sv.OpenHref = l.href(map[string]string{"view": strconv.Itoa(i)}, "pdf")
			}
			steps[i] = sv
		}

		var scroll disclosure.ScrollTarget
		if j := m.Query.Get("jump"); anchors[j] {
			scroll.JumpTo(j)
		}

		data["Steps"] = steps
		data["ModalOpen"] = modal.IsOpen()
		data["Modal"] = modal.Content()
		data["CloseHref"] = l.without("pdf", "view")
		data["Jump"] = scroll.Take()
		return nav.Page{Template: "case", Title: cs.Title, Data: data}, nil
	}
}

// stepAt returns step raw of cs when it exists and has kind.
func stepAt(cs content.CaseStudy, raw string, kind content.StepKind) (content.Step, bool) {
	i, err := strconv.Atoi(raw)
	if err != nil || i < 0 || i >= len(cs.Steps) || cs.Steps[i].Kind != kind {
		return content.Step{}, false
	}
	return cs.Steps[i], true
}
