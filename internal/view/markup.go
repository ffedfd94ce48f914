package view

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/zhouzirui/resume-console/internal/model/chat"
	"github.com/zhouzirui/resume-console/internal/model/jobs"
)

// LinkLabel is the text of the link shown next to a recommendation.
const LinkLabel = "Open link"

// linkPattern stops at any Unicode space, not only ASCII whitespace.
var linkPattern = regexp.MustCompile(`https?://[^\s\v\pZ\x{feff}]+`)

// Segment is a run of transcript text; Href is set when the run is a link.
type Segment struct {
	Text string `json:"text"`
	Href string `json:"href,omitempty"`
}

// Linkify splits text into plain and link segments. Concatenating the
// segment texts gives back the input unchanged.
func Linkify(text string) []Segment {
	var segments []Segment
	last := 0
	for _, loc := range linkPattern.FindAllStringIndex(text, -1) {
		if loc[0] > last {
			segments = append(segments, Segment{Text: text[last:loc[0]]})
		}
		link := text[loc[0]:loc[1]]
		segments = append(segments, Segment{Text: link, Href: link})
		last = loc[1]
	}
	if last < len(text) {
		segments = append(segments, Segment{Text: text[last:]})
	}
	return segments
}

// SkillsHTML renders the skill area.
func SkillsHTML(skills []string) string {
	var nodes []*html.Node
	if len(skills) == 0 {
		nodes = append(nodes, withText(element(atom.Span, "class", "muted"), SkillsPlaceholder))
	}
	for _, skill := range skills {
		nodes = append(nodes, withText(element(atom.Span, "class", "chip"), skill))
	}
	return render(nodes...)
}

// EntryHTML renders one transcript bubble. All text is escaped; detected
// links become anchors opening in a new tab.
func EntryHTML(entry chat.Entry) string {
	class := "bubble ai"
	if entry.Sender == chat.SenderUser {
		class = "bubble user"
	}
	bubble := element(atom.Div, "class", class)
	for _, seg := range Linkify(entry.Text) {
		if seg.Href == "" {
			bubble.AppendChild(textNode(seg.Text))
			continue
		}
		bubble.AppendChild(withText(externalLink(seg.Href), seg.Text))
	}
	return render(bubble)
}

// RecommendationsHTML renders a recommendation list. Empty input renders nothing.
func RecommendationsHTML(recs []jobs.Recommendation) string {
	if len(recs) == 0 {
		return ""
	}
	list := element(atom.Ul, "class", "list")
	for _, rec := range recs {
		li := element(atom.Li)
		li.AppendChild(withText(element(atom.Div), rec.DisplayTitle()))
		if href, ok := safeHref(rec.Link); ok {
			li.AppendChild(withText(externalLink(href), LinkLabel))
		}
		li.AppendChild(withText(element(atom.Div, "class", "muted"), rec.Reason))
		list.AppendChild(li)
	}
	return render(list)
}

// TranscriptHTML renders every transcript item in order.
func TranscriptHTML(items []Item) string {
	var b strings.Builder
	for _, item := range items {
		switch item.Kind {
		case ItemEntry:
			if item.Entry != nil {
				b.WriteString(EntryHTML(*item.Entry))
			}
		case ItemRecommendations:
			b.WriteString(RecommendationsHTML(item.Recommendations))
		}
	}
	return b.String()
}

// safeHref only lets absolute http(s) links through to an href attribute.
func safeHref(link string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil || u.Host == "" {
		return "", false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	return u.String(), true
}

func externalLink(href string) *html.Node {
	return element(atom.A, "href", href, "target", "_blank", "rel", "noreferrer noopener")
}

func element(a atom.Atom, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func withText(n *html.Node, s string) *html.Node {
	n.AppendChild(textNode(s))
	return n
}

func render(nodes ...*html.Node) string {
	var b strings.Builder
	for _, n := range nodes {
		// Rendering into a strings.Builder cannot fail.
		_ = html.Render(&b, n)
	}
	return b.String()
}
