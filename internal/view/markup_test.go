package view

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/resume-console/internal/model/chat"
	"github.com/zhouzirui/resume-console/internal/model/jobs"
)

func parse(t *testing.T, fragment string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	require.NoError(t, err)
	return doc
}

func TestLinkify_PreservesText(t *testing.T) {
	text := "Hi there!  See https://example.com/jobs?id=1 and\nhttp://a.b  ok"
	segments := Linkify(text)

	var rebuilt strings.Builder
	var links []string
	for _, seg := range segments {
		rebuilt.WriteString(seg.Text)
		if seg.Href != "" {
			links = append(links, seg.Href)
		}
	}
	assert.Equal(t, text, rebuilt.String())
	assert.Equal(t, []string{"https://example.com/jobs?id=1", "http://a.b"}, links)
}

func TestLinkify_StopsAtUnicodeSpace(t *testing.T) {
	tests := []struct {
		name string
		text string
		href string
		tail string
	}{
		{name: "ideographic space", text: "链接 https://a.com\u3000更多", href: "https://a.com", tail: "\u3000更多"},
		{name: "no-break space", text: "see https://a.com\u00a0now", href: "https://a.com", tail: "\u00a0now"},
		{name: "vertical tab", text: "x https://a.com\vy", href: "https://a.com", tail: "\vy"},
		{name: "byte order mark", text: "https://a.com\ufeffnext", href: "https://a.com", tail: "\ufeffnext"},
		{name: "line separator", text: "https://a.com\u2028next", href: "https://a.com", tail: "\u2028next"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segments := Linkify(tt.text)

			var rebuilt strings.Builder
			var links []string
			for _, seg := range segments {
				rebuilt.WriteString(seg.Text)
				if seg.Href != "" {
					links = append(links, seg.Href)
				}
			}
			assert.Equal(t, tt.text, rebuilt.String())
			assert.Equal(t, []string{tt.href}, links)
			require.NotEmpty(t, segments)
			assert.Equal(t, tt.tail, segments[len(segments)-1].Text)
		})
	}
}

func TestLinkify_NoLinks(t *testing.T) {
	assert.Equal(t, []Segment{{Text: "plain text"}}, Linkify("plain text"))
	assert.Nil(t, Linkify(""))
}

func TestEntryHTML_LinkBecomesAnchor(t *testing.T) {
	out := EntryHTML(chat.Entry{Sender: chat.SenderAssistant, Text: "Hi there! https://example.com"})
	doc := parse(t, out)

	bubble := doc.Find("div.bubble.ai")
	require.Equal(t, 1, bubble.Length())
	assert.Equal(t, "Hi there! https://example.com", bubble.Text())

	a := bubble.Find("a")
	require.Equal(t, 1, a.Length())
	href, _ := a.Attr("href")
	assert.Equal(t, "https://example.com", href)
	assert.Equal(t, "https://example.com", a.Text())
	target, _ := a.Attr("target")
	assert.Equal(t, "_blank", target)
}

func TestEntryHTML_EscapesMarkup(t *testing.T) {
	out := EntryHTML(chat.Entry{Sender: chat.SenderUser, Text: `You: <img src=x onerror="alert(1)">`})

	assert.NotContains(t, out, "<img")
	doc := parse(t, out)
	assert.Equal(t, 0, doc.Find("img").Length())
	assert.Equal(t, `You: <img src=x onerror="alert(1)">`, doc.Find("div.bubble.user").Text())
}

func TestSkillsHTML(t *testing.T) {
	doc := parse(t, SkillsHTML([]string{"Python", "SQL"}))
	var chips []string
	doc.Find("span.chip").Each(func(_ int, s *goquery.Selection) {
		chips = append(chips, s.Text())
	})
	assert.Equal(t, []string{"Python", "SQL"}, chips)

	empty := parse(t, SkillsHTML(nil))
	assert.Equal(t, 0, empty.Find("span.chip").Length())
	assert.Equal(t, SkillsPlaceholder, empty.Find("span.muted").Text())
}

func TestRecommendationsHTML(t *testing.T) {
	assert.Empty(t, RecommendationsHTML(nil))

	doc := parse(t, RecommendationsHTML([]jobs.Recommendation{
		{Title: "Data Engineer", Link: "https://jobs.example.com/1", Reason: "Strong SQL"},
		{Reason: "Python background", Link: "javascript:alert(1)"},
	}))

	items := doc.Find("ul.list li")
	require.Equal(t, 2, items.Length())

	first := items.Eq(0)
	assert.Equal(t, "Data Engineer", first.Find("div").First().Text())
	assert.Equal(t, LinkLabel, first.Find("a").Text())
	assert.Equal(t, "Strong SQL", first.Find("div.muted").Text())

	second := items.Eq(1)
	assert.Equal(t, "Role", second.Find("div").First().Text())
	assert.Equal(t, 0, second.Find("a").Length())
}

func TestTranscriptHTML_Order(t *testing.T) {
	s := NewState()
	s.AppendTranscriptEntry("You: hello", chat.SenderUser)
	s.AppendTranscriptEntry("Hi", chat.SenderAssistant)
	s.AppendRecommendations([]jobs.Recommendation{{Title: "SRE"}})

	doc := parse(t, TranscriptHTML(s.Snapshot().Transcript))
	var kinds []string
	doc.Find("body").Children().Each(func(_ int, sel *goquery.Selection) {
		kinds = append(kinds, goquery.NodeName(sel))
	})
	assert.Equal(t, []string{"div", "div", "ul"}, kinds)
}

func TestTextRenderers(t *testing.T) {
	assert.Equal(t, "[Python] [SQL]", SkillsText([]string{"Python", "SQL"}))
	assert.Equal(t, "You: hi", EntryText(chat.Entry{Sender: chat.SenderUser, Text: "You: hi"}))
	assert.Equal(t, "AI: hello", EntryText(chat.Entry{Sender: chat.SenderAssistant, Text: "hello"}))
	assert.Equal(t, "  * Role <https://x.example>\n    fit\n",
		RecommendationsText([]jobs.Recommendation{{Link: "https://x.example", Reason: "fit"}}))
	assert.Equal(t, "! Failed: boom", StatusText(Status{Text: "Failed: boom", IsError: true}))
	assert.Empty(t, StatusText(Status{}))
}
