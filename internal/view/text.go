package view

import (
	"fmt"
	"strings"

	"github.com/zhouzirui/resume-console/internal/model/chat"
	"github.com/zhouzirui/resume-console/internal/model/jobs"
)

// SkillsText renders the skill area for a terminal.
func SkillsText(skills []string) string {
	if len(skills) == 0 {
		return SkillsPlaceholder
	}
	chips := make([]string, len(skills))
	for i, s := range skills {
		chips[i] = "[" + s + "]"
	}
	return strings.Join(chips, " ")
}

// EntryText renders one transcript entry for a terminal. Links are left as
// they are; terminals detect them on their own.
func EntryText(entry chat.Entry) string {
	if entry.Sender == chat.SenderUser {
		return entry.Text
	}
	return "AI: " + entry.Text
}

// RecommendationsText renders a recommendation list, one item per line.
func RecommendationsText(recs []jobs.Recommendation) string {
	var b strings.Builder
	for _, rec := range recs {
		fmt.Fprintf(&b, "  * %s", rec.DisplayTitle())
		if href, ok := safeHref(rec.Link); ok {
			fmt.Fprintf(&b, " <%s>", href)
		}
		if rec.Reason != "" {
			fmt.Fprintf(&b, "\n    %s", rec.Reason)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// ItemText renders any transcript item.
func ItemText(item Item) string {
	switch item.Kind {
	case ItemEntry:
		if item.Entry != nil {
			return EntryText(*item.Entry) + "\n"
		}
	case ItemRecommendations:
		return RecommendationsText(item.Recommendations)
	}
	return ""
}

// StatusText renders the status slot; errors are marked.
func StatusText(status Status) string {
	if status.Text == "" {
		return ""
	}
	if status.IsError {
		return "! " + status.Text
	}
	return status.Text
}
