package jobs

// DefaultTitle is shown when a recommendation arrives without a title.
const DefaultTitle = "Role"

// Recommendation is a job suggestion returned by the search and chat endpoints.
// It has no identity beyond its position in the list.
type Recommendation struct {
	Title   string `json:"title,omitempty"`
	Company string `json:"company,omitempty"`
	Link    string `json:"link,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// DisplayTitle returns the title, falling back to DefaultTitle.
func (r Recommendation) DisplayTitle() string {
	if r.Title == "" {
		return DefaultTitle
	}
	return r.Title
}
