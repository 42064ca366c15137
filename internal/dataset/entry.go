package dataset

// Entry is one day's item in a category calendar. All fields are optional;
// the accessor methods apply the documented fallback order so callers never
// deal with the raw aliases.
type Entry struct {
	Title    string `json:"title,omitempty"`
	Word     string `json:"word,omitempty"`

	Subtitle      string `json:"subtitle,omitempty"`
	Pronunciation string `json:"pronunciation,omitempty"`
	Type          string `json:"type,omitempty"`

	Description string `json:"description,omitempty"`
	Definition  string `json:"definition,omitempty"`
	Content     string `json:"content,omitempty"`
	Text        string `json:"text,omitempty"`
}

// DisplayTitle returns the title, falling back to the word field, then "N/A".
func (e Entry) DisplayTitle() string {
	return firstNonEmpty(e.Title, e.Word, "N/A")
}

// DisplaySubtitle returns the subtitle, falling back to pronunciation and
// type. Empty means the title view has no subtitle block.
func (e Entry) DisplaySubtitle() string {
	return firstNonEmpty(e.Subtitle, e.Pronunciation, e.Type, "")
}

// DisplayBody returns the body text for the content view, falling back
// through the description aliases to a literal "No content" marker.
func (e Entry) DisplayBody() string {
	return firstNonEmpty(e.Description, e.Definition, e.Content, e.Text, "No content")
}

// IsZero reports whether the entry carries no content at all.
func (e Entry) IsZero() bool {
	return e == Entry{}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
