package view

// ActionPreviewLimit is the number of characters shown before the action text is cut.
const ActionPreviewLimit = 150

const ellipsis = "..."

// ActionText is the display state of one action cell. Expanding it is local
// view state and never touches the ticket.
type ActionText struct {
	Full      string `json:"full"`
	Preview   string `json:"preview"`
	Truncated bool   `json:"truncated"`
	Expanded  bool   `json:"expanded"`
}

// NewActionText builds the collapsed form of text.
func NewActionText(text string) ActionText {
	runes := []rune(text)
	if len(runes) <= ActionPreviewLimit {
		return ActionText{Full: text, Preview: text}
	}
	return ActionText{
		Full:      text,
		Preview:   string(runes[:ActionPreviewLimit]) + ellipsis,
		Truncated: true,
	}
}

// Toggle flips between the preview and the full text. Short text has nothing to toggle.
func (a ActionText) Toggle() ActionText {
	if !a.Truncated {
		return a
	}
	a.Expanded = !a.Expanded
	return a
}

// Display is the text currently shown.
func (a ActionText) Display() string {
	if a.Expanded {
		return a.Full
	}
	return a.Preview
}

// ToggleLabel is the caption of the show more/less control, empty when there is none.
func (a ActionText) ToggleLabel() string {
	switch {
	case !a.Truncated:
		return ""
	case a.Expanded:
		return "Show less"
	default:
		return "Show more"
	}
}
