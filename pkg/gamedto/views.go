package gamedto

// Control is one interactive element attached to a rendered match message,
// one per legal move. Disabled controls stay visible but reject input.
type Control struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Disabled bool   `json:"disabled"`
}

// BoardView is the render payload for an in-progress match message.
type BoardView struct {
	GameID     string    `json:"game_id"`
	MessageRef string    `json:"message_ref,omitempty"`
	Title      string    `json:"title"`
	Lines      []string  `json:"lines,omitempty"`
	StatusLine string    `json:"status_line,omitempty"`
	Controls   []Control `json:"controls,omitempty"`
}

// SummaryView is the render payload for a finished match message. All
// controls are disabled once a match has ended.
type SummaryView struct {
	GameID     string    `json:"game_id"`
	MessageRef string    `json:"message_ref,omitempty"`
	Title      string    `json:"title"`
	Lines      []string  `json:"lines,omitempty"`
	Controls   []Control `json:"controls,omitempty"`
}

// PromptView is the render payload for a challenge invitation with its
// accept/decline controls and response deadline.
type PromptView struct {
	GameID     string    `json:"game_id"`
	MessageRef string    `json:"message_ref,omitempty"`
	Text       string    `json:"text"`
	Controls   []Control `json:"controls,omitempty"`
}
