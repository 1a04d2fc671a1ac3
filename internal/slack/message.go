package slack

// Message is the JSON payload posted to an incoming webhook.
type Message struct {
	Channel     string       `json:"channel,omitempty"`
	Attachments []Attachment `json:"attachments"`
}

// Attachment is a styled sub-block of a message: color bar, linked title,
// body text and footer. Ts is epoch seconds; Slack accepts fractional values.
type Attachment struct {
	Fallback  string   `json:"fallback"`
	Color     string   `json:"color"`
	Title     string   `json:"title"`
	TitleLink string   `json:"title_link,omitempty"`
	Text      string   `json:"text"`
	Footer    string   `json:"footer,omitempty"`
	MrkdwnIn  []string `json:"mrkdwn_in,omitempty"`
	Ts        float64  `json:"ts,omitempty"`
	Fields    []Field  `json:"fields,omitempty"`
}

// Field is a short titled value rendered in a two-column grid.
type Field struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}
