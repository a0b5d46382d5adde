// Package telegram holds the Bot API wire types the webhook consumes and a
// minimal sendMessage client. Only the fields the pipeline reads are
// declared; the rest of the update envelope is ignored on unmarshal.
package telegram

type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message,omitempty"`
}

type Message struct {
	MessageID int64  `json:"message_id"`
	From      User   `json:"from"`
	Chat      Chat   `json:"chat"`
	Text      string `json:"text"`
}

type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name"`
}

type Chat struct {
	ID int64 `json:"id"`
}

// SenderHandle prefers the username and falls back to the first name, the
// way recorded transactions credit their author.
func (m *Message) SenderHandle() string {
	if m.From.Username != "" {
		return m.From.Username
	}
	return m.From.FirstName
}
