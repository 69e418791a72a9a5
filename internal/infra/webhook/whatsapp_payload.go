package webhook

// Shapes of the WhatsApp Cloud API webhook event, trimmed to the fields the
// bot consumes. Status-only deliveries (read/delivery receipts) carry no
// messages array and are ignored.

type waEvent struct {
	Entry []waEntry `json:"entry"`
}

type waEntry struct {
	Changes []waChange `json:"changes"`
}

type waChange struct {
	Value waValue `json:"value"`
}

type waValue struct {
	Messages []waMessage `json:"messages"`
}

type waMessage struct {
	From string `json:"from"`
	Type string `json:"type"`
	Text struct {
		Body string `json:"body"`
	} `json:"text"`
}

// firstText returns the first text message of the event, if any.
func (e *waEvent) firstText() (from, body string, ok bool) {
	for _, entry := range e.Entry {
		for _, change := range entry.Changes {
			for _, msg := range change.Value.Messages {
				if msg.Type != "" && msg.Type != "text" {
					continue
				}
				return msg.From, msg.Text.Body, true
			}
		}
	}
	return "", "", false
}
