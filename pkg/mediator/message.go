package mediator

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// The engine reads mail-shaped input: a handful of RFC-822 style header
// lines, a blank line, then the command body. NewMessage produces one such
// block around an already-finalized body.

// Message is one engine input block.
type Message struct {
	From    string
	To      string
	Subject string
	Date    time.Time
	Body    string
}

// NewMessage wraps a finalized command body for delivery to the engine
// address. An empty subject defaults to "judged command".
func NewMessage(from, to, subject, body string) *Message {
	if subject == "" {
		subject = "judged command"
	}
	return &Message{
		From:    from,
		To:      to,
		Subject: subject,
		Date:    time.Now(),
		Body:    body,
	}
}

// Render produces the full message text the engine invoker writes to the
// engine's input stream. The Message-ID ties archived transcripts back to
// the invocation that produced them.
func (m *Message) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\n", m.From)
	fmt.Fprintf(&b, "To: %s\n", m.To)
	fmt.Fprintf(&b, "Subject: %s\n", m.Subject)
	fmt.Fprintf(&b, "Date: %s\n", m.Date.Format(time.RFC1123Z))
	fmt.Fprintf(&b, "Message-ID: <%s@judged>\n", uuid.NewString())
	b.WriteString("\n")
	b.WriteString(m.Body)
	if !strings.HasSuffix(m.Body, "\n") {
		b.WriteString("\n")
	}
	return b.String()
}
