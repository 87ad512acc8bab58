package clientpackets

import (
	"fmt"

	"github.com/udisondev/gosu/internal/bancho/packet"
)

// Message is a chat message as the client sends it (opcodes 1 and 25).
// The sender field is blank on the wire; the server fills it from the session.
type Message struct {
	Sender    string
	Text      string
	Recipient string
	SenderID  int32
}

// ParseMessage parses a public or private message payload.
func ParseMessage(data []byte) (Message, error) {
	r := packet.NewReader(data)
	var m Message
	var err error

	if m.Sender, err = r.ReadString(); err != nil {
		return m, fmt.Errorf("parsing sender: %w", err)
	}
	if m.Text, err = r.ReadString(); err != nil {
		return m, fmt.Errorf("parsing text: %w", err)
	}
	if m.Recipient, err = r.ReadString(); err != nil {
		return m, fmt.Errorf("parsing recipient: %w", err)
	}
	if m.SenderID, err = r.ReadInt(); err != nil {
		return m, fmt.Errorf("parsing sender id: %w", err)
	}
	return m, nil
}
