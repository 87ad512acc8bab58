package serverpackets

import "github.com/udisondev/gosu/internal/bancho/packet"

// SendMessage delivers one chat line (channel or DM).
func SendMessage(sender, text, recipient string, senderID int32) []byte {
	return frame(OpcodeSendMessage, func(w *packet.Writer) {
		w.WriteString(sender)
		w.WriteString(text)
		w.WriteString(recipient)
		w.WriteInt(senderID)
	})
}

// Notification pops a toast on the client.
func Notification(msg string) []byte {
	return frame(OpcodeNotification, func(w *packet.Writer) {
		w.WriteString(msg)
	})
}

// Pong answers a client ping.
func Pong() []byte {
	return frame(OpcodePong, nil)
}

// UserDMBlocked tells the sender their DM was dropped by a block.
func UserDMBlocked(target string) []byte {
	return frame(OpcodeUserDMBlocked, func(w *packet.Writer) {
		w.WriteString("")
		w.WriteString("")
		w.WriteString(target)
		w.WriteInt(0)
	})
}

// TargetIsSilenced tells the sender their DM target is silenced.
func TargetIsSilenced(target string) []byte {
	return frame(OpcodeTargetIsSilenced, func(w *packet.Writer) {
		w.WriteString("")
		w.WriteString("")
		w.WriteString(target)
		w.WriteInt(0)
	})
}
