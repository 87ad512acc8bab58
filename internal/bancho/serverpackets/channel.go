package serverpackets

import "github.com/udisondev/gosu/internal/bancho/packet"

// ChannelJoinSuccess confirms a channel join.
func ChannelJoinSuccess(name string) []byte {
	return frame(OpcodeChannelJoinSuccess, func(w *packet.Writer) {
		w.WriteString(name)
	})
}

// ChannelInfo advertises a channel and its member count.
// The reported count may exceed the actual member count for instanced
// channels where only in-instance users are counted client-side.
func ChannelInfo(name, topic string, memberCount uint16) []byte {
	return frame(OpcodeChannelInfo, func(w *packet.Writer) {
		w.WriteString(name)
		w.WriteString(topic)
		w.WriteUShort(memberCount)
	})
}

// ChannelAutoJoin advertises an auto-join channel during login.
func ChannelAutoJoin(name, topic string, memberCount uint16) []byte {
	return frame(OpcodeChannelAutoJoin, func(w *packet.Writer) {
		w.WriteString(name)
		w.WriteString(topic)
		w.WriteUShort(memberCount)
	})
}

// ChannelKick forces the client out of a channel.
func ChannelKick(name string) []byte {
	return frame(OpcodeChannelKick, func(w *packet.Writer) {
		w.WriteString(name)
	})
}

// ChannelInfoEnd marks the end of the login channel listing.
func ChannelInfoEnd() []byte {
	return frame(OpcodeChannelInfoEnd, nil)
}
