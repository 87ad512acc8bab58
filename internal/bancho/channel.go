package bancho

import (
	"strings"
	"sync"
)

// Channel is one chat channel: static (loaded at startup) or instanced
// (owned by a match or a spectator host and destroyed on last leave).
type Channel struct {
	// RealName is the canonical name, e.g. "#osu" or "#multi_7".
	RealName string
	Topic    string

	// ReadPriv/WritePriv gate membership and sending; zero means open.
	ReadPriv  Privileges
	WritePriv Privileges

	AutoJoin bool
	Instance bool

	mu        sync.RWMutex
	members   []*Player
	moderated bool
}

// NewChannel creates a channel.
func NewChannel(name, topic string, readPriv, writePriv Privileges, autoJoin, instance bool) *Channel {
	return &Channel{
		RealName:  name,
		Topic:     topic,
		ReadPriv:  readPriv,
		WritePriv: writePriv,
		AutoJoin:  autoJoin,
		Instance:  instance,
	}
}

// WireName is the name the client sees: instanced match and spectator
// channels are aliased to "#multiplayer" and "#spectator".
func (c *Channel) WireName() string {
	switch {
	case strings.HasPrefix(c.RealName, "#multi_"):
		return "#multiplayer"
	case strings.HasPrefix(c.RealName, "#spec_"):
		return "#spectator"
	default:
		return c.RealName
	}
}

// CanRead reports whether privs may read (and therefore join) the channel.
func (c *Channel) CanRead(privs Privileges) bool {
	return c.ReadPriv == 0 || privs.HasAny(c.ReadPriv)
}

// CanWrite reports whether privs may send to the channel. Moderated
// channels accept staff only.
func (c *Channel) CanWrite(privs Privileges) bool {
	if c.Moderated() && !privs.HasAny(PrivStaff) {
		return false
	}
	return c.WritePriv == 0 || privs.HasAny(c.WritePriv)
}

// Moderated reports whether the channel is in moderated mode.
func (c *Channel) Moderated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.moderated
}

// SetModerated toggles moderated mode.
func (c *Channel) SetModerated(v bool) {
	c.mu.Lock()
	c.moderated = v
	c.mu.Unlock()
}

// Members returns a snapshot of the member list.
func (c *Channel) Members() []*Player {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]*Player(nil), c.members...)
}

// MemberCount returns the number of members.
func (c *Channel) MemberCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.members)
}

// HasMember reports whether p is a member.
func (c *Channel) HasMember(p *Player) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, m := range c.members {
		if m == p {
			return true
		}
	}
	return false
}

func (c *Channel) addMember(p *Player) {
	c.mu.Lock()
	c.members = append(c.members, p)
	c.mu.Unlock()
}

func (c *Channel) removeMember(p *Player) {
	c.mu.Lock()
	for i, m := range c.members {
		if m == p {
			c.members = append(c.members[:i], c.members[i+1:]...)
			break
		}
	}
	c.mu.Unlock()
}

// Send delivers a chat line to every member except the sender.
func (c *Channel) Send(frame []byte, sender *Player) {
	for _, m := range c.Members() {
		if m != sender {
			m.Enqueue(frame)
		}
	}
}

// SendSelective delivers a chat line only to the given recipients,
// skipping non-members.
func (c *Channel) SendSelective(frame []byte, recipients []*Player) {
	for _, m := range recipients {
		if c.HasMember(m) {
			m.Enqueue(frame)
		}
	}
}
