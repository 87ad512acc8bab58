package bancho

import "sync"

// Channels is the channel registry: static channels plus match and
// spectator instances.
type Channels struct {
	mu   sync.RWMutex
	list []*Channel
}

// NewChannels creates an empty registry.
func NewChannels() *Channels {
	return &Channels{}
}

// GetByRealName returns the channel with the given canonical name, or nil.
func (cs *Channels) GetByRealName(name string) *Channel {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	for _, c := range cs.list {
		if c.RealName == name {
			return c
		}
	}
	return nil
}

// All returns a snapshot of every channel.
func (cs *Channels) All() []*Channel {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return append([]*Channel(nil), cs.list...)
}

// Append registers a channel. Duplicate real names are rejected silently;
// the existing channel wins.
func (cs *Channels) Append(c *Channel) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	for _, existing := range cs.list {
		if existing.RealName == c.RealName {
			return
		}
	}
	cs.list = append(cs.list, c)
}

// Remove unregisters a channel.
func (cs *Channels) Remove(c *Channel) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	for i, existing := range cs.list {
		if existing == c {
			cs.list = append(cs.list[:i], cs.list[i+1:]...)
			return
		}
	}
}
