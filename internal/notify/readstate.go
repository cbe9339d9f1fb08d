package notify

import (
	"strconv"

	"github.com/nhle/project-dashboard/internal/model"
)

// ReadState records which notification ids the user has acknowledged.
// Entries only move from unread to read; there is no way back.
//
// ReadState is not safe for concurrent use.
type ReadState struct {
	read map[string]bool
}

// NewReadState returns an empty read state.
func NewReadState() *ReadState {
	return &ReadState{read: make(map[string]bool)}
}

// Acknowledge marks a single notification id as read.
func (s *ReadState) Acknowledge(id string) {
	s.read[id] = true
}

// AcknowledgeListed marks id as read only when it is one of entries, and
// reports whether it was. Ids not derived yet stay unread when they appear.
func (s *ReadState) AcknowledgeListed(entries []model.Notification, id string) bool {
	for _, n := range entries {
		if n.ID == id {
			s.read[id] = true
			return true
		}
	}
	return false
}

// AcknowledgeAll marks every given entry as read.
func (s *ReadState) AcknowledgeAll(entries []model.Notification) {
	for _, n := range entries {
		s.read[n.ID] = true
	}
}

// IsRead reports whether id has been acknowledged.
func (s *ReadState) IsRead(id string) bool {
	return s.read[id]
}

// Apply returns a copy of entries with each Read flag set from the state.
// The input slice is not modified.
func (s *ReadState) Apply(entries []model.Notification) []model.Notification {
	out := make([]model.Notification, len(entries))
	for i, n := range entries {
		n.Read = n.Read || s.read[n.ID]
		out[i] = n
	}
	return out
}

// UnreadCount returns how many entries are still unread.
func (s *ReadState) UnreadCount(entries []model.Notification) int {
	count := 0
	for _, n := range entries {
		if !n.Read && !s.read[n.ID] {
			count++
		}
	}
	return count
}

// BadgeLabel renders an unread count for a compact badge: empty when there
// is nothing unread and "9+" past nine.
func BadgeLabel(unread int) string {
	switch {
	case unread <= 0:
		return ""
	case unread > 9:
		return "9+"
	default:
		return strconv.Itoa(unread)
	}
}
