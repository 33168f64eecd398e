package chat

import "github.com/google/uuid"

// ConversationKey derives the deterministic conversation identifier for a
// participant pair: the two ids sorted lexicographically, joined with "_".
// Both sides of a conversation compute the same key, so every send lands on
// the same chat row no matter who messages first.
func ConversationKey(a, b uuid.UUID) string {
	first, second := SortParticipants(a, b)
	return first.String() + "_" + second.String()
}

// SortParticipants orders the pair the way ConversationKey stores it.
func SortParticipants(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if b.String() < a.String() {
		return b, a
	}
	return a, b
}
