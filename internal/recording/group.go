package recording

import (
	"sort"
	"time"

	"github.com/quellen/murmur/internal/conversation"
)

// Group folds recordings into conversations. Recordings with the same
// audio hash are versions of one conversation; a recording without audio
// stands alone. Conversations come back newest first, versions within a
// conversation newest first with IsLatest set on the head.
func Group(recs []Recording) []conversation.Conversation {
	byKey := make(map[string][]Recording)
	for _, rec := range recs {
		key := rec.AudioHash
		if key == "" {
			key = "solo:" + rec.ID
		}
		byKey[key] = append(byKey[key], rec)
	}

	convs := make([]conversation.Conversation, 0, len(byKey))
	for _, group := range byKey {
		sort.Slice(group, func(i, j int) bool {
			return group[i].Timestamp > group[j].Timestamp
		})

		versions := make([]conversation.Version, len(group))
		for i, rec := range group {
			versions[i] = rec.Version()
		}
		versions[0].IsLatest = true

		// The oldest recording names the conversation; re-transcribing must
		// not invalidate existing share links.
		oldest := group[len(group)-1]
		convs = append(convs, conversation.Conversation{
			ConversationID: oldest.ID,
			Title:          conversation.TitleFor(versions[0]),
			Versions:       versions,
			CreatedAt:      time.Unix(oldest.Timestamp, 0),
			UpdatedAt:      time.Unix(group[0].Timestamp, 0),
		})
	}

	sort.Slice(convs, func(i, j int) bool {
		return convs[i].UpdatedAt.After(convs[j].UpdatedAt)
	})
	return convs
}
