package chatstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/casterlin/fable-tavern/backend/internal/model/chat"
)

func TestMemoryStoreSessions(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	first, err := store.Create(ctx, "u1", "socrates")
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)
	require.Equal(t, "u1", first.UserID)
	require.Equal(t, "socrates", first.CharacterID)
	require.False(t, first.CreatedAt.IsZero())

	second, err := store.Create(ctx, "u1", "socrates")
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID, "repeat creation must yield a distinct session")

	got, err := store.Get(ctx, first.ID)
	require.NoError(t, err)
	require.Equal(t, first, got)

	_, err = store.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrSessionNotFound)

	sessions, err := store.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	require.Equal(t, first.ID, sessions[0].ID)
	require.Equal(t, second.ID, sessions[1].ID)

	none, err := store.ListByUser(ctx, "nobody")
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestMemoryStoreAppendOrdering(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	session, err := store.Create(ctx, "u1", "socrates")
	require.NoError(t, err)

	contents := []string{"first", "second", "third", "fourth"}
	for i, content := range contents {
		sender := chat.SenderUser
		if i%2 == 1 {
			sender = chat.SenderCharacter
		}
		msg, err := store.Append(ctx, session.ID, sender, content, chat.MessageTypeText)
		require.NoError(t, err)
		require.Equal(t, int64(i+1), msg.Seq)
	}

	messages, err := store.List(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, messages, len(contents))
	for i, msg := range messages {
		require.Equal(t, int64(i+1), msg.Seq)
		require.Equal(t, contents[i], msg.Content)
		if i > 0 {
			require.False(t, msg.CreatedAt.Before(messages[i-1].CreatedAt),
				"timestamps must be non-decreasing in append order")
		}
	}
}

func TestMemoryStoreListUnknownSession(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	messages, err := store.List(ctx, "missing")
	require.NoError(t, err)
	require.Empty(t, messages)
}

func TestMemoryStoreListReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	session, err := store.Create(ctx, "u1", "socrates")
	require.NoError(t, err)
	_, err = store.Append(ctx, session.ID, chat.SenderUser, "hello", chat.MessageTypeText)
	require.NoError(t, err)

	first, err := store.List(ctx, session.ID)
	require.NoError(t, err)
	first[0].Content = "mutated"

	again, err := store.List(ctx, session.ID)
	require.NoError(t, err)
	require.Equal(t, "hello", again[0].Content)
}
