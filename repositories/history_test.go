package repositories

import (
	"chat-relay/domain"
	chaterrors "chat-relay/errors"
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func message(username, text string, at time.Time) domain.Message {
	return domain.Message{ID: uuid.New(), Username: username, Text: text, CreatedAt: at}
}

func Test_Append_Then_ReadAll_RoundTrip(t *testing.T) {
	req := require.New(t)
	repository := NewHistoryRepository(openTestDB(t), slog.Default(), domain.MaxMessages)
	at := time.Now().UTC()

	// Given three messages posted in order
	messages := []domain.Message{
		message("Alice", "hello", at),
		message("Bob", "hi Alice", at.Add(1*time.Second)),
		message("Clara", "hey all", at.Add(2*time.Second)),
	}
	for _, m := range messages {
		req.NoError(repository.Append(m))
	}

	// When reading the whole log
	fetched, err := repository.ReadAll()

	// Then all messages come back oldest first, unchanged
	req.NoError(err)
	req.Equal(messages, fetched)
}

func Test_Append_Evicts_Oldest_Beyond_Capacity(t *testing.T) {
	req := require.New(t)
	capacity := 3
	repository := NewHistoryRepository(openTestDB(t), slog.Default(), capacity)
	at := time.Now().UTC()

	// Given one more message than the log can hold
	first := message("Alice", "the first ever message", at)
	req.NoError(repository.Append(first))
	for i := 1; i <= capacity; i++ {
		req.NoError(repository.Append(message("Bob", "filler", at.Add(time.Duration(i)*time.Second))))
	}

	// Then the log holds exactly capacity entries and the first is gone
	fetched, err := repository.ReadAll()
	req.NoError(err)
	req.Len(fetched, capacity)
	req.NotContains(lo.Map(fetched, func(m domain.Message, _ int) uuid.UUID {
		return m.ID
	}), first.ID)
}

func Test_Update_Rewrites_Text_In_Place(t *testing.T) {
	req := require.New(t)
	repository := NewHistoryRepository(openTestDB(t), slog.Default(), domain.MaxMessages)
	at := time.Now().UTC()

	// Given two stored messages
	older := message("Alice", "tpyo", at)
	newer := message("Bob", "untouched", at.Add(1*time.Second))
	req.NoError(repository.Append(older))
	req.NoError(repository.Append(newer))

	// When the older one is edited
	editedAt := at.Add(5 * time.Second)
	updated, err := repository.Update(older.ID, "typo", editedAt)

	// Then the text and edit timestamp are updated
	req.NoError(err)
	req.Equal("typo", updated.Text)
	req.NotNil(updated.EditedAt)
	req.Equal(editedAt, *updated.EditedAt)

	// And the message keeps its position in the log
	fetched, err := repository.ReadAll()
	req.NoError(err)
	req.Len(fetched, 2)
	req.Equal(older.ID, fetched[0].ID)
	req.Equal("typo", fetched[0].Text)
	req.Equal(newer, fetched[1])
}

func Test_Update_Unknown_ID_Reports_NotFound(t *testing.T) {
	req := require.New(t)
	repository := NewHistoryRepository(openTestDB(t), slog.Default(), domain.MaxMessages)
	at := time.Now().UTC()
	stored := message("Alice", "here to stay", at)
	req.NoError(repository.Append(stored))

	// When editing an id that was never stored
	_, err := repository.Update(uuid.New(), "new text", at)

	// Then NotFound is reported and the log is unchanged
	req.ErrorIs(err, chaterrors.ErrMessageNotFound)
	fetched, err := repository.ReadAll()
	req.NoError(err)
	req.Equal([]domain.Message{stored}, fetched)
}

func Test_Remove_Twice_Second_Reports_NotFound(t *testing.T) {
	req := require.New(t)
	repository := NewHistoryRepository(openTestDB(t), slog.Default(), domain.MaxMessages)
	stored := message("Alice", "going away", time.Now().UTC())
	req.NoError(repository.Append(stored))

	// When removing the same message twice
	req.NoError(repository.Remove(stored.ID))
	err := repository.Remove(stored.ID)

	// Then the second removal reports NotFound and the log stays empty
	req.ErrorIs(err, chaterrors.ErrMessageNotFound)
	fetched, err := repository.ReadAll()
	req.NoError(err)
	req.Empty(fetched)
}

func Test_ClearAll_Empties_The_Log(t *testing.T) {
	req := require.New(t)
	repository := NewHistoryRepository(openTestDB(t), slog.Default(), domain.MaxMessages)
	at := time.Now().UTC()
	req.NoError(repository.Append(message("Alice", "one", at)))
	req.NoError(repository.Append(message("Bob", "two", at.Add(time.Second))))

	// When clearing, twice
	req.NoError(repository.ClearAll())
	req.NoError(repository.ClearAll())

	// Then nothing remains
	fetched, err := repository.ReadAll()
	req.NoError(err)
	req.Empty(fetched)
}
