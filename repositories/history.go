package repositories

import (
	"chat-relay/domain"
	"chat-relay/errors"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// HistoryPrefix namespaces every chat entry in BadgerDB.
const HistoryPrefix = "chat:"

type HistoryRepository struct {
	db       *badger.DB
	log      *slog.Logger
	capacity int
}

// NewHistoryRepository builds the bounded log. capacity is the maximum
// number of retained messages; callers pass domain.MaxMessages in
// production and smaller values in tests.
func NewHistoryRepository(db *badger.DB, log *slog.Logger, capacity int) HistoryRepository {
	return HistoryRepository{db: db, log: log, capacity: capacity}
}

type storedMessage struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Text     string `json:"text"`
	At       int64  `json:"time"`
	EditedAt *int64 `json:"edited,omitempty"`
}

// Append persists a message and trims the log back to capacity in the
// same transaction, so the bound holds after every acknowledged write.
// The key is formatted as "chat:{timestamp_padded}:{uuid}" to:
//  1. Ensure chronological sorting using 19-digit zero padding
//     (lexicographical order).
//  2. Prevent data loss by using UUID as a collision disconnector if two
//     messages arrive at the same nanosecond.
func (r HistoryRepository) Append(message domain.Message) error {
	payload, err := json.Marshal(fromMessage(message))
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(historyKey(message)), payload); err != nil {
			return err
		}
		return r.trim(txn)
	})
}

// trim evicts the oldest entries beyond capacity. Forward iteration
// visits oldest first thanks to the padded timestamp in the key.
func (r HistoryRepository) trim(txn *badger.Txn) error {
	options := badger.DefaultIteratorOptions
	options.PrefetchValues = false
	it := txn.NewIterator(options)
	defer it.Close()

	prefix := []byte(HistoryPrefix)
	var keys [][]byte
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	for i := 0; i < len(keys)-r.capacity; i++ {
		r.log.Debug(fmt.Sprintf("History full, evicting %s", keys[i]))
		if err := txn.Delete(keys[i]); err != nil {
			return err
		}
	}
	return nil
}

// ReadAll returns the whole bounded log, oldest first, ready for
// join-time replay. It never mutates state.
func (r HistoryRepository) ReadAll() ([]domain.Message, error) {
	var byteMessages [][]byte
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(HistoryPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(value []byte) error {
				byteMessages = append(byteMessages, append([]byte(nil), value...))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	messages := make([]domain.Message, 0, len(byteMessages))
	for _, b := range byteMessages {
		var stored storedMessage
		if err = json.Unmarshal(b, &stored); err != nil {
			return nil, err
		}
		message, err := toMessage(stored)
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	return messages, nil
}

// Update rewrites the text of an existing entry in place and stamps it
// edited. The key is untouched, so the message keeps its position in
// the log. Returns ErrMessageNotFound when the id is absent.
func (r HistoryRepository) Update(id uuid.UUID, newText string, editedAt time.Time) (domain.Message, error) {
	var updated domain.Message
	err := r.db.Update(func(txn *badger.Txn) error {
		key, stored, err := find(txn, id)
		if err != nil {
			return err
		}
		at := editedAt.UnixNano()
		stored.Text = newText
		stored.EditedAt = &at

		payload, err := json.Marshal(stored)
		if err != nil {
			return err
		}
		if err = txn.Set(key, payload); err != nil {
			return err
		}
		updated, err = toMessage(stored)
		return err
	})
	return updated, err
}

// Remove hard-deletes an entry. Returns ErrMessageNotFound when the id
// is absent; callers decide whether that matters.
func (r HistoryRepository) Remove(id uuid.UUID) error {
	return r.db.Update(func(txn *badger.Txn) error {
		key, _, err := find(txn, id)
		if err != nil {
			return err
		}
		return txn.Delete(key)
	})
}

// ClearAll wipes every chat entry, durable and irreversible.
func (r HistoryRepository) ClearAll() error {
	return r.db.DropPrefix([]byte(HistoryPrefix))
}

// find locates an entry by uuid suffix. The log is small by invariant
// (at most capacity entries), so a prefix scan is cheap.
func find(txn *badger.Txn, id uuid.UUID) ([]byte, storedMessage, error) {
	suffix := ":" + id.String()
	options := badger.DefaultIteratorOptions
	it := txn.NewIterator(options)
	defer it.Close()

	prefix := []byte(HistoryPrefix)
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		item := it.Item()
		if !strings.HasSuffix(string(item.Key()), suffix) {
			continue
		}
		var stored storedMessage
		err := item.Value(func(value []byte) error {
			return json.Unmarshal(value, &stored)
		})
		return item.KeyCopy(nil), stored, err
	}
	return nil, storedMessage{}, errors.ErrMessageNotFound
}

func historyKey(message domain.Message) string {
	return fmt.Sprintf("%s%019d:%s", HistoryPrefix, message.CreatedAt.UnixNano(), message.ID)
}

func fromMessage(message domain.Message) storedMessage {
	stored := storedMessage{
		ID:       message.ID.String(),
		Username: message.Username,
		Text:     message.Text,
		At:       message.CreatedAt.UnixNano(),
	}
	if message.EditedAt != nil {
		at := message.EditedAt.UnixNano()
		stored.EditedAt = &at
	}
	return stored
}

func toMessage(stored storedMessage) (domain.Message, error) {
	parsedID, err := uuid.Parse(stored.ID)
	if err != nil {
		return domain.Message{}, err
	}
	message := domain.Message{
		ID:        parsedID,
		Username:  stored.Username,
		Text:      stored.Text,
		CreatedAt: time.Unix(0, stored.At).UTC(),
	}
	if stored.EditedAt != nil {
		at := time.Unix(0, *stored.EditedAt).UTC()
		message.EditedAt = &at
	}
	return message, nil
}
