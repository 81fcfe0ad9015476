package chat

import (
	"fmt"
	"sync"
	"time"

	"heistchat/internal/logging"
	"heistchat/internal/store"
)

// MaxHistoryEntries caps the persisted history. Older chats beyond the
// cap are dropped when a new one is inserted.
const MaxHistoryEntries = 50

// HistoryEntry is one saved conversation.
type HistoryEntry struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"createdAt"`
	Messages     []Message `json:"messages"`
	Persona      string    `json:"persona"`
	Theme        string    `json:"theme"`
	Language     string    `json:"language"`
	LastActivity time.Time `json:"lastActivity"`
}

// History is the persisted list of conversations, newest first.
type History struct {
	mu      sync.Mutex
	entries []HistoryEntry
	store   *store.Store
}

// LoadHistory reads the saved history from the store. A missing or
// corrupt value yields an empty history.
func LoadHistory(s *store.Store) (*History, error) {
	h := &History{store: s}
	ok, err := s.GetJSON(store.KeyChatHistory, &h.entries)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat history: %w", err)
	}
	if !ok {
		h.entries = nil
	}
	logging.Session("Loaded %d history entries", len(h.entries))
	return h, nil
}

// Entries returns a copy of the history, newest first.
func (h *History) Entries() []HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len returns the number of saved conversations.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Get returns the entry with the given id.
func (h *History) Get(id string) (HistoryEntry, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, e := range h.entries {
		if e.ID == id {
			return e, true
		}
	}
	return HistoryEntry{}, false
}

// Upsert replaces the existing entry with the same id in place, or
// inserts a new one at the front and trims to the cap. The store is
// written before the method returns.
func (h *History) Upsert(e HistoryEntry) error {
	h.mu.Lock()
	e.LastActivity = time.Now()

	replaced := false
	for i := range h.entries {
		if h.entries[i].ID == e.ID {
			h.entries[i] = e
			replaced = true
			break
		}
	}
	if !replaced {
		h.entries = append([]HistoryEntry{e}, h.entries...)
		if len(h.entries) > MaxHistoryEntries {
			h.entries = h.entries[:MaxHistoryEntries]
		}
	}
	logging.SessionDebug("Upsert chat %s (%d messages, replaced=%v)", e.ID, len(e.Messages), replaced)

	h.mu.Unlock()
	return h.save()
}

// AppendMessage appends a message to a saved conversation. Used when a
// reply resolves after the user has switched to another chat.
func (h *History) AppendMessage(chatID string, m Message) error {
	h.mu.Lock()
	found := false
	for i := range h.entries {
		if h.entries[i].ID == chatID {
			h.entries[i].Messages = append(h.entries[i].Messages, m)
			h.entries[i].LastActivity = time.Now()
			found = true
			break
		}
	}
	h.mu.Unlock()

	if !found {
		logging.SessionDebug("Dropping message for evicted chat %s", chatID)
		return nil
	}
	return h.save()
}

// Remove deletes the entry with the given id.
func (h *History) Remove(id string) error {
	h.mu.Lock()
	for i := range h.entries {
		if h.entries[i].ID == id {
			h.entries = append(h.entries[:i], h.entries[i+1:]...)
			break
		}
	}
	h.mu.Unlock()
	return h.save()
}

func (h *History) save() error {
	if h.store == nil {
		return nil
	}
	h.mu.Lock()
	entries := make([]HistoryEntry, len(h.entries))
	copy(entries, h.entries)
	h.mu.Unlock()

	if err := h.store.PutJSON(store.KeyChatHistory, entries); err != nil {
		return fmt.Errorf("failed to save chat history: %w", err)
	}
	return nil
}
