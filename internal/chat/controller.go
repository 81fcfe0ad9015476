package chat

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"heistchat/internal/attachment"
	"heistchat/internal/generation"
	"heistchat/internal/logging"
	"heistchat/internal/persona"
	"heistchat/internal/progress"
	"heistchat/internal/store"
)

var (
	// ErrPending is returned when a send is attempted while a reply is
	// still in flight.
	ErrPending = errors.New("a reply is already pending")

	// ErrEmptyMessage is returned for a blank send with no attachment.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrLocked is returned when selecting a persona or theme that is
	// not yet unlocked.
	ErrLocked = errors.New("not unlocked at current level")
)

// Controller drives the active conversation: appending messages,
// awarding XP, syncing to history, and resolving replies.
type Controller struct {
	mu      sync.Mutex
	history *History
	tracker *progress.Tracker
	gen     generation.Generator
	store   *store.Store

	chatID   string
	messages []Message

	pending       bool
	pendingOrigin string
	pendingReq    generation.Request

	persona   persona.Persona
	theme     persona.Theme
	language  persona.Language
	deepThink bool
}

// NewController wires the conversation engine. Saved persona, theme,
// and language selections are restored from the store; a selection that
// no longer exists falls back to the default.
func NewController(h *History, tracker *progress.Tracker, gen generation.Generator, s *store.Store) *Controller {
	c := &Controller{
		history:  h,
		tracker:  tracker,
		gen:      gen,
		store:    s,
		persona:  persona.Default(),
		theme:    persona.DefaultTheme(),
		language: persona.LanguageByCode("en"),
	}
	c.restoreSelections()
	return c
}

func (c *Controller) restoreSelections() {
	if c.store == nil {
		return
	}
	if id, ok, _ := c.store.Get(store.KeySelectedPersona); ok {
		if p, found := persona.ByID(id); found {
			c.persona = p
		}
	}
	if id, ok, _ := c.store.Get(store.KeySelectedTheme); ok {
		if th, found := persona.ThemeByID(id); found {
			c.theme = th
		}
	}
	if code, ok, _ := c.store.Get(store.KeySelectedLanguage); ok {
		c.language = persona.LanguageByCode(code)
	}
	logging.SessionDebug("Restored selections: persona=%s theme=%s language=%s",
		c.persona.ID, c.theme.ID, c.language.Code)
}

// Persona returns the active persona.
func (c *Controller) Persona() persona.Persona {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.persona
}

// Theme returns the active theme.
func (c *Controller) Theme() persona.Theme {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.theme
}

// Language returns the active language.
func (c *Controller) Language() persona.Language {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.language
}

// DeepThink returns whether deep think mode is on.
func (c *Controller) DeepThink() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deepThink
}

// SetDeepThink toggles deep think mode for subsequent sends.
func (c *Controller) SetDeepThink(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deepThink = on
}

// SelectPersona activates a persona if it is unlocked and persists the
// choice.
func (c *Controller) SelectPersona(id string) error {
	p, ok := persona.ByID(id)
	if !ok {
		return errors.New("unknown persona: " + id)
	}
	if p.UnlockLevel > c.tracker.Snapshot().Level {
		return ErrLocked
	}
	c.mu.Lock()
	c.persona = p
	c.mu.Unlock()
	logging.Session("Selected persona %s", id)
	return c.store.Put(store.KeySelectedPersona, id)
}

// SelectTheme activates a theme if it is unlocked and persists the
// choice.
func (c *Controller) SelectTheme(id string) error {
	th, ok := persona.ThemeByID(id)
	if !ok {
		return errors.New("unknown theme: " + id)
	}
	if th.UnlockLevel > c.tracker.Snapshot().Level {
		return ErrLocked
	}
	c.mu.Lock()
	c.theme = th
	c.mu.Unlock()
	logging.Session("Selected theme %s", id)
	return c.store.Put(store.KeySelectedTheme, id)
}

// SelectLanguage activates a language and persists the choice. Unknown
// codes fall back to English.
func (c *Controller) SelectLanguage(code string) error {
	c.mu.Lock()
	c.language = persona.LanguageByCode(code)
	code = c.language.Code
	c.mu.Unlock()
	logging.Session("Selected language %s", code)
	return c.store.Put(store.KeySelectedLanguage, code)
}

// ChatID returns the active conversation id, empty for an unsaved chat.
func (c *Controller) ChatID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.chatID
}

// Messages returns a copy of the active conversation.
func (c *Controller) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Title returns the active conversation's display title.
func (c *Controller) Title(untitled string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.history.Get(c.chatID); ok && entry.Title != "" {
		return entry.Title
	}
	return TitleFor(c.messages, untitled)
}

// OpenChat loads a saved conversation into the active session. A reply
// still in flight for the previous chat keeps its origin and will be
// delivered to the history entry it belongs to.
func (c *Controller) OpenChat(id string) error {
	entry, ok := c.history.Get(id)
	if !ok {
		return errors.New("chat not found: " + id)
	}
	c.mu.Lock()
	c.chatID = entry.ID
	c.messages = make([]Message, len(entry.Messages))
	copy(c.messages, entry.Messages)
	c.mu.Unlock()
	logging.Session("Opened chat %s (%d messages)", id, len(entry.Messages))
	return nil
}

// Clear resets the active conversation and awards the cleanup XP. The
// saved history entry, if any, is left intact.
func (c *Controller) Clear() progress.UserProgress {
	c.mu.Lock()
	c.chatID = ""
	c.messages = nil
	c.mu.Unlock()
	logging.Session("Cleared active chat")
	p, _ := c.tracker.AwardXP(progress.XPClear, progress.EventChatCleared)
	return p
}

// NewChat resets the active conversation to start a fresh one. Same
// buffer reset as Clear, recorded as a new-chat event.
func (c *Controller) NewChat() progress.UserProgress {
	c.mu.Lock()
	c.chatID = ""
	c.messages = nil
	c.mu.Unlock()
	logging.Session("Started new chat")
	p, _ := c.tracker.AwardXP(progress.XPClear, progress.EventNewChat)
	return p
}

// BeginSend appends the user message, awards send XP, syncs the
// conversation to history, and marks a reply pending. The returned
// message is what was appended.
func (c *Controller) BeginSend(text string, att *attachment.Attachment) (Message, error) {
	text = strings.TrimRight(text, "\n")
	if strings.TrimSpace(text) == "" && att == nil {
		return Message{}, ErrEmptyMessage
	}

	c.mu.Lock()
	if c.pending {
		c.mu.Unlock()
		return Message{}, ErrPending
	}

	msg := NewUserMessage(text)
	fileContent := ""
	if att != nil {
		msg.HasAttachment = true
		msg.AttachmentName = att.Name
		msg.AttachmentType = att.Type
		msg.ImagePreview = att.Preview
		fileContent = att.Content
	}
	msg.XPEarned = progress.XPForSend(len(text), att != nil)
	c.messages = append(c.messages, msg)

	if c.chatID == "" {
		c.chatID = strconv.FormatInt(time.Now().UnixMilli(), 10)
	}

	c.pending = true
	c.pendingOrigin = c.chatID
	c.pendingReq = generation.Request{
		Message:     text,
		Persona:     c.persona,
		DeepThink:   c.deepThink,
		Language:    c.language.Code,
		FileContent: fileContent,
	}
	c.mu.Unlock()

	c.tracker.AwardXP(msg.XPEarned, progress.EventMessageSent)
	if err := c.syncToHistory(); err != nil {
		logging.SessionError("Failed to sync chat after send: %v", err)
	}
	return msg, nil
}

// GenerateReply resolves the pending send. The reply lands in the
// active session when the user is still on the origin chat, otherwise
// it is appended to the origin's history entry. Blocking; run it from a
// goroutine or a tea command.
func (c *Controller) GenerateReply(ctx context.Context) (Message, error) {
	c.mu.Lock()
	if !c.pending {
		c.mu.Unlock()
		return Message{}, errors.New("no reply pending")
	}
	req := c.pendingReq
	origin := c.pendingOrigin
	c.mu.Unlock()

	text, err := c.gen.Generate(ctx, req)

	c.mu.Lock()
	c.pending = false
	if err != nil {
		c.mu.Unlock()
		logging.GenerationError("Reply failed for chat %s: %v", origin, err)
		return Message{}, err
	}

	reply := NewAssistantMessage(text, req.Persona.ID)
	reply.XPEarned = progress.XPForReply(len(text), req.DeepThink, req.FileContent != "")

	delivered := c.chatID == origin
	if delivered {
		c.messages = append(c.messages, reply)
	}
	c.mu.Unlock()

	event := progress.EventReplyReceived
	if req.DeepThink {
		event = progress.EventDeepThinkUsed
	}
	c.tracker.AwardXP(reply.XPEarned, event)

	if delivered {
		if err := c.syncToHistory(); err != nil {
			logging.SessionError("Failed to sync chat after reply: %v", err)
		}
	} else {
		logging.Session("Redirecting reply to origin chat %s", origin)
		if err := c.history.AppendMessage(origin, reply); err != nil {
			logging.SessionError("Failed to redirect reply: %v", err)
		}
	}
	return reply, nil
}

// AwardUpload grants the upload XP after a successful attachment.
func (c *Controller) AwardUpload() progress.UserProgress {
	p, _ := c.tracker.AwardXP(progress.XPUpload, progress.EventFileUploaded)
	return p
}

// Progress returns the current progression snapshot.
func (c *Controller) Progress() progress.UserProgress {
	return c.tracker.Snapshot()
}

// History exposes the saved conversations.
func (c *Controller) History() *History {
	return c.history
}

// syncToHistory upserts the active conversation.
func (c *Controller) syncToHistory() error {
	c.mu.Lock()
	if c.chatID == "" || len(c.messages) == 0 {
		c.mu.Unlock()
		return nil
	}
	entry := HistoryEntry{
		ID:        c.chatID,
		Title:     TitleFor(c.messages, persona.T(c.language.Code).Untitled),
		Messages:  make([]Message, len(c.messages)),
		Persona:   c.persona.ID,
		Theme:     c.theme.ID,
		Language:  c.language.Code,
		CreatedAt: c.messages[0].Timestamp,
	}
	copy(entry.Messages, c.messages)
	c.mu.Unlock()

	if existing, ok := c.history.Get(entry.ID); ok {
		entry.CreatedAt = existing.CreatedAt
	}
	return c.history.Upsert(entry)
}
