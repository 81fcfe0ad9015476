// Package progress implements the XP, level, and streak model.
// Levels follow a quadratic curve: reaching level l requires (l-1)^2 * 100 XP,
// so level = floor(sqrt(xp/100)) + 1.
package progress

import (
	"math"
	"sync"
	"time"

	"heistchat/internal/logging"
)

// Event identifies the action that earned XP.
type Event int

const (
	EventMessageSent Event = iota
	EventReplyReceived
	EventDeepThinkUsed
	EventFileUploaded
	EventChatCleared
	EventNewChat
)

// String returns the event name used in logs and exports.
func (e Event) String() string {
	switch e {
	case EventMessageSent:
		return "message_sent"
	case EventReplyReceived:
		return "reply_received"
	case EventDeepThinkUsed:
		return "deepthink_used"
	case EventFileUploaded:
		return "file_uploaded"
	case EventChatCleared:
		return "chat_cleared"
	case EventNewChat:
		return "new_chat"
	default:
		return "unknown"
	}
}

// Base awards and modifiers.
const (
	xpSendBase        = 10
	xpSendLongBonus   = 5 // message text over 100 chars
	xpSendAttachBonus = 15
	xpReplyBase       = 15
	xpReplyDeepBonus  = 25
	xpReplyLongBonus  = 10 // reply text over 500 chars
	xpReplyFileBonus  = 20
	XPUpload          = 20
	XPClear           = 5
)

const (
	sendLongThreshold  = 100
	replyLongThreshold = 500
)

// XPForSend returns the award for a sent message.
func XPForSend(textLen int, hasAttachment bool) int {
	xp := xpSendBase
	if textLen > sendLongThreshold {
		xp += xpSendLongBonus
	}
	if hasAttachment {
		xp += xpSendAttachBonus
	}
	return xp
}

// XPForReply returns the award for a received reply.
func XPForReply(textLen int, deepThink, hasFile bool) int {
	xp := xpReplyBase
	if deepThink {
		xp += xpReplyDeepBonus
	}
	if textLen > replyLongThreshold {
		xp += xpReplyLongBonus
	}
	if hasFile {
		xp += xpReplyFileBonus
	}
	return xp
}

// CalculateLevel derives the level from total XP.
func CalculateLevel(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return int(math.Floor(math.Sqrt(float64(xp)/100))) + 1
}

// XPForLevel returns the XP floor of a level.
func XPForLevel(level int) int {
	if level < 1 {
		level = 1
	}
	return (level - 1) * (level - 1) * 100
}

// XPForNextLevel returns the XP needed to reach the next level.
func XPForNextLevel(level int) int {
	if level < 1 {
		level = 1
	}
	return level * level * 100
}

// UserProgress is the persisted progression state.
type UserProgress struct {
	XP            int    `json:"xp"`
	Level         int    `json:"level"`
	Streak        int    `json:"streak"`
	LastActiveDay string `json:"lastActiveDay"`
	MessagesSent  int    `json:"messagesSent"`
	RepliesGot    int    `json:"repliesGot"`
	FilesUploaded int    `json:"filesUploaded"`
	DeepThinkUses int    `json:"deepThinkUses"`
}

// DefaultProgress is the state of a fresh user.
func DefaultProgress() UserProgress {
	return UserProgress{XP: 0, Level: 1, Streak: 0}
}

// SaveFunc persists the progression state after each change.
type SaveFunc func(UserProgress) error

// Tracker applies XP awards and keeps the derived level and streak
// consistent. Safe for concurrent use.
type Tracker struct {
	mu        sync.Mutex
	p         UserProgress
	save      SaveFunc
	onLevelUp func(newLevel int)
	now       func() time.Time
}

// NewTracker wraps existing progression state. save is called after every
// mutation; a nil save disables persistence. The stored level is
// recomputed from XP so a tampered or stale value cannot survive a load.
func NewTracker(p UserProgress, save SaveFunc) *Tracker {
	p.Level = CalculateLevel(p.XP)
	return &Tracker{p: p, save: save, now: time.Now}
}

// OnLevelUp registers a callback fired once per level gained.
func (t *Tracker) OnLevelUp(fn func(newLevel int)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onLevelUp = fn
}

// Snapshot returns a copy of the current state.
func (t *Tracker) Snapshot() UserProgress {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.p
}

// AwardXP adds amount for the given event. XP never decreases; a
// non-positive amount only counts the event. Returns the new state and
// whether a level boundary was crossed.
func (t *Tracker) AwardXP(amount int, event Event) (UserProgress, bool) {
	t.mu.Lock()

	if amount > 0 {
		t.p.XP += amount
	}
	t.countEvent(event)
	t.touchStreak()

	oldLevel := t.p.Level
	t.p.Level = CalculateLevel(t.p.XP)
	leveled := t.p.Level > oldLevel

	logging.ProgressDebug("Award: event=%s amount=%d xp=%d level=%d", event, amount, t.p.XP, t.p.Level)
	if leveled {
		logging.Progress("Level up: %d -> %d at %d XP", oldLevel, t.p.Level, t.p.XP)
	}

	snapshot := t.p
	onLevelUp := t.onLevelUp
	save := t.save
	t.mu.Unlock()

	if save != nil {
		if err := save(snapshot); err != nil {
			logging.Progress("Failed to persist progress: %v", err)
		}
	}
	if leveled && onLevelUp != nil {
		onLevelUp(snapshot.Level)
	}
	return snapshot, leveled
}

func (t *Tracker) countEvent(event Event) {
	switch event {
	case EventMessageSent:
		t.p.MessagesSent++
	case EventReplyReceived:
		t.p.RepliesGot++
	case EventDeepThinkUsed:
		t.p.RepliesGot++
		t.p.DeepThinkUses++
	case EventFileUploaded:
		t.p.FilesUploaded++
	}
}

// touchStreak updates the daily streak. Same-day activity keeps it,
// next-day activity extends it, a gap resets it to 1.
func (t *Tracker) touchStreak() {
	today := t.now().Format("2006-01-02")
	switch t.p.LastActiveDay {
	case today:
		// already counted today
	case t.now().AddDate(0, 0, -1).Format("2006-01-02"):
		t.p.Streak++
	default:
		t.p.Streak = 1
	}
	t.p.LastActiveDay = today
}

// ProgressInLevel returns XP into the current level, the level's span,
// and the completion percentage toward the next level.
func ProgressInLevel(p UserProgress) (into, span, percent int) {
	floor := XPForLevel(p.Level)
	ceiling := XPForNextLevel(p.Level)
	into = p.XP - floor
	span = ceiling - floor
	if span > 0 {
		percent = into * 100 / span
	}
	return into, span, percent
}
