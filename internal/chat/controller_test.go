package chat

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"heistchat/internal/attachment"
	"heistchat/internal/generation"
	"heistchat/internal/progress"
)

type stubGenerator struct {
	mu      sync.Mutex
	reply   string
	err     error
	release chan struct{}
	calls   []generation.Request
}

func (g *stubGenerator) Generate(ctx context.Context, req generation.Request) (string, error) {
	g.mu.Lock()
	g.calls = append(g.calls, req)
	g.mu.Unlock()
	if g.release != nil {
		select {
		case <-g.release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return g.reply, g.err
}

func newTestController(t *testing.T, gen generation.Generator) *Controller {
	t.Helper()
	s := newTestStore(t)
	h, err := LoadHistory(s)
	require.NoError(t, err)
	tracker := progress.NewTracker(progress.DefaultProgress(), nil)
	return NewController(h, tracker, gen, s)
}

func TestBeginSendRejectsEmpty(t *testing.T) {
	c := newTestController(t, &stubGenerator{reply: "ok"})

	_, err := c.BeginSend("   \n", nil)
	assert.ErrorIs(t, err, ErrEmptyMessage)

	// attachment alone is enough
	_, err = c.BeginSend("", &attachment.Attachment{Name: "a.png", Type: "image/png", Content: "Image uploaded: a.png"})
	assert.NoError(t, err)
}

func TestSendAndReply(t *testing.T) {
	gen := &stubGenerator{reply: "a long considered answer"}
	c := newTestController(t, gen)

	msg, err := c.BeginSend("what is the plan?", nil)
	require.NoError(t, err)
	assert.True(t, msg.IsUser)
	assert.Equal(t, 10, msg.XPEarned)
	assert.NotEmpty(t, c.ChatID())

	reply, err := c.GenerateReply(context.Background())
	require.NoError(t, err)
	assert.False(t, reply.IsUser)
	assert.Equal(t, "a long considered answer", reply.Text)
	assert.Equal(t, 15, reply.XPEarned)

	msgs := c.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, 25, c.Progress().XP)

	// conversation landed in history
	entry, ok := c.History().Get(c.ChatID())
	require.True(t, ok)
	assert.Len(t, entry.Messages, 2)
	assert.Equal(t, "what is the plan?", entry.Title)
}

func TestSendSingleFlight(t *testing.T) {
	t.Cleanup(func() { goleak.VerifyNone(t) })

	gen := &stubGenerator{reply: "slow answer", release: make(chan struct{})}
	c := newTestController(t, gen)

	_, err := c.BeginSend("first", nil)
	require.NoError(t, err)

	_, err = c.BeginSend("second", nil)
	assert.ErrorIs(t, err, ErrPending)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := c.GenerateReply(context.Background())
		assert.NoError(t, err)
	}()
	close(gen.release)
	<-done

	// pending cleared, sends allowed again
	_, err = c.BeginSend("second try", nil)
	assert.NoError(t, err)
}

func TestReplyRedirectsToOriginChat(t *testing.T) {
	gen := &stubGenerator{reply: "late answer", release: make(chan struct{})}
	c := newTestController(t, gen)

	_, err := c.BeginSend("original question", nil)
	require.NoError(t, err)
	origin := c.ChatID()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := c.GenerateReply(context.Background())
		assert.NoError(t, err)
	}()

	// user moves on before the reply resolves
	c.Clear()
	assert.Empty(t, c.ChatID())

	close(gen.release)
	<-done

	// active chat untouched by the stale reply
	assert.Empty(t, c.Messages())

	// reply landed in the origin entry
	entry, ok := c.History().Get(origin)
	require.True(t, ok)
	require.Len(t, entry.Messages, 2)
	assert.Equal(t, "late answer", entry.Messages[1].Text)
}

func TestDeepThinkAwards(t *testing.T) {
	gen := &stubGenerator{reply: "deep answer"}
	c := newTestController(t, gen)
	c.SetDeepThink(true)

	_, err := c.BeginSend("analyze this", nil)
	require.NoError(t, err)
	reply, err := c.GenerateReply(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 40, reply.XPEarned)
	assert.True(t, gen.calls[0].DeepThink)
	assert.Equal(t, 1, c.Progress().DeepThinkUses)
}

func TestAttachmentFlowsToGenerator(t *testing.T) {
	gen := &stubGenerator{reply: "reviewed"}
	c := newTestController(t, gen)

	att := &attachment.Attachment{
		Name:    "vault.png",
		Type:    "image/png",
		Content: "Image uploaded: vault.png (image/png, 1.00 KB)",
		Preview: "data:image/png;base64,xxxx",
	}
	msg, err := c.BeginSend("look at this", att)
	require.NoError(t, err)
	assert.True(t, msg.HasAttachment)
	assert.Equal(t, "vault.png", msg.AttachmentName)
	assert.Equal(t, 25, msg.XPEarned)

	reply, err := c.GenerateReply(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 35, reply.XPEarned)
	assert.Equal(t, att.Content, gen.calls[0].FileContent)
}

func TestGenerateReplyError(t *testing.T) {
	gen := &stubGenerator{err: errors.New("network down")}
	c := newTestController(t, gen)

	_, err := c.BeginSend("hello?", nil)
	require.NoError(t, err)

	_, err = c.GenerateReply(context.Background())
	assert.Error(t, err)

	// failure clears the pending slot
	_, err = c.BeginSend("retry", nil)
	assert.NoError(t, err)
}

func TestClearAwardsXP(t *testing.T) {
	c := newTestController(t, &stubGenerator{reply: "ok"})

	_, err := c.BeginSend("something", nil)
	require.NoError(t, err)
	_, err = c.GenerateReply(context.Background())
	require.NoError(t, err)
	saved := c.ChatID()

	before := c.Progress().XP
	p := c.Clear()
	assert.Equal(t, before+progress.XPClear, p.XP)
	assert.Empty(t, c.ChatID())
	assert.Empty(t, c.Messages())

	// history entry survives a clear
	_, ok := c.History().Get(saved)
	assert.True(t, ok)
}

func TestNewChatResetsSession(t *testing.T) {
	c := newTestController(t, &stubGenerator{reply: "ok"})

	_, err := c.BeginSend("first topic", nil)
	require.NoError(t, err)
	_, err = c.GenerateReply(context.Background())
	require.NoError(t, err)
	saved := c.ChatID()

	before := c.Progress().XP
	p := c.NewChat()
	assert.Equal(t, before+progress.XPClear, p.XP)
	assert.Empty(t, c.ChatID())
	assert.Empty(t, c.Messages())

	_, ok := c.History().Get(saved)
	assert.True(t, ok)
}

func TestSelections(t *testing.T) {
	s := newTestStore(t)
	h, err := LoadHistory(s)
	require.NoError(t, err)
	tracker := progress.NewTracker(progress.UserProgress{XP: 1700}, nil) // level 5
	c := NewController(h, tracker, &stubGenerator{reply: "ok"}, s)

	require.NoError(t, c.SelectPersona("tokyo"))
	require.NoError(t, c.SelectTheme("resistance"))
	require.NoError(t, c.SelectLanguage("es"))

	// level 5 cannot use a level 8 persona
	assert.ErrorIs(t, c.SelectPersona("helsinki"), ErrLocked)
	assert.ErrorIs(t, c.SelectTheme("gold"), ErrLocked)
	assert.Error(t, c.SelectPersona("nobody"))

	// selections survive a restart
	c2 := NewController(h, tracker, &stubGenerator{reply: "ok"}, s)
	assert.Equal(t, "tokyo", c2.Persona().ID)
	assert.Equal(t, "resistance", c2.Theme().ID)
	assert.Equal(t, "es", c2.Language().Code)
}

func TestUploadAward(t *testing.T) {
	c := newTestController(t, &stubGenerator{reply: "ok"})

	p := c.AwardUpload()
	assert.Equal(t, progress.XPUpload, p.XP)
	assert.Equal(t, 1, p.FilesUploaded)
}
