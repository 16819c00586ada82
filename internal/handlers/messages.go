package handlers

import (
	"encoding/json"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// Message levels.
const (
	LevelDebug   = "debug"
	LevelInfo    = "info"
	LevelSuccess = "success"
	LevelWarning = "warning"
	LevelError   = "error"
)

const (
	messagesContextKey = "messages_enabled"
	sessionMessagesKey = "_messages"
)

// Message is a one-time notification shown to the user on the next read
type Message struct {
	Level string `json:"level"`
	Text  string `json:"message"`
}

// messagesMiddleware enables session backed one-time messages
func (h *Handlers) messagesMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(messagesContextKey, true)
		c.Next()
	}
}

// AddMessage queues message for the current session. It is a no-op when
// messages or sessions are not in the middleware chain.
func AddMessage(c *gin.Context, level, text string) {
	session, ok := messageSession(c)
	if !ok {
		return
	}
	queueMessage(session, level, text)
	_ = session.Save()
}

// queueMessage appends message to session without saving it
func queueMessage(session sessions.Session, level, text string) {
	msgs := append(loadMessages(session), Message{Level: level, Text: text})
	raw, err := json.Marshal(msgs)
	if err != nil {
		return
	}
	session.Set(sessionMessagesKey, string(raw))
}

// popMessages returns queued messages and clears them
func popMessages(c *gin.Context) []Message {
	session, ok := messageSession(c)
	if !ok {
		return []Message{}
	}
	msgs := loadMessages(session)
	if len(msgs) > 0 {
		session.Delete(sessionMessagesKey)
		_ = session.Save()
	}
	return msgs
}

func loadMessages(session sessions.Session) []Message {
	msgs := []Message{}
	raw, ok := session.Get(sessionMessagesKey).(string)
	if !ok {
		return msgs
	}
	if err := json.Unmarshal([]byte(raw), &msgs); err != nil {
		return []Message{}
	}
	return msgs
}

func messageSession(c *gin.Context) (sessions.Session, bool) {
	if !c.GetBool(messagesContextKey) {
		return nil, false
	}
	return currentSession(c)
}

// currentSession returns the request session when sessions middleware ran
func currentSession(c *gin.Context) (sessions.Session, bool) {
	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return nil, false
	}
	return sessions.Default(c), true
}
