package testutil

import (
	"fmt"
	"sync"

	tele "gopkg.in/telebot.v3"
)

// FakeContext records what a handler sends. Methods it does not override
// panic through the nil embedded interface.
type FakeContext struct {
	tele.Context

	User      *tele.User
	Msg       *tele.Message
	Cb        *tele.Callback
	Sent      []interface{}
	Responses []*tele.CallbackResponse
}

// NewTextContext returns a context for a plain text message
func NewTextContext(userID int64, text string) *FakeContext {
	return &FakeContext{
		User: &tele.User{ID: userID},
		Msg:  &tele.Message{Text: text},
	}
}

// NewCommandContext returns a context for a command with payload
func NewCommandContext(userID int64, command, payload string) *FakeContext {
	text := command
	if payload != "" {
		text += " " + payload
	}
	return &FakeContext{
		User: &tele.User{ID: userID},
		Msg:  &tele.Message{Text: text, Payload: payload},
	}
}

// NewCallbackContext returns a context for an inline button press
func NewCallbackContext(userID int64, unique string) *FakeContext {
	return &FakeContext{
		User: &tele.User{ID: userID},
		Cb:   &tele.Callback{ID: "cb", Unique: unique},
	}
}

func (c *FakeContext) Sender() *tele.User { return c.User }

func (c *FakeContext) Message() *tele.Message { return c.Msg }

func (c *FakeContext) Callback() *tele.Callback { return c.Cb }

func (c *FakeContext) Text() string {
	if c.Msg == nil {
		return ""
	}
	return c.Msg.Text
}

func (c *FakeContext) Send(what interface{}, _ ...interface{}) error {
	c.Sent = append(c.Sent, what)
	return nil
}

func (c *FakeContext) Edit(what interface{}, _ ...interface{}) error {
	c.Sent = append(c.Sent, what)
	return nil
}

func (c *FakeContext) Respond(resp ...*tele.CallbackResponse) error {
	c.Responses = append(c.Responses, resp...)
	return nil
}

// LastSent returns the last sent text, empty if nothing was sent
func (c *FakeContext) LastSent() string {
	if len(c.Sent) == 0 {
		return ""
	}
	return fmt.Sprint(c.Sent[len(c.Sent)-1])
}

// SentMessage is a message pushed to a chat outside of an update
type SentMessage struct {
	To   string
	Text string
}

// FakeSender collects messages sent through the bot API
type FakeSender struct {
	mu       sync.Mutex
	Messages chan SentMessage
}

// NewFakeSender creates a sender buffering up to size messages
func NewFakeSender(size int) *FakeSender {
	return &FakeSender{Messages: make(chan SentMessage, size)}
}

func (s *FakeSender) Send(to tele.Recipient, what interface{}, _ ...interface{}) (*tele.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Messages <- SentMessage{To: to.Recipient(), Text: fmt.Sprint(what)}
	return &tele.Message{}, nil
}
