// Package bottest provides in-memory stand-ins for the platform and the stores
// so handlers can be exercised without Discord or PostgreSQL.
package bottest

import (
	"context"
	"errors"
	"sync"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/leo/internal/bot/core/interaction"
	"github.com/robalyx/leo/internal/bot/core/platform"
)

// ErrUnknownUser is returned by Names for users without an entry.
var ErrUnknownUser = errors.New("unknown user")

// Responder records interaction responses.
// When Messenger is set, public responses are also posted to it as channel messages.
type Responder struct {
	mu        sync.Mutex
	Created   []discord.MessageCreate
	Updated   []discord.MessageUpdate
	Message   *discord.Message
	CreateErr error
	Messenger *Messenger
}

var _ interaction.Responder = (*Responder)(nil)

func (r *Responder) CreateMessage(_ context.Context, msg discord.MessageCreate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.CreateErr != nil {
		return r.CreateErr
	}
	r.Created = append(r.Created, msg)

	if r.Messenger != nil && !msg.Flags.Has(discord.MessageFlagEphemeral) {
		r.Message = r.Messenger.post(Channel, msg)
	}
	return nil
}

func (r *Responder) UpdateMessage(_ context.Context, msg discord.MessageUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Updated = append(r.Updated, msg)
	return nil
}

func (r *Responder) GetResponse(_ context.Context) (*discord.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Message == nil {
		return nil, platform.ErrMessageNotFound
	}
	return r.Message, nil
}

// LastCreated returns the most recent created response.
func (r *Responder) LastCreated() discord.MessageCreate {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.Created) == 0 {
		return discord.MessageCreate{}
	}
	return r.Created[len(r.Created)-1]
}

type messageKey struct {
	channelID snowflake.ID
	messageID snowflake.ID
}

// Messenger is an in-memory channel message store.
type Messenger struct {
	mu        sync.Mutex
	nextID    snowflake.ID
	messages  map[messageKey]*discord.Message
	reactions map[messageKey]map[string][]discord.User

	Sent    []discord.MessageCreate
	Edited  []discord.MessageUpdate
	Deleted []snowflake.ID
	// Self is the user that adds reactions.
	Self discord.User
}

var _ platform.Messenger = (*Messenger)(nil)

// NewMessenger creates an empty messenger. Posted messages get IDs from 1000 upwards.
func NewMessenger() *Messenger {
	return &Messenger{
		nextID:    1000,
		messages:  make(map[messageKey]*discord.Message),
		reactions: make(map[messageKey]map[string][]discord.User),
		Self:      discord.User{ID: 1, Username: "leo", Bot: true},
	}
}

// Put stores an existing message.
func (m *Messenger) Put(msg *discord.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.messages[messageKey{msg.ChannelID, msg.ID}] = msg
}

// Remove deletes a message as if someone else had removed it.
func (m *Messenger) Remove(channelID, messageID snowflake.ID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.messages, messageKey{channelID, messageID})
}

// React records a reaction by a user.
func (m *Messenger) React(channelID, messageID snowflake.ID, emoji string, user discord.User) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.react(messageKey{channelID, messageID}, emoji, user)
}

func (m *Messenger) react(key messageKey, emoji string, user discord.User) {
	if m.reactions[key] == nil {
		m.reactions[key] = make(map[string][]discord.User)
	}
	m.reactions[key][emoji] = append(m.reactions[key][emoji], user)
}

// Has reports whether a message exists.
func (m *Messenger) Has(channelID, messageID snowflake.ID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.messages[messageKey{channelID, messageID}]
	return ok
}

func (m *Messenger) SendMessage(_ context.Context, channelID snowflake.ID, msg discord.MessageCreate) (*discord.Message, error) {
	sent := m.post(channelID, msg)

	m.mu.Lock()
	m.Sent = append(m.Sent, msg)
	m.mu.Unlock()

	return sent, nil
}

// post stores a new message without recording it in Sent.
func (m *Messenger) post(channelID snowflake.ID, msg discord.MessageCreate) *discord.Message {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	sent := &discord.Message{
		ID:        m.nextID,
		ChannelID: channelID,
		Author:    m.Self,
		Content:   msg.Content,
		Embeds:    msg.Embeds,
	}
	m.messages[messageKey{channelID, sent.ID}] = sent

	return sent
}

func (m *Messenger) EditMessage(
	_ context.Context, channelID, messageID snowflake.ID, msg discord.MessageUpdate,
) (*discord.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.messages[messageKey{channelID, messageID}]
	if !ok {
		return nil, platform.ErrMessageNotFound
	}
	if msg.Embeds != nil {
		existing.Embeds = *msg.Embeds
	}
	m.Edited = append(m.Edited, msg)

	return existing, nil
}

func (m *Messenger) DeleteMessage(_ context.Context, channelID, messageID snowflake.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := messageKey{channelID, messageID}
	if _, ok := m.messages[key]; !ok {
		return platform.ErrMessageNotFound
	}
	delete(m.messages, key)
	m.Deleted = append(m.Deleted, messageID)

	return nil
}

func (m *Messenger) GetMessage(_ context.Context, channelID, messageID snowflake.ID) (*discord.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	msg, ok := m.messages[messageKey{channelID, messageID}]
	if !ok {
		return nil, platform.ErrMessageNotFound
	}
	return msg, nil
}

func (m *Messenger) AddReaction(_ context.Context, channelID, messageID snowflake.ID, emoji string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := messageKey{channelID, messageID}
	if _, ok := m.messages[key]; !ok {
		return platform.ErrMessageNotFound
	}
	m.react(key, emoji, m.Self)

	return nil
}

func (m *Messenger) ReactionUsers(
	_ context.Context, channelID, messageID snowflake.ID, emoji string,
) ([]discord.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := messageKey{channelID, messageID}
	if _, ok := m.messages[key]; !ok {
		return nil, platform.ErrMessageNotFound
	}
	return append([]discord.User(nil), m.reactions[key][emoji]...), nil
}

// Names is a fixed display-name table.
type Names map[uint64]string

func (n Names) Name(_ context.Context, userID uint64) (string, error) {
	name, ok := n[userID]
	if !ok {
		return "", ErrUnknownUser
	}
	return name, nil
}
