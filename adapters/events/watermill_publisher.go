package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/layer-3/rangda/core"
	"github.com/layer-3/rangda/ports"
)

const (
	TopicLogin           = "rangda.login"
	TopicIdentityCreated = "rangda.identity_created"
)

// LoginEvent is published after each successful authentication
type LoginEvent struct {
	IdentityID string    `json:"identity_id"`
	Address    string    `json:"address"`
	At         time.Time `json:"at"`
}

// IdentityCreatedEvent is published when a new account record is created
type IdentityCreatedEvent struct {
	IdentityID    string    `json:"identity_id"`
	Address       string    `json:"address"`
	DisplayName   string    `json:"display_name"`
	GeneratedName bool      `json:"generated_name"`
	At            time.Time `json:"at"`
}

// WatermillPublisher implements the EventPublisher interface using Watermill
type WatermillPublisher struct {
	publisher message.Publisher
}

// NewWatermillPublisher creates a new Watermill publisher
func NewWatermillPublisher(publisher message.Publisher) ports.EventPublisher {
	return &WatermillPublisher{publisher: publisher}
}

// PublishLogin publishes a login event
func (p *WatermillPublisher) PublishLogin(ctx context.Context, identity *core.Identity) error {
	return p.publish(TopicLogin, LoginEvent{
		IdentityID: identity.ID,
		Address:    identity.Address,
		At:         time.Now(),
	})
}

// PublishIdentityCreated publishes an identity creation event
func (p *WatermillPublisher) PublishIdentityCreated(ctx context.Context, identity *core.Identity) error {
	return p.publish(TopicIdentityCreated, IdentityCreatedEvent{
		IdentityID:    identity.ID,
		Address:       identity.Address,
		DisplayName:   identity.DisplayName,
		GeneratedName: identity.GeneratedName,
		At:            time.Now(),
	})
}

func (p *WatermillPublisher) publish(topic string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(uuid.New().String(), payload)

	if err := p.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}
