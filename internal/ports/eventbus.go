// Package ports defines the EventBus interface for event-driven communication.
package ports

import (
	"github.com/songifyapp/songify/internal/domain"
)

// EventBus is the interface for publishing and subscribing to events.
// It decouples event producers (services) from consumers (presentation
// surfaces, logging) without either side knowing about the other.
//
// Thread-safety: implementations must be thread-safe; events may be
// published and subscriptions changed from multiple goroutines.
type EventBus interface {
	// Publish delivers an event to all subscribers of its type.
	// Handlers should return quickly; slow work belongs in a goroutine.
	Publish(event domain.Event)

	// Subscribe registers a handler for events of the specified type and
	// returns an identifier for later removal. The same handler may be
	// registered multiple times under distinct identifiers.
	Subscribe(eventType domain.EventType, handler domain.EventHandler) domain.SubscriptionID

	// Unsubscribe removes a previously registered handler.
	// Unknown or already-removed identifiers are a no-op.
	Unsubscribe(id domain.SubscriptionID)

	// SubscribeAll registers a handler that receives every event regardless
	// of type. Useful for logging and diagnostics.
	SubscribeAll(handler domain.EventHandler) domain.SubscriptionID

	// Close shuts the bus down; subsequent publishes are dropped.
	Close() error
}
