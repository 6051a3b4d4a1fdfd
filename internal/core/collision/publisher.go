package collision

import (
	"errors"

	"github.com/zeusync/foresight/internal/core/events/bus"
)

const (
	// Topic is the bus topic predicted contacts are published on.
	Topic = "collision"
	// EventPredicted is the event type of a predicted contact.
	EventPredicted = "collision.predicted"
)

// Contact is the payload of an EventPredicted event.
type Contact struct {
	GroupA string
	GroupB string
	A      Collider
	B      Collider
	Result Result
}

// ContactFromEvent extracts the contact carried by a bus event.
func ContactFromEvent(ev bus.Event) (Contact, bool) {
	if ev == nil || ev.Type() != EventPredicted {
		return Contact{}, false
	}
	c, ok := ev.Data().(Contact)
	return c, ok
}

// Publisher turns sweep callbacks into bus events.
// Handler errors are collected and surfaced through Err, because a
// CollisionHandler cannot fail the sweep that calls it.
type Publisher struct {
	bus       bus.EventBus
	source    string
	err       error
	published uint64
}

func NewPublisher(b bus.EventBus, source string) *Publisher {
	return &Publisher{bus: b, source: source}
}

// HandlerFor returns a CollisionHandler tagging contacts with the swept group names.
func (p *Publisher) HandlerFor(groupA, groupB string) CollisionHandler {
	return func(a, b Collider, r Result) {
		ev := bus.NewEvent(EventPredicted, p.source, Contact{
			GroupA: groupA,
			GroupB: groupB,
			A:      a,
			B:      b,
			Result: r,
		}, nil)
		p.published++
		if err := p.bus.PublishToTopic(Topic, ev); err != nil {
			p.err = errors.Join(p.err, err)
		}
	}
}

// Published returns the number of contacts published so far.
func (p *Publisher) Published() uint64 { return p.published }

// Err returns the joined handler errors since the last Reset.
func (p *Publisher) Err() error { return p.err }

// Reset clears collected errors.
func (p *Publisher) Reset() { p.err = nil }
