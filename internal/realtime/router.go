package realtime

import (
	"context"
	"errors"
	"log"
)

// ErrGroupNotFound is returned by DeliverToGroup when the target group does
// not exist (or is no longer active). The message itself is already persisted
// by the caller; only the live push is skipped.
var ErrGroupNotFound = errors.New("group not found")

// Outcome describes the result of a push attempt for a single recipient.
type Outcome int

const (
	// Delivered means the payload was written to the recipient's connection.
	Delivered Outcome = iota
	// Offline means the recipient has no live connection. Normal, not an error:
	// they will see the message on their next fetch.
	Offline
	// SendFailed means the recipient had a connection but the write failed
	// (closed mid-push). The ws handler tears the connection down on its side.
	SendFailed
)

// MembershipSource resolves a group to its current member IDs. Resolution
// happens at delivery time so the fan-out always sees the persisted record.
type MembershipSource interface {
	MembersOf(ctx context.Context, groupID string) ([]string, error)
}

// GroupDelivery reports the per-recipient result of a group fan-out.
type GroupDelivery struct {
	Delivered []string
	Offline   []string
	Failed    []string
}

// Router pushes persisted messages to the live connections of their
// recipients. All delivery is best-effort relative to the durable store.
type Router struct {
	hub           *Hub
	members       MembershipSource
	excludeSender bool
}

// NewRouter wires a router over a hub and a membership source. When
// excludeSender is set, group fan-out skips the sender's own connection.
func NewRouter(hub *Hub, members MembershipSource, excludeSender bool) *Router {
	return &Router{
		hub:           hub,
		members:       members,
		excludeSender: excludeSender,
	}
}

// DeliverToUser pushes the payload to userID's live connection under the
// given event name. An offline recipient is a normal outcome, not an error.
func (r *Router) DeliverToUser(userID, event string, payload any) Outcome {
	frame, err := (Envelope{Event: event, Data: payload}).Encode()
	if err != nil {
		log.Println("realtime: encode envelope:", err)
		return SendFailed
	}
	return r.push(userID, frame)
}

// DeliverToGroup resolves the group's current members and pushes the payload
// to every member with a live connection. One recipient's failure never
// blocks the rest of the fan-out. Returns ErrGroupNotFound if the group
// cannot be resolved.
func (r *Router) DeliverToGroup(ctx context.Context, groupID, senderID, event string, payload any) (GroupDelivery, error) {
	members, err := r.members.MembersOf(ctx, groupID)
	if err != nil {
		return GroupDelivery{}, err
	}

	frame, err := (Envelope{Event: event, Data: payload}).Encode()
	if err != nil {
		log.Println("realtime: encode envelope:", err)
		return GroupDelivery{}, err
	}

	var report GroupDelivery
	for _, member := range members {
		if r.excludeSender && member == senderID {
			continue
		}
		switch r.push(member, frame) {
		case Delivered:
			report.Delivered = append(report.Delivered, member)
		case Offline:
			report.Offline = append(report.Offline, member)
		case SendFailed:
			log.Printf("realtime: push to %s failed mid fan-out", member)
			report.Failed = append(report.Failed, member)
		}
	}
	return report, nil
}

func (r *Router) push(userID string, frame []byte) Outcome {
	handle, ok := r.hub.Lookup(userID)
	if !ok {
		return Offline
	}
	if !handle.Send(frame) {
		return SendFailed
	}
	return Delivered
}
