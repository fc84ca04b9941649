package schema

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/pktvar/internal/config"
	"github.com/danmuck/pktvar/internal/observability"
	"github.com/danmuck/pktvar/internal/protocol/codec"
	"github.com/danmuck/pktvar/internal/protocol/packet"
)

// Message is a payload layout bound to a header id.
type Message struct {
	ID     uint16
	Name   string
	Layout string
	Type   reflect.Type
	Codec  codec.Codec[any]
}

type ValidationError struct {
	HeaderID uint16
	Message  string
	Reason   string
	Err      error
}

func (e ValidationError) Error() string {
	msg := fmt.Sprintf("schema: header_id=%d", e.HeaderID)
	if e.Message != "" {
		msg += fmt.Sprintf(" message=%s", e.Message)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e ValidationError) Unwrap() error { return e.Err }

// Registry maps header ids to compiled layouts. It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	byID   map[uint16]*Message
	byName map[string]*Message
}

func NewRegistry() *Registry {
	return &Registry{
		byID:   make(map[uint16]*Message),
		byName: make(map[string]*Message),
	}
}

// Load builds a registry from configured messages.
func Load(msgs []config.MessageConfig) (*Registry, error) {
	r := NewRegistry()
	for _, m := range msgs {
		if _, err := r.Register(m.ID, m.Name, m.Layout); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) Register(id uint16, name, layout string) (*Message, error) {
	t, c, err := CompileLayout(layout)
	if err != nil {
		log.Error().Err(err).Uint16("header_id", id).Str("message", name).Msg("schema.Register invalid layout")
		return nil, ValidationError{HeaderID: id, Message: name, Reason: "invalid layout", Err: err}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.byID[id]; ok {
		return nil, ValidationError{HeaderID: id, Message: name, Reason: "header id already bound to " + prev.Name}
	}
	if _, ok := r.byName[name]; ok {
		return nil, ValidationError{HeaderID: id, Message: name, Reason: "duplicate message name"}
	}
	m := &Message{ID: id, Name: name, Layout: layout, Type: t, Codec: c}
	r.byID[id] = m
	r.byName[name] = m
	log.Debug().Uint16("header_id", id).Str("message", name).Str("type", t.String()).Msg("schema.Register ok")
	return m, nil
}

func (r *Registry) Lookup(id uint16) (*Message, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.byID[id]
	return m, ok
}

func (r *Registry) LookupName(name string) (*Message, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.byName[name]
	return m, ok
}

// Messages returns every registered message ordered by header id.
func (r *Registry) Messages() []*Message {
	r.mu.RLock()
	out := make([]*Message, 0, len(r.byID))
	for _, m := range r.byID {
		out = append(out, m)
	}
	r.mu.RUnlock()
	slices.SortFunc(out, func(a, b *Message) int { return int(a.ID) - int(b.ID) })
	return out
}

// Decode decodes a packet payload with the layout bound to its header id.
// The payload must be consumed exactly.
func (r *Registry) Decode(p packet.Packet) (*Message, any, error) {
	log.Debug().Uint16("header_id", p.HeaderID).Int("payload", len(p.Payload)).Msg("schema.Decode")
	m, ok := r.Lookup(p.HeaderID)
	if !ok {
		observability.RecordSchemaDecode("unknown", observability.ResultUnknown)
		return nil, nil, ValidationError{HeaderID: p.HeaderID, Reason: "unknown header id"}
	}
	v, err := m.decode(p.Payload)
	if err != nil {
		result := observability.ResultInvalid
		if errors.Is(err, codec.ErrIncomplete) {
			result = observability.ResultIncomplete
		}
		observability.RecordSchemaDecode(m.Name, result)
		log.Error().Err(err).Uint16("header_id", p.HeaderID).Str("message", m.Name).Msg("schema.Decode failed")
		return m, nil, err
	}
	observability.RecordSchemaDecode(m.Name, observability.ResultOK)
	return m, v, nil
}

func (m *Message) decode(payload []byte) (any, error) {
	v, n, err := m.Codec.Decode(payload)
	if err != nil {
		reason := "invalid payload"
		if codec.IsIncomplete(err) {
			reason = "incomplete payload"
		}
		return nil, ValidationError{HeaderID: m.ID, Message: m.Name, Reason: reason, Err: err}
	}
	if n != len(payload) {
		return nil, ValidationError{
			HeaderID: m.ID,
			Message:  m.Name,
			Reason:   fmt.Sprintf("%d trailing payload bytes", len(payload)-n),
		}
	}
	return v, nil
}

// Encode encodes v, a value of the message's layout type, into a packet.
func (r *Registry) Encode(id uint16, v any) (packet.Packet, error) {
	m, ok := r.Lookup(id)
	if !ok {
		return packet.Packet{}, ValidationError{HeaderID: id, Reason: "unknown header id"}
	}
	w := packet.NewWriter(id)
	if err := packet.Write(w, m.Codec, v); err != nil {
		return packet.Packet{}, ValidationError{HeaderID: id, Message: m.Name, Reason: "encode failed", Err: err}
	}
	return w.Packet(), nil
}
