package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danmuck/pktvar/internal/config"
	"github.com/danmuck/pktvar/internal/protocol/codec"
	"github.com/danmuck/pktvar/internal/protocol/packet"
	"github.com/danmuck/pktvar/internal/testutil/testlog"
)

func TestLoadFromTemplate(t *testing.T) {
	testlog.Start(t)

	tpl, err := config.Template("pktctl")
	require.NoError(t, err)
	cfg, err := config.Parse([]byte(tpl))
	require.NoError(t, err)

	r, err := Load(cfg.Messages)
	require.NoError(t, err)
	msgs := r.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, []uint16{1491, 2596, 4000}, []uint16{msgs[0].ID, msgs[1].ID, msgs[2].ID})

	m, ok := r.LookupName("chat")
	require.True(t, ok)
	assert.Equal(t, uint16(4000), m.ID)
}

func TestRegisterRejectsConflicts(t *testing.T) {
	testlog.Start(t)

	r := NewRegistry()
	_, err := r.Register(1, "ping", "nonce:u64")
	require.NoError(t, err)

	_, err = r.Register(1, "pong", "u8")
	assert.ErrorContains(t, err, "already bound to ping")

	_, err = r.Register(2, "ping", "u8")
	assert.ErrorContains(t, err, "duplicate message name")

	_, err = r.Register(3, "broken", "seq<")
	var ve ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "invalid layout", ve.Reason)
}

func TestRegistryDecodeAndEncode(t *testing.T) {
	testlog.Start(t)

	r := NewRegistry()
	m, err := r.Register(4000, "chat", "user_id:id, text:text, bubble:i32")
	require.NoError(t, err)

	v, err := ValueFromYAML(m.Type, []byte("user_id: 7\ntext: hey\nbubble: 2\n"))
	require.NoError(t, err)
	p, err := r.Encode(4000, v)
	require.NoError(t, err)
	assert.Equal(t, uint16(4000), p.HeaderID)

	got, out, err := r.Decode(p)
	require.NoError(t, err)
	assert.Same(t, m, got)
	assert.Equal(t, v, out)
}

func TestRegistryDecodeFailures(t *testing.T) {
	testlog.Start(t)

	r := NewRegistry()
	_, err := r.Register(5, "pair", "u8, text")
	require.NoError(t, err)

	_, _, err = r.Decode(packet.Packet{HeaderID: 99})
	assert.ErrorContains(t, err, "unknown header id")

	_, _, err = r.Decode(packet.Packet{HeaderID: 5, Payload: []byte{1, 0, 1, 'x', 0xEE}})
	assert.ErrorContains(t, err, "1 trailing payload bytes")

	_, _, err = r.Decode(packet.Packet{HeaderID: 5, Payload: []byte{1, 0, 4, 'x'}})
	assert.True(t, errors.Is(err, codec.ErrIncomplete))
	assert.ErrorContains(t, err, "incomplete payload")

	_, _, err = r.Decode(packet.Packet{HeaderID: 5, Payload: []byte{1, 0, 1, 0xFF}})
	assert.True(t, codec.IsFatal(err))
	assert.ErrorIs(t, err, &codec.Error{Op: codec.OpDecode, Kind: codec.KindInvalidUTF8})

	_, err = r.Encode(5, "wrong type")
	assert.ErrorIs(t, err, &codec.Error{Op: codec.OpEncode, Kind: codec.KindTypeMismatch})

	_, err = r.Encode(6, nil)
	assert.ErrorContains(t, err, "unknown header id")
}
