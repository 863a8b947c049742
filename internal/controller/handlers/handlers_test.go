package handlers

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Freeeeeet/slot_swapper/internal/controller/state"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		text string
		name string
		args []string
		ok   bool
	}{
		{"/start", "start", []string{}, true},
		{"/propose a b", "propose", []string{"a", "b"}, true},
		{"/Accept@slot_swapper_bot  id ", "accept", []string{"id"}, true},
		{"hello", "", nil, false},
		{"/", "", nil, false},
		{"", "", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			name, args, ok := parseCommand(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.name, name)
			if tt.ok {
				assert.Equal(t, tt.args, args)
			}
		})
	}
}

func TestParseIDs(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	ids, ok := parseIDs([]string{a.String(), b.String()}, 2)
	require.True(t, ok)
	assert.Equal(t, []uuid.UUID{a, b}, ids)

	_, ok = parseIDs([]string{a.String()}, 2)
	assert.False(t, ok)

	_, ok = parseIDs([]string{"42"}, 1)
	assert.False(t, ok)
}

func TestParseEnd(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	end, err := parseEnd(start, " 10:30 ")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 10, 10, 30, 0, 0, time.UTC), end)

	end, err = parseEnd(start, "11.03.2025 08:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 11, 8, 0, 0, 0, time.UTC), end)

	_, err = parseEnd(start, "tomorrow")
	assert.Error(t, err)
}

func TestChatIDOf(t *testing.T) {
	id, ok := chatIDOf("123456")
	assert.True(t, ok)
	assert.EqualValues(t, 123456, id)

	_, ok = chatIDOf("alice")
	assert.False(t, ok)

	_, ok = chatIDOf("-5")
	assert.False(t, ok)
}

func TestFormatPendingSummary(t *testing.T) {
	assert.Equal(t, "🔁 У вас 3 заявки, ожидают ответа: 1", formatPendingSummary(3, 1))
	assert.Equal(t, "🔁 У вас 5 заявок, ожидают ответа: 0", formatPendingSummary(5, 0))
}

func TestNewHandlersRegistersCommands(t *testing.T) {
	h := NewHandlers(nil, nil, state.NewManager(time.Minute), zap.NewNop())

	for _, name := range []string{
		"start", "help", "cancel", "myslots", "newslot", "open", "close", "delete",
		"swappable", "propose", "requests", "accept", "reject", "withdraw",
	} {
		assert.Contains(t, h.commands, name)
	}
	assert.Len(t, h.commands, 14)
}
