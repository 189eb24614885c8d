package validate

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNickname(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "plain", in: "Alice", want: "Alice"},
		{name: "trims and collapses", in: "  Big \t Al  ", want: "Big Al"},
		{name: "strips markup", in: "<b>Bob</b>", want: "bBob/b"},
		{name: "strips control", in: "Ca\x00rol", want: "Carol"},
		{name: "unicode counts runes", in: strings.Repeat("é", 20), want: strings.Repeat("é", 20)},
		{name: "empty", in: "   ", wantErr: true},
		{name: "too long", in: strings.Repeat("a", 21), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Nickname(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidNickname)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRoomCode(t *testing.T) {
	code, err := RoomCode(" abcd ")
	require.NoError(t, err)
	assert.Equal(t, "ABCD", code)

	for _, bad := range []string{"", "ABC", "ABCDE", "AB0D", "AB1D", "ABOD", "ABID", "AB-D"} {
		_, err := RoomCode(bad)
		assert.ErrorIs(t, err, ErrInvalidRoomCode, bad)
	}
}

func TestID(t *testing.T) {
	assert.NoError(t, ID(uuid.NewString()))
	assert.ErrorIs(t, ID("player-1"), ErrInvalidID)
	assert.ErrorIs(t, ID(""), ErrInvalidID)
}

func TestCardText(t *testing.T) {
	got, err := CardText("  A haunted  lighthouse ")
	require.NoError(t, err)
	assert.Equal(t, "A haunted lighthouse", got)

	_, err = CardText(strings.Repeat("x", MaxCardLength+1))
	assert.ErrorIs(t, err, ErrInvalidCard)
}
