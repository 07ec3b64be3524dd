package domain

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "passport/pkg/domain-errors"
)

func TestParseHandle(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantKind HandleKind
		wantID   PassportID
		wantAddr common.Address
		wantErr  bool
	}{
		{name: "numeric identifier", input: "42", wantKind: HandleIdentifier, wantID: 42},
		{name: "numeric identifier with whitespace", input: "  7 ", wantKind: HandleIdentifier, wantID: 7},
		{
			name:     "owner address",
			input:    "0x00000000000000000000000000000000000000aa",
			wantKind: HandleOwner,
			wantAddr: common.HexToAddress("0x00000000000000000000000000000000000000aa"),
		},
		{name: "zero identifier", input: "0", wantErr: true},
		{name: "overflowing identifier", input: "184467440737095516160", wantErr: true},
		{name: "empty", input: "   ", wantErr: true},
		{name: "short address", input: "0x1234", wantErr: true},
		{name: "missing prefix", input: "00000000000000000000000000000000000000aa", wantErr: true},
		{name: "free text", input: "alice", wantErr: true},
		{name: "negative number", input: "-5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := ParseHandle(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidHandle))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, h.Kind())

			id, isID := h.ID()
			owner, isOwner := h.Owner()
			switch tt.wantKind {
			case HandleIdentifier:
				assert.True(t, isID)
				assert.False(t, isOwner)
				assert.Equal(t, tt.wantID, id)
			case HandleOwner:
				assert.True(t, isOwner)
				assert.False(t, isID)
				assert.Equal(t, tt.wantAddr, owner)
			}
		})
	}
}

func TestHandleConstructors(t *testing.T) {
	h := HandleForID(9)
	id, ok := h.ID()
	assert.True(t, ok)
	assert.Equal(t, PassportID(9), id)
	assert.Equal(t, "9", h.String())

	addr := common.HexToAddress("0x00000000000000000000000000000000000000bb")
	h = HandleForOwner(addr)
	owner, ok := h.Owner()
	assert.True(t, ok)
	assert.Equal(t, addr, owner)
}

func TestMustParseHandlePanicsOnInvalid(t *testing.T) {
	assert.Panics(t, func() { MustParseHandle("not-a-handle") })
}
