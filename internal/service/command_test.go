package service

import (
	"testing"

	"github.com/set-night/chatdigest/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSummaryCommand(t *testing.T) {
	tests := []struct {
		content   string
		wantLimit int
		wantOK    bool
		wantErr   bool
	}{
		{"$总结", 99, true, false},
		{"$总结 50", 50, true, false},
		{"  $总结   7 extra", 7, true, false},
		{"$总结 abc", 0, true, true},
		{"$总结 0", 0, true, true},
		{"$总结 -3", 0, true, true},
		{"$总结一下", 0, false, false},
		{"总结", 0, false, false},
		{"", 0, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.content, func(t *testing.T) {
			limit, ok, err := ParseSummaryCommand(tt.content, "$")
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrInvalidCommand)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}

func TestHelpText(t *testing.T) {
	assert.Equal(t, "聊天记录总结插件。\n", HelpText("$", false))
	verbose := HelpText("#", true)
	assert.Contains(t, verbose, "\"#总结 最近消息数量\"")
	assert.Contains(t, verbose, "\"#总结 100\"")
}

func TestUsageReply(t *testing.T) {
	reply := UsageReply("$")
	assert.Equal(t, domain.ReplyError, reply.Type)
	assert.Contains(t, reply.Content, "$总结 99")
}
