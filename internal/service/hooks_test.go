package service

import (
	"testing"

	"github.com/set-night/chatdigest/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestTriggerRules_IsTriggered(t *testing.T) {
	rules := TriggerRules{
		GroupPrefixes: []string{"@bot"},
		GroupKeywords: []string{"机器人"},
	}

	tests := []struct {
		name  string
		rules TriggerRules
		msg   InboundMessage
		want  bool
	}{
		{"group prefix", rules, InboundMessage{IsGroup: true, Content: "@bot hi"}, true},
		{"group keyword", rules, InboundMessage{IsGroup: true, Content: "问问机器人吧"}, true},
		{"group plain", rules, InboundMessage{IsGroup: true, Content: "hello"}, false},
		{"group at", rules, InboundMessage{IsGroup: true, Content: "hello", IsAt: true}, true},
		{"group at off", TriggerRules{GroupAtOff: true}, InboundMessage{IsGroup: true, Content: "hello", IsAt: true}, false},
		{"private default", rules, InboundMessage{Content: "anything"}, true},
		{"private prefix match", TriggerRules{SinglePrefixes: []string{"bot"}}, InboundMessage{Content: "bot hi"}, true},
		{"private prefix miss", TriggerRules{SinglePrefixes: []string{"bot"}}, InboundMessage{Content: "hi"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rules.IsTriggered(tt.msg))
		})
	}
}

func TestTriggerRules_Record(t *testing.T) {
	rules := TriggerRules{}
	msg := InboundMessage{
		SessionID:      "-100",
		AuthorID:       "42",
		AuthorNickname: "alice",
		IsGroup:        true,
		Content:        "hi",
		Timestamp:      1700000000,
		MessageID:      7,
		IsAt:           true,
	}

	rec := rules.Record(msg)
	assert.Equal(t, domain.ChatRecord{
		SessionID:   "-100",
		MessageID:   7,
		Author:      "alice",
		Content:     "hi",
		ContentType: domain.ContentText,
		Timestamp:   1700000000,
		IsTriggered: true,
	}, rec)

	msg.AuthorNickname = ""
	msg.ContentType = domain.ContentImage
	rec = rules.Record(msg)
	assert.Equal(t, "42", rec.Author)
	assert.Equal(t, domain.ContentImage, rec.ContentType)
}
