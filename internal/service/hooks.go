package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/set-night/chatdigest/internal/config"
	"github.com/set-night/chatdigest/internal/domain"
)

// Hooks is what a host runtime calls into.
type Hooks interface {
	OnIngest(ctx context.Context, record domain.ChatRecord) error
	OnSummarizeRequest(ctx context.Context, sessionID string, limit int) domain.Reply
}

// InboundMessage is a chat message as the host runtime delivers it.
type InboundMessage struct {
	SessionID      string
	AuthorID       string
	AuthorNickname string
	IsGroup        bool
	Content        string
	ContentType    domain.ContentType
	Timestamp      int64
	MessageID      int64
	// IsAt is set when the message addresses the bot directly.
	IsAt bool
}

// TriggerRules decide whether a message would have triggered a bot reply.
type TriggerRules struct {
	GroupPrefixes  []string
	GroupKeywords  []string
	SinglePrefixes []string
	GroupAtOff     bool
}

func NewTriggerRules(cfg *config.Config) TriggerRules {
	return TriggerRules{
		GroupPrefixes:  cfg.GroupChatPrefix,
		GroupKeywords:  cfg.GroupChatKeyword,
		SinglePrefixes: cfg.SingleChatPrefix,
		GroupAtOff:     cfg.GroupAtOff,
	}
}

func (r TriggerRules) IsTriggered(msg InboundMessage) bool {
	if msg.IsGroup {
		if hasAnyPrefix(msg.Content, r.GroupPrefixes) || containsAny(msg.Content, r.GroupKeywords) {
			return true
		}
		return msg.IsAt && !r.GroupAtOff
	}

	prefixes := r.SinglePrefixes
	if len(prefixes) == 0 {
		// No prefix configured means every private message talks to the bot.
		prefixes = []string{""}
	}
	return hasAnyPrefix(msg.Content, prefixes)
}

// Record converts msg into the record stored for it.
func (r TriggerRules) Record(msg InboundMessage) domain.ChatRecord {
	author := msg.AuthorNickname
	if author == "" {
		author = msg.AuthorID
	}
	contentType := msg.ContentType
	if contentType == "" {
		contentType = domain.ContentText
	}
	return domain.ChatRecord{
		SessionID:   msg.SessionID,
		MessageID:   msg.MessageID,
		Author:      author,
		Content:     msg.Content,
		ContentType: contentType,
		Timestamp:   msg.Timestamp,
		IsTriggered: r.IsTriggered(msg),
	}
}

func hasAnyPrefix(content string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(content, p) {
			return true
		}
	}
	return false
}

func containsAny(content string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(content, k) {
			return true
		}
	}
	return false
}

// SessionKey formats a chat id as a session id.
func SessionKey(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}
