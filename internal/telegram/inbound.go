package telegram

import (
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/go-telegram/bot/models"
	"github.com/set-night/chatdigest/internal/domain"
	"github.com/set-night/chatdigest/internal/service"
)

// BotIdentity is who the bot is in its chats.
type BotIdentity struct {
	ID       int64
	Username string
}

// Inbound converts a Telegram message into the host-neutral form. ok is
// false for messages without an author, such as channel posts.
func Inbound(msg *models.Message, me BotIdentity) (service.InboundMessage, bool) {
	if msg == nil || msg.From == nil {
		return service.InboundMessage{}, false
	}

	contentType, content := messageContent(msg)
	return service.InboundMessage{
		SessionID:      service.SessionKey(msg.Chat.ID),
		AuthorID:       strconv.FormatInt(msg.From.ID, 10),
		AuthorNickname: displayName(msg.From),
		IsGroup:        msg.Chat.Type != models.ChatTypePrivate,
		Content:        content,
		ContentType:    contentType,
		Timestamp:      int64(msg.Date),
		MessageID:      int64(msg.ID),
		IsAt:           addressesBot(msg, me),
	}, true
}

func displayName(u *models.User) string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// messageContent picks the content type; captions of media messages are
// kept as the content.
func messageContent(msg *models.Message) (domain.ContentType, string) {
	switch {
	case msg.Text != "":
		return domain.ContentText, msg.Text
	case len(msg.Photo) > 0:
		return domain.ContentImage, msg.Caption
	case msg.Voice != nil || msg.Audio != nil:
		return domain.ContentVoice, msg.Caption
	case msg.Video != nil || msg.VideoNote != nil || msg.Animation != nil:
		return domain.ContentVideo, msg.Caption
	case msg.Document != nil:
		return domain.ContentFile, msg.Caption
	case msg.Sticker != nil:
		return domain.ContentSticker, msg.Sticker.Emoji
	case msg.Location != nil:
		return domain.ContentLocation, ""
	default:
		return domain.ContentOther, msg.Caption
	}
}

func addressesBot(msg *models.Message, me BotIdentity) bool {
	if msg.ReplyToMessage != nil && msg.ReplyToMessage.From != nil && msg.ReplyToMessage.From.ID == me.ID {
		return true
	}

	text, entities := msg.Text, msg.Entities
	if text == "" {
		text, entities = msg.Caption, msg.CaptionEntities
	}
	if len(entities) == 0 {
		return false
	}

	// Entity offsets count UTF-16 code units.
	units := utf16.Encode([]rune(text))
	for _, e := range entities {
		switch e.Type {
		case models.MessageEntityTypeTextMention:
			if e.User != nil && e.User.ID == me.ID {
				return true
			}
		case models.MessageEntityTypeMention:
			if e.Offset < 0 || e.Offset+e.Length > len(units) {
				continue
			}
			mention := string(utf16.Decode(units[e.Offset : e.Offset+e.Length]))
			if me.Username != "" && strings.EqualFold(mention, "@"+me.Username) {
				return true
			}
		}
	}
	return false
}
