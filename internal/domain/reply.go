package domain

type ReplyType string

const (
	ReplyInfo  ReplyType = "INFO"
	ReplyError ReplyType = "ERROR"
	ReplyText  ReplyType = "TEXT"
)

// Reply is handed back to the host runtime for delivery.
type Reply struct {
	Type    ReplyType
	Content string
}

func InfoReply(content string) Reply  { return Reply{Type: ReplyInfo, Content: content} }
func ErrorReply(content string) Reply { return Reply{Type: ReplyError, Content: content} }
func TextReply(content string) Reply  { return Reply{Type: ReplyText, Content: content} }
