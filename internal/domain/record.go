package domain

// ContentType tags the payload kind of a chat record.
type ContentType string

const (
	ContentText     ContentType = "text"
	ContentImage    ContentType = "image"
	ContentVoice    ContentType = "voice"
	ContentVideo    ContentType = "video"
	ContentFile     ContentType = "file"
	ContentSticker  ContentType = "sticker"
	ContentLocation ContentType = "location"
	ContentOther    ContentType = "other"
)

// IsText reports whether the record content is plain message text.
func (c ContentType) IsText() bool {
	return c == ContentText || c == ""
}

// ChatRecord is one observed message of a chat session.
// (SessionID, MessageID) identifies the record; re-inserting the same pair
// replaces the stored row.
type ChatRecord struct {
	SessionID   string
	MessageID   int64
	Author      string
	Content     string
	ContentType ContentType
	Timestamp   int64 // unix seconds
	IsTriggered bool
}

// Reverse reverses records in place and returns the slice.
func Reverse(records []ChatRecord) []ChatRecord {
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records
}
