package summary

import (
	"regexp"
	"strings"

	"github.com/set-night/chatdigest/internal/domain"
)

const triggerMarker = "T "

// RenderTranscript renders records, oldest first, one block per record:
//
//	\n\n[T ]author: "content"
//
// Non-text payloads render as their bracketed type tag. The output for
// records[:k+1] always extends the output for records[:k].
func RenderTranscript(records []domain.ChatRecord) string {
	var b strings.Builder
	for _, r := range records {
		writeRecord(&b, r)
	}
	return b.String()
}

func writeRecord(b *strings.Builder, r domain.ChatRecord) {
	content := r.Content
	if !r.ContentType.IsText() {
		content = "[" + string(r.ContentType) + "]"
	}

	b.WriteString("\n\n")
	if r.IsTriggered {
		b.WriteString(triggerMarker)
	}
	b.WriteString(r.Author)
	b.WriteString(": \"")
	b.WriteString(content)
	b.WriteString("\"")
}

var quotedReplyRe = regexp.MustCompile(`\n- - - - - - - - -.*?\n`)

// StripQuotedReply drops the quoted part of a reply envelope
// ("quote\n- - - - - - - - - …\nreply") and keeps the reply text.
func StripQuotedReply(content string) string {
	parts := quotedReplyRe.Split(content, -1)
	if len(parts) > 1 {
		return parts[1]
	}
	return content
}
