package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/set-night/chatdigest/internal/config"
	"github.com/set-night/chatdigest/internal/domain"
)

// ParseSummaryCommand recognizes "<prefix>总结 [N]". ok is false when content
// is not the summary command at all; err is set when it is, but N is not a
// positive integer.
func ParseSummaryCommand(content, triggerPrefix string) (limit int, ok bool, err error) {
	fields := strings.Fields(content)
	if len(fields) == 0 || fields[0] != triggerPrefix+config.SummaryCommand {
		return 0, false, nil
	}

	limit = config.DefaultLimit
	if len(fields) > 1 {
		n, convErr := strconv.Atoi(fields[1])
		if convErr != nil || n <= 0 {
			return 0, true, fmt.Errorf("%w: limit %q", domain.ErrInvalidCommand, fields[1])
		}
		limit = n
	}
	return limit, true, nil
}

// HelpText describes the summary command. The short form is the first line.
func HelpText(triggerPrefix string, verbose bool) string {
	text := "聊天记录总结插件。\n"
	if !verbose {
		return text
	}
	cmd := triggerPrefix + config.SummaryCommand
	text += fmt.Sprintf("使用方法:输入\"%s 最近消息数量\"，我会帮助你总结聊天记录。\n例如：\"%s 100\"，我会帮你总结最近100条消息。\n", cmd, cmd)
	return text
}

// UsageReply answers a malformed summary command.
func UsageReply(triggerPrefix string) domain.Reply {
	cmd := triggerPrefix + config.SummaryCommand
	return domain.ErrorReply(fmt.Sprintf("消息数量必须是正整数，例如：\"%s %d\"", cmd, config.DefaultLimit))
}
