package summary

// SummaryInstructions describes the transcript format to the model.
const SummaryInstructions = "你是一位群聊机器人，需要对聊天记录进行简明扼要的摘要总结，用列表的形式输出，尽量包含说话人名字。\n" +
	"聊天记录格式：[x]是emoji表情或者是对图片和声音文件的说明，某些消息前的T字母表示消息触发了群聊机器人的回复，内容大多是提问，" +
	"若带有特殊符号如#和$一般是触发你无法感知的某个插件功能，聊天记录中不包含你对这类消息的回复，这类消息可以降低权重。" +
	"请不要在回复中包含聊天记录格式中出现的符号。\n"

// MergeInstructions asks for one summary out of several partial ones.
const MergeInstructions = "你是一位群聊机器人，聊天记录已经在你的大脑中被你总结成多段摘要总结，你需要对它们进行摘要总结，" +
	"最后输出一篇完整的摘要总结，用列表的形式输出，在回复中务必不要体现原始输入是多段摘要总结。\n"

const (
	transcriptQueryPrefix = "需要你总结的聊天记录如下："
	mergeQueryPrefix      = "需要你总结的多段摘要内容如下：\n"
)
