package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/set-night/chatdigest/internal/domain"
	"github.com/set-night/chatdigest/internal/llm"
	"github.com/set-night/chatdigest/internal/llm/llmtest"
	"github.com/set-night/chatdigest/internal/repository"
	"github.com/set-night/chatdigest/internal/summary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *repository.SQLiteStore {
	t.Helper()
	store, err := repository.OpenSQLite(filepath.Join(t.TempDir(), "chat.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// seed ingests n records of session g1, oldest first, each with size runes
// of filler after a "msgN" tag.
func seed(t *testing.T, svc *SummaryService, n, size int) []domain.ChatRecord {
	t.Helper()
	records := make([]domain.ChatRecord, n)
	for i := range records {
		records[i] = domain.ChatRecord{
			SessionID:   "g1",
			MessageID:   int64(i + 1),
			Author:      fmt.Sprintf("user%d", i%2),
			Content:     fmt.Sprintf("msg%d %s", i, strings.Repeat("聊", size)),
			ContentType: domain.ContentText,
			Timestamp:   int64(1700000000 + i),
		}
		require.NoError(t, svc.OnIngest(context.Background(), records[i]))
	}
	return records
}

func transcript(t *testing.T, session llm.PromptSession) string {
	t.Helper()
	msgs := session.Messages()
	require.Len(t, msgs, 2)
	return msgs[1].Content
}

func TestSummaryService_SingleChunk(t *testing.T) {
	client := llmtest.New(llm.RuneTokenizer{}, "- 讨论了周末安排")
	svc := NewSummaryService(openStore(t), client, SummaryOptions{})
	seed(t, svc, 5, 5)

	reply := svc.OnSummarizeRequest(context.Background(), "g1", 99)

	assert.Equal(t, domain.TextReply("本次总结了5条消息。\n\n- 讨论了周末安排"), reply)
	calls := client.Calls()
	require.Len(t, calls, 1)
	text := transcript(t, calls[0])
	assert.Less(t, strings.Index(text, "msg0"), strings.Index(text, "msg4"), "transcript must be oldest first")
}

func TestSummaryService_NoRecords(t *testing.T) {
	client := llmtest.New(llm.RuneTokenizer{})
	svc := NewSummaryService(openStore(t), client, SummaryOptions{})

	assert.Equal(t, domain.InfoReply("当前无聊天记录"), svc.OnSummarizeRequest(context.Background(), "g1", 99))

	seed(t, svc, 1, 5)
	assert.Equal(t, domain.InfoReply("当前无聊天记录"), svc.OnSummarizeRequest(context.Background(), "g1", 99))
	assert.Empty(t, client.Calls())
}

func TestSummaryService_MultiChunkMerge(t *testing.T) {
	tok := llm.RuneTokenizer{}
	client := llmtest.New(tok, "part one", "part two", "part three", "final digest")

	store := openStore(t)
	probe := NewSummaryService(store, client, SummaryOptions{})
	records := seed(t, probe, 6, 200)

	// Budget fits exactly two records per chunk.
	_, budget, _ := summary.NewEstimator(client, summary.SummaryInstructions, 0).Probe(records[:2])
	svc := NewSummaryService(store, client, SummaryOptions{MaxTokensPerChunk: budget, MaxChunks: 6})

	reply := svc.OnSummarizeRequest(context.Background(), "g1", 99)

	assert.Equal(t, domain.TextReply("本次总结了6条消息(分段总结方式)。\n\nfinal digest"), reply)
	calls := client.Calls()
	require.Len(t, calls, 4)
	assert.Contains(t, transcript(t, calls[0]), "msg0")
	assert.Contains(t, transcript(t, calls[0]), "msg1")
	assert.NotContains(t, transcript(t, calls[0]), "msg2")
	assert.Contains(t, transcript(t, calls[2]), "msg5")
}

func TestSummaryService_Limit(t *testing.T) {
	client := llmtest.New(llm.RuneTokenizer{}, "short")
	svc := NewSummaryService(openStore(t), client, SummaryOptions{})
	seed(t, svc, 10, 5)

	reply := svc.OnSummarizeRequest(context.Background(), "g1", 3)

	assert.Equal(t, "本次总结了3条消息。\n\nshort", reply.Content)
	text := transcript(t, client.Calls()[0])
	assert.Contains(t, text, "msg7")
	assert.Contains(t, text, "msg9")
	assert.NotContains(t, text, "msg6")
}

func TestSummaryService_FirstChunkFailure(t *testing.T) {
	client := llmtest.New(llm.RuneTokenizer{})
	client.ReplyFn = func(int, llm.PromptSession) (llm.Completion, error) {
		return llmtest.Failure("rate limited"), nil
	}
	svc := NewSummaryService(openStore(t), client, SummaryOptions{})
	seed(t, svc, 3, 5)

	reply := svc.OnSummarizeRequest(context.Background(), "g1", 99)
	assert.Equal(t, domain.ErrorReply("rate limited"), reply)
}

func TestSummaryService_FirstChunkFailureWithoutText(t *testing.T) {
	client := llmtest.New(llm.RuneTokenizer{})
	client.ReplyFn = func(int, llm.PromptSession) (llm.Completion, error) {
		return llmtest.Failure(""), nil
	}
	svc := NewSummaryService(openStore(t), client, SummaryOptions{})
	seed(t, svc, 3, 5)

	reply := svc.OnSummarizeRequest(context.Background(), "g1", 99)
	assert.Equal(t, domain.ErrorReply("总结聊天记录失败"), reply)
}

func TestSummaryService_UnrecoverableRecord(t *testing.T) {
	client := llmtest.New(llm.RuneTokenizer{})
	svc := NewSummaryService(openStore(t), client, SummaryOptions{MaxTokensPerChunk: 10})
	seed(t, svc, 3, 50)

	reply := svc.OnSummarizeRequest(context.Background(), "g1", 99)
	assert.Equal(t, domain.ErrorReply("总结聊天记录失败"), reply)
	assert.Empty(t, client.Calls())
}

func TestSummaryService_MergeFailure(t *testing.T) {
	tok := llm.RuneTokenizer{}
	client := llmtest.New(tok)
	client.ReplyFn = func(call int, _ llm.PromptSession) (llm.Completion, error) {
		if call < 2 {
			return llmtest.Text(fmt.Sprintf("part %d", call+1)), nil
		}
		return llmtest.Failure("quota exceeded"), nil
	}

	store := openStore(t)
	records := seed(t, NewSummaryService(store, client, SummaryOptions{}), 4, 200)
	_, budget, _ := summary.NewEstimator(client, summary.SummaryInstructions, 0).Probe(records[:2])
	svc := NewSummaryService(store, client, SummaryOptions{MaxTokensPerChunk: budget})

	reply := svc.OnSummarizeRequest(context.Background(), "g1", 99)

	assert.Equal(t, domain.ReplyError, reply.Type)
	assert.Equal(t,
		"合并摘要失败，quota exceeded\n原始多段摘要如下：\n"+
			"第1段摘要内容:\npart 1\n----------------\n\n"+
			"第2段摘要内容:\npart 2\n----------------\n\n",
		reply.Content)
}

func TestSummaryService_StripsQuotedReplies(t *testing.T) {
	client := llmtest.New(llm.RuneTokenizer{})
	svc := NewSummaryService(openStore(t), client, SummaryOptions{})
	seed(t, svc, 2, 5)
	require.NoError(t, svc.OnIngest(context.Background(), domain.ChatRecord{
		SessionID:   "g1",
		MessageID:   99,
		Author:      "carol",
		Content:     "「bob: old question」\n- - - - - - - - - - - - - - -\nmy answer",
		ContentType: domain.ContentText,
		Timestamp:   1800000000,
	}))

	svc.OnSummarizeRequest(context.Background(), "g1", 99)

	text := transcript(t, client.Calls()[0])
	assert.Contains(t, text, `carol: "my answer"`)
	assert.NotContains(t, text, "old question")
}

func TestSummaryService_InFlight(t *testing.T) {
	client := llmtest.New(llm.RuneTokenizer{})
	guard := NewMemoryGuard()
	svc := NewSummaryService(openStore(t), client, SummaryOptions{Guard: guard})
	seed(t, svc, 3, 5)

	release, ok, err := guard.Acquire(context.Background(), "g1")
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, domain.InfoReply("正在总结中，请稍候"), svc.OnSummarizeRequest(context.Background(), "g1", 99))

	release()
	assert.Equal(t, domain.ReplyText, svc.OnSummarizeRequest(context.Background(), "g1", 99).Type)
}

func TestSummaryService_CostFooter(t *testing.T) {
	client := llmtest.New(llm.RuneTokenizer{}, "ok")
	svc := NewSummaryService(openStore(t), client, SummaryOptions{
		Prices: llm.StaticPrices{Prompt: 1, Completion: 2},
	})
	seed(t, svc, 2, 5)

	reply := svc.OnSummarizeRequest(context.Background(), "g1", 99)
	assert.Equal(t, "本次总结了2条消息。\n\nok\n\n---\n1次调用，102 tokens，约$0.0001", reply.Content)
}
