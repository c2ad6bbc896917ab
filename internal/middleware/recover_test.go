package middleware

import (
	"context"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureReporter struct {
	errs []error
}

func (c *captureReporter) LogError(err error, _ string) { c.errs = append(c.errs, err) }

func TestRecover(t *testing.T) {
	reporter := &captureReporter{}
	h := Recover(reporter)(func(context.Context, *bot.Bot, *models.Update) {
		panic("boom")
	})

	assert.NotPanics(t, func() { h(context.Background(), nil, &models.Update{ID: 3}) })
	require.Len(t, reporter.errs, 1)
	assert.EqualError(t, reporter.errs[0], "panic: boom")
}

func TestRecover_NilReporter(t *testing.T) {
	h := Recover(nil)(func(context.Context, *bot.Bot, *models.Update) { panic("boom") })
	assert.NotPanics(t, func() { h(context.Background(), nil, &models.Update{}) })
}
