package middleware

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"
)

func TestLogger_SetsRequestID(t *testing.T) {
	b, err := tele.NewBot(tele.Settings{Offline: true})
	require.NoError(t, err)

	c := b.NewContext(tele.Update{Message: &tele.Message{Chat: &tele.Chat{ID: 42}, Text: "/start"}})

	var seen string
	handler := Logger()(func(c tele.Context) error {
		seen, _ = c.Get("rqID").(string)
		return nil
	})

	require.NoError(t, handler(c))
	assert.NotEmpty(t, seen)
}

func TestLogger_PassesError(t *testing.T) {
	b, err := tele.NewBot(tele.Settings{Offline: true})
	require.NoError(t, err)

	c := b.NewContext(tele.Update{})
	boom := errors.New("boom")

	err = Logger()(func(tele.Context) error { return boom })(c)
	assert.ErrorIs(t, err, boom)
}
