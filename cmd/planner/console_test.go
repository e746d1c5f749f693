package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"planner-core/appstate"
	persistence "planner-core/persistence/application"
	"planner-core/persistence/infra"
	queue "planner-core/queue/application"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConsole(t *testing.T) (*console, *bytes.Buffer) {
	t.Helper()
	log, _ := test.NewNullLogger()
	writes := infra.NewWritePool(3)
	store := persistence.New(infra.NewMemorySyncStore(), infra.NewMemoryAsyncStore(),
		persistence.WithLogger(log),
		persistence.WithWriteSlots(writes, 0),
	)
	st := appstate.New(store, appstate.WithLogger(log))
	require.NoError(t, st.Boot(context.Background()))

	var out bytes.Buffer
	return &console{state: st, limiter: queue.New(2, time.Second, queue.WithLogger(log)), writes: writes, out: &out}, &out
}

func TestConsole_Session(t *testing.T) {
	c, out := newTestConsole(t)

	in := strings.Join([]string{
		"tasks add Contratar buffet | Fornecedores",
		"tasks",
		"guest add Ana Lima",
		"guests",
		"theme light",
		"theme",
		"whoami",
		"status",
		"restore",
		"bogus",
		"quit",
		"tasks add nunca | executado",
	}, "\n")
	require.NoError(t, c.run(context.Background(), strings.NewReader(in)))

	text := out.String()
	assert.Contains(t, text, "Contratar buffet (Fornecedores)")
	assert.Contains(t, text, "Ana Lima  Pendente")
	assert.Contains(t, text, "light")
	assert.Contains(t, text, "Administrador (Administrador)")
	assert.Contains(t, text, "pronto: true")
	assert.Contains(t, text, "admitidas=0/2")
	assert.Contains(t, text, "gravações: em curso=")
	assert.Contains(t, text, "/3\n")
	assert.Contains(t, text, "erro: identity: not impersonating")
	assert.Contains(t, text, `erro: comando desconhecido "bogus"`)

	for _, task := range c.state.Tasks() {
		assert.NotEqual(t, "nunca", task.Title)
	}
	assert.Equal(t, appstate.ThemeLight, c.state.Theme())
}

func TestConsole_AssistantDisabled(t *testing.T) {
	c, out := newTestConsole(t)
	require.NoError(t, c.run(context.Background(), strings.NewReader("chat oi\n")))
	assert.Contains(t, out.String(), "assistant not configured")
}

func TestConsole_StopsOnContext(t *testing.T) {
	c, _ := newTestConsole(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, w := io.Pipe()
	defer w.Close()
	assert.ErrorIs(t, c.run(ctx, r), context.Canceled)
}
