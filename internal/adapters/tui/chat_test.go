package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/gourmetgo/internal/adapters/llm"
	"github.com/PabloGalante/gourmetgo/internal/app/conversation"
	"github.com/PabloGalante/gourmetgo/internal/domain"
)

const orderReply = "```json\n" +
	`{"items":[{"name":"Large Pepperoni Pizza","quantity":1,"notes":"extra cheese"},{"name":"Coke","quantity":2}],"deliveryTime":"7:30 PM"}` +
	"\n```"

func activatedModel(t *testing.T, client domain.ModelClient) Model {
	t.Helper()
	ctrl := conversation.NewController(client, llm.DefaultProfile().SessionConfig())
	m := NewModel(ctrl)
	msg := m.activate()()
	next, _ := m.Update(msg)
	return next.(Model)
}

func typeText(m Model, text string) Model {
	for _, r := range text {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(Model)
	}
	return m
}

func pressEnter(t *testing.T, m Model) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(Model), cmd
}

func TestModelChatToSummaryAndBack(t *testing.T) {
	m := activatedModel(t, llm.NewMockLLM("Anything else?", orderReply))
	assert.False(t, m.busy)
	assert.True(t, m.canType())

	m = typeText(m, "a pizza")
	m, cmd := pressEnter(t, m)
	require.NotNil(t, cmd)
	assert.True(t, m.busy)
	assert.False(t, m.canType())

	next, _ := m.Update(cmd())
	m = next.(Model)
	assert.Equal(t, viewChat, m.view)
	assert.Len(t, m.ctrl.Messages(), 3)

	m = typeText(m, "finalize")
	m, cmd = pressEnter(t, m)
	next, _ = m.Update(cmd())
	m = next.(Model)

	assert.Equal(t, viewSummary, m.view)
	require.NotNil(t, m.order)
	assert.Equal(t, "7:30 PM", m.order.DeliveryTime)
	assert.Contains(t, m.View(), "place another order")

	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	m = next.(Model)
	require.NotNil(t, cmd)
	next, _ = m.Update(cmd())
	m = next.(Model)

	assert.Equal(t, viewChat, m.view)
	assert.Nil(t, m.order)
	assert.Equal(t, domain.StateReady, m.ctrl.State())
	assert.Len(t, m.ctrl.Messages(), 1)
}

func TestModelIgnoresBlankEnter(t *testing.T) {
	m := activatedModel(t, llm.NewMockLLM())

	m = typeText(m, "   ")
	m, cmd := pressEnter(t, m)

	assert.Nil(t, cmd)
	assert.False(t, m.busy)
	assert.Len(t, m.ctrl.Messages(), 1)
}

func TestModelFailedSessionDisablesInput(t *testing.T) {
	m := activatedModel(t, llm.NewMockLLM().FailCreate(errors.New("bad key")))

	assert.False(t, m.canType())
	assert.Contains(t, m.View(), "chat unavailable")

	m = typeText(m, "hello")
	_, cmd := pressEnter(t, m)
	assert.Nil(t, cmd)
	assert.Equal(t, domain.StateFailed, m.ctrl.State())
	assert.Len(t, m.ctrl.Messages(), 1)
}

func TestOrderConfirmedMsgSwitchesView(t *testing.T) {
	m := activatedModel(t, llm.NewMockLLM())

	next, _ := m.Update(orderConfirmedMsg{details: domain.OrderDetails{
		Items:        []domain.OrderItem{{Name: "Soup", Quantity: 1}},
		DeliveryTime: "noon",
	}})
	m = next.(Model)

	assert.Equal(t, viewSummary, m.view)
}

func TestRenderSummary(t *testing.T) {
	out := RenderSummary(domain.OrderDetails{
		Items: []domain.OrderItem{
			{Name: "Large Pepperoni Pizza", Quantity: 1, Notes: "extra cheese"},
			{Name: "Coke", Quantity: 2},
		},
		DeliveryTime: "7:30 PM",
	}, 0)

	assert.Contains(t, out, "Order Confirmed!")
	assert.Contains(t, out, "7:30 PM")
	assert.Contains(t, out, "Large Pepperoni Pizza")
	assert.Contains(t, out, "extra cheese")
	assert.Contains(t, out, "x 2")
}

func TestRenderMessages(t *testing.T) {
	ctrl := conversation.NewController(llm.NewMockLLM("Sure!"), llm.DefaultProfile().SessionConfig())
	ctx := context.Background()
	require.NoError(t, ctrl.Activate(ctx))
	_, err := ctrl.Submit(ctx, "tacos")
	require.NoError(t, err)

	out := RenderMessages(ctrl.Messages(), 60)

	assert.Contains(t, out, "You")
	assert.Contains(t, out, "tacos")
	assert.Contains(t, out, "Sure!")
	assert.Contains(t, out, "GourmetGo")
}
