// Package tui is the terminal front-end: a chat view while the order is
// being built and a summary view once it is confirmed.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/PabloGalante/gourmetgo/internal/app/conversation"
	"github.com/PabloGalante/gourmetgo/internal/domain"
)

const (
	defaultWidth   = 80
	defaultHeight  = 24
	inputCharLimit = 2000
	chromeHeight   = 5
	minViewport    = 5
)

type view int

const (
	viewChat view = iota
	viewSummary
)

// ChatProgram runs the terminal UI around one controller.
type ChatProgram struct {
	model Model
}

func NewChatProgram(ctrl *conversation.Controller) *ChatProgram {
	return &ChatProgram{model: NewModel(ctrl)}
}

// Run starts the program. The controller's order listener is pointed at
// the program so a confirmation switches to the summary view.
func (p *ChatProgram) Run(ctx context.Context) error {
	program := tea.NewProgram(p.model, tea.WithAltScreen(), tea.WithContext(ctx))
	p.model.ctrl.SetOrderListener(func(details domain.OrderDetails) {
		program.Send(orderConfirmedMsg{details: details})
	})
	_, err := program.Run()
	return err
}

// Model is the bubbletea model.
type Model struct {
	ctrl *conversation.Controller

	input   textinput.Model
	content viewport.Model
	spinner spinner.Model

	view    view
	busy    bool
	order   *domain.OrderDetails
	lastErr error

	width  int
	height int
}

func NewModel(ctrl *conversation.Controller) Model {
	in := textinput.New()
	in.Placeholder = "Type your order details..."
	in.CharLimit = inputCharLimit
	in.Width = defaultWidth - 4
	in.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = botLabelStyle

	return Model{
		ctrl:    ctrl,
		input:   in,
		content: viewport.New(defaultWidth, defaultHeight-chromeHeight),
		spinner: sp,
		view:    viewChat,
		busy:    true,
		width:   defaultWidth,
		height:  defaultHeight,
	}
}

type activatedMsg struct{ err error }

type submittedMsg struct {
	res conversation.SubmitResult
	err error
}

type orderConfirmedMsg struct{ details domain.OrderDetails }

type newOrderMsg struct{ err error }

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.activate())
}

func (m Model) activate() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		return activatedMsg{err: ctrl.Activate(context.Background())}
	}
}

func (m Model) submit(text string) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		res, err := ctrl.Submit(context.Background(), text)
		return submittedMsg{res: res, err: err}
	}
}

func (m Model) newOrder() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		return newOrderMsg{err: ctrl.NewOrder(context.Background())}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case activatedMsg:
		m.busy = false
		m.lastErr = msg.err

	case submittedMsg:
		m.busy = false
		m.lastErr = msg.err
		if msg.res.Order != nil {
			m.showSummary(*msg.res.Order)
		}

	case orderConfirmedMsg:
		m.showSummary(msg.details)

	case newOrderMsg:
		m.busy = false
		m.lastErr = msg.err
		m.order = nil
		m.view = viewChat
		m.input.Focus()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	if m.view == viewChat && m.canType() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.refresh()
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return tea.Quit, true
	case tea.KeyPgUp:
		m.content.HalfViewUp()
		return nil, true
	case tea.KeyPgDown:
		m.content.HalfViewDown()
		return nil, true
	}

	if m.view == viewSummary {
		if msg.String() == "n" && !m.busy {
			m.busy = true
			return m.newOrder(), true
		}
		return nil, true
	}

	if msg.Type == tea.KeyEnter {
		text := m.input.Value()
		if strings.TrimSpace(text) == "" || !m.canType() {
			return nil, true
		}
		m.input.Reset()
		m.busy = true
		m.refresh()
		return m.submit(text), true
	}
	return nil, false
}

// canType mirrors the controller's submission guard so the input is
// disabled whenever a submission would be rejected.
func (m Model) canType() bool {
	return !m.busy && m.ctrl.State().AcceptsInput()
}

func (m *Model) showSummary(details domain.OrderDetails) {
	d := details
	m.order = &d
	m.view = viewSummary
	m.input.Blur()
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	vh := h - chromeHeight
	if vh < minViewport {
		vh = minViewport
	}
	m.content.Width = w
	m.content.Height = vh
	m.input.Width = w - 4
}

func (m *Model) refresh() {
	if m.view == viewSummary && m.order != nil {
		m.content.SetContent(RenderSummary(*m.order, m.width))
		m.content.GotoTop()
		return
	}
	m.content.SetContent(RenderMessages(m.ctrl.Messages(), m.width))
	m.content.GotoBottom()
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("GourmetGo AI Assistant"))
	b.WriteString("\n")
	b.WriteString(m.content.View())
	b.WriteString("\n")

	switch {
	case m.view == viewSummary:
		b.WriteString(dimStyle.Render("n: place another order • esc: quit"))
	case m.busy:
		b.WriteString(m.spinner.View() + dimStyle.Render(" assistant is typing..."))
	case !m.ctrl.State().AcceptsInput():
		b.WriteString(dimStyle.Render("chat unavailable • esc: quit"))
	default:
		b.WriteString("> " + m.input.View())
	}
	if m.lastErr != nil {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(m.lastErr.Error()))
	}
	return b.String()
}

// RenderMessages lays out the log as chat bubbles: assistant on the left,
// user on the right.
func RenderMessages(msgs []domain.ChatMessage, width int) string {
	if width <= 0 {
		width = defaultWidth
	}
	maxBubble := width * 3 / 4
	if maxBubble < 10 {
		maxBubble = 10
	}

	var b strings.Builder
	for _, msg := range msgs {
		if msg.Origin == domain.OriginUser {
			bubble := renderBubble(userBubbleStyle, msg.Text, maxBubble)
			label := userLabelStyle.Render("You")
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Right, label))
			b.WriteString("\n")
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Right, bubble))
		} else {
			b.WriteString(botLabelStyle.Render("GourmetGo"))
			b.WriteString("\n")
			b.WriteString(renderBubble(botBubbleStyle, msg.Text, maxBubble))
		}
		b.WriteString("\n\n")
	}
	return b.String()
}

// renderBubble wraps text at maxWidth and shrinks short messages to fit.
func renderBubble(style lipgloss.Style, text string, maxWidth int) string {
	w := lipgloss.Width(text) + style.GetHorizontalPadding()
	if w > maxWidth {
		w = maxWidth
	}
	return style.Width(w).Render(text)
}

// RenderSummary draws the order confirmation screen.
func RenderSummary(o domain.OrderDetails, width int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Order Confirmed!"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Your order is scheduled for delivery."))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Delivery Time"))
	b.WriteString("\n")
	b.WriteString(o.DeliveryTime)
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Items"))
	b.WriteString("\n")
	for _, it := range o.Items {
		line := it.Name
		if it.Notes != "" {
			line += " " + dimStyle.Render("("+it.Notes+")")
		}
		b.WriteString(fmt.Sprintf("%s  %s\n", line, quantityStyle.Render(fmt.Sprintf("x %d", it.Quantity))))
	}

	box := summaryBoxStyle.Render(b.String())
	if width <= 0 {
		return box
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, box)
}
