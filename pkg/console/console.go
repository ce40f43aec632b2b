package console

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	markdown "github.com/MichaelMure/go-term-markdown"
	"github.com/charmbracelet/lipgloss"
	contractx "github.com/tanpawarit/euclidia/agent/contract"
	"golang.org/x/term"
)

const (
	defaultWidth = 100
	maxWidth     = 120
	leftPad      = 2
)

var phaseLabels = map[contractx.Phase]string{
	contractx.PhaseRouting: "🤔 Thinking...",
	contractx.PhaseExplain: "📘 Explaining...",
	contractx.PhaseProve:   "🧠 Reasoning...",
	contractx.PhaseCleanup: "✏️  Formatting...",
}

// Console renders the chat on a terminal. When the writer is not a
// terminal, output is plain text without styling.
type Console struct {
	mu    sync.Mutex
	out   io.Writer
	tty   bool
	width int
	busy  bool

	title   lipgloss.Style
	muted   lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
	prompt  lipgloss.Style
}

func New(out io.Writer) *Console {
	c := &Console{out: out, width: defaultWidth}

	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		c.tty = true
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			c.width = min(w, maxWidth)
		}
	}

	c.title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	c.muted = lipgloss.NewStyle().Faint(true)
	c.warning = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	c.failure = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	c.prompt = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	return c
}

func (c *Console) style(s lipgloss.Style, text string) string {
	if !c.tty {
		return text
	}
	return s.Render(text)
}

func (c *Console) Banner() {
	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprintln(c.out, c.style(c.title, "📐 EuclidIA · Think. Explain. Prove."))
	fmt.Fprintln(c.out, c.style(c.muted, "An assistant for mathematics. Type /clear to start over, /quit to leave."))
	fmt.Fprintln(c.out)
}

func (c *Console) Prompt() {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprint(c.out, c.style(c.prompt, "you › "))
}

// Status shows the busy indicator for phase. It is safe to pass as a
// contract.StatusFunc.
func (c *Console) Status(phase contractx.Phase) {
	label, ok := phaseLabels[phase]
	if !ok {
		label = string(phase) + "..."
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.tty {
		fmt.Fprint(c.out, "\r\033[K"+c.muted.Render(label))
	} else {
		fmt.Fprintln(c.out, label)
	}
	c.busy = true
}

func (c *Console) clearStatus() {
	if c.busy && c.tty {
		fmt.Fprint(c.out, "\r\033[K")
	}
	c.busy = false
}

func (c *Console) Reply(reply contractx.Reply) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearStatus()

	for _, w := range reply.Warnings {
		fmt.Fprintln(c.out, c.style(c.warning, w))
	}

	content := reply.Content()
	if reply.Failure != nil {
		fmt.Fprintln(c.out, c.style(c.failure, content))
		fmt.Fprintln(c.out)
		return
	}

	header := "EuclidIA"
	if reply.Capability != "" {
		header += " · " + string(reply.Capability)
	}
	fmt.Fprintln(c.out, c.style(c.title, header))
	fmt.Fprintln(c.out, c.render(content))
}

func (c *Console) render(content string) string {
	if !c.tty {
		return strings.TrimRight(content, "\n") + "\n"
	}
	return string(markdown.Render(content, c.width-leftPad*2, leftPad))
}

func (c *Console) Info(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearStatus()
	fmt.Fprintln(c.out, c.style(c.muted, msg))
}

func (c *Console) Error(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearStatus()
	fmt.Fprintln(c.out, c.style(c.failure, "❌ "+err.Error()))
}
