// Package console implements the developer console: a Lua prompt with
// scrollback and a persisted command history.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	glua "github.com/yuin/gopher-lua"

	"github.com/dshills/modloader/internal/script"
	"github.com/dshills/modloader/internal/script/lua"
)

const (
	// DefaultMaxHistory is used until SetMaxHistory is called.
	DefaultMaxHistory = 20

	// DefaultScrollback is how many output lines are kept.
	DefaultScrollback = 200

	prompt = "> "
)

var (
	outputColor = colorful.Color{R: 0.85, G: 0.85, B: 0.85}
	inputColor  = colorful.Color{R: 1, G: 1, B: 1}
	errorColor  = colorful.Color{R: 1, G: 0.3, B: 0.3}
	echoColor   = colorful.Color{R: 0.5, G: 0.8, B: 1}
)

type line struct {
	text string
	fg   colorful.Color
}

// Console is a Lua prompt. It is driven from the host's main loop and is
// not safe for concurrent use.
type Console struct {
	state *lua.State

	toggled bool
	input   []rune

	// queued holds submitted commands until the next Update.
	queued []string

	history    []string
	maxHistory int
	browse     int
	newHistory bool

	scrollback    []line
	maxScrollback int

	pending []script.Message
	clock   func() int64
}

// Option configures a Console.
type Option func(*Console)

// WithExecutionTimeout bounds each command.
func WithExecutionTimeout(d time.Duration) Option {
	return func(c *Console) {
		c.state = lua.NewState(lua.WithExecutionTimeout(d))
	}
}

// WithScrollback sets how many output lines are kept.
func WithScrollback(n int) Option {
	return func(c *Console) {
		if n > 0 {
			c.maxScrollback = n
		}
	}
}

// New creates a console with full access to the Lua standard library.
func New(opts ...Option) *Console {
	c := &Console{
		maxHistory:    DefaultMaxHistory,
		maxScrollback: DefaultScrollback,
		browse:        -1,
		clock: func() int64 {
			return time.Now().UnixMilli()
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.state == nil {
		c.state = lua.NewState()
	}
	c.state.Sandbox().GrantUnsafe()
	c.state.RegisterFunc("print", c.luaPrint)
	c.state.RegisterFunc("clear", func(*glua.LState) int {
		c.scrollback = nil
		return 0
	})
	return c
}

// Update runs every command submitted since the last call.
func (c *Console) Update() {
	queued := c.queued
	c.queued = nil
	for _, cmd := range queued {
		c.execute(cmd)
	}
}

// Execute runs cmd immediately.
func (c *Console) Execute(cmd string) {
	c.execute(cmd)
}

func (c *Console) execute(cmd string) {
	c.addLine(prompt+cmd, echoColor)

	// Compile the command as an expression first so "1+1" prints 2.
	L := c.state.L
	fn, err := L.LoadString("return " + cmd)
	if err != nil {
		fn, err = L.LoadString(cmd)
	}
	if err != nil {
		c.output(err.Error(), errorColor)
		return
	}

	results, err := c.run(fn)
	if err != nil {
		c.output(err.Error(), errorColor)
		return
	}
	if len(results) > 0 {
		parts := make([]string, 0, len(results))
		for _, v := range results {
			parts = append(parts, L.ToStringMeta(v).String())
		}
		c.output(strings.Join(parts, "\t"), outputColor)
	}
}

// run calls a compiled chunk under the state's timeout.
func (c *Console) run(fn *glua.LFunction) ([]glua.LValue, error) {
	const name = "__console_chunk"
	c.state.L.SetGlobal(name, fn)
	defer c.state.L.SetGlobal(name, glua.LNil)
	return c.state.Call(name)
}

func (c *Console) output(text string, fg colorful.Color) {
	c.addLine(text, fg)
	c.pending = append(c.pending, script.Message{Text: text, Timestamp: c.clock()})
}

func (c *Console) addLine(text string, fg colorful.Color) {
	for _, l := range strings.Split(text, "\n") {
		c.scrollback = append(c.scrollback, line{text: l, fg: fg})
	}
	if over := len(c.scrollback) - c.maxScrollback; over > 0 {
		c.scrollback = append(c.scrollback[:0], c.scrollback[over:]...)
	}
}

func (c *Console) luaPrint(L *glua.LState) int {
	parts := make([]string, 0, L.GetTop())
	for i := 1; i <= L.GetTop(); i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	c.output(strings.Join(parts, "\t"), outputColor)
	return 0
}

// Messages returns output produced since the last ConsumeMessages.
func (c *Console) Messages() []script.Message {
	out := make([]script.Message, len(c.pending))
	copy(out, c.pending)
	return out
}

// ConsumeMessages drops pending output.
func (c *Console) ConsumeMessages() {
	c.pending = nil
}

// Scrollback returns the visible output lines, oldest first.
func (c *Console) Scrollback() []string {
	out := make([]string, 0, len(c.scrollback))
	for _, l := range c.scrollback {
		out = append(out, l.text)
	}
	return out
}

// IsToggled reports whether the console is open.
func (c *Console) IsToggled() bool {
	return c.toggled
}

// Toggle opens or closes the console.
func (c *Console) Toggle() {
	c.toggled = !c.toggled
}

// Type appends r to the input line.
func (c *Console) Type(r rune) {
	c.input = append(c.input, r)
}

// Backspace removes the last input rune.
func (c *Console) Backspace() {
	if len(c.input) > 0 {
		c.input = c.input[:len(c.input)-1]
	}
}

// Input returns the current input line.
func (c *Console) Input() string {
	return string(c.input)
}

// Submit queues the input line for the next Update and records it in the
// history.
func (c *Console) Submit() {
	cmd := strings.TrimSpace(string(c.input))
	c.input = c.input[:0]
	c.browse = -1
	if cmd == "" {
		return
	}
	c.queued = append(c.queued, cmd)
	c.pushHistory(cmd)
}

// HistoryPrev replaces the input with the previous history entry.
func (c *Console) HistoryPrev() {
	if len(c.history) == 0 {
		return
	}
	switch {
	case c.browse < 0:
		c.browse = len(c.history) - 1
	case c.browse > 0:
		c.browse--
	}
	c.input = []rune(c.history[c.browse])
}

// HistoryNext moves forward through the history, ending on an empty line.
func (c *Console) HistoryNext() {
	if c.browse < 0 {
		return
	}
	c.browse++
	if c.browse >= len(c.history) {
		c.browse = -1
		c.input = c.input[:0]
		return
	}
	c.input = []rune(c.history[c.browse])
}

func (c *Console) pushHistory(cmd string) {
	if n := len(c.history); n > 0 && c.history[n-1] == cmd {
		return
	}
	c.history = append(c.history, cmd)
	c.trimHistory()
	c.newHistory = true
}

func (c *Console) trimHistory() {
	if over := len(c.history) - c.maxHistory; over > 0 {
		c.history = append(c.history[:0], c.history[over:]...)
	}
}

// History returns the command history, oldest first.
func (c *Console) History() []string {
	out := make([]string, len(c.history))
	copy(out, c.history)
	return out
}

// SetMaxHistory sets how many commands are kept. Values below one are
// ignored.
func (c *Console) SetMaxHistory(n int) {
	if n < 1 {
		return
	}
	c.maxHistory = n
	c.trimHistory()
}

// HasNewHistory reports whether a command was added since the last save.
func (c *Console) HasNewHistory() bool {
	return c.newHistory
}

// LoadHistory replaces the history with the lines of path. A missing file
// leaves the history empty.
func (c *Console) LoadHistory(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open history: %w", err)
	}
	defer f.Close()

	var history []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if cmd := strings.TrimSpace(sc.Text()); cmd != "" {
			history = append(history, cmd)
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read history: %w", err)
	}

	c.history = history
	c.trimHistory()
	c.newHistory = false
	return nil
}

// SaveHistory writes the history to path, one command per line, and syncs
// the file. Missing parent directories are created.
func (c *Console) SaveHistory(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create history: %w", err)
	}

	w := bufio.NewWriter(f)
	for _, cmd := range c.history {
		w.WriteString(cmd)
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write history: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync history: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close history: %w", err)
	}
	c.newHistory = false
	return nil
}

// Close releases the Lua state.
func (c *Console) Close() error {
	return c.state.Close()
}
