package mod

import (
	"errors"
	"image/color"

	"github.com/dshills/modloader/internal/host"
	"github.com/dshills/modloader/internal/script"
)

type fakeScript struct {
	path    string
	meta    script.Meta
	enabled bool

	// results are reported one per Update.
	results   []string
	result    string
	hasResult bool

	messages []script.Message

	updates     int
	draws       int
	options     int
	closed      int
	enableCalls []bool

	panicOnUpdate  bool
	panicOnMeta    bool
	panicOnDraw    bool
	panicOnOptions bool
}

func (s *fakeScript) Update() {
	s.updates++
	if s.panicOnUpdate {
		panic("script exploded")
	}
	if len(s.results) > 0 {
		s.result, s.hasResult = s.results[0], true
		s.results = s.results[1:]
	}
}

func (s *fakeScript) Messages() []script.Message { return s.messages }
func (s *fakeScript) Result() (string, bool)     { return s.result, s.hasResult }
func (s *fakeScript) Enabled() bool              { return s.enabled }

func (s *fakeScript) Meta() script.Meta {
	if s.panicOnMeta {
		panic("meta exploded")
	}
	return s.meta
}

func (s *fakeScript) SetEnabled(enabled bool) {
	s.enableCalls = append(s.enableCalls, enabled)
	s.enabled = enabled
}

func (s *fakeScript) DrawOptions(w script.Widgets) {
	s.options++
	if s.panicOnOptions {
		panic("options exploded")
	}
	w.Text("options of " + s.path)
}

func (s *fakeScript) Draw(script.Surface) {
	s.draws++
	if s.panicOnDraw {
		panic("draw exploded")
	}
}

func (s *fakeScript) Close() error {
	s.closed++
	return nil
}

type fakeEngine struct {
	setup map[string]func(*fakeScript)
	fail  map[string]bool

	created []*fakeScript
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		setup: make(map[string]func(*fakeScript)),
		fail:  make(map[string]bool),
	}
}

func (e *fakeEngine) Create(path string, enabled bool) (script.Script, error) {
	if e.fail[path] {
		return nil, errors.New("no such script")
	}
	s := &fakeScript{
		path:      path,
		enabled:   enabled,
		result:    script.ResultMetadataFetched,
		hasResult: true,
	}
	if f := e.setup[path]; f != nil {
		f(s)
	}
	e.created = append(e.created, s)
	return s, nil
}

// latest returns the newest script created from path.
func (e *fakeEngine) latest(path string) *fakeScript {
	for i := len(e.created) - 1; i >= 0; i-- {
		if e.created[i].path == path {
			return e.created[i]
		}
	}
	return nil
}

type fakeHost struct {
	screen   host.Screen
	modTypes []host.ModType
	shown    int
	hidden   int
}

func (h *fakeHost) Screen() host.Screen            { return h.screen }
func (h *fakeHost) RegisterModType(t host.ModType) { h.modTypes = append(h.modTypes, t) }
func (h *fakeHost) ShowCursor()                    { h.shown++ }
func (h *fakeHost) HideCursor()                    { h.hidden++ }

type fakeConsole struct {
	updates    int
	messages   []script.Message
	consumed   int
	draws      int
	options    int
	newHistory bool
	saved      []string
	loaded     []string
	maxHistory int
	toggled    bool
	closed     int
	saveErr    error
}

func (c *fakeConsole) Update()                    { c.updates++ }
func (c *fakeConsole) Messages() []script.Message { return c.messages }
func (c *fakeConsole) Draw(script.Surface)        { c.draws++ }
func (c *fakeConsole) DrawOptions(script.Widgets) { c.options++ }
func (c *fakeConsole) HasNewHistory() bool        { return c.newHistory }
func (c *fakeConsole) SetMaxHistory(n int)        { c.maxHistory = n }
func (c *fakeConsole) IsToggled() bool            { return c.toggled }
func (c *fakeConsole) Toggle()                    { c.toggled = !c.toggled }

func (c *fakeConsole) ConsumeMessages() {
	c.consumed += len(c.messages)
	c.messages = nil
}

func (c *fakeConsole) SaveHistory(path string) error {
	c.saved = append(c.saved, path)
	if c.saveErr != nil {
		return c.saveErr
	}
	c.newHistory = false
	return nil
}

func (c *fakeConsole) LoadHistory(path string) error {
	c.loaded = append(c.loaded, path)
	return nil
}

func (c *fakeConsole) Close() error {
	c.closed++
	return nil
}

type fakeSettings map[string]any

func (s fakeSettings) GetBool(section, key string, def bool) bool {
	if v, ok := s[section+"."+key].(bool); ok {
		return v
	}
	return def
}

func (s fakeSettings) GetInt(section, key string, def int) int {
	if v, ok := s[section+"."+key].(int); ok {
		return v
	}
	return def
}

type recordingWidgets struct {
	calls []string

	// toggle lists checkbox labels the user clicks this frame.
	toggle map[string]bool
}

func (w *recordingWidgets) Text(text string)        { w.calls = append(w.calls, "text:"+text) }
func (w *recordingWidgets) TextWrapped(text string) { w.calls = append(w.calls, "wrapped:"+text) }
func (w *recordingWidgets) TextRight(text string)   { w.calls = append(w.calls, "right:"+text) }
func (w *recordingWidgets) Separator()              { w.calls = append(w.calls, "separator") }
func (w *recordingWidgets) SameLine()               { w.calls = append(w.calls, "same_line") }

func (w *recordingWidgets) TextColored(_ color.Color, text string) {
	w.calls = append(w.calls, "colored:"+text)
}

func (w *recordingWidgets) Checkbox(label string, checked bool) bool {
	state := "off"
	if checked {
		state = "on"
	}
	w.calls = append(w.calls, "checkbox:"+label+":"+state)
	return w.toggle[label]
}

type drawCall struct {
	x, y int
	text string
}

type recordingSurface struct {
	width, height int
	calls         []drawCall
}

func (s *recordingSurface) Size() (int, int) { return s.width, s.height }

func (s *recordingSurface) DrawText(x, y int, text string, _ color.Color) {
	s.calls = append(s.calls, drawCall{x, y, text})
}
