package mod

import (
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"go.uber.org/zap"

	"github.com/dshills/modloader/internal/host"
	"github.com/dshills/modloader/internal/script"
)

const (
	bannerText   = "Do not use script mods online! Your game will not work! Press Ctrl+F4 and disable your mods! "
	bannerRepeat = 5
	bannerRows   = 64
	bannerFreq   = 10.0 / bannerRows
	bannerPhaseG = 2
	bannerPhaseB = 4
)

var bannerLine = strings.Repeat(bannerText, bannerRepeat)

// Draw draws the online warning, every live script and the console. Scripts
// draw whether or not they are enabled.
func (m *Manager) Draw(s script.Surface) {
	if m.empty() {
		return
	}

	if m.host.Screen() == host.ScreenOnline && m.anyScriptEnabled() {
		m.drawOnlineBanner(s)
	}

	for _, rec := range m.records {
		if rec.handle == nil {
			continue
		}
		m.guard(rec, func() { rec.handle.Script().Draw(s) })
	}

	if m.console != nil {
		m.console.Draw(s)
		if m.console.HasNewHistory() {
			m.saveHistory()
		}
	}
}

func (m *Manager) saveHistory() {
	err := m.console.SaveHistory(m.historyPath())
	if err == nil {
		m.historyErr = ""
		return
	}
	if err.Error() == m.historyErr {
		return
	}
	m.historyErr = err.Error()
	m.logger.Warn("failed to save console history", zap.Error(err))
}

func (m *Manager) anyScriptEnabled() bool {
	for _, rec := range m.records {
		if rec.scriptEnabled {
			return true
		}
	}
	return false
}

// drawOnlineBanner fills the middle of the surface with a color-cycled
// warning. The cycle moves one row per frame.
func (m *Manager) drawOnlineBanner(s script.Surface) {
	width, height := s.Size()
	rows := min(bannerRows, height)
	top := (height - rows) / 2
	left := (width - len(bannerLine)) / 2

	for i := 0; i < rows; i++ {
		s.DrawText(left, top+i, bannerLine, bannerColor(i+m.bannerFrame))
	}
	m.bannerFrame = (m.bannerFrame + 1) % bannerRows
}

// bannerColor returns the rainbow color of banner row i.
func bannerColor(i int) colorful.Color {
	f := bannerFreq * float64(i)
	return colorful.Color{
		R: math.Sin(f)*0.5 + 0.5,
		G: math.Sin(f+bannerPhaseG)*0.5 + 0.5,
		B: math.Sin(f+bannerPhaseB)*0.5 + 0.5,
	}
}
