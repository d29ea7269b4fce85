package phase

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// LoadingText aparece no LiveStream antes do primeiro snapshot
const LoadingText = "Loading..."

// Frame é o texto renderizado de um tick: corpo principal + linha de status.
type Frame struct {
	Body   string
	Status string
	Notice string
}

// Draw renderiza a fase corrente. Só lê estado local; nunca faz IO.
func (m *Machine) Draw(now time.Time) Frame {
	switch p := m.current.(type) {
	case *SourceSelect:
		return Frame{
			Body:   "wicketick\n\n[1] follow a " + m.cfg.Template.Kind.String() + " source",
			Status: "[q] quit",
		}
	case *MatchSelect:
		return Frame{
			Body:   m.drawMatchSelect(p),
			Status: "[1] select  [q] quit",
			Notice: p.Notice,
		}
	case *LiveStream:
		return m.drawLive(p, now)
	}
	return Frame{}
}

func (m *Machine) drawMatchSelect(p *MatchSelect) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Select a %s match", p.Template.Kind)
	switch {
	case p.Template.Concrete():
		fmt.Fprintf(&b, "\n\n[1] %s", p.Template.Identifier())
	case len(m.cfg.Candidates) > 0:
		b.WriteString("\n")
		for i, c := range m.cfg.Candidates {
			marker := "   "
			if i == 0 {
				marker = "[1]"
			}
			fmt.Fprintf(&b, "\n%s %s", marker, c)
		}
	default:
		b.WriteString("\n\nno match id given; pass --match-id or --candidates")
	}
	return b.String()
}

func (m *Machine) drawLive(p *LiveStream, now time.Time) Frame {
	frame := Frame{Body: LoadingText, Notice: p.Notice}
	if snap, ok := p.Ticker.Summary(); ok {
		frame.Body = snap.Display()
	}

	status := []string{p.Ticker.Source().Key()}
	if last, ok := p.Ticker.LastRefresh(); ok {
		status = append(status, "updated "+humanize.RelTime(last, now, "ago", "from now"))
	}
	status = append(status, "every "+p.Ticker.PollInterval().String())
	if p.handle != nil {
		if err := p.handle.LastErr(); err != nil {
			status = append(status, "poll error: "+err.Error())
		}
	}
	status = append(status, "[r] refresh  [1] next match  [q] quit")
	frame.Status = strings.Join(status, " · ")
	return frame
}
