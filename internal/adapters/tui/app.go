package tui

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/ScoreStream/internal/app/session"
)

// Source is the read side of the session.
type Source interface {
	View() session.View
	Subscribe(func(session.View))
}

// Joiner is the one write action the UI has.
type Joiner interface {
	RequestJoin(roomKey string) error
}

type App struct {
	app    *tview.Application
	src    Source
	joiner Joiner
	dirty  chan struct{}

	pages   *tview.Pages
	form    *tview.Form
	input   *tview.InputField
	notice  *tview.TextView
	badge   *tview.TextView
	players [2]*tview.TextView
	footer  *tview.TextView
}

func New(src Source, joiner Joiner, initialKey string) *App {
	a := &App{
		app:    tview.NewApplication(),
		src:    src,
		joiner: joiner,
		dirty:  make(chan struct{}, 1),
	}

	a.input = tview.NewInputField().
		SetLabel("Room Key ").
		SetPlaceholder("Enter room key").
		SetText(initialKey).
		SetFieldWidth(24)
	a.input.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter {
			a.join()
		}
	})
	a.form = tview.NewForm().
		AddFormItem(a.input).
		AddButton("Join Room", a.join)
	a.form.SetBorder(true).SetTitle(" " + Title + " ")
	a.notice = tview.NewTextView().SetTextAlign(tview.AlignCenter).SetDynamicColors(true)

	join := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().
			AddItem(nil, 0, 1, false).
			AddItem(a.form, 44, 0, true).
			AddItem(nil, 0, 1, false), 7, 0, true).
		AddItem(a.notice, 1, 0, false).
		AddItem(nil, 0, 1, false)

	a.badge = tview.NewTextView().SetTextAlign(tview.AlignCenter).SetDynamicColors(true)
	for i := range a.players {
		a.players[i] = tview.NewTextView().SetTextAlign(tview.AlignCenter).SetDynamicColors(true)
		a.players[i].SetBorder(true)
	}
	a.footer = tview.NewTextView().SetTextAlign(tview.AlignCenter).SetDynamicColors(true)

	board := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.badge, 1, 0, false).
		AddItem(tview.NewFlex().
			AddItem(a.players[0], 0, 1, false).
			AddItem(a.players[1], 0, 1, false), 0, 1, false).
		AddItem(a.footer, 1, 0, false)

	a.pages = tview.NewPages().
		AddPage(PageJoin, join, true, true).
		AddPage(PageBoard, board, true, false)

	a.app.SetRoot(a.pages, true).SetFocus(a.input)
	a.app.SetInputCapture(func(ev *tcell.EventKey) *tcell.EventKey {
		if ev.Key() == tcell.KeyEscape {
			a.app.Stop()
			return nil
		}
		return ev
	})
	return a
}

// Run blocks until the user quits or ctx is done.
func (a *App) Run(ctx context.Context) error {
	a.apply(Render(a.src.View()))
	a.src.Subscribe(func(session.View) {
		select {
		case a.dirty <- struct{}{}:
		default:
		}
	})

	go func() {
		for {
			select {
			case <-ctx.Done():
				a.app.Stop()
				return
			case <-a.dirty:
				a.app.QueueUpdateDraw(func() { a.apply(Render(a.src.View())) })
			}
		}
	}()

	return a.app.Run()
}

func (a *App) join() {
	if err := a.joiner.RequestJoin(a.input.GetText()); err != nil {
		log.Debug().Err(err).Str("module", "adapters.tui").Msg("join rejected")
	}
}

func (a *App) apply(s Screen) {
	if btn := a.form.GetButton(0); btn != nil {
		btn.SetLabel(s.ButtonLabel)
	}
	a.notice.SetText(noticeText(s.Notice))

	if s.Page == PageBoard {
		a.badge.SetText("[::b]" + tview.Escape(s.RoomBadge))
		for i, p := range s.Players {
			a.players[i].SetTitle(" " + tview.Escape(p.Name) + " ")
			a.players[i].SetText(fmt.Sprintf("\n\n[purple::b]%s[-::-]\n\n%s", p.Score, p.Sets))
		}
		footer := s.Overlay
		if footer != "" {
			footer = "[yellow]" + footer
		}
		a.footer.SetText(footer)
	}

	if name, _ := a.pages.GetFrontPage(); name != s.Page {
		a.pages.SwitchToPage(s.Page)
		if s.Page == PageJoin {
			a.app.SetFocus(a.input)
		}
	}
}

func noticeText(n string) string {
	if n == "" {
		return ""
	}
	return "[red]" + tview.Escape(n)
}
