package views

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestPaletteModel_SelectsAction(t *testing.T) {
	m := NewPaletteModel("vault")

	if m.Selected() != ActionRemoveConflicts {
		t.Fatalf("Selected() = %v, want first entry", m.Selected())
	}

	m.Update(runes("j"))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	msgs := collect(cmd)
	if len(msgs) != 1 || msgs[0] != (SwitchToActionMsg{Action: ActionMoveLinked}) {
		t.Errorf("msgs = %v, want SwitchToActionMsg{ActionMoveLinked}", msgs)
	}
}

func TestPaletteModel_CursorStaysInRange(t *testing.T) {
	m := NewPaletteModel("vault")

	m.Update(runes("k"))
	if m.Selected() != ActionRemoveConflicts {
		t.Errorf("Selected() = %v after moving above the first entry", m.Selected())
	}

	for range 5 {
		m.Update(runes("j"))
	}
	if m.Selected() != ActionReindex {
		t.Errorf("Selected() = %v after moving past the last entry", m.Selected())
	}
}

func TestPaletteModel_HelpAndQuit(t *testing.T) {
	m := NewPaletteModel("vault")

	_, cmd := m.Update(runes("?"))
	if !hasMsg[SwitchToHelpMsg](collect(cmd)) {
		t.Error("? should open help")
	}

	_, cmd = m.Update(runes("q"))
	if !hasMsg[tea.QuitMsg](collect(cmd)) {
		t.Error("q should quit")
	}
}

func TestPaletteModel_View(t *testing.T) {
	view := NewPaletteModel("my-vault").View()

	for _, want := range []string{"my-vault", "Remove sync conflicts", "Move linked files", "Rebuild link index"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestHelpModel_Close(t *testing.T) {
	m := NewHelpModel(".sync-conflict")

	if view := m.View(); !strings.Contains(view, ".sync-conflict") {
		t.Errorf("help view should mention the conflict marker:\n%s", view)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !hasMsg[SwitchToPaletteMsg](collect(cmd)) {
		t.Error("esc should close help")
	}
}
