package main

import (
	"bytes"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"

	"github.com/wippyai/reltkit/internal/sample"
)

func demoFs(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	if err := writeDemo(fs, "/demo.bin", Opts{At: -1, Align: 2}); err != nil {
		t.Fatalf("writeDemo: %v", err)
	}
	return fs
}

func TestLoadTable(t *testing.T) {
	fs := demoFs(t)
	table, err := loadTable(fs, "/demo.bin", Opts{At: -1})
	if err != nil {
		t.Fatalf("loadTable: %v", err)
	}
	if len(table.Descriptors) != 2 {
		t.Errorf("sections: got %d, want 2", len(table.Descriptors))
	}
	if got := table.Offsets(sample.SectionData); len(got) == 0 || got[0] != 8 {
		t.Errorf("data section offsets: %v", got)
	}
}

func TestInspect_ReportsEachFile(t *testing.T) {
	fs := demoFs(t)
	_ = afero.WriteFile(fs, "/empty.bin", []byte("nothing here"), 0o644)

	var out bytes.Buffer
	err := inspect(fs, []string{"/demo.bin", "/empty.bin", "/missing.bin", "/demo.bin"}, Opts{At: -1}, &out)
	if err == nil || !strings.Contains(err.Error(), "2 of 4") {
		t.Errorf("expected 2 failures, got %v", err)
	}
	if n := strings.Count(out.String(), "/demo.bin"); n != 2 {
		t.Errorf("printed %d tables, want 2:\n%s", n, out.String())
	}
	if !strings.Contains(out.String(), "section 1") {
		t.Errorf("missing section listing:\n%s", out.String())
	}
}

func TestPrintStrings(t *testing.T) {
	fs := demoFs(t)
	var out bytes.Buffer
	if err := printStrings(fs, "/demo.bin", Opts{At: -1, Align: 2}, &out); err != nil {
		t.Fatalf("printStrings: %v", err)
	}
	for _, want := range []string{`"sword"`, `"consumable"`, `"melee"`} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("missing %s in:\n%s", want, out.String())
		}
	}
	if n := strings.Count(out.String(), `"melee"`); n != 1 {
		t.Errorf("pooled string listed %d times", n)
	}
}

func TestLocate(t *testing.T) {
	data := []byte("..RELT....RELT..")
	tests := []struct {
		at      int64
		want    int64
		wantErr bool
	}{
		{-1, 10, false},
		{2, 2, false},
		{100, 0, true},
	}
	for _, tt := range tests {
		got, err := locate(data, []byte("RELT"), tt.at)
		if (err != nil) != tt.wantErr {
			t.Errorf("locate(at=%d): err %v", tt.at, err)
			continue
		}
		if got != tt.want {
			t.Errorf("locate(at=%d) = %d, want %d", tt.at, got, tt.want)
		}
	}
	if _, err := locate([]byte("none"), []byte("RELT"), -1); err == nil {
		t.Error("expected an error for a missing tag")
	}
}

func TestInteractiveModel(t *testing.T) {
	fs := demoFs(t)
	m := newInteractiveModel(fs, "/demo.bin", Opts{At: -1})

	m.Update(m.loadTable())
	if m.table == nil {
		t.Fatalf("table not loaded: %v", m.err)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if m.selected != 1 {
		t.Errorf("selected: got %d, want 1", m.selected)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if m.selected != 1 {
		t.Errorf("selection moved past the last section: %d", m.selected)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.state != stateEntries {
		t.Fatalf("state: got %d, want entries", m.state)
	}
	if !strings.Contains(m.View(), "Section 1") {
		t.Errorf("entries view:\n%s", m.View())
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != stateSections {
		t.Errorf("esc did not return to sections")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	if m.state != stateLookup {
		t.Fatalf("state: got %d, want lookup", m.state)
	}
	for _, r := range "0x8" {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !strings.Contains(m.result, "section 0") {
		t.Errorf("lookup result: %q", m.result)
	}
}

func TestLookup(t *testing.T) {
	table, err := loadTable(demoFs(t), "/demo.bin", Opts{At: -1})
	if err != nil {
		t.Fatalf("loadTable: %v", err)
	}
	tests := []struct {
		in   string
		want string
	}{
		{"8", "section 0, entry 0"},
		{"0x9", "no relocation"},
		{"xyz", "not an offset"},
	}
	for _, tt := range tests {
		if got := lookup(table, tt.in); !strings.Contains(got, tt.want) {
			t.Errorf("lookup(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
