package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/gincla/nightsky/pkg/viewer"
)

const fixture = "testdata/sky.json"

// captureOutput redirects user-facing output for the duration of the test.
func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = old })
	return &buf
}

// runCLI executes the root command with args and an empty config dir.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	out := captureOutput(t)

	cmd := New(io.Discard, LogInfo).RootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		format, output string
		want           string
		wantErr        bool
	}{
		{"", "", formatPNG, false},
		{"", "sky.png", formatPNG, false},
		{"", "SKY.SVG", formatSVG, false},
		{"svg", "sky.png", formatSVG, false},
		{"pdf", "", "", true},
	}
	for _, tt := range tests {
		got, err := resolveFormat(tt.format, tt.output)
		if (err != nil) != tt.wantErr {
			t.Errorf("resolveFormat(%q, %q) error = %v, wantErr %v", tt.format, tt.output, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("resolveFormat(%q, %q) = %q, want %q", tt.format, tt.output, got, tt.want)
		}
	}
}

func TestParsePoint(t *testing.T) {
	tests := []struct {
		in      string
		want    [2]float64
		wantErr bool
	}{
		{"480,300", [2]float64{480, 300}, false},
		{" 1.5 , -2 ", [2]float64{1.5, -2}, false},
		{"480", [2]float64{}, true},
		{"x,1", [2]float64{}, true},
		{"1,y", [2]float64{}, true},
	}
	for _, tt := range tests {
		got, err := parsePoint(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parsePoint(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parsePoint(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if got := formatPoint([2]float64{1.5, 300}); got != "1.5,300" {
		t.Errorf("formatPoint = %q", got)
	}
}

func TestFilterCommand(t *testing.T) {
	tests := []struct {
		args     []string
		wantMin  string
		wantWarn bool
	}{
		{[]string{"filter", "3", "5"}, "3", false},
		{[]string{"filter", "5", "3"}, "0", true},
		{[]string{"filter", "abc", ""}, "0", false},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			out, err := runCLI(t, tt.args...)
			if err != nil {
				t.Fatal(err)
			}
			if got := strings.Contains(out, "cannot be greater"); got != tt.wantWarn {
				t.Errorf("warning shown = %v, want %v\n%s", got, tt.wantWarn, out)
			}
			var minLine string
			for _, l := range strings.Split(out, "\n") {
				if strings.HasPrefix(l, "min") {
					minLine = l
				}
			}
			if fields := strings.Fields(minLine); len(fields) != 2 || fields[1] != tt.wantMin {
				t.Errorf("min line = %q, want value %s", minLine, tt.wantMin)
			}
		})
	}
}

func TestFilterCommandArgs(t *testing.T) {
	if _, err := runCLI(t, "filter", "1"); err == nil {
		t.Error("filter with one argument should fail")
	}
}

func TestRenderPNGWithClick(t *testing.T) {
	out := filepath.Join(t.TempDir(), "sky.png")
	stdoutText, err := runCLI(t, "render", "--file", fixture, "-o", out, "--click", "605,395", "--seed", "3")
	if err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("output is not a PNG")
	}
	for _, want := range []string{"Borealis", "EBITDA", "logistics", "3 nodes", "2 links"} {
		if !strings.Contains(stdoutText, want) {
			t.Errorf("output missing %q:\n%s", want, stdoutText)
		}
	}
}

func TestRenderSVGMiss(t *testing.T) {
	out := filepath.Join(t.TempDir(), "sky.svg")
	stdoutText, err := runCLI(t, "render", "--file", fixture, "-o", out, "--click", "10,590")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdoutText, "No node found at 10,590") {
		t.Errorf("output = %q, want miss notice", stdoutText)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte("<svg")) {
		t.Error("output is not an SVG")
	}
}

func TestRenderMissAfterHitDropsHighlight(t *testing.T) {
	dir := t.TempDir()
	renderTo := func(name string, clicks ...string) []byte {
		t.Helper()
		out := filepath.Join(dir, name)
		args := []string{"render", "--file", fixture, "-o", out, "--seed", "3"}
		for _, c := range clicks {
			args = append(args, "--click", c)
		}
		if _, err := runCLI(t, args...); err != nil {
			t.Fatal(err)
		}
		data, err := os.ReadFile(out)
		if err != nil {
			t.Fatal(err)
		}
		return data
	}

	plain := renderTo("plain.svg")
	hit := renderTo("hit.svg", "605,395")
	hitMiss := renderTo("hitmiss.svg", "605,395", "10,590")

	if bytes.Equal(plain, hit) {
		t.Fatal("selecting Borealis did not change the frame")
	}
	if !bytes.Equal(plain, hitMiss) {
		t.Error("frame after a miss still shows the earlier selection")
	}
}

func TestRenderSourceFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no source", []string{"render"}},
		{"two sources", []string{"render", "--file", fixture, "--json-file", "sky.json"}},
		{"bad click", []string{"render", "--file", fixture, "--click", "nope"}},
		{"bad format", []string{"render", "--file", fixture, "--format", "gif"}},
		{"missing file", []string{"render", "--file", "testdata/missing.json"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runCLI(t, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestConfigFileApplies(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(cfg, []byte("[canvas]\nwidth = 0\nheight = 10\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := runCLI(t, "--config", cfg, "filter", "1", "2"); err == nil {
		t.Error("invalid config should fail")
	}
}

func TestDotCommand(t *testing.T) {
	out, err := runCLI(t, "dot", "--file", fixture, "--labels")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"graph G {", `"Aurora" -- "Borealis"`, `xlabel="Cygnus"`, "layout=neato"} {
		if !strings.Contains(out, want) {
			t.Errorf("dot output missing %q:\n%s", want, out)
		}
	}
}

func TestClearCacheDir(t *testing.T) {
	dir := t.TempDir()
	for _, p := range []string{"ab/one", "ab/two", "cd/three"} {
		path := filepath.Join(dir, p)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "stray"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	n, err := clearCacheDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("cleared %d entries, want 3", n)
	}
	left, _ := os.ReadDir(dir)
	if len(left) != 1 || left[0].Name() != "stray" {
		t.Errorf("remaining = %v, want only stray", left)
	}

	if n, err := clearCacheDir(filepath.Join(dir, "missing")); err != nil || n != 0 {
		t.Errorf("missing dir = (%d, %v), want (0, nil)", n, err)
	}
}

func TestCachePathCommand(t *testing.T) {
	cacheHome := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", cacheHome)

	out, err := runCLI(t, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := strings.TrimSpace(out), filepath.Join(cacheHome, appName); got != want {
		t.Errorf("cache path = %q, want %q", got, want)
	}
}

func TestVerboseFlagLowersLevel(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	captureOutput(t)

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"-v", "cache", "path"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := c.Logger.GetLevel(); got != LogDebug {
		t.Errorf("level = %v, want debug", got)
	}
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		out, err := runCLI(t, "completion", shell)
		if err != nil {
			t.Fatalf("%s: %v", shell, err)
		}
		if !strings.Contains(out, "nightsky") {
			t.Errorf("%s script does not mention nightsky", shell)
		}
	}
	if _, err := runCLI(t, "completion", "tcsh"); err == nil {
		t.Error("unsupported shell should fail")
	}
}

func TestNodeListModel(t *testing.T) {
	nodes := []viewer.NodeState{{ID: "Aurora"}, {ID: "Borealis"}, {ID: "Cygnus"}}
	m := NewNodeListModel(nodes)
	m.Height = 2

	press := func(m NodeListModel, key string) NodeListModel {
		var msg tea.KeyMsg
		switch key {
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
		}
		next, _ := m.Update(msg)
		return next.(NodeListModel)
	}

	m = press(m, "down")
	m = press(m, "down")
	m = press(m, "down")
	if m.Cursor != 2 || m.Offset != 1 {
		t.Errorf("cursor/offset = %d/%d, want 2/1", m.Cursor, m.Offset)
	}
	if view := m.View(); !strings.Contains(view, "Cygnus") || strings.Contains(view, "Aurora") {
		t.Errorf("view should scroll past Aurora:\n%s", view)
	}

	m = press(m, "g")
	if m.Cursor != 0 || m.Offset != 0 {
		t.Errorf("after g cursor/offset = %d/%d, want 0/0", m.Cursor, m.Offset)
	}
	m = press(m, "G")
	m = press(m, "up")
	m = press(m, "enter")
	if m.Selected == nil || m.Selected.ID != "Borealis" {
		t.Errorf("selected = %+v, want Borealis", m.Selected)
	}
}

func TestNodeListModelEmpty(t *testing.T) {
	m := NewNodeListModel(nil)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if next.(NodeListModel).Selected != nil {
		t.Error("empty list should select nothing")
	}
	if cmd == nil {
		t.Error("enter on an empty list should quit")
	}
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	h := logHooks{logger: newLogger(&buf, log.DebugLevel)}
	ctx := context.Background()

	h.OnClick(ctx, 1, 2, "Aurora")
	h.OnClick(ctx, 3, 4, "")
	h.OnFilter(ctx, 0, 3, true)

	var got []string
	for _, want := range []string{"click", "click missed", "filter"} {
		if strings.Contains(buf.String(), want) {
			got = append(got, want)
		}
	}
	if diff := cmp.Diff([]string{"click", "click missed", "filter"}, got); diff != "" {
		t.Errorf("logged events (-want +got):\n%s", diff)
	}
}

func TestDisplayAddr(t *testing.T) {
	if got := displayAddr(":8080"); got != "localhost:8080" {
		t.Errorf("displayAddr(:8080) = %q", got)
	}
	if got := displayAddr("0.0.0.0:80"); got != "0.0.0.0:80" {
		t.Errorf("displayAddr(0.0.0.0:80) = %q", got)
	}
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nightsky", "config.toml")

	if _, err := runCLI(t, "--config", path, "config", "init"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config not written: %v", err)
	}
	if _, err := runCLI(t, "--config", path, "config", "init"); err == nil {
		t.Error("second init without --force should fail")
	}
	if _, err := runCLI(t, "--config", path, "config", "init", "--force"); err != nil {
		t.Errorf("init --force: %v", err)
	}

	out, err := runCLI(t, "--config", path, "config", "path")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != path {
		t.Errorf("config path = %q, want %q", strings.TrimSpace(out), path)
	}
}
