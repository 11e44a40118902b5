package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-taxradio/pkg/renderers/tui"
	"github.com/goliatone/go-taxradio/pkg/taxonomy"
)

const fixturePath = "../../pkg/host/yamlhost/testdata/library.yaml"

type scriptedPrompt struct {
	index int
}

func (s scriptedPrompt) Select(context.Context, tui.SelectConfig) (int, error) {
	return s.index, nil
}

func (s scriptedPrompt) Info(context.Context, string) error { return nil }

func execute(t *testing.T, a *app, args ...string) string {
	t.Helper()
	t.Setenv("TAXRADIO_ENV", "local")
	t.Setenv("TAXRADIO_LOG_LEVEL", "error")

	cmd := rootCmd(a)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--fixture", fixturePath, "--env-file", writeEnv(t)}, args...))
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute %v: %v", args, err)
	}
	return out.String()
}

func writeEnv(t *testing.T) string {
	t.Helper()
	path := t.TempDir() + "/.env"
	if err := os.WriteFile(path, []byte("TAXRADIO_NONCE_SECRET=test-secret\n"), 0o600); err != nil {
		t.Fatalf("write env: %v", err)
	}
	return path
}

func TestOptionsCommand_MarksAssignedTerm(t *testing.T) {
	out := execute(t, &app{}, "options", "genre", "--item", "10")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected title and three options, got:\n%s", out)
	}
	if lines[0] != "Genres (tax_input[genre])" {
		t.Fatalf("unexpected header %q", lines[0])
	}
	checked := 0
	for _, line := range lines[1:] {
		if strings.HasPrefix(line, "(*)") {
			checked++
			if !strings.Contains(line, "Rock") {
				t.Fatalf("expected Rock to be checked, got %q", line)
			}
		}
	}
	if checked != 1 {
		t.Fatalf("expected one checked option, got %d:\n%s", checked, out)
	}
}

func TestRenderCommand_WritesPanel(t *testing.T) {
	out := execute(t, &app{}, "render", "category", "--item", "20")

	for _, want := range []string{
		`<div id="category_radio"`,
		`name="tax_input[category][]"`,
		`<input value="5" type="radio" name="tax_input[category][]" id="in-category_tax-5" checked="checked"> News`,
		`name="taxonomy_noncename"`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "in-category_tax-0") {
		t.Fatalf("category must not offer a none option:\n%s", out)
	}
	if got := strings.Count(out, `checked="checked"`); got != 1 {
		t.Fatalf("expected one checked input, got %d", got)
	}
}

func TestRenderCommand_ForceSelectionHidesNone(t *testing.T) {
	out := execute(t, &app{}, "render", "genre", "--renderer", "json", "--force-selection")
	if strings.Contains(out, `"none":true`) {
		t.Fatalf("none option should be hidden:\n%s", out)
	}
}

func TestPickCommand_PrintsSelection(t *testing.T) {
	out := execute(t, &app{prompt: scriptedPrompt{index: 1}}, "pick", "genre", "--item", "10", "--format", "pretty")
	if diff := cmp.Diff("Genres: Jazz\n\n", out); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestPickCommand_SavesSelection(t *testing.T) {
	a := &app{prompt: scriptedPrompt{index: 1}}
	out := execute(t, a, "pick", "genre", "--item", "10", "--save")
	if !strings.Contains(out, "Saved Jazz for item 10") {
		t.Fatalf("unexpected output %q", out)
	}

	assigned, err := a.host.Memory.AssignedTerms(context.Background(), 10, "genre")
	if err != nil {
		t.Fatalf("assigned: %v", err)
	}
	if diff := cmp.Diff([]int64{1}, taxonomy.TermIDs(assigned)); diff != "" {
		t.Fatalf("assignment mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildServer_RoutesAndEditScreen(t *testing.T) {
	t.Setenv("TAXRADIO_LOG_LEVEL", "error")
	a := &app{fixture: fixturePath, nonceSecret: "test-secret", envFile: writeEnv(t)}
	if err := a.init(&cobra.Command{}); err != nil {
		t.Fatalf("init: %v", err)
	}
	defer a.close()

	orch, err := a.orchestrator(&widgetFlags{})
	if err != nil {
		t.Fatalf("orchestrator: %v", err)
	}
	handler, err := buildServer(context.Background(), a, orch, "/", nil)
	if err != nil {
		t.Fatalf("build server: %v", err)
	}
	server := httptest.NewServer(handler)
	defer server.Close()

	resp, err := http.Get(server.URL + "/healthz")
	if err != nil {
		t.Fatalf("healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("healthz status %d", resp.StatusCode)
	}

	resp, err = http.Get(server.URL + "/items/album/10")
	if err != nil {
		t.Fatalf("edit screen: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("edit screen status %d: %s", resp.StatusCode, body)
	}
	if !strings.Contains(string(body), `action="/api/metabox/genre"`) {
		t.Fatalf("edit screen should post to the metabox route:\n%s", body)
	}

	token, err := a.host.Memory.Nonce(context.Background(), "taxonomy_genre")
	if err != nil {
		t.Fatalf("nonce: %v", err)
	}
	form := url.Values{
		"item":               {"10"},
		"taxonomy_noncename": {token},
		"tax_input[genre]":   {"jazz"},
	}
	resp, err = http.PostForm(server.URL+"/api/metabox/genre", form)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("save status %d", resp.StatusCode)
	}
	assigned, err := a.host.Memory.AssignedTerms(context.Background(), 10, "genre")
	if err != nil {
		t.Fatalf("assigned: %v", err)
	}
	if diff := cmp.Diff([]int64{1}, taxonomy.TermIDs(assigned)); diff != "" {
		t.Fatalf("assignment mismatch (-want +got):\n%s", diff)
	}

	resp, err = http.Get(server.URL + "/items/post/404")
	if err != nil {
		t.Fatalf("edit screen: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("post edit screen status %d", resp.StatusCode)
	}

	resp, err = http.Get(server.URL + "/items/page/1")
	if err != nil {
		t.Fatalf("edit screen: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown item type status %d", resp.StatusCode)
	}
}
