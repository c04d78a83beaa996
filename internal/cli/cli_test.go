package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"botnology/internal/bridge"
)

func runCLI(t *testing.T, app *App, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	if app == nil {
		app = &App{}
	}
	cmd := newRootCmd(app)

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)

	e := app.execute(cmd)
	return outBuf.Bytes(), errBuf.Bytes(), e
}

// isolate points the config dir at a temp dir so nothing under ~/.botnology is touched.
func isolate(t *testing.T) string {
	t.Helper()
	cfgDir := t.TempDir()
	t.Setenv("BOTNOLOGY_CONFIG_DIR", cfgDir)
	t.Setenv("BOTNOLOGY_DIR", "")
	t.Setenv("BOTNOLOGY_API_BASE_URL", "")
	return cfgDir
}

func mustRun(t *testing.T, app *App, args ...string) map[string]any {
	t.Helper()
	stdout, stderr, err := runCLI(t, app, args)
	if err != nil {
		t.Fatalf("command failed: botnology %v\nerr: %v\nstderr:\n%s\nstdout:\n%s", args, err, stderr, stdout)
	}
	var env map[string]any
	if err := json.Unmarshal(stdout, &env); err != nil {
		t.Fatalf("unmarshal stdout as json envelope: %v\nstdout:\n%s\nargs: %v", err, stdout, args)
	}
	if _, ok := env["data"]; !ok {
		t.Fatalf("expected JSON envelope to contain data key; got: %v", env)
	}
	return env
}

func TestCLI_ProjectsLifecycle(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	list := mustRun(t, nil, "--dir", dir, "projects", "list")
	rows, _ := list["data"].([]any)
	if len(rows) != 3 {
		t.Fatalf("expected seeded projects; got %v", list["data"])
	}

	created := mustRun(t, nil, "--dir", dir, "projects", "create", "Linear", "Algebra")
	data := created["data"].(map[string]any)
	if data["changed"] != true {
		t.Fatalf("expected changed=true; got %v", data)
	}
	proj := data["project"].(map[string]any)
	id, _ := proj["id"].(string)
	if proj["name"] != "Linear Algebra" || proj["active"] != true || id == "" {
		t.Fatalf("unexpected created project: %v", proj)
	}

	renamed := mustRun(t, nil, "--dir", dir, "projects", "rename", "linear algebra", "Linear", "Algebra", "I")
	if got := renamed["data"].(map[string]any)["project"].(map[string]any)["name"]; got != "Linear Algebra I" {
		t.Fatalf("expected rename by name; got %v", got)
	}

	status := mustRun(t, nil, "--dir", dir, "projects", "status", id, "needs", "love")
	if got := status["data"].(map[string]any)["project"].(map[string]any)["status"]; got != "NEEDS LOVE" {
		t.Fatalf("expected upper-cased status; got %v", got)
	}

	noop := mustRun(t, nil, "--dir", dir, "projects", "select", "proj-does-not-exist")
	if noop["data"].(map[string]any)["changed"] != false {
		t.Fatalf("expected unknown selection to be a no-op; got %v", noop["data"])
	}

	del := mustRun(t, nil, "--dir", dir, "projects", "rm", id)
	if del["data"].(map[string]any)["changed"] != true {
		t.Fatalf("expected delete to change; got %v", del["data"])
	}
	list = mustRun(t, nil, "--dir", dir, "projects", "list")
	if rows, _ := list["data"].([]any); len(rows) != 3 {
		t.Fatalf("expected 3 projects after delete; got %d", len(rows))
	}
}

func TestCLI_FoldersAndFiles(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	mustRun(t, nil, "--dir", dir, "folders", "create", "Labs")
	src := filepath.Join(t.TempDir(), "lab1.txt")
	if err := os.WriteFile(src, []byte("titration results\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	added := mustRun(t, nil, "--dir", dir, "files", "add", src)
	files, _ := added["data"].(map[string]any)["files"].([]any)
	if len(files) != 1 {
		t.Fatalf("expected one added file; got %v", added["data"])
	}
	f := files[0].(map[string]any)
	if f["name"] != "lab1.txt" || f["size"] != float64(18) {
		t.Fatalf("unexpected file record: %v", f)
	}

	filtered := mustRun(t, nil, "--dir", dir, "files", "list", "--folder", "labs")
	if rows, _ := filtered["data"].([]any); len(rows) != 1 {
		t.Fatalf("expected folder filter to find the upload; got %v", filtered["data"])
	}

	folders := mustRun(t, nil, "--dir", dir, "folders", "list")
	first := folders["data"].([]any)[0].(map[string]any)
	if first["name"] != "Labs" || first["files"] != float64(1) {
		t.Fatalf("unexpected folder row: %v", first)
	}
}

func TestCLI_SettingsPlanValidation(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	out := mustRun(t, nil, "--dir", dir, "settings", "plan", "yearly_pro")
	if got := out["data"].(map[string]any)["plan"]; got != "YEARLY_PRO" {
		t.Fatalf("expected YEARLY_PRO; got %v", got)
	}

	_, stderr, err := runCLI(t, nil, []string{"--dir", dir, "settings", "plan", "platinum"})
	if err == nil {
		t.Fatalf("expected invalid plan to fail")
	}
	if !strings.Contains(string(stderr), "expected one of FREE, SEMI_PRO, PRO, YEARLY_PRO") {
		t.Fatalf("unexpected stderr: %s", stderr)
	}
}

func TestCLI_ExportImportRoundTrip(t *testing.T) {
	isolate(t)
	src := t.TempDir()
	dst := t.TempDir()

	mustRun(t, nil, "--dir", src, "settings", "name", "Ada", "Lovelace")
	out := filepath.Join(t.TempDir(), "ws.json")
	mustRun(t, nil, "--dir", src, "export", "--out", out)

	mustRun(t, nil, "--dir", dst, "import", out)
	show := mustRun(t, nil, "--dir", dst, "settings", "show")
	if got := show["data"].(map[string]any)["studentName"]; got != "Ada Lovelace" {
		t.Fatalf("expected imported name; got %v", got)
	}

	if _, _, err := runCLI(t, nil, []string{"--dir", dst, "clear"}); err == nil {
		t.Fatalf("expected clear without --yes to fail")
	}
	mustRun(t, nil, "--dir", dst, "clear", "--yes")
	show = mustRun(t, nil, "--dir", dst, "settings", "show")
	if got := show["data"].(map[string]any)["studentName"]; got != "Student" {
		t.Fatalf("expected reseeded workspace; got %v", got)
	}
}

func TestCLI_CheckoutOpensReturnedURL(t *testing.T) {
	isolate(t)
	var gotPlan string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/create-checkout-session" {
			http.NotFound(w, r)
			return
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotPlan = body["plan"]
		_, _ = w.Write([]byte(`{"url":"https://pay.example/session/1"}`))
	}))
	defer srv.Close()
	t.Setenv("BOTNOLOGY_API_BASE_URL", srv.URL)

	var opened string
	app := &App{opener: bridge.OpenerFunc(func(u string) error { opened = u; return nil })}
	out := mustRun(t, app, "--dir", t.TempDir(), "checkout", "yearly_pro")

	if gotPlan != "yearly_pro" {
		t.Fatalf("expected lower-case plan id; got %q", gotPlan)
	}
	if opened != "https://pay.example/session/1" {
		t.Fatalf("expected browser to open checkout url; got %q", opened)
	}
	if out["data"].(map[string]any)["opened"] != true {
		t.Fatalf("unexpected output: %v", out["data"])
	}
}

func TestCLI_HealthReportsOffline(t *testing.T) {
	isolate(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()
	t.Setenv("BOTNOLOGY_API_BASE_URL", srv.URL)

	out := mustRun(t, nil, "--dir", t.TempDir(), "health")
	data := out["data"].(map[string]any)
	if data["status"] != "Offline" || data["service"] != "Degraded" {
		t.Fatalf("unexpected health: %v", data)
	}
}

func TestCLI_DashboardRequiresLogin(t *testing.T) {
	isolate(t)
	t.Setenv("BOTNOLOGY_APP_BASE_URL", "https://app.example")

	_, stderr, err := runCLI(t, nil, []string{"--dir", t.TempDir()})
	if err == nil {
		t.Fatalf("expected the dashboard to refuse without a session")
	}
	if !strings.Contains(string(stderr), "https://app.example/login") {
		t.Fatalf("expected login url on stderr; got %s", stderr)
	}
}

// signIn stores a session that stays valid for an hour.
func signIn(t *testing.T, cfgDir string) {
	t.Helper()
	sess := bridge.Session{
		AccessToken: "opaque-token",
		ExpiresAt:   time.Now().Add(time.Hour).Unix(),
		User:        bridge.User{ID: "user-1", Email: "ada@example.com"},
	}
	if err := bridge.SessionFileIn(cfgDir).Save(sess); err != nil {
		t.Fatalf("save session: %v", err)
	}
}

func TestCLI_StaticDashboardRequiresLogin(t *testing.T) {
	cfgDir := isolate(t)
	t.Setenv("BOTNOLOGY_APP_BASE_URL", "https://app.example")
	t.Setenv("NO_COLOR", "1")
	dir := t.TempDir()

	stdout, stderr, err := runCLI(t, nil, []string{"--dir", dir, "dashboard"})
	if !errors.Is(err, bridge.ErrLoginRequired) {
		t.Fatalf("expected login required; got %v", err)
	}
	if len(stdout) != 0 {
		t.Fatalf("expected no dashboard content without a session; got:\n%s", stdout)
	}
	if !strings.Contains(string(stderr), "https://app.example/login") {
		t.Fatalf("expected login url on stderr; got %s", stderr)
	}

	signIn(t, cfgDir)
	stdout, stderr, err = runCLI(t, nil, []string{"--dir", dir, "dashboard"})
	if err != nil {
		t.Fatalf("dashboard with session: %v\n%s", err, stderr)
	}
	if !strings.Contains(string(stdout), "Anatomy & Physiology") {
		t.Fatalf("expected hero cards once signed in; got:\n%s", stdout)
	}
}

func TestCLI_DashboardPrintsStaticRender(t *testing.T) {
	signIn(t, isolate(t))
	t.Setenv("NO_COLOR", "1")

	stdout, stderr, err := runCLI(t, nil, []string{"--dir", t.TempDir(), "dashboard", "--tab", "folders", "--width", "90"})
	if err != nil {
		t.Fatalf("dashboard: %v\n%s", err, stderr)
	}
	out := string(stdout)
	for _, want := range []string{"Anatomy & Physiology", "Lecture Notes", "Dr. Botonic"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}

	if _, _, err := runCLI(t, nil, []string{"--dir", t.TempDir(), "dashboard", "--tab", "nope"}); err == nil {
		t.Fatalf("expected unknown tab to fail")
	}
}

func TestCLI_DeleteNeedsExactReference(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	for _, args := range [][]string{
		{"projects", "delete", "cs"},
		{"projects", "rm", "calc"},
		{"folders", "delete", "lect"},
	} {
		if _, _, err := runCLI(t, nil, append([]string{"--dir", dir}, args...)); err == nil {
			t.Fatalf("expected %v to refuse a partial reference", args)
		}
	}
	list := mustRun(t, nil, "--dir", dir, "projects", "list")
	if rows, _ := list["data"].([]any); len(rows) != 3 {
		t.Fatalf("expected no project deleted; got %d", len(rows))
	}

	del := mustRun(t, nil, "--dir", dir, "projects", "delete", "calculus ii")
	if del["data"].(map[string]any)["changed"] != true {
		t.Fatalf("expected delete by full name; got %v", del["data"])
	}
	del = mustRun(t, nil, "--dir", dir, "folders", "delete", "LECTURE NOTES")
	if del["data"].(map[string]any)["changed"] != true {
		t.Fatalf("expected folder delete by full name; got %v", del["data"])
	}

	sel := mustRun(t, nil, "--dir", dir, "projects", "select", "organic")
	if sel["data"].(map[string]any)["changed"] != true {
		t.Fatalf("expected select to keep fuzzy matching; got %v", sel["data"])
	}
}

func TestCLI_LogClosedWhenCommandFails(t *testing.T) {
	isolate(t)
	app := &App{}
	if _, _, err := runCLI(t, app, []string{"--dir", t.TempDir(), "settings", "plan", "platinum"}); err == nil {
		t.Fatalf("expected invalid plan to fail")
	}
	if app.logCloser != nil {
		t.Fatalf("expected the log file to be closed after a failed command")
	}
}

func TestCLI_EDNOutput(t *testing.T) {
	isolate(t)
	stdout, _, err := runCLI(t, nil, []string{"--dir", t.TempDir(), "--format", "edn", "settings", "show"})
	if err != nil {
		t.Fatalf("settings show: %v", err)
	}
	if !strings.Contains(string(stdout), ":student-name \"Student\"") {
		t.Fatalf("expected EDN keywords; got %s", stdout)
	}
}

func TestCLI_DocsAndPublish(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	topics := mustRun(t, nil, "--dir", dir, "docs")
	if got, _ := topics["data"].(map[string]any)["topics"].([]any); len(got) == 0 {
		t.Fatalf("expected docs topics; got %v", topics["data"])
	}
	stdout, _, err := runCLI(t, nil, []string{"--dir", dir, "docs", "plans", "--raw"})
	if err != nil || !strings.HasPrefix(string(stdout), "# Plans") {
		t.Fatalf("docs --raw: err=%v out=%q", err, stdout)
	}
	if _, _, err := runCLI(t, nil, []string{"--dir", dir, "docs", "nope"}); err == nil {
		t.Fatalf("expected unknown topic to fail")
	}

	to := filepath.Join(t.TempDir(), "notes")
	out := mustRun(t, nil, "--dir", dir, "publish", "--to", to)
	written, _ := out["data"].(map[string]any)["written"].([]any)
	if len(written) != 2 {
		t.Fatalf("expected two files written; got %v", out["data"])
	}
	b, err := os.ReadFile(filepath.Join(to, "workspace.md"))
	if err != nil || !strings.Contains(string(b), "Anatomy & Physiology") {
		t.Fatalf("unexpected workspace.md: err=%v\n%s", err, b)
	}
	if _, _, err := runCLI(t, nil, []string{"--dir", dir, "publish", "--to", to}); err == nil {
		t.Fatalf("expected publish to refuse overwriting")
	}
}
