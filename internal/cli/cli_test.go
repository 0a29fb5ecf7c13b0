package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/chzyer/readline"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"

	"k24chat/pkg/models"
	"k24chat/pkg/state"
	"k24chat/pkg/store"
)

func writeSnapshot(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	storeDir := state.StorePath(dir)
	if err := os.MkdirAll(storeDir, 0o755); err != nil {
		t.Fatal(err)
	}
	st, err := store.Open(store.NewFilePersister(storeDir))
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	err = st.Update(func(d *models.Data) error {
		d.Users = append(d.Users, models.User{UID: 0, Email: "alice@example.com", Handle: "alicesmith"})
		d.Channels = append(d.Channels, models.Channel{
			ChannelID: 0,
			Name:      "general",
			Messages:  []models.Message{{MessageID: d.NextMessageID(), UID: 0, Message: "hi"}},
		})
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return dir
}

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd(&out)
	cfg := filepath.Join(t.TempDir(), "k24ctl.yaml")
	if err := os.WriteFile(cfg, []byte("server: http://unused\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	root.SetArgs(append([]string{"--config", cfg}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestInspect(t *testing.T) {
	dir := writeSnapshot(t)
	out, err := runCmd(t, "inspect", "--db", dir)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	for _, want := range []string{"Users:     1", "Channels:  1", "Messages:  1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}

	if _, err := runCmd(t, "inspect", "--db", t.TempDir()); err == nil {
		t.Fatalf("expected an error for an empty database")
	}
}

func TestExport(t *testing.T) {
	dir := writeSnapshot(t)
	out, err := runCmd(t, "export", "--db", dir)
	if err != nil {
		t.Fatalf("export json: %v", err)
	}
	d, err := models.Unmarshal([]byte(out))
	if err != nil {
		t.Fatalf("exported json does not load: %v", err)
	}
	if len(d.Channels) != 1 || d.Channels[0].Name != "general" {
		t.Fatalf("exported channels = %+v", d.Channels)
	}

	out, err = runCmd(t, "export", "--db", dir, "--format", "yaml")
	if err != nil {
		t.Fatalf("export yaml: %v", err)
	}
	if !strings.Contains(out, "general") {
		t.Fatalf("yaml export missing channel:\n%s", out)
	}

	if _, err := runCmd(t, "export", "--db", dir, "--format", "xml"); err == nil {
		t.Fatalf("expected an error for an unknown format")
	}
}

func TestConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	in := &Config{Server: "http://chat:8080", Email: "a@b.co", Channel: 3, Backend: "pebble"}
	if err := SaveToFile(in, path); err != nil {
		t.Fatal(err)
	}
	got, err := LoadFromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if *got != *in {
		t.Fatalf("loaded %+v, want %+v", got, in)
	}
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}

type scriptReader struct {
	lines []string
	errs  []error
}

func (s *scriptReader) Readline() (string, error) {
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line, err := s.lines[0], s.errs[0]
	s.lines, s.errs = s.lines[1:], s.errs[1:]
	return line, err
}

func fakeServer(t *testing.T) (*Client, *[]string) {
	t.Helper()
	var sent []string
	ln := fasthttputil.NewInmemoryListener()
	srv := &fasthttp.Server{Handler: func(ctx *fasthttp.RequestCtx) {
		switch string(ctx.Path()) {
		case "/auth/login/v3":
			ctx.SetBodyString(`{"authUserId":0,"token":"tok"}`)
		case "/message/send/v2":
			if string(ctx.Request.Header.Peek("token")) != "tok" {
				ctx.SetStatusCode(fasthttp.StatusForbidden)
				ctx.SetBodyString(`{"error":"invalid token"}`)
				return
			}
			var body struct {
				Message string `json:"message"`
			}
			_ = json.Unmarshal(ctx.PostBody(), &body)
			sent = append(sent, body.Message)
			ctx.SetBodyString(`{"messageId":1}`)
		case "/channel/messages/v3":
			ctx.SetBodyString(`{"messages":[` +
				`{"messageId":2,"uId":-100,"message":"Pong!","timeSent":0,"reacts":[],"isPinned":false},` +
				`{"messageId":1,"uId":0,"message":"/ping","timeSent":0,"reacts":[],"isPinned":false}` +
				`],"start":0,"end":-1}`)
		default:
			ctx.SetStatusCode(fasthttp.StatusNotFound)
		}
	}}
	go func() { _ = srv.Serve(ln) }()
	t.Cleanup(func() { _ = ln.Close() })

	c := NewClient("http://chat.test", time.Second)
	c.http.Dial = func(string) (net.Conn, error) { return ln.Dial() }
	return c, &sent
}

func TestREPL(t *testing.T) {
	c, sent := fakeServer(t)
	if _, err := c.Send(0, "x"); err == nil {
		t.Fatalf("send without login should fail")
	} else if e, ok := err.(*apiError); !ok || e.Status != 403 {
		t.Fatalf("err = %v", err)
	}
	if err := c.Login("alice@example.com", "hunter22"); err != nil {
		t.Fatalf("login: %v", err)
	}

	rl := &scriptReader{
		lines: []string{"/ping", "", "", ":page", ":quit", "after quit"},
		errs:  []error{nil, readline.ErrInterrupt, nil, nil, nil, nil},
	}

	var out bytes.Buffer
	if err := runREPL(c, 0, rl, &out); err != nil {
		t.Fatalf("repl: %v", err)
	}
	if len(*sent) != 1 || (*sent)[0] != "/ping" {
		t.Fatalf("sent = %v", *sent)
	}
	text := out.String()
	if !strings.Contains(text, "Use :quit") {
		t.Fatalf("interrupt hint missing:\n%s", text)
	}
	ping := strings.Index(text, "user 0: /ping")
	pong := strings.Index(text, "K-24 bot: Pong!")
	if ping < 0 || pong < 0 || ping > pong {
		t.Fatalf("page should print oldest first:\n%s", text)
	}
}
