package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	bookmarkHandler "linkshelf/internal/bookmark/handler"
	"linkshelf/internal/bookmark/models"
	bookmarkService "linkshelf/internal/bookmark/service"
	bookmarkStore "linkshelf/internal/bookmark/store"
	httpapi "linkshelf/internal/http"
	"linkshelf/internal/session"
	"linkshelf/pkg/types"
)

type CLISuite struct {
	suite.Suite
	server   *httptest.Server
	cacheDir string
}

func TestCLISuite(t *testing.T) {
	suite.Run(t, new(CLISuite))
}

func (s *CLISuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc, err := bookmarkService.New(bookmarkStore.NewInMemory(),
		bookmarkService.WithLogger(logger),
		bookmarkService.WithDefaultSet([]models.Bookmark{
			{Name: "ChatGPT", URL: "https://chatgpt.com", Type: "chat", Region: "us"},
			{Name: "Kimi", URL: "https://kimi.moonshot.cn", Type: "chat", Region: "cn"},
			{Name: "Suno", URL: "https://suno.com", Type: "audio", Region: "us"},
		}),
	)
	s.Require().NoError(err)
	creds, err := session.NewCredentials("admin@example.com", "pw", "")
	s.Require().NoError(err)
	sessions := session.New(creds, session.NewSigner("key", "linkshelf", time.Hour), session.WithLogger(logger))

	s.server = httptest.NewServer(httpapi.NewRouter(httpapi.Config{
		Logger:  logger,
		Session: session.Middleware(sessions),
		Modules: []httpapi.Registrar{
			bookmarkHandler.New(svc, logger),
			session.NewHandler(sessions, logger, false),
		},
	}))
	s.cacheDir = s.T().TempDir()
}

func (s *CLISuite) TearDownTest() {
	s.server.Close()
}

func (s *CLISuite) run(args ...string) (string, error) {
	out, _, err := s.execute(append([]string{"--no-pins"}, args...)...)
	return out, err
}

// execute returns stdout and stderr separately.
func (s *CLISuite) execute(args ...string) (string, string, error) {
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs(append([]string{"--server", s.server.URL, "--cache-dir", s.cacheDir}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func (s *CLISuite) list(args ...string) []types.Bookmark {
	out, err := s.run(append([]string{"list", "--json"}, args...)...)
	s.Require().NoError(err)
	var items []types.Bookmark
	s.Require().NoError(json.Unmarshal([]byte(out), &items))
	return items
}

func names(items []types.Bookmark) []string {
	out := make([]string, len(items))
	for i, b := range items {
		out[i] = b.Name
	}
	return out
}

func (s *CLISuite) TestListAndFilter() {
	s.Equal([]string{"ChatGPT", "Kimi", "Suno"}, names(s.list()))
	s.Equal([]string{"Kimi"}, names(s.list("--region", "CN")))
	s.Equal([]string{"Suno"}, names(s.list("-q", "audio")))

	out, err := s.run("list")
	s.Require().NoError(err)
	s.Contains(out, "NAME")
	s.Contains(out, "kimi.moonshot.cn")
}

func (s *CLISuite) TestOptions() {
	out, err := s.run("options")
	s.Require().NoError(err)
	s.Contains(out, "types:   audio, chat")
	s.Contains(out, "regions: cn, us")
}

func (s *CLISuite) TestAddAndMove() {
	out, err := s.run("add", "Grok", "grok.com", "--type", "chat")
	s.Require().NoError(err)
	s.Contains(out, "added Grok")

	items := s.list()
	s.Equal([]string{"ChatGPT", "Kimi", "Suno", "Grok"}, names(items), "server appends at the end")
	s.Equal("https://grok.com", items[3].URL)

	_, err = s.run("move", "4", "1")
	s.Require().NoError(err)
	s.Equal([]string{"Grok", "ChatGPT", "Kimi", "Suno"}, names(s.list()))

	_, err = s.run("move", "0", "1")
	s.ErrorContains(err, "invalid position")
}

func (s *CLISuite) TestAdminCommandsNeedLogin() {
	id := s.list()[0].ID

	_, err := s.run("rm", id)
	s.ErrorContains(err, "linkctl login")

	_, err = s.run("login", "--email", "admin@example.com", "--password", "wrong")
	s.ErrorContains(err, "login rejected")

	_, err = s.run("login", "--email", "admin@example.com", "--password", "pw")
	s.Require().NoError(err)
	out, err := s.run("status")
	s.Require().NoError(err)
	s.Equal("admin\n", out)

	_, err = s.run("edit", id, "--name", "ChatGPT 5")
	s.Require().NoError(err)
	s.Equal("ChatGPT 5", s.list()[0].Name)

	_, err = s.run("rm", id)
	s.Require().NoError(err)
	s.Equal([]string{"Kimi", "Suno"}, names(s.list()))

	_, err = s.run("logout")
	s.Require().NoError(err)
	out, err = s.run("status")
	s.Require().NoError(err)
	s.Equal("visitor\n", out)
}

func (s *CLISuite) TestReset() {
	_, err := s.run("add", "Extra", "https://extra.example")
	s.Require().NoError(err)

	out, err := s.run("reset")
	s.Require().NoError(err)
	s.Contains(out, "reset to 3 bookmarks")
	s.Equal([]string{"ChatGPT", "Kimi", "Suno"}, names(s.list()))
}

func (s *CLISuite) TestCachedListWhenServerIsDown() {
	s.Len(s.list(), 3)
	s.server.Close()

	s.Equal([]string{"ChatGPT", "Kimi", "Suno"}, names(s.list()))

	out, errOut, err := s.execute("--no-pins", "move", "3", "1")
	s.Require().NoError(err, "the local move still succeeds")
	s.Contains(errOut, "showing cached collection")
	s.Contains(errOut, "new order not saved")
	s.Less(strings.Index(out, "Suno"), strings.Index(out, "ChatGPT"))
}

func (s *CLISuite) TestMoveAppliesToPinnedOrder() {
	_, err := s.run("add", "Gemini", "https://gemini.google.com", "--type", "chat")
	s.Require().NoError(err)

	out, _, err := s.execute("move", "1", "2")
	s.Require().NoError(err)

	want := []string{"Gemini", "ChatGPT", "Kimi", "Grok", "Suno", "NotebookLM"}
	s.Equal(want, names(s.list()), "server holds the move applied on top of the pin placement")
	s.Less(strings.Index(out, "gemini.google.com"), strings.Index(out, "chatgpt.com"))
}
