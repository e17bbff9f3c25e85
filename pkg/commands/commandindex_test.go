package commands_test

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qysp/pterobot/pkg/commands"
	"github.com/qysp/pterobot/pkg/common/config"
	"github.com/qysp/pterobot/pkg/embed"
	"github.com/qysp/pterobot/pkg/models"
	"github.com/qysp/pterobot/pkg/panel"
	"github.com/qysp/pterobot/pkg/panel/paneltest"
	"github.com/qysp/pterobot/pkg/states"
)

type recorder struct {
	deferred int
	replies  []*embed.Envelope
}

func (r *recorder) Defer() error {
	r.deferred++
	return nil
}

func (r *recorder) Reply(e *embed.Envelope) error {
	r.replies = append(r.replies, e)
	return nil
}

func (r *recorder) only(t *testing.T) *embed.Envelope {
	t.Helper()
	require.Len(t, r.replies, 1)
	return r.replies[0]
}

type fakeAudit struct {
	mu     sync.Mutex
	events []*models.PowerEvent
}

func (a *fakeAudit) Record(ctx context.Context, event *models.PowerEvent) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, event)
	return nil
}

type fixture struct {
	index *commands.CommandIndex
	panel *paneltest.Server
	audit *fakeAudit
}

func setup(t *testing.T, state, proxyID string) *fixture {
	s := paneltest.New(t, state)
	audit := &fakeAudit{}

	cfg := &config.Config{
		Gateway:       config.GatewayDiscordgo,
		CommandPrefix: "!",
		ServerID:      "primary",
		ProxyServerID: proxyID,
		HelpFooter:    "Created by the server team",
	}

	index := commands.Init(commands.Deps{
		Config: cfg,
		Panel:  panel.NewClient(s.Client(), s.URL, paneltest.Token, "primary", s.PlayersURL()),
		Formatter: &embed.Formatter{
			Address: "mc.example.com",
			Now:     func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) },
		},
		Audit: audit,
	})

	return &fixture{index: index, panel: s, audit: audit}
}

func (f *fixture) run(t *testing.T, name string, args ...string) (*recorder, error) {
	t.Helper()
	cmd := f.index.Get(name)
	require.NotNil(t, cmd, "command %q is not registered", name)

	r := &recorder{}
	err := cmd.Execute(context.Background(), states.New(name, args, "user-1", r))
	return r, err
}

func TestIndex_Registration(t *testing.T) {
	f := setup(t, "offline", "")

	var names []string
	for _, cmd := range f.index.List() {
		names = append(names, cmd.Name())
	}
	assert.Equal(t, []string{"status", "start", "restart", "help"}, names)

	assert.False(t, f.index.Has("start-server"))
	assert.Nil(t, f.index.Get("stop"))
}

func TestHelp_NoNetwork(t *testing.T) {
	f := setup(t, "running", "")

	r, err := f.run(t, "help")
	require.NoError(t, err)

	e := r.only(t)
	assert.Equal(t, "Server manager", e.Title)
	assert.Equal(t, embed.ColorInfo, e.Color)
	assert.Equal(t, "Created by the server team", e.Footer)
	require.Len(t, e.Fields, 4)
	assert.Equal(t, "`/status`", e.Fields[0].Name)
	assert.Equal(t, "`/help`", e.Fields[3].Name)

	assert.Zero(t, r.deferred)
	assert.Zero(t, f.panel.TotalCalls())
}

func TestHelp_CommandUsage(t *testing.T) {
	f := setup(t, "running", "")

	r, err := f.run(t, "help", "START")
	require.NoError(t, err)

	e := r.only(t)
	assert.Equal(t, `Command "start" usage`, e.Title)
	assert.Contains(t, e.Description, "`/start`")
	assert.Empty(t, e.Fields)
	assert.Zero(t, f.panel.TotalCalls())
}

func TestHelp_UnknownCommand(t *testing.T) {
	f := setup(t, "running", "")

	r, err := f.run(t, "help", "stop")
	require.NoError(t, err)

	e := r.only(t)
	assert.Equal(t, embed.ColorWarning, e.Color)
	assert.Contains(t, e.Description, "Unknown command `stop`.")
}

func TestStatus_RunningWithPlayers(t *testing.T) {
	f := setup(t, "running", "")
	f.panel.Players = []string{"Alice", "Bob"}

	r, err := f.run(t, "status")
	require.NoError(t, err)

	e := r.only(t)
	assert.Equal(t, embed.ColorSuccess, e.Color)
	assert.Contains(t, e.Description, "Server is **online**")
	assert.Contains(t, e.Description, "Players (2): Alice, Bob")
	assert.Nil(t, e.Button)
	assert.Equal(t, 1, r.deferred)
}

func TestStatus_EscapesPlayerNames(t *testing.T) {
	f := setup(t, "running", "")
	f.panel.Players = []string{"a_b", `c\d`}

	r, err := f.run(t, "status")
	require.NoError(t, err)

	assert.Contains(t, r.only(t).Description, `Players (2): a\_b, c\\d`)
}

func TestStatus_RunningWithoutPlayers(t *testing.T) {
	f := setup(t, "running", "")

	r, err := f.run(t, "status")
	require.NoError(t, err)

	assert.Contains(t, r.only(t).Description, "No players connected")
}

func TestStatus_Offline(t *testing.T) {
	for _, state := range []string{"offline", "stopping"} {
		t.Run(state, func(t *testing.T) {
			f := setup(t, state, "")

			r, err := f.run(t, "status")
			require.NoError(t, err)

			e := r.only(t)
			assert.Equal(t, embed.ColorInfo, e.Color)
			assert.Contains(t, e.Description, "Server is **offline**")
			assert.Contains(t, e.Description, "Use `/start` to start the server.")
			require.NotNil(t, e.Button)
			assert.Equal(t, "start-server", e.Button.ID)
			assert.Zero(t, f.panel.PlayersCalls())
		})
	}
}

func TestStatus_Starting(t *testing.T) {
	f := setup(t, "starting", "")

	r, err := f.run(t, "status")
	require.NoError(t, err)

	e := r.only(t)
	assert.Equal(t, embed.ColorInfo, e.Color)
	assert.Equal(t, "Server is currently **starting**", e.Description)
	assert.Nil(t, e.Button)
}

func TestStatus_UnknownState(t *testing.T) {
	f := setup(t, "hibernating", "")

	r, err := f.run(t, "status")
	require.NoError(t, err)

	e := r.only(t)
	assert.Equal(t, embed.ColorError, e.Color)
	assert.Contains(t, e.Description, "Unhandled 200!")
	assert.Contains(t, e.Description, `"current_state": "hibernating"`)
}

func TestStatus_UnexpectedHTTPStatus(t *testing.T) {
	f := setup(t, "running", "")
	f.panel.ResourcesStatus = http.StatusBadGateway
	f.panel.ResourcesBody = `{"errors":[{"code":"HttpException"}]}`

	r, err := f.run(t, "status")
	require.NoError(t, err)

	e := r.only(t)
	assert.Equal(t, embed.ColorError, e.Color)
	assert.Contains(t, e.Description, "Unhandled 502!")
	assert.Contains(t, e.Description, `"code": "HttpException"`)
}

func TestStatus_PlayerListFailureIsNotReplied(t *testing.T) {
	f := setup(t, "running", "")
	f.panel.PlayersStatus = http.StatusInternalServerError

	r, err := f.run(t, "status")
	require.Error(t, err)
	assert.Empty(t, r.replies)
}

func TestStart_AlreadyRunning(t *testing.T) {
	f := setup(t, "running", "proxy")

	r, err := f.run(t, "start")
	require.NoError(t, err)

	e := r.only(t)
	assert.Equal(t, embed.ColorError, e.Color)
	assert.Equal(t, "Server is already running!", e.Description)
	assert.Empty(t, f.panel.PowerCalls())
	assert.Empty(t, f.audit.events)
}

func TestRestart_AlreadyRunning(t *testing.T) {
	f := setup(t, "running", "")

	r, err := f.run(t, "restart")
	require.NoError(t, err)

	assert.Equal(t, embed.ColorError, r.only(t).Color)
	assert.Empty(t, f.panel.PowerCalls())
}

func TestStart_Offline(t *testing.T) {
	f := setup(t, "offline", "")

	r, err := f.run(t, "start")
	require.NoError(t, err)

	e := r.only(t)
	assert.Equal(t, embed.ColorSuccess, e.Color)
	assert.Contains(t, e.Description, "60 seconds")
	assert.Contains(t, e.Footer, "Expected online around ")
	assert.Equal(t, []paneltest.PowerCall{{ServerID: "primary", Signal: "start"}}, f.panel.PowerCalls())

	require.Len(t, f.audit.events, 1)
	assert.Equal(t, "start", f.audit.events[0].Signal)
	assert.Equal(t, "user-1", f.audit.events[0].UserID)
	assert.True(t, f.audit.events[0].Succeeded)
}

func TestStart_ProxyFailureIsIgnored(t *testing.T) {
	f := setup(t, "offline", "proxy")
	f.panel.PowerStatus["proxy"] = http.StatusInternalServerError

	r, err := f.run(t, "start")
	require.NoError(t, err)

	assert.Equal(t, embed.ColorSuccess, r.only(t).Color)
	assert.ElementsMatch(t, []paneltest.PowerCall{
		{ServerID: "primary", Signal: "start"},
		{ServerID: "proxy", Signal: "start"},
	}, f.panel.PowerCalls())
}

func TestStart_FromStopping(t *testing.T) {
	f := setup(t, "stopping", "")

	r, err := f.run(t, "start")
	require.NoError(t, err)

	assert.Equal(t, embed.ColorSuccess, r.only(t).Color)
	assert.Len(t, f.panel.PowerCalls(), 1)
}

func TestRestart_SignalsPrimaryAndStartsProxy(t *testing.T) {
	f := setup(t, "offline", "proxy")

	r, err := f.run(t, "restart")
	require.NoError(t, err)

	e := r.only(t)
	assert.Equal(t, embed.ColorSuccess, e.Color)
	assert.Contains(t, e.Description, "Server restarted!")
	assert.ElementsMatch(t, []paneltest.PowerCall{
		{ServerID: "primary", Signal: "restart"},
		{ServerID: "proxy", Signal: "start"},
	}, f.panel.PowerCalls())
}

func TestStart_PrimaryFailure(t *testing.T) {
	f := setup(t, "offline", "")
	f.panel.PowerStatus["primary"] = http.StatusConflict

	r, err := f.run(t, "start")
	require.NoError(t, err)

	e := r.only(t)
	assert.Equal(t, embed.ColorError, e.Color)
	assert.Contains(t, e.Description, "Could not send the start signal.")

	require.Len(t, f.audit.events, 1)
	assert.False(t, f.audit.events[0].Succeeded)
	assert.Contains(t, f.audit.events[0].Error, "409")
}

func TestStart_UnexpectedHTTPStatus(t *testing.T) {
	f := setup(t, "offline", "")
	f.panel.ResourcesStatus = http.StatusUnauthorized

	r, err := f.run(t, "start")
	require.NoError(t, err)

	assert.Contains(t, r.only(t).Description, "Unhandled 401!")
	assert.Empty(t, f.panel.PowerCalls())
}
