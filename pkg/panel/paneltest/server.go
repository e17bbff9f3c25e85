// Package paneltest provides an in-memory panel and player list for tests.
package paneltest

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Token is the bearer token the fake panel accepts.
const Token = "test-token"

// PowerCall records a power request received by the fake panel.
type PowerCall struct {
	ServerID string
	Signal   string
}

// Server is a fake panel API plus player list endpoint.
type Server struct {
	*httptest.Server

	mu sync.Mutex

	// ResourcesStatus and ResourcesBody override the resources answer when set.
	ResourcesStatus int
	ResourcesBody   string

	State   string
	Players []string

	// PlayersStatus overrides the player list status when set.
	PlayersStatus int

	// PowerStatus maps a server id to the status its power endpoint answers with.
	// Missing ids answer 204.
	PowerStatus map[string]int

	resourcesCalls int
	playersCalls   int
	powerCalls     []PowerCall
}

// New starts a fake panel reporting state. It is closed when the test ends.
func New(t testing.TB, state string) *Server {
	s := &Server{
		State:       state,
		PowerStatus: map[string]int{},
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// PlayersURL is the player list endpoint of the fake.
func (s *Server) PlayersURL() string {
	return s.URL + "/players"
}

// ResourcesCalls returns how many resources queries were received.
func (s *Server) ResourcesCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resourcesCalls
}

// PlayersCalls returns how many player list queries were received.
func (s *Server) PlayersCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playersCalls
}

// PowerCalls returns the received power requests.
func (s *Server) PowerCalls() []PowerCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]PowerCall(nil), s.powerCalls...)
}

// TotalCalls returns the number of requests of any kind.
func (s *Server) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resourcesCalls + s.playersCalls + len(s.powerCalls)
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.URL.Path == "/players" {
		s.playersCalls++
		if s.PlayersStatus != 0 {
			w.WriteHeader(s.PlayersStatus)
			return
		}
		players := s.Players
		if players == nil {
			players = []string{}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string][]string{"players": players})
		return
	}

	if r.Header.Get("Authorization") != "Bearer "+Token {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/api/client/servers/"), "/")
	if len(parts) != 2 {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	serverID, endpoint := parts[0], parts[1]

	switch {
	case endpoint == "resources" && r.Method == http.MethodGet:
		s.resourcesCalls++
		if s.ResourcesStatus != 0 {
			w.WriteHeader(s.ResourcesStatus)
			_, _ = io.WriteString(w, s.ResourcesBody)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if s.ResourcesBody != "" {
			_, _ = io.WriteString(w, s.ResourcesBody)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"object": "stats",
			"attributes": map[string]interface{}{
				"current_state": s.State,
			},
		})
	case endpoint == "power" && r.Method == http.MethodPost:
		var body struct {
			Signal string `json:"signal"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		s.powerCalls = append(s.powerCalls, PowerCall{ServerID: serverID, Signal: body.Signal})
		status, ok := s.PowerStatus[serverID]
		if !ok {
			status = http.StatusNoContent
		}
		w.WriteHeader(status)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}
