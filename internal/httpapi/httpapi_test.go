package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/tpanel/helpers"
	"github.com/temoto/tpanel/internal/engine"
	"github.com/temoto/tpanel/internal/panel"
	"github.com/temoto/tpanel/internal/project"
	"github.com/temoto/tpanel/internal/render"
	"github.com/temoto/tpanel/internal/tele"
	"github.com/temoto/tpanel/log2"
)

func newTestServer(t testing.TB) (*Server, *panel.Panel) {
	log := log2.NewTest(t, log2.LDebug)
	eng := engine.NewEngine(log)
	p := panel.New(log, eng, project.MustSample(t), &render.Recorder{}, &tele.Recorder{}, &helpers.ManualClock{}, panel.Config{Version: "1.0"})
	return New(log, p, "test"), p
}

func do(t testing.TB, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)
	w := do(t, s, "GET", "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestCommandAndStatus(t *testing.T) {
	t.Parallel()
	s, p := newTestServer(t)

	w := do(t, s, "POST", "/api/command", "PAGE-Main\n\n@PPN-Popup1\n@PPN-Toast\n")
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	assert.Equal(t, "Main", p.Registry.Active().Name)

	w = do(t, s, "GET", "/api/status", "")
	require.Equal(t, http.StatusOK, w.Code)
	var st Status
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &st))
	assert.Equal(t, "Main", st.Page)
	assert.Equal(t, 1, st.PageID)
	assert.Equal(t, "1.0", st.Version)
	require.Len(t, st.Popups, 2)
	assert.Equal(t, "Toast", st.Popups[0].Name)
	assert.Equal(t, "Popup1", st.Popups[1].Name)
	assert.Greater(t, st.Popups[0].Z, st.Popups[1].Z)
	assert.Equal(t, "A", st.Popups[1].Group)
	assert.Equal(t, uint64(3), st.Processed)
}

func TestCommandPort(t *testing.T) {
	t.Parallel()
	s, p := newTestServer(t)
	do(t, s, "POST", "/api/command", "PAGE-Lights")

	w := do(t, s, "POST", "/api/command?port=5", "ON-200")
	require.Equal(t, http.StatusAccepted, w.Code)
	lamp := p.Registry.GetPage(12).Button(3)
	require.NotNil(t, lamp)
	assert.True(t, lamp.Active)
}

func TestCommandErrors(t *testing.T) {
	t.Parallel()
	s, p := newTestServer(t)

	type Case struct {
		name   string
		target string
		body   string
		code   int
	}
	cases := []Case{
		{"empty", "/api/command", "\n \n", http.StatusBadRequest},
		{"unknown", "/api/command", "PAGE-Lights\nNOPE-1", http.StatusNotFound},
		{"port", "/api/command?port=x", "PAGE-Lights", http.StatusBadRequest},
	}
	for _, c := range cases {
		w := do(t, s, "POST", c.target, c.body)
		assert.Equal(t, c.code, w.Code, c.name)
		assert.Contains(t, w.Body.String(), `"error"`, c.name)
	}
	// rejected requests submit nothing
	assert.Nil(t, p.Registry.Active())
	assert.Equal(t, uint64(0), p.Engine.Stats().Processed)
}

func TestPages(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)
	do(t, s, "POST", "/api/command", "PAGE-Main\nPAGE-Lights\n@PPN-Dialog\n@PPM-Dialog;modal")

	w := do(t, s, "GET", "/api/pages", "")
	require.Equal(t, http.StatusOK, w.Code)
	var ps Pages
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ps))
	names := map[string]PageStatus{}
	for _, p := range ps.Pages {
		names[p.Name] = p
	}
	require.Contains(t, names, "Lights")
	require.Contains(t, names, "Main")
	assert.True(t, names["Lights"].Active)
	assert.False(t, names["Main"].Active)
	assert.Equal(t, []string{"Dialog"}, names["Lights"].Popups)
	require.Len(t, ps.Popups, 1)
	assert.Equal(t, "visible", ps.Popups[0].State)
	assert.True(t, ps.Popups[0].Modal)
}
