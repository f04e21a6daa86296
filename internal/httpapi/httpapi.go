// Package httpapi serves panel status and accepts commands over HTTP.
package httpapi

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/juju/errors"
	"github.com/temoto/alive/v2"
	"github.com/temoto/tpanel/internal/amx"
	"github.com/temoto/tpanel/internal/engine"
	"github.com/temoto/tpanel/internal/page"
	"github.com/temoto/tpanel/internal/panel"
	"github.com/temoto/tpanel/log2"
)

const maxCommandBody = 64 << 10

type Server struct {
	Log          *log2.Log
	BuildVersion string

	engine *engine.Engine
	panel  *panel.Panel
	router chi.Router
}

func New(log *log2.Log, p *panel.Panel, buildVersion string) *Server {
	self := &Server{
		Log:          log,
		BuildVersion: buildVersion,
		engine:       p.Engine,
		panel:        p,
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  log2.Printer{L: log, Level: log2.LDebug},
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)

	r.Get("/health", self.health)
	r.Route("/api", func(r chi.Router) {
		r.Get("/status", self.status)
		r.Get("/pages", self.pages)
		r.Post("/command", self.command)
	})
	self.router = r
	return self
}

func (self *Server) Handler() http.Handler { return self.router }

// Run serves until a is stopped.
func (self *Server) Run(a *alive.Alive, listen string) error {
	srv := &http.Server{
		Addr:         listen,
		Handler:      self.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		<-a.StopChan()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			self.Log.Errorf("http shutdown err=%v", err)
		}
	}()
	self.Log.Infof("http listen=%s", listen)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return errors.Annotatef(err, "http listen=%s", listen)
	}
	return nil
}

func jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func errorResponse(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]interface{}{
		"error": message,
		"code":  status,
	})
}

type PopupStatus struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Group     string `json:"group,omitempty"`
	Z         int    `json:"z"`
	State     string `json:"state"`
	Modal     bool   `json:"modal,omitempty"`
	Minimized bool   `json:"minimized,omitempty"`
}

type Status struct {
	Version     string        `json:"version"`
	Page        string        `json:"page"`
	PageID      int           `json:"page_id"`
	Previous    string        `json:"previous,omitempty"`
	Popups      []PopupStatus `json:"popups"`
	Processed   uint64        `json:"processed"`
	Dropped     uint64        `json:"dropped"`
	Failed      uint64        `json:"failed"`
	Pending     int           `json:"pending"`
	LastEventMs int64         `json:"last_event_ms"`
}

type PageStatus struct {
	ID     int      `json:"id"`
	Name   string   `json:"name"`
	Active bool     `json:"active,omitempty"`
	Popups []string `json:"popups,omitempty"`
}

type Pages struct {
	Pages  []PageStatus  `json:"pages"`
	Popups []PopupStatus `json:"popups"`
}

func popupStatus(sp *page.SubPage) PopupStatus {
	return PopupStatus{
		ID:        sp.ID,
		Name:      sp.Name,
		Group:     sp.Group,
		Z:         sp.Z,
		State:     sp.State.String(),
		Modal:     sp.Modal,
		Minimized: sp.Minimized(),
	}
}

func (self *Server) health(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"version": self.BuildVersion,
	})
}

func (self *Server) status(w http.ResponseWriter, r *http.Request) {
	st := Status{Version: self.panel.Config().Version, Popups: []PopupStatus{}}
	ok := self.engine.Inspect("http-status", func() {
		reg := self.panel.Registry
		if p := reg.Active(); p != nil {
			st.Page, st.PageID = p.Name, p.ID
			for _, sp := range p.VisibleSubPages() {
				st.Popups = append(st.Popups, popupStatus(sp))
			}
		}
		if p := reg.Previous(); p != nil {
			st.Previous = p.Name
		}
	})
	if !ok {
		errorResponse(w, http.StatusServiceUnavailable, "engine busy")
		return
	}
	stats := self.engine.Stats()
	st.Processed, st.Dropped, st.Failed = stats.Processed, stats.Dropped, stats.Failed
	st.Pending = self.engine.Pending()
	st.LastEventMs = stats.LastEvent.Milliseconds()
	jsonResponse(w, http.StatusOK, st)
}

func (self *Server) pages(w http.ResponseWriter, r *http.Request) {
	result := Pages{Pages: []PageStatus{}, Popups: []PopupStatus{}}
	ok := self.engine.Inspect("http-pages", func() {
		reg := self.panel.Registry
		active := reg.Active()
		for _, p := range reg.Pages() {
			ps := PageStatus{ID: p.ID, Name: p.Name, Active: p == active}
			for _, sp := range p.SubPages() {
				ps.Popups = append(ps.Popups, sp.Name)
			}
			result.Pages = append(result.Pages, ps)
		}
		for _, sp := range reg.SubPages() {
			result.Popups = append(result.Popups, popupStatus(sp))
		}
	})
	if !ok {
		errorResponse(w, http.StatusServiceUnavailable, "engine busy")
		return
	}
	jsonResponse(w, http.StatusOK, result)
}

// command submits every non-empty body line as string event.
// Unknown mnemonics are rejected before anything is submitted.
func (self *Server) command(w http.ResponseWriter, r *http.Request) {
	port := self.panel.Config().SystemPort
	if s := r.URL.Query().Get("port"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			errorResponse(w, http.StatusBadRequest, "invalid port: "+s)
			return
		}
		port = n
	}

	lines := make([]string, 0, 1)
	scanner := bufio.NewScanner(io.LimitReader(r.Body, maxCommandBody))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		mnemonic, _, _ := amx.SplitMnemonic(line)
		if _, err := self.engine.Resolve(mnemonic); err != nil {
			errorResponse(w, http.StatusNotFound, err.Error())
			return
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(lines) == 0 {
		errorResponse(w, http.StatusBadRequest, "empty command")
		return
	}

	for _, line := range lines {
		self.Log.Debugf("http command port=%d text=%s", port, line)
		// queued commands outlive the request
		self.engine.SubmitCommand(context.Background(), port, line)
	}
	jsonResponse(w, http.StatusAccepted, map[string]interface{}{
		"status":   "accepted",
		"commands": len(lines),
	})
}
