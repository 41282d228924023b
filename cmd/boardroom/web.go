package main

import (
	"context"
	"embed"
	"flag"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jllopis/boardroom/pkg/config"
	"github.com/jllopis/boardroom/pkg/meeting"
	"github.com/jllopis/boardroom/pkg/persona"
	"github.com/jllopis/boardroom/pkg/records"
)

const defaultWebAddr = ":8088"

//go:embed web/templates/*.html web/static/*
var webFS embed.FS

var pageTemplates = map[string]*template.Template{}

type webServer struct {
	cfg         *config.Config
	stores      *records.Stores
	transcripts *meeting.TranscriptStore
	decisions   *meeting.DecisionLog
	orch        *meeting.Orchestrator
	catalog     *meeting.Catalog
}

type pageData struct {
	Title   string
	Company string
	Data    any
}

type dashboardData struct {
	PendingIdeas    int
	ActiveProjects  int
	ActiveTesters   int
	PendingRequests int
	Outstanding     float64
	Recent          []meeting.TranscriptInfo
}

type meetingViewData struct {
	Filename string
	Content  string
}

type agentRow struct {
	ID          string
	Name        string
	Title       string
	Team        string
	Description string
	ReportsTo   string
}

func runWeb(ctx context.Context, flags globalFlags, cfg *config.Config, args []string) {
	flagSet := flag.NewFlagSet("web", flag.ExitOnError)
	addr := flagSet.String("addr", "", "listen address")
	if err := flagSet.Parse(args); err != nil {
		fatal(err)
	}
	ensureNoArgs(flagSet.Args())

	orch, cleanup := buildOrchestrator(cfg)
	defer cleanup()

	catalog := meeting.NewCatalog()
	if cfg.Workspace.CatalogFile != "" {
		if err := catalog.LoadOverrides(cfg.Workspace.Resolve(cfg.Workspace.CatalogFile)); err != nil {
			fatal(err)
		}
	}

	server := &webServer{
		cfg:         cfg,
		stores:      openStores(cfg),
		transcripts: meeting.NewTranscriptStore(cfg.Workspace.MeetingsPath()),
		decisions:   meeting.NewDecisionLog(cfg.Workspace.DecisionsPath()),
		orch:        orch,
		catalog:     catalog,
	}

	mux := http.NewServeMux()
	staticFS, err := fs.Sub(webFS, "web/static")
	if err != nil {
		fatal(err)
	}
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	mux.HandleFunc("/", server.handleDashboard)
	mux.HandleFunc("/meetings", server.handleMeetings)
	mux.HandleFunc("/meetings:run", server.handleMeetingRun)
	mux.HandleFunc("/meetings/", server.handleMeetingView)
	mux.HandleFunc("/ideas", server.handleIdeas)
	mux.HandleFunc("/testers", server.handleTesters)
	mux.HandleFunc("/testers/", server.handleTesterAction)
	mux.HandleFunc("/clients", server.handleClients)
	mux.HandleFunc("/projects", server.handleProjects)
	mux.HandleFunc("/finances", server.handleFinances)
	mux.HandleFunc("/requests", server.handleRequests)
	mux.HandleFunc("/requests/", server.handleRequestAction)
	mux.HandleFunc("/decisions", server.handleDecisions)
	mux.HandleFunc("/agents", server.handleAgents)

	serverAddr := *addr
	if serverAddr == "" {
		serverAddr = cfg.Web.Addr
	}
	if strings.TrimSpace(serverAddr) == "" {
		serverAddr = defaultWebAddr
	}

	httpServer := &http.Server{
		Addr:              serverAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	displayAddr := serverAddr
	if strings.HasPrefix(displayAddr, ":") {
		displayAddr = "localhost" + displayAddr
	}
	fmt.Printf("Boardroom portal listening on http://%s\n", displayAddr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		fatal(err)
	}
}

func (s *webServer) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	data := dashboardData{Recent: s.transcripts.ListRecent(5)}
	if ideas, err := s.stores.Ideas.Pending(); err == nil {
		data.PendingIdeas = len(ideas)
	}
	if projects, err := s.stores.Projects.Active(); err == nil {
		data.ActiveProjects = len(projects)
	}
	if testers, err := s.stores.Testers.Available(); err == nil {
		data.ActiveTesters = len(testers)
	}
	if requests, err := s.stores.Requests.Pending(); err == nil {
		data.PendingRequests = len(requests)
	}
	if balance, err := s.stores.Finances.OutstandingBalance(""); err == nil {
		data.Outstanding = balance
	}
	s.renderPage(w, "dashboard", "Dashboard", data)
}

type meetingsData struct {
	Transcripts []meeting.TranscriptInfo
	Types       []string
}

func (s *webServer) handleMeetings(w http.ResponseWriter, _ *http.Request) {
	s.renderPage(w, "meetings", "Meetings", meetingsData{
		Transcripts: s.transcripts.ListRecent(50),
		Types:       s.catalog.Types(),
	})
}

// handleMeetingRun starts a meeting in the background; the transcript
// appears in the list once the run completes.
func (s *webServer) handleMeetingRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	meetingType := strings.TrimSpace(r.FormValue("type"))
	topic := strings.TrimSpace(r.FormValue("topic"))
	if meetingType == "" || topic == "" {
		http.Error(w, "type and topic are required", http.StatusBadRequest)
		return
	}
	var opts []meeting.MeetingOption
	if ids := splitList(r.FormValue("participants")); len(ids) > 0 {
		opts = append(opts, meeting.WithParticipants(ids...))
	}
	go func() {
		if _, err := s.orch.Run(context.Background(), meetingType, topic, nil, opts...); err != nil {
			slog.Error("meeting run failed", "meeting_type", meetingType, "topic", topic, "error", err)
		}
	}()
	http.Redirect(w, r, "/meetings", http.StatusSeeOther)
}

func (s *webServer) handleMeetingView(w http.ResponseWriter, r *http.Request) {
	filename := strings.TrimPrefix(r.URL.Path, "/meetings/")
	if filename == "" || strings.Contains(filename, "/") {
		http.NotFound(w, r)
		return
	}
	content, err := s.transcripts.Load(filename)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	s.renderPage(w, "meeting_view", filename, meetingViewData{Filename: filename, Content: content})
}

func (s *webServer) handleIdeas(w http.ResponseWriter, _ *http.Request) {
	ideas, err := s.stores.Ideas.List()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.renderPage(w, "ideas", "Ideas", ideas)
}

func (s *webServer) handleTesters(w http.ResponseWriter, _ *http.Request) {
	testers, err := s.stores.Testers.List()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.renderPage(w, "testers", "Beta Testers", testers)
}

func (s *webServer) handleTesterAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	path := strings.TrimPrefix(r.URL.Path, "/testers/")
	if id := strings.TrimSuffix(path, ":approve"); id != path {
		if _, err := s.stores.Testers.Approve(id, "approved via portal"); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Redirect(w, r, "/testers", http.StatusSeeOther)
		return
	}
	if id := strings.TrimSuffix(path, ":reject"); id != path {
		if _, err := s.stores.Testers.Reject(id, "rejected via portal"); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Redirect(w, r, "/testers", http.StatusSeeOther)
		return
	}
	http.NotFound(w, r)
}

func (s *webServer) handleClients(w http.ResponseWriter, _ *http.Request) {
	clients, err := s.stores.Clients.List()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.renderPage(w, "clients", "Clients", clients)
}

func (s *webServer) handleProjects(w http.ResponseWriter, _ *http.Request) {
	projects, err := s.stores.Projects.List()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.renderPage(w, "projects", "Projects", projects)
}

func (s *webServer) handleFinances(w http.ResponseWriter, _ *http.Request) {
	transactions, err := s.stores.Finances.List()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.renderPage(w, "finances", "Finances", transactions)
}

func (s *webServer) handleRequests(w http.ResponseWriter, _ *http.Request) {
	requests, err := s.stores.Requests.List()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.renderPage(w, "requests", "Feature Requests", requests)
}

func (s *webServer) handleRequestAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	path := strings.TrimPrefix(r.URL.Path, "/requests/")
	if id := strings.TrimSuffix(path, ":approve"); id != path {
		if _, err := s.stores.Requests.Approve(id, "CEO", "approved via portal"); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Redirect(w, r, "/requests", http.StatusSeeOther)
		return
	}
	if id := strings.TrimSuffix(path, ":reject"); id != path {
		if _, err := s.stores.Requests.Reject(id, "CEO", "rejected via portal"); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Redirect(w, r, "/requests", http.StatusSeeOther)
		return
	}
	http.NotFound(w, r)
}

func (s *webServer) handleDecisions(w http.ResponseWriter, _ *http.Request) {
	decisions, err := s.decisions.List()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.renderPage(w, "decisions", "Decisions", decisions)
}

func (s *webServer) handleAgents(w http.ResponseWriter, _ *http.Request) {
	rows := make([]agentRow, 0, len(persona.Roster()))
	customizations, _ := s.stores.Customizations.List()
	for _, info := range persona.Roster() {
		row := agentRow{
			ID:          info.ID,
			Name:        info.DisplayName,
			Title:       info.FullTitle,
			Team:        info.Team,
			Description: info.Description,
			ReportsTo:   info.ReportsTo,
		}
		if custom, ok := customizations[info.ID]; ok {
			if custom.DisplayName != "" {
				row.Name = custom.DisplayName
			}
			if custom.RoleTitle != "" {
				row.Title = custom.RoleTitle
			}
			if custom.Description != "" {
				row.Description = custom.Description
			}
			if custom.ReportsTo != "" {
				row.ReportsTo = custom.ReportsTo
			}
		}
		rows = append(rows, row)
	}
	s.renderPage(w, "agents", "Agents", rows)
}

func (s *webServer) renderPage(w http.ResponseWriter, pageName, title string, data any) {
	tmpl, ok := pageTemplates[pageName]
	if !ok {
		http.Error(w, "page template not found", http.StatusInternalServerError)
		return
	}
	company := s.cfg.Company.Name
	if settings, err := s.stores.Settings.Get(); err == nil && settings.CompanyName != "" {
		company = settings.CompanyName
	}
	payload := pageData{Title: title, Company: company, Data: data}
	if err := tmpl.ExecuteTemplate(w, "layout", payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func init() {
	for _, page := range []string{
		"dashboard", "meetings", "meeting_view", "ideas", "testers",
		"clients", "projects", "finances", "requests", "decisions", "agents",
	} {
		pageTemplates[page] = mustPageTemplate("web/templates/layout.html", "web/templates/"+page+".html")
	}
}

func mustPageTemplate(layout, page string) *template.Template {
	tmpl, err := template.New("page").Funcs(template.FuncMap{
		"lower": strings.ToLower,
		"money": func(v float64) string { return fmt.Sprintf("$%.2f", v) },
		"date":  func(t time.Time) string { return t.Format("2006-01-02") },
	}).ParseFS(webFS, layout, page)
	if err != nil {
		panic(err)
	}
	return tmpl
}
