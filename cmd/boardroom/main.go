package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/jllopis/boardroom/pkg/agent"
	"github.com/jllopis/boardroom/pkg/config"
	"github.com/jllopis/boardroom/pkg/llm"
	"github.com/jllopis/boardroom/pkg/meeting"
	"github.com/jllopis/boardroom/pkg/persona"
	"github.com/jllopis/boardroom/pkg/records"
	"github.com/jllopis/boardroom/pkg/telemetry"
	"github.com/jllopis/boardroom/providers/anthropic"
)

type globalFlags struct {
	ConfigPath string
	Sets       []string
	Timeout    time.Duration
	JSON       bool
	Help       bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	flags, args := parseGlobalFlags(os.Args[1:])
	if flags.Help || len(args) == 0 {
		printUsage()
		if len(args) == 0 && !flags.Help {
			os.Exit(2)
		}
		return
	}

	cfg, err := config.LoadWithOverrides(flags.ConfigPath, flags.Sets)
	if err != nil {
		fatal(err)
	}

	slog.SetDefault(telemetry.ConfigureSlog(os.Stderr, cfg.Log.Level, cfg.Log.Format))
	shutdown, err := telemetry.InitWithConfig("boardroom", version, telemetry.Config{
		Exporter:     cfg.Telemetry.Exporter,
		OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
		OTLPInsecure: cfg.Telemetry.OTLPInsecure,
	})
	if err != nil {
		fatal(err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdown(shutdownCtx)
	}()

	command := args[0]
	rest := args[1:]

	switch command {
	case "standup":
		runStandup(ctx, flags, cfg, rest)
	case "meet":
		runMeet(ctx, flags, cfg, "", rest)
	case "strategy":
		runMeet(ctx, flags, cfg, "strategy", rest)
	case "one-on-one":
		runOneOnOne(ctx, flags, cfg, rest)
	case "idea-review":
		runIdeaReview(ctx, flags, cfg, rest)
	case "project":
		runProject(ctx, flags, cfg, rest)
	case "retro":
		runRetro(ctx, flags, cfg, rest)
	case "agents":
		runAgents(flags, cfg, rest)
	case "types":
		runTypes(flags, cfg, rest)
	case "meetings":
		runMeetings(flags, cfg, rest)
	case "decisions":
		runDecisions(flags, cfg, rest)
	case "calls":
		runCalls(ctx, flags, cfg, rest)
	case "records":
		runRecords(flags, cfg, rest)
	case "actions":
		runActions(flags, cfg, rest)
	case "web":
		runWeb(ctx, flags, cfg, rest)
	case "version":
		printVersion()
	case "help":
		printUsage()
	default:
		fatal(fmt.Errorf("unknown command %q", command))
	}
}

func parseGlobalFlags(args []string) (globalFlags, []string) {
	flags := globalFlags{
		ConfigPath: getenv("BOARDROOM_CONFIG", ""),
		Timeout:    5 * time.Minute,
	}
	rest := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--config":
			i++
			if i >= len(args) {
				fatal(fmt.Errorf("--config requires a value"))
			}
			flags.ConfigPath = args[i]
		case strings.HasPrefix(arg, "--config="):
			flags.ConfigPath = strings.TrimPrefix(arg, "--config=")
		case arg == "--set":
			i++
			if i >= len(args) {
				fatal(fmt.Errorf("--set requires a value"))
			}
			flags.Sets = append(flags.Sets, args[i])
		case strings.HasPrefix(arg, "--set="):
			flags.Sets = append(flags.Sets, strings.TrimPrefix(arg, "--set="))
		case arg == "--timeout":
			i++
			if i >= len(args) {
				fatal(fmt.Errorf("--timeout requires a value"))
			}
			flags.Timeout = parseDuration(args[i])
		case strings.HasPrefix(arg, "--timeout="):
			flags.Timeout = parseDuration(strings.TrimPrefix(arg, "--timeout="))
		case arg == "--json":
			flags.JSON = true
		case arg == "--help" || arg == "-h":
			flags.Help = true
		default:
			rest = append(rest, args[i:]...)
			return flags, rest
		}
	}
	return flags, rest
}

func parseDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		fatal(fmt.Errorf("invalid duration %q: %w", value, err))
	}
	return d
}

// buildProvider selects the model backend from config.
func buildProvider(cfg *config.Config) llm.Provider {
	switch cfg.LLM.Provider {
	case "", "anthropic":
		opts := []anthropic.Option{
			anthropic.WithModel(cfg.LLM.Model),
			anthropic.WithMaxTokens(int64(cfg.LLM.MaxTokens)),
		}
		if cfg.LLM.APIKey != "" {
			opts = append(opts, anthropic.WithAPIKey(cfg.LLM.APIKey))
		}
		if cfg.LLM.BaseURL != "" {
			opts = append(opts, anthropic.WithBaseURL(cfg.LLM.BaseURL))
		}
		return anthropic.New(opts...)
	case "ollama":
		return llm.NewOllama(cfg.LLM.BaseURL)
	default:
		fatal(fmt.Errorf("unknown llm provider %q", cfg.LLM.Provider))
		return nil
	}
}

func buildRegistry(cfg *config.Config) *agent.Registry {
	source := persona.NewDirSource(cfg.Workspace.PersonasPath())
	return agent.NewRegistry(source, buildProvider(cfg),
		agent.WithRegistryModel(cfg.LLM.Model),
		agent.WithRegistryMaxTokens(cfg.LLM.MaxTokens),
	)
}

// buildOrchestrator wires the full meeting stack from config. The returned
// cleanup closes the audit database.
func buildOrchestrator(cfg *config.Config) (*meeting.Orchestrator, func()) {
	catalog := meeting.NewCatalog()
	if cfg.Workspace.CatalogFile != "" {
		if err := catalog.LoadOverrides(cfg.Workspace.Resolve(cfg.Workspace.CatalogFile)); err != nil {
			fatal(err)
		}
	}

	cleanup := func() {}
	opts := []meeting.OrchestratorOption{
		meeting.WithCatalog(catalog),
		meeting.WithContextSource(meeting.NewDirContext(cfg.Workspace.ContextPath())),
		meeting.WithDecisionLog(meeting.NewDecisionLog(cfg.Workspace.DecisionsPath())),
		meeting.WithPrincipal(cfg.Company.Principal),
	}

	if cfg.Workspace.AuditDB != "" {
		audit, err := meeting.OpenAuditStore(cfg.Workspace.AuditDBPath())
		if err != nil {
			fatal(err)
		}
		cleanup = func() { _ = audit.Close() }
		opts = append(opts, meeting.WithAuditStore(audit))
	}

	if metrics, err := telemetry.NewMeetingMetrics(); err == nil {
		opts = append(opts, meeting.WithMetrics(metrics))
	}

	orch := meeting.NewOrchestrator(
		buildRegistry(cfg),
		meeting.NewTranscriptStore(cfg.Workspace.MeetingsPath()),
		opts...,
	)
	return orch, cleanup
}

func progressPrinter() meeting.ProgressFunc {
	return func(message string) {
		fmt.Fprintln(os.Stderr, message)
	}
}

func emitTranscript(flags globalFlags, transcript string) {
	if flags.JSON {
		writeJSONLine(os.Stdout, map[string]string{"transcript": transcript})
		return
	}
	fmt.Println(transcript)
}

func runStandup(ctx context.Context, flags globalFlags, cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("standup", flag.ExitOnError)
	participants := fs.String("participants", "", "comma-separated agent ids")
	topic := fs.String("topic", "Daily", "standup topic")
	if err := fs.Parse(args); err != nil {
		fatal(err)
	}
	ensureNoArgs(fs.Args())

	orch, cleanup := buildOrchestrator(cfg)
	defer cleanup()

	ctx, cancel := context.WithTimeout(ctx, flags.Timeout)
	defer cancel()

	transcript, err := orch.Run(ctx, "standup", *topic, progressPrinter(),
		meetingOpts(*participants, "")...)
	if err != nil {
		fatal(err)
	}
	emitTranscript(flags, transcript)
}

func runMeet(ctx context.Context, flags globalFlags, cfg *config.Config, meetingType string, args []string) {
	fs := flag.NewFlagSet("meet", flag.ExitOnError)
	participants := fs.String("participants", "", "comma-separated agent ids")
	facilitator := fs.String("facilitator", "", "facilitator agent id")
	if err := fs.Parse(args); err != nil {
		fatal(err)
	}
	positional := fs.Args()
	if meetingType == "" {
		if len(positional) < 2 {
			fatal(fmt.Errorf("usage: meet [flags] <type> <topic>"))
		}
		meetingType = positional[0]
		positional = positional[1:]
	}
	if len(positional) == 0 {
		fatal(fmt.Errorf("usage: %s [flags] <topic>", meetingType))
	}
	topic := strings.Join(positional, " ")

	orch, cleanup := buildOrchestrator(cfg)
	defer cleanup()

	ctx, cancel := context.WithTimeout(ctx, flags.Timeout)
	defer cancel()

	transcript, err := orch.Run(ctx, meetingType, topic, progressPrinter(),
		meetingOpts(*participants, *facilitator)...)
	if err != nil {
		fatal(err)
	}
	emitTranscript(flags, transcript)
}

func runOneOnOne(ctx context.Context, flags globalFlags, cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("one-on-one", flag.ExitOnError)
	subTopic := fs.String("sub-topic", "", "narrower aspect to focus on")
	if err := fs.Parse(args); err != nil {
		fatal(err)
	}
	if fs.NArg() < 2 {
		fatal(fmt.Errorf("usage: one-on-one [flags] <agent> <topic>"))
	}
	agentID := fs.Arg(0)
	topic := strings.Join(fs.Args()[1:], " ")

	orch, cleanup := buildOrchestrator(cfg)
	defer cleanup()

	m, err := orch.NewMeeting("one_on_one", topic, meeting.WithParticipants(agentID))
	if err != nil {
		fatal(err)
	}

	ctx, cancel := context.WithTimeout(ctx, flags.Timeout)
	defer cancel()

	transcript, err := m.RunOneOnOne(ctx, *subTopic, progressPrinter())
	if err != nil {
		fatal(err)
	}
	emitTranscript(flags, transcript)
}

func runIdeaReview(ctx context.Context, flags globalFlags, cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("idea-review", flag.ExitOnError)
	ideaFile := fs.String("idea-file", "", "path to the idea writeup")
	participants := fs.String("participants", "", "comma-separated agent ids")
	if err := fs.Parse(args); err != nil {
		fatal(err)
	}
	if fs.NArg() < 1 {
		fatal(fmt.Errorf("usage: idea-review [flags] <topic>"))
	}
	topic := strings.Join(fs.Args(), " ")

	orch, cleanup := buildOrchestrator(cfg)
	defer cleanup()

	opts := meetingOpts(*participants, "")
	opts = append(opts, meeting.WithIdeaFile(*ideaFile))
	m, err := orch.NewMeeting("idea_review", topic, opts...)
	if err != nil {
		fatal(err)
	}

	ctx, cancel := context.WithTimeout(ctx, flags.Timeout)
	defer cancel()

	transcript, err := m.RunIdeaReview(ctx, *ideaFile, "", progressPrinter())
	if err != nil {
		fatal(err)
	}
	emitTranscript(flags, transcript)
}

func runProject(ctx context.Context, flags globalFlags, cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("project", flag.ExitOnError)
	participants := fs.String("participants", "", "comma-separated agent ids")
	if err := fs.Parse(args); err != nil {
		fatal(err)
	}
	if fs.NArg() < 1 {
		fatal(fmt.Errorf("usage: project [flags] <name>"))
	}
	name := strings.Join(fs.Args(), " ")

	orch, cleanup := buildOrchestrator(cfg)
	defer cleanup()

	ctx, cancel := context.WithTimeout(ctx, flags.Timeout)
	defer cancel()

	transcript, err := orch.Run(ctx, "project", name, progressPrinter(),
		meetingOpts(*participants, "")...)
	if err != nil {
		fatal(err)
	}
	emitTranscript(flags, transcript)
}

func runRetro(ctx context.Context, flags globalFlags, cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("retro", flag.ExitOnError)
	participants := fs.String("participants", "", "comma-separated agent ids")
	if err := fs.Parse(args); err != nil {
		fatal(err)
	}
	if fs.NArg() < 1 {
		fatal(fmt.Errorf("usage: retro [flags] <topic>"))
	}
	topic := strings.Join(fs.Args(), " ")

	orch, cleanup := buildOrchestrator(cfg)
	defer cleanup()

	ctx, cancel := context.WithTimeout(ctx, flags.Timeout)
	defer cancel()

	transcript, err := orch.Run(ctx, "retro", topic, progressPrinter(),
		meetingOpts(*participants, "")...)
	if err != nil {
		fatal(err)
	}
	emitTranscript(flags, transcript)
}

func meetingOpts(participants, facilitator string) []meeting.MeetingOption {
	var opts []meeting.MeetingOption
	if ids := splitList(participants); len(ids) > 0 {
		opts = append(opts, meeting.WithParticipants(ids...))
	}
	if facilitator != "" {
		opts = append(opts, meeting.WithFacilitator(facilitator))
	}
	return opts
}

func runAgents(flags globalFlags, cfg *config.Config, args []string) {
	ensureNoArgs(args)
	source := persona.NewDirSource(cfg.Workspace.PersonasPath())
	ids := source.ListIDs()

	if flags.JSON {
		writeJSONLine(os.Stdout, ids)
		return
	}
	writer := newTabWriter()
	writeRow(writer, "ID", "NAME", "TITLE", "TEAM")
	for _, id := range ids {
		info, ok := persona.Lookup(id)
		if !ok {
			writeRow(writer, id, "-", "-", "-")
			continue
		}
		writeRow(writer, id, info.DisplayName, info.FullTitle, info.Team)
	}
	_ = writer.Flush()
}

func runTypes(flags globalFlags, cfg *config.Config, args []string) {
	ensureNoArgs(args)
	catalog := meeting.NewCatalog()
	if cfg.Workspace.CatalogFile != "" {
		if err := catalog.LoadOverrides(cfg.Workspace.Resolve(cfg.Workspace.CatalogFile)); err != nil {
			fatal(err)
		}
	}
	types := catalog.Types()
	if flags.JSON {
		writeJSONLine(os.Stdout, types)
		return
	}
	writer := newTabWriter()
	writeRow(writer, "TYPE", "NAME", "FACILITATOR", "PARTICIPANTS")
	for _, t := range types {
		tc := catalog.Resolve(t)
		writeRow(writer, t, tc.Name, tc.Facilitator, strings.Join(tc.DefaultParticipants, ","))
	}
	_ = writer.Flush()
}

func runMeetings(flags globalFlags, cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("meetings", flag.ExitOnError)
	limit := fs.Int("limit", 20, "max transcripts to list")
	show := fs.String("show", "", "print a transcript by filename")
	if err := fs.Parse(args); err != nil {
		fatal(err)
	}
	ensureNoArgs(fs.Args())

	store := meeting.NewTranscriptStore(cfg.Workspace.MeetingsPath())
	if *show != "" {
		content, err := store.Load(*show)
		if err != nil {
			fatal(err)
		}
		fmt.Println(content)
		return
	}

	infos := store.ListRecent(*limit)
	if flags.JSON {
		writeJSONLine(os.Stdout, infos)
		return
	}
	writer := newTabWriter()
	writeRow(writer, "DATE", "TYPE", "TOPIC", "FILE")
	for _, info := range infos {
		writeRow(writer, info.Date, info.Type, info.Topic, info.Filename)
	}
	_ = writer.Flush()
}

func runDecisions(flags globalFlags, cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("decisions", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fatal(err)
	}
	ensureNoArgs(fs.Args())

	log := meeting.NewDecisionLog(cfg.Workspace.DecisionsPath())
	decisions, err := log.List()
	if err != nil {
		fatal(err)
	}
	if flags.JSON {
		writeJSONLine(os.Stdout, decisions)
		return
	}
	writer := newTabWriter()
	writeRow(writer, "ID", "DATE", "TOPIC", "DECISION", "OWNER", "STATUS")
	for _, d := range decisions {
		writeRow(writer, fmt.Sprintf("%d", d.ID), d.Date, d.Topic,
			truncateMessage(d.Decision, 60), d.Owner, d.Status)
	}
	_ = writer.Flush()
}

func runCalls(ctx context.Context, flags globalFlags, cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("calls", flag.ExitOnError)
	agentID := fs.String("agent", "", "filter by agent id")
	status := fs.String("status", "", "filter by status (ok, error)")
	meetingType := fs.String("type", "", "filter by meeting type")
	limit := fs.Int("limit", 50, "max events")
	if err := fs.Parse(args); err != nil {
		fatal(err)
	}
	ensureNoArgs(fs.Args())

	store, err := meeting.OpenAuditStore(cfg.Workspace.AuditDBPath())
	if err != nil {
		fatal(err)
	}
	defer store.Close()

	events, err := store.List(ctx, meeting.CallFilter{
		MeetingType: *meetingType,
		AgentID:     *agentID,
		Status:      *status,
		Limit:       *limit,
	})
	if err != nil {
		fatal(err)
	}
	if flags.JSON {
		writeJSONLine(os.Stdout, events)
		return
	}
	writer := newTabWriter()
	writeRow(writer, "STARTED", "TYPE", "TOPIC", "AGENT", "KIND", "STATUS", "DURATION")
	for _, event := range events {
		writeRow(writer, formatTime(event.StartedAt), event.MeetingType, event.TopicSlug,
			event.AgentID, event.Kind, event.Status, event.Duration.Round(time.Millisecond).String())
	}
	_ = writer.Flush()
}

func openStores(cfg *config.Config) *records.Stores {
	return records.Open(cfg.Workspace.DataPath(), records.CompanySettings{
		CompanyName: cfg.Company.Name,
	})
}

func writeJSONLine(writer io.Writer, value any) {
	payload, err := json.Marshal(value)
	if err != nil {
		fatal(err)
	}
	_, _ = writer.Write(append(payload, '\n'))
}

func newTabWriter() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
}

func writeRow(writer *tabwriter.Writer, cols ...string) {
	for i, col := range cols {
		cols[i] = normalizeCell(col)
	}
	fmt.Fprintln(writer, strings.Join(cols, "\t"))
}

func normalizeCell(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "-"
	}
	return strings.Join(strings.Fields(value), " ")
}

func truncateMessage(value string, limit int) string {
	value = normalizeCell(value)
	if limit <= 0 || len(value) <= limit {
		return value
	}
	if limit <= 3 {
		return value[:limit]
	}
	return value[:limit-3] + "..."
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return "-"
	}
	return value.UTC().Format(time.RFC3339)
}

const version = "dev"

func printVersion() {
	fmt.Println(version)
}

func printUsage() {
	fmt.Print(`Boardroom CLI

Usage:
  boardroom [global flags] <command> [args]

Global flags:
  --config <path>      Path to config file (YAML)
  --set key=value      Override config (repeatable)
  --timeout <dur>      Meeting timeout (default 5m)
  --json               JSON output

Commands:
  standup [--participants a,b] [--topic <text>]
  meet [--participants a,b] [--facilitator id] <type> <topic>
  strategy [--participants a,b] [--facilitator id] <topic>
  one-on-one [--sub-topic <text>] <agent> <topic>
  idea-review --idea-file <path> [--participants a,b] <topic>
  project [--participants a,b] <name>
  retro [--participants a,b] <topic>
  agents
  types
  meetings [--limit N] [--show <file>]
  decisions
  calls [--agent id] [--status ok|error] [--type t] [--limit N]
  records <ideas|testers|clients|projects|finances|requests> ...
  actions catalog
  actions apply [--file <path>]
  web [--addr :8088]
`)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func ensureNoArgs(args []string) {
	if len(args) > 0 {
		fatal(fmt.Errorf("unexpected args: %v", args))
	}
}

func splitList(value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getenv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}
