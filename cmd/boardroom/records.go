package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jllopis/boardroom/pkg/actions"
	"github.com/jllopis/boardroom/pkg/config"
	"github.com/jllopis/boardroom/pkg/records"
)

func runRecords(flags globalFlags, cfg *config.Config, args []string) {
	if len(args) == 0 {
		fatal(fmt.Errorf("usage: records <ideas|testers|clients|projects|finances|requests> ..."))
	}
	stores := openStores(cfg)
	collection := args[0]
	rest := args[1:]

	switch collection {
	case "ideas":
		runIdeasRecords(flags, stores, rest)
	case "testers":
		runTestersRecords(flags, stores, rest)
	case "clients":
		runClientsRecords(flags, stores, rest)
	case "projects":
		runProjectsRecords(flags, stores, rest)
	case "finances":
		runFinancesRecords(flags, stores, rest)
	case "requests":
		runRequestsRecords(flags, stores, rest)
	default:
		fatal(fmt.Errorf("unknown collection %q", collection))
	}
}

func runIdeasRecords(flags globalFlags, stores *records.Stores, args []string) {
	if len(args) == 0 {
		args = []string{"list"}
	}
	switch args[0] {
	case "list":
		ideas, err := stores.Ideas.List()
		if err != nil {
			fatal(err)
		}
		if flags.JSON {
			writeJSONLine(os.Stdout, ideas)
			return
		}
		writer := newTabWriter()
		writeRow(writer, "ID", "NAME", "STATUS", "SUBMITTER", "REVIEW")
		for _, idea := range ideas {
			review := ""
			if idea.Review != nil {
				review = idea.Review.Recommendation
			}
			writeRow(writer, idea.ID, idea.Name, string(idea.Status), idea.Submitter.Name, review)
		}
		_ = writer.Flush()
	case "submit":
		fs := flag.NewFlagSet("ideas submit", flag.ExitOnError)
		name := fs.String("name", "", "idea name")
		description := fs.String("description", "", "what the app does")
		submitter := fs.String("submitter", "", "submitter name")
		email := fs.String("email", "", "submitter email")
		if err := fs.Parse(args[1:]); err != nil {
			fatal(err)
		}
		ensureNoArgs(fs.Args())
		if *name == "" {
			fatal(fmt.Errorf("--name is required"))
		}
		idea, err := stores.Ideas.Submit(records.Idea{
			Name:        *name,
			Description: *description,
			Submitter:   records.Submitter{Name: *submitter, Email: *email},
		})
		if err != nil {
			fatal(err)
		}
		fmt.Println(idea.ID)
	case "status":
		if len(args) < 3 {
			fatal(fmt.Errorf("usage: records ideas status <id> <status> [note]"))
		}
		note := ""
		if len(args) > 3 {
			note = strings.Join(args[3:], " ")
		}
		if _, err := stores.Ideas.UpdateStatus(args[1], records.IdeaStatus(args[2]), note); err != nil {
			fatal(err)
		}
	default:
		fatal(fmt.Errorf("unknown ideas subcommand %q", args[0]))
	}
}

func runTestersRecords(flags globalFlags, stores *records.Stores, args []string) {
	if len(args) == 0 {
		args = []string{"list"}
	}
	switch args[0] {
	case "list":
		testers, err := stores.Testers.List()
		if err != nil {
			fatal(err)
		}
		if flags.JSON {
			writeJSONLine(os.Stdout, testers)
			return
		}
		writer := newTabWriter()
		writeRow(writer, "ID", "NAME", "STATUS", "PROJECTS", "EARNED")
		for _, tester := range testers {
			writeRow(writer, tester.ID, tester.Name, string(tester.Status),
				strings.Join(tester.Projects, ","), fmt.Sprintf("$%.2f", tester.TotalEarned))
		}
		_ = writer.Flush()
	case "register":
		fs := flag.NewFlagSet("testers register", flag.ExitOnError)
		name := fs.String("name", "", "tester name")
		email := fs.String("email", "", "tester email")
		if err := fs.Parse(args[1:]); err != nil {
			fatal(err)
		}
		ensureNoArgs(fs.Args())
		if *name == "" {
			fatal(fmt.Errorf("--name is required"))
		}
		tester, err := stores.Testers.Register(records.Tester{Name: *name, Email: *email})
		if err != nil {
			fatal(err)
		}
		fmt.Println(tester.ID)
	case "approve":
		if len(args) < 2 {
			fatal(fmt.Errorf("usage: records testers approve <id> [note]"))
		}
		note := strings.Join(args[2:], " ")
		if _, err := stores.Testers.Approve(args[1], note); err != nil {
			fatal(err)
		}
	case "reject":
		if len(args) < 2 {
			fatal(fmt.Errorf("usage: records testers reject <id> [reason]"))
		}
		reason := strings.Join(args[2:], " ")
		if _, err := stores.Testers.Reject(args[1], reason); err != nil {
			fatal(err)
		}
	default:
		fatal(fmt.Errorf("unknown testers subcommand %q", args[0]))
	}
}

func runClientsRecords(flags globalFlags, stores *records.Stores, args []string) {
	if len(args) == 0 {
		args = []string{"list"}
	}
	switch args[0] {
	case "list":
		clients, err := stores.Clients.List()
		if err != nil {
			fatal(err)
		}
		if flags.JSON {
			writeJSONLine(os.Stdout, clients)
			return
		}
		writer := newTabWriter()
		writeRow(writer, "ID", "NAME", "COMPANY", "STATUS", "REVENUE")
		for _, client := range clients {
			writeRow(writer, client.ID, client.Name, client.Company, client.Status,
				fmt.Sprintf("$%.2f", client.TotalRevenue))
		}
		_ = writer.Flush()
	case "add":
		fs := flag.NewFlagSet("clients add", flag.ExitOnError)
		name := fs.String("name", "", "contact name")
		company := fs.String("company", "", "company name")
		email := fs.String("email", "", "contact email")
		if err := fs.Parse(args[1:]); err != nil {
			fatal(err)
		}
		ensureNoArgs(fs.Args())
		if *name == "" {
			fatal(fmt.Errorf("--name is required"))
		}
		client, err := stores.Clients.Add(records.Client{Name: *name, Company: *company, Email: *email})
		if err != nil {
			fatal(err)
		}
		fmt.Println(client.ID)
	default:
		fatal(fmt.Errorf("unknown clients subcommand %q", args[0]))
	}
}

func runProjectsRecords(flags globalFlags, stores *records.Stores, args []string) {
	if len(args) == 0 {
		args = []string{"list"}
	}
	switch args[0] {
	case "list":
		projects, err := stores.Projects.List()
		if err != nil {
			fatal(err)
		}
		if flags.JSON {
			writeJSONLine(os.Stdout, projects)
			return
		}
		writer := newTabWriter()
		writeRow(writer, "ID", "NAME", "STATUS", "CLIENT", "VALUE", "TEAM")
		for _, project := range projects {
			writeRow(writer, project.ID, project.Name, string(project.Status), project.ClientID,
				fmt.Sprintf("$%.2f", project.ContractValue), strings.Join(project.Team, ","))
		}
		_ = writer.Flush()
	case "start":
		fs := flag.NewFlagSet("projects start", flag.ExitOnError)
		name := fs.String("name", "", "project name")
		client := fs.String("client", "", "client id")
		idea := fs.String("idea", "", "source idea id")
		value := fs.Float64("value", 0, "contract value")
		if err := fs.Parse(args[1:]); err != nil {
			fatal(err)
		}
		ensureNoArgs(fs.Args())
		if *name == "" {
			fatal(fmt.Errorf("--name is required"))
		}
		project, err := stores.Projects.Start(records.Project{
			Name:          *name,
			ClientID:      *client,
			IdeaID:        *idea,
			ContractValue: *value,
		})
		if err != nil {
			fatal(err)
		}
		fmt.Println(project.ID)
	case "status":
		if len(args) < 3 {
			fatal(fmt.Errorf("usage: records projects status <id> <status> [note]"))
		}
		note := strings.Join(args[3:], " ")
		if _, err := stores.Projects.UpdateStatus(args[1], records.ProjectStatus(args[2]), note); err != nil {
			fatal(err)
		}
	default:
		fatal(fmt.Errorf("unknown projects subcommand %q", args[0]))
	}
}

func runFinancesRecords(flags globalFlags, stores *records.Stores, args []string) {
	if len(args) == 0 {
		args = []string{"list"}
	}
	switch args[0] {
	case "list":
		transactions, err := stores.Finances.List()
		if err != nil {
			fatal(err)
		}
		if flags.JSON {
			writeJSONLine(os.Stdout, transactions)
			return
		}
		writer := newTabWriter()
		writeRow(writer, "ID", "TYPE", "AMOUNT", "CLIENT", "STATUS", "DESCRIPTION")
		for _, tx := range transactions {
			writeRow(writer, tx.ID, tx.Type, fmt.Sprintf("$%.2f", tx.Amount),
				tx.ClientID, string(tx.Status), truncateMessage(tx.Description, 40))
		}
		_ = writer.Flush()
	case "invoice":
		fs := flag.NewFlagSet("finances invoice", flag.ExitOnError)
		client := fs.String("client", "", "client id")
		project := fs.String("project", "", "project id")
		amount := fs.Float64("amount", 0, "invoice amount")
		description := fs.String("description", "", "what is billed")
		if err := fs.Parse(args[1:]); err != nil {
			fatal(err)
		}
		ensureNoArgs(fs.Args())
		tx, err := stores.Finances.CreateInvoice(records.Transaction{
			ClientID:    *client,
			ProjectID:   *project,
			Amount:      *amount,
			Description: *description,
		})
		if err != nil {
			fatal(err)
		}
		fmt.Println(tx.InvoiceNumber)
	case "outstanding":
		if len(args) < 2 {
			fatal(fmt.Errorf("usage: records finances outstanding <client-id>"))
		}
		balance, err := stores.Finances.OutstandingBalance(args[1])
		if err != nil {
			fatal(err)
		}
		fmt.Printf("$%.2f\n", balance)
	case "revenue":
		if len(args) < 2 {
			fatal(fmt.Errorf("usage: records finances revenue <period>  (e.g. 2026-08)"))
		}
		summary, err := stores.Finances.RevenueByPeriod(args[1])
		if err != nil {
			fatal(err)
		}
		if flags.JSON {
			writeJSONLine(os.Stdout, summary)
			return
		}
		writer := newTabWriter()
		writeRow(writer, "PAYMENTS", "REV SHARE", "EXPENSES", "NET")
		writeRow(writer,
			fmt.Sprintf("$%.2f", summary.ClientPayments),
			fmt.Sprintf("$%.2f", summary.RevenueShare),
			fmt.Sprintf("$%.2f", summary.Expenses),
			fmt.Sprintf("$%.2f", summary.Net))
		_ = writer.Flush()
	default:
		fatal(fmt.Errorf("unknown finances subcommand %q", args[0]))
	}
}

func runRequestsRecords(flags globalFlags, stores *records.Stores, args []string) {
	if len(args) == 0 {
		args = []string{"list"}
	}
	switch args[0] {
	case "list":
		requests, err := stores.Requests.List()
		if err != nil {
			fatal(err)
		}
		if flags.JSON {
			writeJSONLine(os.Stdout, requests)
			return
		}
		writer := newTabWriter()
		writeRow(writer, "ID", "AGENT", "TITLE", "PRIORITY", "STATUS", "VOTES")
		for _, req := range requests {
			writeRow(writer, req.ID, req.AgentID, truncateMessage(req.Title, 50),
				string(req.Priority), string(req.Status), fmt.Sprintf("%d", len(req.Votes)))
		}
		_ = writer.Flush()
	case "approve":
		if len(args) < 2 {
			fatal(fmt.Errorf("usage: records requests approve <id> [notes]"))
		}
		notes := strings.Join(args[2:], " ")
		if _, err := stores.Requests.Approve(args[1], "CEO", notes); err != nil {
			fatal(err)
		}
	case "reject":
		if len(args) < 2 {
			fatal(fmt.Errorf("usage: records requests reject <id> [reason]"))
		}
		reason := strings.Join(args[2:], " ")
		if _, err := stores.Requests.Reject(args[1], "CEO", reason); err != nil {
			fatal(err)
		}
	default:
		fatal(fmt.Errorf("unknown requests subcommand %q", args[0]))
	}
}

// runActions parses action blocks out of model output and applies them to
// the record stores.
func runActions(flags globalFlags, cfg *config.Config, args []string) {
	if len(args) == 0 {
		fatal(fmt.Errorf("usage: actions <catalog|apply>"))
	}
	switch args[0] {
	case "catalog":
		ensureNoArgs(args[1:])
		fmt.Println(actions.PromptContext(cfg.Company.Principal))
	case "apply":
		fs := flag.NewFlagSet("actions apply", flag.ExitOnError)
		file := fs.String("file", "", "file containing action blocks (default: stdin)")
		if err := fs.Parse(args[1:]); err != nil {
			fatal(err)
		}
		ensureNoArgs(fs.Args())

		var input []byte
		var err error
		if *file != "" {
			input, err = os.ReadFile(*file)
		} else {
			input, err = io.ReadAll(os.Stdin)
		}
		if err != nil {
			fatal(err)
		}

		parsed := actions.Parse(string(input))
		if len(parsed) == 0 {
			fmt.Fprintln(os.Stderr, "no action blocks found")
			return
		}
		executor := actions.NewExecutor(openStores(cfg))
		results := executor.ExecuteAll(parsed)
		if flags.JSON {
			writeJSONLine(os.Stdout, results)
			return
		}
		writer := newTabWriter()
		writeRow(writer, "ACTION", "OK", "MESSAGE")
		for i, result := range results {
			writeRow(writer, actionResultRow(parsed[i], result)...)
		}
		_ = writer.Flush()
	default:
		fatal(fmt.Errorf("unknown actions subcommand %q", args[0]))
	}
}

func actionResultRow(action actions.Action, result actions.Result) []string {
	message := result.Message
	if !result.Success {
		message = result.Error
	}
	return []string{string(action.Type), fmt.Sprintf("%t", result.Success), message}
}
