package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/iljabvh/firstserve/internal/model"
	"github.com/iljabvh/firstserve/internal/report"
	"github.com/iljabvh/firstserve/internal/storage"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:         "shell",
	Short:       "Start an interactive REPL session",
	Long:        "Open a persistent session against the ledger database. Type 'help' for available commands.",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{configOptional: "true"},
	RunE:        runShell,
}

// shellSession holds the run the REPL currently reads from.
type shellSession struct {
	db      *storage.DB
	run     *model.RunSummary
	players []model.PlayerRecord
}

func runShell(_ *cobra.Command, _ []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	s := &shellSession{db: db}
	cGreeting.Println("firstserve shell")
	if err := s.use(""); err != nil {
		cWarn.Fprintln(os.Stderr, err)
	}
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("firstserve")
		if s.run != nil {
			cMuted.Printf("[%s]", s.run.RunID[:min(8, len(s.run.RunID))])
		}
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		cmd, args := tokens[0], tokens[1:]

		switch cmd {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "runs":
			s.listRuns()
		case "use":
			prefix := ""
			if len(args) > 0 {
				prefix = args[0]
			}
			if err := s.use(prefix); err != nil {
				cError.Fprintf(os.Stderr, "error: %v\n", err)
			}
		case "players":
			minMatches := minMatchesDefault()
			if len(args) > 0 {
				if n, err := strconv.Atoi(args[0]); err == nil {
					minMatches = n
				}
			}
			s.showPlayers(minMatches)
		case "stat":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: stat <name> [min-observations]")
				continue
			}
			minObs := minObservationsDefault()
			if len(args) > 1 {
				if n, err := strconv.Atoi(args[1]); err == nil {
					minObs = n
				}
			}
			s.showStat(args[0], minObs)
		case "player":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: player <name>")
				continue
			}
			s.showPlayer(strings.Join(args, " "))
		case "match":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: match <match-id>")
				continue
			}
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				cError.Fprintf(os.Stderr, "invalid match id %q\n", args[0])
				continue
			}
			s.showMatch(id)
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", cmd)
		}
	}
	return nil
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"runs", "list all stored import runs"},
		{"use [run-prefix]", "switch to a run (newest if omitted)"},
		{"players [min-matches]", "final ledger ranked by win rate"},
		{"stat <name> [min-observations]", "players ranked by one running average"},
		{"player <name>", "match-by-match history of one player"},
		{"match <match-id>", "pre-match snapshot of one match"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-34s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

func (s *shellSession) use(prefix string) error {
	run, err := s.db.GetRunByPrefix(prefix)
	if err != nil {
		return fmt.Errorf("query run: %w", err)
	}
	if run == nil {
		if prefix == "" {
			return fmt.Errorf("no runs stored yet")
		}
		return fmt.Errorf("no run found with id prefix %q", prefix)
	}
	players, err := s.db.GetPlayers(run.RunID)
	if err != nil {
		return fmt.Errorf("load players: %w", err)
	}
	s.run, s.players = run, players
	cMuted.Printf("using run %s (%s, %d players)\n", run.RunID, run.Source, len(players))
	return nil
}

func (s *shellSession) ready() bool {
	if s.run == nil {
		cMuted.Println("No run selected. Import one first, then 'use'.")
		return false
	}
	return true
}

func (s *shellSession) listRuns() {
	runs, err := s.db.ListRuns()
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(runs) == 0 {
		cMuted.Println("No runs stored yet.")
		return
	}
	report.PrintRunList(os.Stdout, runs)
}

func (s *shellSession) showPlayers(minMatches int) {
	if !s.ready() {
		return
	}
	qualified := report.Qualified(s.players, minMatches)
	if len(qualified) == 0 {
		cMuted.Printf("No player has %d or more matches.\n", minMatches)
		return
	}
	report.PrintPlayerTable(os.Stdout, qualified, statColumns(s.players), "")
}

func (s *shellSession) showStat(stat string, minObs int) {
	if !s.ready() {
		return
	}
	report.PrintStatTable(os.Stdout, s.players, stat, minObs)
}

func (s *shellSession) showPlayer(name string) {
	if !s.ready() {
		return
	}
	var rec *model.PlayerRecord
	for i := range s.players {
		if s.players[i].Name == name {
			rec = &s.players[i]
			break
		}
	}
	if rec == nil {
		cError.Fprintf(os.Stderr, "player %q not found\n", name)
		return
	}
	history, err := s.db.GetPlayerHistory(s.run.RunID, name)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	template := statColumns(s.players)
	report.PrintPlayerTable(os.Stdout, []model.PlayerRecord{*rec}, template, name)
	report.PrintPlayerHistory(os.Stdout, name, history, template)
}

func (s *shellSession) showMatch(id int64) {
	if !s.ready() {
		return
	}
	m, err := s.db.GetMatch(s.run.RunID, id)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if m == nil {
		cError.Fprintf(os.Stderr, "match %d not found\n", id)
		return
	}
	report.PrintMatchRecord(os.Stdout, *m, statColumns(s.players))
}
