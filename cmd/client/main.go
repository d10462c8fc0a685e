package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"dragons-den/internal/apiclient"
	"dragons-den/internal/den"
	"dragons-den/internal/gamedata"
	"dragons-den/internal/ledger"
	"dragons-den/internal/session"
	"dragons-den/internal/shared/config"
	"dragons-den/internal/shared/logger"

	"github.com/dustin/go-humanize"
)

const help = `commands:
  collect                      collect gold
  hire                         hire a goblin
  send                         send minions
  explore <ruin> <type>        explore a ruin (careful|quick|forceful|magical)
  prestige                     reset for a prestige level
  sync                         refresh from the server
  focus                        resync when the last sync is stale
  status                       show the session
  logout                       forget the session and exit
  quit                         sync and exit

` + denHelp

func main() {
	if err := config.InitClient(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize configuration: %v\n", err)
		os.Exit(1)
	}
	logger.Init()

	if err := run(os.Stdin, os.Stdout); err != nil {
		slog.Error("Client exited with error", "error", err)
		os.Exit(1)
	}
}

func run(in io.Reader, out io.Writer) error {
	cfg := config.GlobalConfig.Client
	log := slog.With("component", "client")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog, err := gamedata.Load(config.GlobalConfig.Game.CatalogPath)
	if err != nil {
		return fmt.Errorf("failed to load game catalog: %w", err)
	}

	store := session.NewFileStore(cfg.StatePath)
	saved, found, err := store.Load()
	if err != nil {
		log.Warn("Ignoring unreadable saved session", "error", err)
	}

	token := cfg.Token
	if token == "" && found {
		token = saved.Token
	}

	api := apiclient.New(apiclient.Config{
		BaseURL: cfg.BaseURL,
		Token:   token,
		Timeout: cfg.RequestTimeout,
		Retries: cfg.TransportRetries,
	}, nil)

	keeper, err := newDen(time.Now())
	if err != nil {
		return fmt.Errorf("failed to create den: %w", err)
	}
	reports := make(chan den.Report, 16)

	sess := session.New(api, session.Options{
		Token:          token,
		TickInterval:   cfg.TickInterval,
		SyncInterval:   cfg.SyncInterval,
		FocusThreshold: cfg.FocusThreshold,
		Cooldowns:      session.DefaultCooldowns(),
		Achievements:   catalog.Achievements,
		Store:          store,
		OnTick:         updates(keeper, reports),
	})
	if found {
		sess.Restore(saved)
	}

	if err := sess.Start(ctx); err != nil {
		log.Warn("Initial sync failed", "error", err)
	}
	printStatus(out, sess)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return shutdown(sess)
		case rep := <-reports:
			printReport(out, rep)
		case line, ok := <-lines:
			if !ok {
				return shutdown(sess)
			}
			quit, err := execute(ctx, sess, keeper, out, line)
			if err != nil {
				return err
			}
			if quit {
				return nil
			}
		}
	}
}

func shutdown(sess *session.Session) error {
	ctx, cancel := context.WithTimeout(context.Background(), apiclient.DefaultTimeout)
	defer cancel()
	sess.Stop(ctx)
	return nil
}

func execute(ctx context.Context, sess *session.Session, keeper *den.Keeper, out io.Writer, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}

	var outcome session.Outcome
	switch fields[0] {
	case "collect":
		outcome = sess.CollectGold(ctx)
	case "hire":
		outcome = sess.HireGoblin(ctx)
	case "send":
		outcome = sess.SendMinions(ctx)
	case "explore":
		if len(fields) != 3 {
			fmt.Fprintln(out, "usage: explore <ruin> <type>")
			return false, nil
		}
		outcome = sess.ExploreRuins(ctx, fields[1], fields[2])
	case "prestige":
		outcome = sess.Prestige(ctx)
	case "sync":
		if err := sess.Sync(ctx); err != nil {
			fmt.Fprintf(out, "sync failed: %v\n", err)
		}
	case "focus":
		if !sess.Focus(ctx) {
			fmt.Fprintln(out, "already fresh")
		}
	case "status":
		printStatus(out, sess)
		return false, nil
	case "logout":
		return true, sess.Logout()
	case "quit", "exit":
		return true, shutdown(sess)
	default:
		if !denCommand(keeper, out, fields) {
			fmt.Fprintln(out, help)
		}
		return false, nil
	}

	if outcome != "" {
		fmt.Fprintf(out, "%s: %s\n", fields[0], outcome)
	}
	report(out, sess)
	return false, nil
}

func report(out io.Writer, sess *session.Session) {
	for _, a := range sess.Completed() {
		fmt.Fprintf(out, "achievement unlocked: %s (%s)\n", a.Name, a.Description)
	}

	st := sess.State()
	switch {
	case st.AuthRequired:
		fmt.Fprintf(out, "authentication required: %s\n", st.LoginURL)
	case st.Error != nil:
		fmt.Fprintf(out, "error (%s): %s\n", st.Error.Kind, st.Error.Message)
		sess.ClearError()
	}
}

func printStatus(out io.Writer, sess *session.Session) {
	st := sess.State()
	fmt.Fprintf(out, "gold %s (%s) | goblins %d | %.1f/s | prestige %d\n",
		humanize.Commaf(float64(int64(st.OptimisticGold))),
		ledger.FormatNumber(st.OptimisticGold),
		st.OptimisticGoblins,
		st.GoldPerSecond,
		st.PrestigeLevel,
	)
	if !st.LastServerSync.IsZero() {
		fmt.Fprintf(out, "last sync %s\n", humanize.Time(st.LastServerSync))
	}
	fmt.Fprintf(out, "next goblin costs %s\n", ledger.FormatNumber(ledger.HireCost(st.OptimisticGoblins)))

	for _, kind := range slices.Sorted(maps.Keys(st.Cooldowns)) {
		fmt.Fprintf(out, "cooldown %s: %s\n", kind, st.Cooldowns[kind].Round(time.Second))
	}
	if len(st.ServerTreasures) > 0 {
		fmt.Fprintf(out, "treasures: %s\n", strings.Join(st.ServerTreasures, ", "))
	}
	report(out, sess)
}
