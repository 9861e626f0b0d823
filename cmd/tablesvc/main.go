package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/muesli/termenv"
	"golang.org/x/sync/errgroup"

	"github.com/cardtable/tablesvc/internal/config"
	"github.com/cardtable/tablesvc/internal/dispatch"
	"github.com/cardtable/tablesvc/internal/game"
	"github.com/cardtable/tablesvc/internal/registry"
	"github.com/cardtable/tablesvc/internal/server"
	"github.com/cardtable/tablesvc/internal/timer"
	"github.com/cardtable/tablesvc/internal/transcript"
)

// CLI is the tablesvc entrypoint's flag set, grounded on the teacher's
// cmd/server/main.go kong.CLI shape but scoped to the 200 server's own
// knobs.
type CLI struct {
	Addr       string `kong:"default=':8080',help='Server address'"`
	Debug      bool   `kong:"help='Enable debug logging'"`
	TablesFile string `kong:"name='tables-file',help='HCL file describing default tables (falls back to built-in defaults)'"`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("tablesvc"),
		kong.Description("200 (partnership trick-taking) game server"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
	)

	env := config.LoadEnv()

	level := log.InfoLevel
	if cli.Debug || env.LogLevel == "debug" {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           level,
	})
	logger.SetColorProfile(termenv.TrueColor)

	if err := run(cli, env, logger); err != nil {
		logger.Error("tablesvc exited with error", "err", err)
		kctx.Exit(1)
	}
}

func run(cli CLI, env config.Env, logger *log.Logger) error {
	reg := registry.New()
	names := registry.NewNames(logger)
	transcripts := transcript.NewStore()
	lanes := dispatch.NewManager()
	rooms := dispatch.NewRooms()

	if err := seedDefaultTables(reg, cli.TablesFile, logger); err != nil {
		return fmt.Errorf("seed default tables: %w", err)
	}

	svc := server.New(env, reg, names, transcripts, lanes, rooms, logger)
	supervisor := timer.New(quartz.NewReal(), reg, lanes, logger)

	listener, err := net.Listen("tcp", cli.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cli.Addr, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return svc.Serve(gctx, listener)
	})
	g.Go(func() error {
		supervisor.Run(gctx)
		return nil
	})

	logger.Info("tablesvc starting", "addr", cli.Addr, "integration_test", env.IntegrationTest)
	return g.Wait()
}

// seedDefaultTables loads the table fixtures and registers one
// registry.Table per fixture in the default lobby, each pre-seated
// with its named bots so a fourth human can join and start a game
// immediately (§6 "Default tables").
func seedDefaultTables(reg *registry.Registry, tablesFile string, logger *log.Logger) error {
	doc, err := config.LoadTableDoc(tablesFile)
	if err != nil {
		return err
	}

	for _, fixture := range doc.Tables {
		t := registry.NewTable(fixture.Name, fixture.Name, "")
		t.TimeoutBudget = int64(fixture.TimeoutMs)
		t.DeckVariant = fixture.Variant()
		t.ScoreTarget = fixture.ScoreTarget
		t.KittyEnabled = fixture.KittyEnabled
		t.AllowPointCardDiscards = fixture.AllowPointCardDiscards
		t.EnforceOpposingTeamBidRule = fixture.EnforceOpposingTeamBidRule

		for i, b := range fixture.Bots {
			if i >= registry.MaxSeats {
				break
			}
			t.Seats[i] = &game.Player{
				ID:          fixture.Name + "-bot-" + b.Name,
				DisplayName: b.Name,
				IsBot:       true,
				BotSkill:    b.BotSkill(),
				Position:    game.SeatPosition(i),
			}
		}

		if !reg.CreateTable("default", t) {
			logger.Warn("duplicate default table fixture skipped", "table", fixture.Name)
			continue
		}
		logger.Info("seeded default table", "table", fixture.Name, "bots", len(fixture.Bots))
	}
	return nil
}
