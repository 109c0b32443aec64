package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/dipgate/judged/pkg/archive"
	"github.com/dipgate/judged/pkg/boltstore"
	"github.com/dipgate/judged/pkg/daemon"
	"github.com/dipgate/judged/pkg/judge"
	"github.com/dipgate/judged/pkg/mediator"
)

// envDefault returns the environment variable value if set, otherwise the fallback.
func envDefault(envVar, fallback string) string {
	if v := os.Getenv(envVar); v != "" {
		return v
	}
	return fallback
}

func main() {
	confFile := flag.String("conf", envDefault("JUDGED_CONF", ""), "Path to config file (.yaml) (env: JUDGED_CONF)")
	storePath := flag.String("store", envDefault("JUDGED_STORE", ""), "Path to bbolt record store, overrides config (env: JUDGED_STORE)")
	archivePath := flag.String("archive", envDefault("JUDGED_ARCHIVE", ""), "Path to sqlite transcript archive, overrides config (env: JUDGED_ARCHIVE)")
	metricsAddr := flag.String("metrics", envDefault("JUDGED_METRICS", ""), "Prometheus listen address, overrides config (env: JUDGED_METRICS)")

	ingestListing := flag.String("ingest-listing", "", "Parse a listing transcript from stdin for the named game and store it")
	ingestHistory := flag.String("ingest-history", "", "Parse a history transcript from stdin for the named game")
	resolveCmd := flag.String("resolve", "", "Resolve and print the engine message for this raw command")
	recommendGame := flag.String("recommend", "", "Print command recommendations for the named game")
	identity := flag.String("as", envDefault("JUDGED_IDENTITY", ""), "Operator email for -resolve/-recommend (env: JUDGED_IDENTITY)")
	game := flag.String("game", "", "Target game for -resolve")
	password := flag.String("password", "", "Engine password for -resolve")
	variant := flag.String("variant", "", "Variant override for -resolve (forces the join form)")
	watch := flag.Bool("watch", false, "Stay running, hot-reload config, serve metrics")
	flag.Parse()

	cfg := daemon.DefaultConfig()
	if *confFile != "" {
		loaded, err := daemon.LoadConfig(*confFile)
		if err != nil {
			log.Fatalf("loading config: %v", err)
		}
		cfg = loaded
	}
	if *storePath != "" {
		cfg.StorePath = *storePath
	}
	if *archivePath != "" {
		cfg.ArchivePath = *archivePath
	}
	if *metricsAddr != "" {
		cfg.MetricsAddr = *metricsAddr
	}

	if *ingestListing == "" && *ingestHistory == "" && *resolveCmd == "" &&
		*recommendGame == "" && !*watch {
		fmt.Fprintln(os.Stderr, "Usage: judged [-conf judged.yaml] <mode>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Modes:")
		fmt.Fprintln(os.Stderr, "  -ingest-listing <game>   parse a listing transcript from stdin and store it")
		fmt.Fprintln(os.Stderr, "  -ingest-history <game>   parse a history transcript from stdin")
		fmt.Fprintln(os.Stderr, "  -resolve <command> -as <email> [-game g] [-password p] [-variant v]")
		fmt.Fprintln(os.Stderr, "  -recommend <game> -as <email>")
		fmt.Fprintln(os.Stderr, "  -watch                   stay running, hot-reload config, serve metrics")
		os.Exit(2)
	}

	store, err := boltstore.Open(cfg.StorePath)
	if err != nil {
		log.Fatalf("opening store: %v", err)
	}
	defer store.Close()

	var arch *archive.Archive
	if cfg.ArchivePath != "" {
		arch, err = archive.Open(cfg.ArchivePath)
		if err != nil {
			log.Fatalf("opening archive: %v", err)
		}
		defer arch.Close()
	}

	var metrics *daemon.Metrics
	if cfg.MetricsAddr != "" {
		metrics = daemon.NewMetrics()
		go metrics.Serve(cfg.MetricsAddr)
	}

	svc := daemon.New(cfg, store, arch, metrics)
	ctx := context.Background()

	switch {
	case *ingestListing != "":
		text := readStdin()
		gs, err := svc.IngestListing(ctx, *ingestListing, text)
		if err != nil {
			log.Fatalf("ingest listing: %v", err)
		}
		fmt.Printf("%s: status=%s variant=%s phase=%s deadline=%q players=%d masters=%d observers=%d\n",
			gs.Name, gs.Status, gs.Variant, gs.CurrentPhase, gs.NextDeadline,
			len(gs.Players), len(gs.Masters), len(gs.Observers))

	case *ingestHistory != "":
		text := readStdin()
		hist, err := svc.IngestHistory(ctx, *ingestHistory, text)
		if err != nil {
			log.Fatalf("ingest history: %v", err)
		}
		for _, ph := range hist.Phases {
			fmt.Printf("%s: deadline=%q orders=%d press=%d\n",
				ph.PhaseCode, ph.Deadline, countOrders(ph.Orders), len(ph.Press))
		}

	case *resolveCmd != "":
		msg, err := svc.BuildEngineMessage(mediator.Request{
			Identity: *identity,
			Command:  *resolveCmd,
			Game:     *game,
			Password: *password,
			Variant:  *variant,
		})
		if err != nil {
			log.Fatalf("resolve: %v", err)
		}
		fmt.Print(msg)

	case *recommendGame != "":
		set, err := svc.Recommend(*recommendGame, *identity)
		if err != nil {
			log.Fatalf("recommend: %v", err)
		}
		printCategory("recommended", set.Recommended)
		printCategory("player actions", set.PlayerActions)
		printCategory("settings", set.Settings)
		printCategory("game info", set.GameInfo)
		printCategory("master", set.Master)
		printCategory("general", set.General)

	case *watch:
		if *confFile != "" {
			watcher, err := daemon.WatchConfig(*confFile, svc.Reconfigure)
			if err != nil {
				log.Fatalf("watching config: %v", err)
			}
			defer watcher.Close()
		}
		log.Printf("judged: running (store=%s)", store.Path())
		select {}
	}
}

func readStdin() string {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		log.Fatalf("reading stdin: %v", err)
	}
	return string(data)
}

func countOrders(orders map[string][]judge.Order) int {
	n := 0
	for _, o := range orders {
		n += len(o)
	}
	return n
}

func printCategory(name string, cmds []string) {
	if len(cmds) == 0 {
		return
	}
	fmt.Printf("%-14s %s\n", name+":", strings.Join(cmds, ", "))
}
