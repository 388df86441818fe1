// cpsync: operator CLI for checkpoint stores.
// Commands: latest, fetch, list, location, reorg, export, import.

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/go-logr/logr"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/crosslane/checkpointsync/internal/archive"
	"github.com/crosslane/checkpointsync/internal/config"
	"github.com/crosslane/checkpointsync/internal/syncer"
)

func usage() {
	fmt.Fprintf(os.Stderr, `usage: cpsync [-config path] <command> [args]

commands:
  latest                  print the store's latest checkpoint index
  fetch <index>           print the signed checkpoint at index as JSON
  list <from> <to>        list published checkpoints in an index range
  location                print the announcement location URI
  reorg                   print the flagged reorg event, if any
  export <from> <to> <f>  export a checkpoint range to archive file f
  import <f>              publish checkpoints from archive file f
`)
	os.Exit(2)
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "cpsync: "+format+"\n", args...)
	os.Exit(1)
}

func newLogger(verbose bool) logr.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelInfo
	}
	h := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return logr.FromSlogHandler(h)
}

func buildSyncer(ctx context.Context, cfg *config.Config, logger logr.Logger) (syncer.CheckpointSyncer, error) {
	switch cfg.Backend {
	case config.BackendLocal:
		id := syncer.StoreIdentity{Bucket: cfg.Bucket, Folder: cfg.Folder, Scheme: cfg.Scheme}
		return syncer.NewStoreSyncer(syncer.NewFolderStore(cfg.LocalRoot), id, logger)
	case config.BackendS3:
		b := syncer.NewBuilder(syncer.AuthFlow{
			Mode:            syncer.AuthMode(cfg.AuthMode),
			CredentialsFile: cfg.CredentialsFile,
		})
		b.Region = cfg.Region
		b.Endpoint = cfg.Endpoint
		b.PathStyle = cfg.PathStyle
		b.Scheme = cfg.Scheme
		b.Logger = logger
		if cfg.Retry {
			retry := syncer.DefaultRetryConfig()
			b.Retry = &retry
		}
		return b.Build(ctx, cfg.Bucket, cfg.Folder)
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

func parseIndex(arg string) uint32 {
	v, err := strconv.ParseUint(arg, 10, 32)
	if err != nil {
		fatal("invalid index %q", arg)
	}
	return uint32(v)
}

func cmdLatest(ctx context.Context, s syncer.CheckpointSyncer) {
	index, err := s.LatestIndex(ctx)
	if err != nil {
		fatal("latest: %v", err)
	}
	if index == nil {
		fmt.Println("none")
		return
	}
	fmt.Println(*index)
}

func cmdFetch(ctx context.Context, s syncer.CheckpointSyncer, args []string) {
	if len(args) != 1 {
		usage()
	}
	signed, err := s.FetchCheckpoint(ctx, parseIndex(args[0]))
	if err != nil {
		fatal("fetch: %v", err)
	}
	if signed == nil {
		fmt.Println("none")
		return
	}
	out, err := json.MarshalIndent(signed, "", "  ")
	if err != nil {
		fatal("fetch: %v", err)
	}
	fmt.Println(string(out))
}

func cmdList(ctx context.Context, s syncer.CheckpointSyncer, args []string) {
	if len(args) != 2 {
		usage()
	}
	from, to := parseIndex(args[0]), parseIndex(args[1])
	if to < from {
		fatal("list: invalid range %d..%d", from, to)
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"Index", "Root", "Message ID"})
	found := 0
	for i := from; ; i++ {
		signed, err := s.FetchCheckpoint(ctx, i)
		if err != nil {
			fatal("list: %v", err)
		}
		if signed != nil {
			tw.AppendRow(table.Row{signed.Index(), signed.Value.Root, signed.Value.MessageID})
			found++
		}
		if i == to {
			break
		}
	}
	if found == 0 {
		fmt.Println("no checkpoints in range")
		return
	}
	tw.Render()
}

func cmdLocation(s syncer.CheckpointSyncer) {
	fmt.Println(s.AnnouncementLocation())
}

func cmdReorg(ctx context.Context, s syncer.CheckpointSyncer) {
	event, err := s.ReorgStatus(ctx)
	if err != nil {
		fatal("reorg: %v", err)
	}
	if event == nil {
		fmt.Println("no active reorg")
		return
	}
	out, err := json.MarshalIndent(event, "", "  ")
	if err != nil {
		fatal("reorg: %v", err)
	}
	fmt.Println(string(out))
}

func cmdExport(ctx context.Context, s syncer.CheckpointSyncer, args []string) {
	if len(args) != 3 {
		usage()
	}
	from, to := parseIndex(args[0]), parseIndex(args[1])
	f, err := os.Create(args[2])
	if err != nil {
		fatal("export: %v", err)
	}
	n, err := archive.Export(ctx, s, from, to, f)
	if err != nil {
		f.Close()
		os.Remove(args[2])
		fatal("export: %v", err)
	}
	if err := f.Close(); err != nil {
		fatal("export: %v", err)
	}
	fmt.Printf("exported %d checkpoints to %s\n", n, args[2])
}

func cmdImport(ctx context.Context, s syncer.CheckpointSyncer, args []string) {
	if len(args) != 1 {
		usage()
	}
	f, err := os.Open(args[0])
	if err != nil {
		fatal("import: %v", err)
	}
	defer f.Close()
	n, err := archive.Import(ctx, s, f)
	if err != nil {
		fatal("import: %v", err)
	}
	fmt.Printf("published %d checkpoints from %s\n", n, args[0])
}

func main() {
	configPath := flag.String("config", "", "config file path")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		usage()
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal("config: %v", err)
	}

	ctx := context.Background()
	logger := newLogger(*verbose)
	s, err := buildSyncer(ctx, cfg, logger)
	if err != nil {
		fatal("%v", err)
	}

	switch args[0] {
	case "latest":
		cmdLatest(ctx, s)
	case "fetch":
		cmdFetch(ctx, s, args[1:])
	case "list":
		cmdList(ctx, s, args[1:])
	case "location":
		cmdLocation(s)
	case "reorg":
		cmdReorg(ctx, s)
	case "export":
		cmdExport(ctx, s, args[1:])
	case "import":
		cmdImport(ctx, s, args[1:])
	default:
		usage()
	}
}
