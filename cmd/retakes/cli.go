package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/GL1TCH1337/cs2-retakes/internal/config"
	"github.com/GL1TCH1337/cs2-retakes/internal/cvars"
	"github.com/GL1TCH1337/cs2-retakes/internal/handlers"
	"github.com/GL1TCH1337/cs2-retakes/internal/parser"
	"github.com/GL1TCH1337/cs2-retakes/internal/storage"
	"github.com/GL1TCH1337/cs2-retakes/pkg/core"
)

const usage = `usage: retakes [-config dir] <command> [args]

commands:
  simulate [-freeze seconds] <map> <A|B> [tCount] [ctCount]
  import <map> <file.json>
  export <map> [file.json]
  status <map>
  maps
  version`

// simulationHorizon bounds how far the virtual clock is advanced.
const simulationHorizon = 10 * time.Minute

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet(AppName, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	configDir := fs.String("config", ".", "directory containing "+config.FileName)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w\n%s", err, usage)
	}
	args = fs.Args()
	if len(args) == 0 {
		fmt.Fprintln(out, usage)
		return nil
	}

	switch strings.ToLower(args[0]) {
	case "simulate":
		return simulate(*configDir, args[1:], out)
	case "import":
		return importCatalog(*configDir, args[1:], out)
	case "export":
		return exportCatalog(*configDir, args[1:], out)
	case "status":
		return status(*configDir, args[1:], out)
	case "maps":
		return listMaps(*configDir, out)
	case "version":
		fmt.Fprintf(out, "%s %s (%s)\n", AppName, CurrentVersion, BuildDate)
		return nil
	default:
		return fmt.Errorf("unknown command %q\n%s", args[0], usage)
	}
}

// spawnPrinter writes one line per dispatch attempt.
type spawnPrinter struct {
	out   io.Writer
	clock func() time.Duration
	count int
}

func (p *spawnPrinter) RecordSpawn(r *core.SpawnRecord) error {
	p.count++
	var at time.Duration
	if p.clock != nil {
		at = p.clock()
	}
	pos := "-"
	if r.Position != nil {
		pos = r.Position.String()
	}
	line := fmt.Sprintf("+%6.2fs  %-10s %-16s %-13s %-24s %s",
		at.Seconds(), r.Outcome, r.Team, r.Type, r.Name, pos)
	if r.Error != "" {
		line += "  (" + r.Error + ")"
	}
	_, err := fmt.Fprintln(p.out, line)
	return err
}

func simulate(configDir string, args []string, out io.Writer) (err error) {
	fs := flag.NewFlagSet("simulate", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	freeze := fs.Float64("freeze", 15, "freeze time in seconds")
	if err := fs.Parse(args); err != nil {
		return err
	}
	args = fs.Args()
	if err := parser.RequireArgs(args, 2, "simulate <map> <A|B> [tCount] [ctCount]"); err != nil {
		return err
	}
	counts := [2]int{5, 5}
	for i := range counts {
		if len(args) > 2+i {
			n, err := strconv.Atoi(args[2+i])
			if err != nil || n < 0 {
				return fmt.Errorf("invalid player count %q", args[2+i])
			}
			counts[i] = n
		}
	}

	printer := &spawnPrinter{out: out}
	a, err := bootstrap(bootOptions{configDir: configDir, forceEnable: true, extra: printer})
	if err != nil {
		return err
	}
	defer closeApp(a, &err)
	printer.clock = a.timers.Now

	entries, err := a.dispatch(handlers.CmdMapStart, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s: %d entries loaded\n", args[0], entries)

	slot := 0
	for i, team := range []string{"T", "CT"} {
		for j := 0; j < counts[i]; j++ {
			slot++
			if _, err := a.dispatch(handlers.CmdPlayerTeam, strconv.Itoa(slot), team); err != nil {
				return err
			}
		}
	}
	freezeCvar := a.ordnance.FreezeTimeCvar
	if freezeCvar == "" {
		freezeCvar = cvars.DefaultFreezeTimeCvar
	}
	if _, err := a.dispatch(handlers.CmdCvar, freezeCvar, strconv.FormatFloat(*freeze, 'f', -1, 64)); err != nil {
		return err
	}
	if _, err := a.dispatch(handlers.CmdRoundStart, "1"); err != nil {
		return err
	}
	if _, err := a.dispatch(handlers.CmdRoundSite, args[1]); err != nil {
		return err
	}

	scheduled := a.timers.Pending()
	fmt.Fprintf(out, "site %s: %d throws scheduled (T=%d, CT=%d, freeze=%gs)\n",
		strings.ToUpper(args[1]), scheduled, counts[0], counts[1], *freeze)

	for a.timers.Pending() > 0 && a.timers.Now() < simulationHorizon {
		a.timers.Advance(250 * time.Millisecond)
	}
	fmt.Fprintf(out, "%d dispatched, %d still pending\n", printer.count, a.timers.Pending())
	return nil
}

// closeApp shuts a down and adds its error, such as a failed spawn export,
// to the command's result.
func closeApp(a *app, err *error) {
	if cerr := a.Close(); cerr != nil {
		*err = errors.Join(*err, fmt.Errorf("shutdown: %w", cerr))
	}
}

// readCatalogFile accepts either a full map file or a bare entry list.
func readCatalogFile(path string) ([]core.Ordnance, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var entries []core.Ordnance
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return entries, nil
	}
	var cfg core.MapConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Grenades == nil {
		return []core.Ordnance{}, nil
	}
	return cfg.Grenades, nil
}

func importCatalog(configDir string, args []string, out io.Writer) (err error) {
	if err := parser.RequireArgs(args, 2, "import <map> <file.json>"); err != nil {
		return err
	}
	entries, err := readCatalogFile(args[1])
	if err != nil {
		return err
	}

	a, err := bootstrap(bootOptions{configDir: configDir})
	if err != nil {
		return err
	}
	defer closeApp(a, &err)

	if err := a.backend.SaveCatalog(args[0], entries); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s: imported %d entries\n", args[0], len(entries))
	return nil
}

func exportCatalog(configDir string, args []string, out io.Writer) (err error) {
	if err := parser.RequireArgs(args, 1, "export <map> [file.json]"); err != nil {
		return err
	}
	a, err := bootstrap(bootOptions{configDir: configDir})
	if err != nil {
		return err
	}
	defer closeApp(a, &err)

	entries, err := a.backend.LoadCatalog(args[0])
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(core.MapConfig{
		Spawns:   []json.RawMessage{},
		Grenades: entries,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}

	if len(args) > 1 {
		if err := os.WriteFile(args[1], data, 0644); err != nil {
			return fmt.Errorf("write %s: %w", args[1], err)
		}
		fmt.Fprintf(out, "%s: exported %d entries to %s\n", args[0], len(entries), args[1])
		return nil
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

func status(configDir string, args []string, out io.Writer) (err error) {
	if err := parser.RequireArgs(args, 1, "status <map>"); err != nil {
		return err
	}
	a, err := bootstrap(bootOptions{configDir: configDir})
	if err != nil {
		return err
	}
	defer closeApp(a, &err)

	if _, err := a.dispatch(handlers.CmdMapStart, args[0]); err != nil {
		return err
	}
	res, err := a.dispatch(handlers.CmdStatus)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, res)
	return err
}

func listMaps(configDir string, out io.Writer) (err error) {
	a, err := bootstrap(bootOptions{configDir: configDir})
	if err != nil {
		return err
	}
	defer closeApp(a, &err)

	lister, ok := a.backend.(storage.MapLister)
	if !ok {
		return errors.New("storage backend cannot list maps")
	}
	maps, err := lister.Maps()
	if err != nil {
		return err
	}
	for _, m := range maps {
		fmt.Fprintln(out, m)
	}
	return nil
}
