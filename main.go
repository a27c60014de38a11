package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"

	"github.com/wavekit/synthdeck/internal/config"
	"github.com/wavekit/synthdeck/internal/device"
	"github.com/wavekit/synthdeck/internal/mcp"
	"github.com/wavekit/synthdeck/internal/param"
	"github.com/wavekit/synthdeck/internal/preset"
	"github.com/wavekit/synthdeck/internal/session"
	"github.com/wavekit/synthdeck/internal/wire"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	mgr := device.NewManager()
	defer mgr.Close()

	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "ports":
		listPorts(mgr)

	case "panels":
		printPanels()

	case "set":
		if len(os.Args) != 4 {
			log.Fatal("usage: synthdeck set <address> <value>")
		}
		addr := parseByte(os.Args[2], "address")
		value := parseByte(os.Args[3], "value")
		withSession(mgr, cfg, func(sess *session.Session) {
			if err := sess.Store.Write(param.Address(addr), value); err != nil {
				log.Fatalf("Failed to set parameter: %v", err)
			}
			if d, ok := param.FindDescriptor(param.Panels(), param.Address(addr)); ok {
				fmt.Printf("%s = %s\n", d.Name, d.Format(value))
			} else {
				fmt.Printf("parameter %d = %d\n", addr, value)
			}
		})

	case "preset":
		runPreset(mgr, cfg, os.Args[2:])

	case "monitor":
		withSession(mgr, cfg, func(sess *session.Session) {
			sess.Log.SetObserver(func(e wire.Entry) {
				fmt.Printf("%s %-8s % X\n", e.At.Format("15:04:05.000"), e.Direction, e.Raw)
			})
			fmt.Println("Monitoring wire traffic, Ctrl-C to stop.")
			c := make(chan os.Signal, 1)
			signal.Notify(c, os.Interrupt)
			<-c
		})

	case "mcp":
		withSession(mgr, cfg, func(sess *session.Session) {
			repo := openRepo(cfg)
			defer repo.Close()
			if err := mcp.Serve(sess, repo); err != nil {
				log.Fatalf("MCP server error: %v", err)
			}
		})

	default:
		log.Fatalf("unknown command %q", os.Args[1])
	}
}

func usage() {
	fmt.Println(`synthdeck - companion controller for a CC-driven synthesizer

commands:
  ports                         list available MIDI ports
  panels                        print the control panel layout
  set <address> <value>         set one parameter (both 0-127)
  preset save <name>            snapshot all known values (requires prior sets)
  preset load <name>            apply a stored preset to the device
  preset list                   list stored presets
  preset delete <name>          delete a stored preset
  preset export <name> <file>   write a preset to a YAML file
  preset import <file>          store a preset from a YAML file
  monitor                       tail the wire traffic log
  mcp                           serve the controller over MCP stdio`)
}

func listPorts(mgr *device.Manager) {
	fmt.Println("MIDI inputs:")
	for _, name := range mgr.ListInPorts() {
		fmt.Println("  " + name)
	}
	fmt.Println("MIDI outputs:")
	for _, name := range mgr.ListOutPorts() {
		fmt.Println("  " + name)
	}
}

func printPanels() {
	for _, p := range param.Panels() {
		fmt.Println(p.Name)
		for _, d := range p.Controls {
			fmt.Printf("  %-12s CC %-3d [%d..%d] default %s\n",
				d.Name, d.Address, d.Min, d.Max, d.Format(d.DefaultValue()))
		}
	}
}

func runPreset(mgr *device.Manager, cfg *config.Config, args []string) {
	if len(args) == 0 {
		log.Fatal("usage: synthdeck preset <save|load|list|delete|export|import> ...")
	}

	repo := openRepo(cfg)
	defer repo.Close()

	switch args[0] {
	case "save":
		if len(args) != 2 {
			log.Fatal("usage: synthdeck preset save <name>")
		}
		withSession(mgr, cfg, func(sess *session.Session) {
			values := sess.Store.KnownValues()
			if len(values) == 0 {
				log.Fatal("nothing to save: no parameter has been set in this session")
			}
			if err := repo.Save(args[1], values); err != nil {
				log.Fatalf("Failed to save preset: %v", err)
			}
			fmt.Printf("saved %q with %d parameters\n", args[1], len(values))
		})

	case "load":
		if len(args) != 2 {
			log.Fatal("usage: synthdeck preset load <name>")
		}
		values, ok, err := repo.Load(args[1])
		if err != nil {
			log.Fatalf("Failed to load preset: %v", err)
		}
		if !ok {
			log.Fatalf("no preset named %q", args[1])
		}
		withSession(mgr, cfg, func(sess *session.Session) {
			failed := preset.Apply(sess.Store, values)
			for _, f := range failed {
				log.Printf("parameter %d not applied: %v", f.Address, f.Err)
			}
			fmt.Printf("applied %d of %d parameters\n", len(values)-len(failed), len(values))
		})

	case "list":
		names, err := repo.List()
		if err != nil {
			log.Fatalf("Failed to list presets: %v", err)
		}
		for _, name := range names {
			fmt.Println(name)
		}

	case "delete":
		if len(args) != 2 {
			log.Fatal("usage: synthdeck preset delete <name>")
		}
		if err := repo.Delete(args[1]); err != nil {
			log.Fatalf("Failed to delete preset: %v", err)
		}

	case "export":
		if len(args) != 3 {
			log.Fatal("usage: synthdeck preset export <name> <file>")
		}
		values, ok, err := repo.Load(args[1])
		if err != nil {
			log.Fatalf("Failed to load preset: %v", err)
		}
		if !ok {
			log.Fatalf("no preset named %q", args[1])
		}
		if err := preset.ExportFile(args[2], args[1], values); err != nil {
			log.Fatalf("Failed to export preset: %v", err)
		}

	case "import":
		if len(args) != 2 {
			log.Fatal("usage: synthdeck preset import <file>")
		}
		name, values, err := preset.ImportFile(args[1])
		if err != nil {
			log.Fatalf("Failed to import preset: %v", err)
		}
		if err := repo.Save(name, values); err != nil {
			log.Fatalf("Failed to store imported preset: %v", err)
		}
		fmt.Printf("imported %q with %d parameters\n", name, len(values))

	default:
		log.Fatalf("unknown preset command %q", args[0])
	}
}

// withSession opens the single active session, runs fn, and closes it again.
func withSession(mgr *device.Manager, cfg *config.Config, fn func(*session.Session)) {
	sess, err := session.Open(mgr, cfg)
	if err != nil {
		log.Fatalf("Failed to open device session: %v", err)
	}
	defer sess.Close()
	fn(sess)
}

func openRepo(cfg *config.Config) *preset.Repository {
	path, err := cfg.PresetDBPath()
	if err != nil {
		log.Fatalf("Failed to resolve preset database path: %v", err)
	}
	repo, err := preset.Open(path)
	if err != nil {
		log.Fatalf("Failed to open preset database: %v", err)
	}
	return repo
}

func parseByte(s, what string) uint8 {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > param.DomainMax {
		log.Fatalf("%s must be an integer 0-127, got %q", what, s)
	}
	return uint8(n)
}
