// Package main provides the charforge CLI: the collaborator shell that
// collects character input, runs it through the record model and persists
// the result under the characters directory.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	_ "github.com/joho/godotenv/autoload"

	"github.com/osfrkit/charforge/internal/catalog"
	"github.com/osfrkit/charforge/internal/character"
	"github.com/osfrkit/charforge/internal/forge"
	"github.com/osfrkit/charforge/internal/platform/config"
	"github.com/osfrkit/charforge/internal/vault"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("load configuration", "error", err)
	}

	schema := character.DefaultSchema()
	if cfg.SchemaPath != "" {
		schema, err = character.LoadSchema(cfg.SchemaPath)
		if err != nil {
			log.Fatal("load ruleset schema", "path", cfg.SchemaPath, "error", err)
		}
	}

	if err := run(os.Args[1], os.Args[2:], cfg, schema); err != nil {
		log.Fatal(os.Args[1], "error", err)
	}
}

func run(command string, args []string, cfg config.Config, schema character.Schema) error {
	switch command {
	case "schema":
		return printDocumentSchema()
	case "open":
		return openExplorer(cfg.CharactersDir)
	}

	v := vault.New(cfg.CharactersDir)
	if err := v.Ensure(); err != nil {
		return err
	}

	store, err := catalog.Open(cfg.CatalogPath)
	if err != nil {
		return err
	}
	defer store.Close()

	svc := forge.New(schema, v, store)

	switch command {
	case "new":
		return runNew(svc, args)
	case "set":
		return runSet(svc, args)
	case "attach":
		return runAttach(svc, args)
	case "detach":
		return runDetach(svc, args)
	case "show":
		return runShow(svc, args)
	case "list":
		return runList(svc)
	case "catalog":
		return runCatalog(store, args)
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

// paramFlags collects repeated -p name=value flags.
type paramFlags []string

func (p *paramFlags) String() string {
	return strings.Join(*p, ",")
}

func (p *paramFlags) Set(value string) error {
	*p = append(*p, value)
	return nil
}

func runNew(svc *forge.Service, args []string) error {
	fs := flag.NewFlagSet("new", flag.ExitOnError)
	name := fs.String("name", "", "character name")
	var params paramFlags
	fs.Var(&params, "p", "parameter as name=value (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	parameters, err := coerceParams(svc.Schema(), params)
	if err != nil {
		return err
	}

	record, err := svc.Create(*name, parameters)
	if err != nil {
		return err
	}
	log.Info("forged character", "name", record.Name, "file", vault.FileName(record.Name))
	return nil
}

func runSet(svc *forge.Service, args []string) error {
	fs := flag.NewFlagSet("set", flag.ExitOnError)
	name := fs.String("name", "", "character name")
	var params paramFlags
	fs.Var(&params, "p", "parameter as name=value (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(params) == 0 {
		return fmt.Errorf("at least one -p name=value is required")
	}

	parameters, err := coerceParams(svc.Schema(), params)
	if err != nil {
		return err
	}
	for parameter, value := range parameters {
		if _, err := svc.SetParameter(*name, parameter, value); err != nil {
			return err
		}
		log.Info("set parameter", "name", *name, "parameter", parameter, "value", value.String())
	}
	return nil
}

func runAttach(svc *forge.Service, args []string) error {
	fs := flag.NewFlagSet("attach", flag.ExitOnError)
	name := fs.String("name", "", "character name")
	mount := fs.String("mount", "", "mount option to attach")
	clothing := fs.String("clothing", "", "clothing option to attach")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()
	if *mount != "" {
		if _, err := svc.AttachMount(ctx, *name, *mount); err != nil {
			return err
		}
		log.Info("attached mount", "name", *name, "mount", *mount)
	}
	if *clothing != "" {
		if _, err := svc.AttachClothing(ctx, *name, *clothing); err != nil {
			return err
		}
		log.Info("attached clothing", "name", *name, "clothing", *clothing)
	}
	if *mount == "" && *clothing == "" {
		return fmt.Errorf("one of -mount or -clothing is required")
	}
	return nil
}

func runDetach(svc *forge.Service, args []string) error {
	fs := flag.NewFlagSet("detach", flag.ExitOnError)
	name := fs.String("name", "", "character name")
	mount := fs.String("mount", "", "mount to detach")
	clothing := fs.String("clothing", "", "clothing to detach")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *mount != "" {
		if _, err := svc.DetachMount(*name, *mount); err != nil {
			return err
		}
		log.Info("detached mount", "name", *name, "mount", *mount)
	}
	if *clothing != "" {
		if _, err := svc.DetachClothing(*name, *clothing); err != nil {
			return err
		}
		log.Info("detached clothing", "name", *name, "clothing", *clothing)
	}
	if *mount == "" && *clothing == "" {
		return fmt.Errorf("one of -mount or -clothing is required")
	}
	return nil
}

func runShow(svc *forge.Service, args []string) error {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	name := fs.String("name", "", "character name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	record, err := svc.Get(*name)
	if err != nil {
		return err
	}
	data, err := character.Encode(record)
	if err != nil {
		return err
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, data, "", "  "); err != nil {
		return err
	}
	fmt.Println(pretty.String())
	return nil
}

func runList(svc *forge.Service) error {
	names, err := svc.List()
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

func runCatalog(store *catalog.Store, args []string) error {
	fs := flag.NewFlagSet("catalog", flag.ExitOnError)
	kind := fs.String("kind", "mounts", "catalog to list: mounts or clothing")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()
	var options []catalog.Option
	var err error
	switch *kind {
	case "mounts":
		options, err = store.ListMounts(ctx)
	case "clothing":
		options, err = store.ListClothing(ctx)
	default:
		return fmt.Errorf("unknown catalog kind %q", *kind)
	}
	if err != nil {
		return err
	}

	for _, option := range options {
		attributes, err := json.Marshal(option.Attributes)
		if err != nil {
			return err
		}
		fmt.Printf("%s\t%s\n", option.Name, attributes)
	}
	return nil
}

func printDocumentSchema() error {
	data, err := json.MarshalIndent(character.DocumentSchema(), "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// openExplorer opens the characters directory in the platform file browser.
func openExplorer(dir string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("explorer", dir)
	case "darwin":
		cmd = exec.Command("open", dir)
	default:
		cmd = exec.Command("xdg-open", dir)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open file explorer: %w", err)
	}
	return nil
}

func coerceParams(schema character.Schema, params paramFlags) (map[string]character.Value, error) {
	parameters := make(map[string]character.Value, len(params))
	for _, raw := range params {
		name, value, ok := strings.Cut(raw, "=")
		if !ok {
			return nil, fmt.Errorf("parameter %q must be name=value", raw)
		}

		spec, known := schema.Spec(name)
		if known && spec.Kind == character.KindNumber {
			parsed, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return nil, fmt.Errorf("parameter %q expects a number, got %q", name, value)
			}
			parameters[name] = character.NumberValue(parsed)
			continue
		}
		// Unknown names stay text so validation reports them precisely.
		parameters[name] = character.TextValue(value)
	}
	return parameters, nil
}

func usage() {
	fmt.Fprintf(os.Stderr, `charforge - OSFR character forge

Usage:
  charforge new -name NAME [-p name=value ...]
  charforge set -name NAME -p name=value [-p name=value ...]
  charforge attach -name NAME [-mount OPTION] [-clothing OPTION]
  charforge detach -name NAME [-mount OPTION] [-clothing OPTION]
  charforge show -name NAME
  charforge list
  charforge catalog [-kind mounts|clothing]
  charforge schema
  charforge open

Configuration (environment, .env supported):
  CHARFORGE_CHARACTERS_DIR  directory for character files (default: characters)
  CHARFORGE_CATALOG_PATH    option catalog database (default: catalog.db)
  CHARFORGE_SCHEMA_PATH     ruleset schema file (default: built-in OSFR set)
`)
}
