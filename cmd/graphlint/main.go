package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/hanpama/graphlint/internal/language"
	"github.com/hanpama/graphlint/internal/otel"
	"github.com/hanpama/graphlint/internal/schema"
	"github.com/hanpama/graphlint/internal/server"
	"github.com/hanpama/graphlint/internal/validation"
)

const rootUsage = `graphlint — static validation for GraphQL query documents

USAGE:
  graphlint <command> [flags]

COMMANDS:
  check            Validate query documents against a schema
  serve            Run the HTTP lint endpoint
  help             Show help for any command
`

const checkUsage = `check FLAGS:
  -schema <file>   GraphQL schema SDL file (required)

  Remaining arguments are query document files; use - for stdin.
  Findings are printed as file:line:col: message. Exits non-zero
  when any finding is reported.
`

const serveUsage = `serve FLAGS:
  -schema <file>              GraphQL schema SDL file (required)
  -server.addr <addr>         HTTP listen address (default: :8080)
  -server.pretty              Pretty-print JSON responses
  -server.timeout <duration>  Per-request timeout, e.g. 10s (default: 10s)
  -server.max-body <bytes>    Request body size limit (default: 1048576)
  -cors.origin <origin>       Allowed CORS origin. Repeatable
  -otel.endpoint <addr>       OTLP collector endpoint
  -otel.service <name>        OpenTelemetry service name (default: graphlint)
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("missing command")
	}

	cmd := args[0]
	cmdArgs := args[1:]
	switch cmd {
	case "check":
		return cmdCheck(cmdArgs)
	case "serve":
		return cmdServe(cmdArgs)
	case "help":
		return cmdHelp(cmdArgs)
	default:
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func cmdHelp(args []string) error {
	if len(args) == 0 {
		fmt.Print(rootUsage)
		return nil
	}
	switch args[0] {
	case "check":
		fmt.Print(checkUsage)
	case "serve":
		fmt.Print(serveUsage)
	default:
		return fmt.Errorf("unknown help topic %q", args[0])
	}
	return nil
}

type stringListFlag []string

func (s *stringListFlag) String() string { return "" }

func (s *stringListFlag) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func cmdCheck(args []string) error {
	schemaFile := ""
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.StringVar(&schemaFile, "schema", schemaFile, "GraphQL schema SDL file")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, checkUsage)
		return err
	}
	if schemaFile == "" {
		fmt.Fprint(os.Stderr, checkUsage)
		return fmt.Errorf("-schema is required")
	}
	files := fs.Args()
	if len(files) == 0 {
		fmt.Fprint(os.Stderr, checkUsage)
		return fmt.Errorf("no query documents given")
	}

	sch, err := loadSchema(schemaFile)
	if err != nil {
		return err
	}

	total := 0
	for _, file := range files {
		name := file
		var content []byte
		if file == "-" {
			name = "<stdin>"
			content, err = io.ReadAll(os.Stdin)
		} else {
			content, err = os.ReadFile(file)
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}

		doc, err := language.ParseQuery(string(content))
		if err != nil {
			total++
			if ge, ok := language.AsError(err); ok && len(ge.Locations) > 0 {
				fmt.Printf("%s:%d:%d: %s\n", name, ge.Locations[0].Line, ge.Locations[0].Column, ge.Message)
			} else {
				fmt.Printf("%s: %v\n", name, err)
			}
			continue
		}
		for _, finding := range validation.Validate(sch, doc) {
			total++
			fmt.Printf("%s:%d:%d: %s\n", name, finding.Line, finding.Column, finding.Message)
		}
	}

	if total > 0 {
		return fmt.Errorf("%d problems found", total)
	}
	return nil
}

func cmdServe(args []string) error {
	schemaFile := ""
	addr := ":8080"
	pretty := false
	timeout := 10 * time.Second
	maxBody := int64(1 << 20)
	otelEndpoint := ""
	otelService := "graphlint"
	var corsOrigins stringListFlag

	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.StringVar(&schemaFile, "schema", schemaFile, "GraphQL schema SDL file")
	fs.StringVar(&addr, "server.addr", addr, "HTTP listen address")
	fs.BoolVar(&pretty, "server.pretty", pretty, "Pretty-print JSON responses")
	fs.DurationVar(&timeout, "server.timeout", timeout, "Per-request timeout")
	fs.Int64Var(&maxBody, "server.max-body", maxBody, "Request body size limit")
	fs.Var(&corsOrigins, "cors.origin", "Allowed CORS origin")
	fs.StringVar(&otelEndpoint, "otel.endpoint", otelEndpoint, "OTLP collector endpoint")
	fs.StringVar(&otelService, "otel.service", otelService, "OpenTelemetry service name")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, serveUsage)
		return err
	}
	if schemaFile == "" {
		fmt.Fprint(os.Stderr, serveUsage)
		return fmt.Errorf("-schema is required")
	}

	sch, err := loadSchema(schemaFile)
	if err != nil {
		return err
	}

	shutdown, err := otel.Setup(otelEndpoint, otelService)
	if err != nil {
		return fmt.Errorf("otel setup: %w", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	sopts := []server.Option{server.WithMaxBodyBytes(maxBody)}
	if pretty {
		sopts = append(sopts, server.WithPretty())
	}
	if timeout > 0 {
		sopts = append(sopts, server.WithTimeout(timeout))
	}
	if len(corsOrigins) > 0 {
		sopts = append(sopts, server.WithCORS(corsOrigins...))
	}
	h, err := server.New(sch, sopts...)
	if err != nil {
		return fmt.Errorf("server init: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/validate", h)

	log.Printf("graphlint listening on %s", addr)
	return http.ListenAndServe(addr, mux)
}

func loadSchema(file string) (*schema.Schema, error) {
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	sch, err := schema.BuildFromSDL(schema.SDLSource{Name: file, Content: string(content)})
	if err != nil {
		return nil, fmt.Errorf("build schema: %w", err)
	}
	return sch, nil
}
