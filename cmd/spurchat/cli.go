package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/spurcommerce/spurchat/internal/chat"
	"github.com/spurcommerce/spurchat/internal/config"
	"github.com/spurcommerce/spurchat/internal/errors"
	"github.com/spurcommerce/spurchat/internal/llm"
	"github.com/spurcommerce/spurchat/internal/mcp"
	"github.com/spurcommerce/spurchat/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "spurchat",
		Usage:   "Customer support chat backend for Spur stores",
		Version: Version,
		Commands: []*cli.Command{
			serveCmd(db, cfg),
			mcpCmd(db, cfg),
			askCmd(db, cfg),
			historyCmd(db, cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// newEngine wires the store, the LLM gateway, and the config into an engine.
func newEngine(db *sql.DB, cfg *config.Config, apiKey string) (*chat.Engine, error) {
	if apiKey == "" {
		return nil, errors.NewInvalidCredentials(fmt.Errorf("no API key: set OPENAI_API_KEY or pass --api-key"))
	}
	gateway := llm.New(apiKey, cfg.Model)
	return chat.NewEngine(db, gateway, cfg, nil), nil
}

// serveCmd creates the serve command.
func serveCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP chat service (widget, API, transcripts)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Aliases: []string{"b"}, Value: "127.0.0.1", Usage: "Address to bind to"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Value: 8117, Usage: "Port to listen on"},
			&cli.StringFlag{Name: "api-key", EnvVars: []string{"OPENAI_API_KEY"}, Usage: "OpenAI API key"},
		},
		Action: func(c *cli.Context) error {
			engine, err := newEngine(db, cfg, c.String("api-key"))
			if err != nil {
				return outputError(err)
			}
			srv := web.NewServer(engine, cfg, Version, c.String("bind"), c.Int("port"))
			return web.Run(srv)
		},
	}
}

// mcpCmd creates the mcp command.
func mcpCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Run the MCP server over stdio",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "api-key", EnvVars: []string{"OPENAI_API_KEY"}, Usage: "OpenAI API key"},
		},
		Action: func(c *cli.Context) error {
			if unknown := mcp.ValidateDisabledTools(cfg.DisabledTools); len(unknown) > 0 {
				return outputError(errors.NewInvalidRequest(fmt.Sprintf(
					"unknown disabled_tools in config: %s (known: %s)",
					strings.Join(unknown, ", "), strings.Join(mcp.AllToolNames(), ", "))))
			}
			engine, err := newEngine(db, cfg, c.String("api-key"))
			if err != nil {
				return outputError(err)
			}
			return mcp.Run(engine, cfg, Version)
		},
	}
}

// askCmd creates the ask command.
func askCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "ask",
		Usage:     "Send one message and print the reply",
		ArgsUsage: "<message>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "session", Aliases: []string{"s"}, Usage: "Conversation id to continue"},
			&cli.StringFlag{Name: "api-key", EnvVars: []string{"OPENAI_API_KEY"}, Usage: "OpenAI API key"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("message argument is required"))
			}
			message := strings.Join(c.Args().Slice(), " ")

			engine, err := newEngine(db, cfg, c.String("api-key"))
			if err != nil {
				return outputError(err)
			}

			out, err := engine.Respond(context.Background(), c.String("session"), message)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(out)
		},
	}
}

// historyCmd creates the history command.
func historyCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "history",
		Usage:     "Print the ordered transcript of a conversation",
		ArgsUsage: "<session-id>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("session-id argument is required"))
			}

			// History is a pure store read, no gateway needed.
			engine := chat.NewEngine(db, nil, cfg, nil)
			msgs, err := engine.History(context.Background(), c.Args().First())
			if err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{"messages": msgs})
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if cErr, ok := err.(*errors.ChatError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", cErr.Code, cErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}
