// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/poiesic/askdoc"
	"github.com/poiesic/askdoc/ai"
	"github.com/poiesic/askdoc/server"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "askdoc",
		Usage: "Document question answering with query routing",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the HTTP server",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "addr",
						Aliases: []string{"a"},
						Usage:   "Address to listen on",
						Value:   ":5001",
					},
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to BadgerDB database directory",
						Value:   "askdoc-db",
					},
					&cli.StringFlag{
						Name:  "upload-dir",
						Usage: "Directory uploaded files are stored in",
					},
					&cli.StringFlag{
						Name:  "trace-file",
						Usage: "Path to the query trace log",
						Value: "trace.log",
					},
					&cli.StringFlag{
						Name:  "llm-host",
						Usage: "OpenAI-compatible API host URL",
					},
					&cli.StringFlag{
						Name:  "chat-model",
						Usage: "Chat model used for routing and synthesis",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model used for document indexing",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func serveCommand(c *cli.Context) error {
	// A missing .env file is fine, the key may come from the environment
	_ = godotenv.Load()

	apiKey := os.Getenv("GROQ_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("GROQ_API_KEY not found: set it in the environment or a .env file")
	}

	configOpts := []ai.ConfigOption{ai.WithToken(apiKey)}
	if host := c.String("llm-host"); host != "" {
		configOpts = append(configOpts, ai.WithHost(host))
	}
	if model := c.String("chat-model"); model != "" {
		configOpts = append(configOpts, ai.WithChatModel(model))
	}
	if model := c.String("embedding-model"); model != "" {
		configOpts = append(configOpts, ai.WithEmbeddingModel(model))
	}

	aiConfig := ai.NewConfig(configOpts...)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	assistant, err := askdoc.NewAssistant(c.String("db"),
		askdoc.WithAIConfig(aiConfig),
		askdoc.WithTracePath(c.String("trace-file")),
	)
	if err != nil {
		return fmt.Errorf("failed to create assistant: %w", err)
	}
	defer assistant.Close()

	var serverOpts []server.Option
	if dir := c.String("upload-dir"); dir != "" {
		serverOpts = append(serverOpts, server.WithUploadDir(dir))
	}

	srv, err := assistant.NewServer(serverOpts...)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Run(c.String("addr"))
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
