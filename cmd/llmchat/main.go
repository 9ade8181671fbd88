// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// llmchat is an interactive chat REPL with durable conversation history.
//
// Interactive commands:
//
//	/new                    Start a fresh conversation
//	/list                   List saved conversations (newest first)
//	/load <id>              Load a saved conversation
//	/rename <id> <title>    Rename a saved conversation
//	/delete <id>            Delete a saved conversation
//	/system <assistant>     Switch assistant type (general, coding, finance)
//	/help                   Show available commands
//	/quit                   Exit
//
// Anything else is sent to the model; the conversation is persisted after
// every exchange.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jar285/llmchat/internal/config"
	"github.com/jar285/llmchat/internal/history"
	"github.com/jar285/llmchat/internal/llm"
	"github.com/jar285/llmchat/internal/model"
	"github.com/jar285/llmchat/internal/prompts"
	"github.com/jar285/llmchat/internal/util"
)

func main() {
	setupLogging()

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// setupLogging configures zerolog with a console writer. Default level is
// warn so the REPL stays quiet; LLMCHAT_DEBUG=1 enables debug output.
func setupLogging() {
	level := zerolog.WarnLevel
	if os.Getenv("LLMCHAT_DEBUG") == "1" {
		level = zerolog.DebugLevel
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level)
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var store *history.Store
	if cfg.HistoryDir != "" {
		store, err = history.NewWithDir(cfg.HistoryDir)
	} else {
		store, err = history.New()
	}
	if err != nil {
		return err
	}

	registry := prompts.DefaultRegistry()
	client := llm.New(cfg.APIBaseURL, cfg.APIKey)

	session := &session{
		cfg:      cfg,
		store:    store,
		registry: registry,
		client:   client,
		conv:     newConversation(registry, cfg.AssistantType),
	}
	return session.repl()
}

// newConversation creates a conversation seeded with the system prompt for
// the configured assistant type.
func newConversation(registry *prompts.Registry, assistantType string) *model.Conversation {
	conv := model.NewConversation()
	conv.SetSystemPrompt(registry.SystemPrompt(assistantType))
	return conv
}

// =============================================================================
// SESSION
// =============================================================================

// session holds the state of one interactive run.
type session struct {
	cfg      *config.Config
	store    *history.Store
	registry *prompts.Registry
	client   *llm.Client
	conv     *model.Conversation
}

// repl is the main read-eval-print loop using liner for input history.
func (s *session) repl() error {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	defer line.Close()

	historyFile := inputHistoryPath()
	if historyFile != "" {
		if f, err := os.Open(historyFile); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
		defer saveInputHistory(line, historyFile)
	}

	fmt.Println("llmchat — type /help for commands")

	for {
		input, err := line.Prompt("you> ")
		if err != nil {
			// Ctrl+C or Ctrl+D exits gracefully.
			if err == liner.ErrPromptAborted {
				fmt.Println()
				return nil
			}
			return nil
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if strings.HasPrefix(input, "/") {
			if quit := s.dispatch(input); quit {
				return nil
			}
			continue
		}

		s.exchange(input)
	}
}

// exchange sends a user turn to the model, prints the reply, and persists
// the conversation.
func (s *session) exchange(input string) {
	s.conv.AppendUserMessage(input)

	reply := s.client.Completion(context.Background(), s.conv.APIMessages(),
		s.cfg.Model, s.cfg.Temperature, s.cfg.MaxTokens)
	s.conv.AppendAssistantMessage(reply)

	fmt.Println()
	fmt.Println(reply)
	fmt.Println()

	if _, err := s.store.SaveConversation(s.conv); err != nil {
		fmt.Fprintln(os.Stderr, "Failed to save conversation:", err)
	}
}

// dispatch handles a /command. Returns true when the REPL should exit.
func (s *session) dispatch(input string) bool {
	fields := strings.Fields(input)
	cmd := fields[0]
	args := fields[1:]

	switch cmd {
	case "/quit", "/q", "/exit":
		return true

	case "/help", "/h":
		s.printHelp()

	case "/new":
		s.conv = newConversation(s.registry, s.cfg.AssistantType)
		fmt.Println("Started a new conversation.")

	case "/list":
		s.printList()

	case "/load":
		if len(args) != 1 {
			fmt.Println("Usage: /load <id>")
			break
		}
		s.loadConversation(args[0])

	case "/rename":
		if len(args) < 2 {
			fmt.Println("Usage: /rename <id> <title>")
			break
		}
		s.renameConversation(args[0], strings.Join(args[1:], " "))

	case "/delete":
		if len(args) != 1 {
			fmt.Println("Usage: /delete <id>")
			break
		}
		s.deleteConversation(args[0])

	case "/system":
		if len(args) != 1 {
			fmt.Println("Usage: /system <assistant-type>")
			break
		}
		s.switchAssistant(args[0])

	default:
		fmt.Println("Unknown command:", cmd, "(try /help)")
	}
	return false
}

func (s *session) printHelp() {
	fmt.Println("Commands:")
	fmt.Println("  /new                  Start a fresh conversation")
	fmt.Println("  /list                 List saved conversations")
	fmt.Println("  /load <id>            Load a saved conversation")
	fmt.Println("  /rename <id> <title>  Rename a saved conversation")
	fmt.Println("  /delete <id>          Delete a saved conversation")
	fmt.Println("  /system <assistant>   Switch assistant type:")
	for _, t := range s.registry.All() {
		fmt.Printf("      %-10s %s\n", t.ID, t.Description)
	}
	fmt.Println("  /quit                 Exit")
}

func (s *session) printList() {
	metas, err := s.store.List(false)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to list conversations:", err)
		return
	}
	if len(metas) == 0 {
		fmt.Println("No saved conversations.")
		return
	}
	for _, m := range metas {
		fmt.Printf("%-24s %3d msgs  %s\n", m.ID, m.MessageCount, util.TruncateRunes(m.Title, 60))
	}
}

func (s *session) loadConversation(id string) {
	rec, err := s.store.Load(id)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load conversation:", err)
		return
	}
	s.conv = rec.Conversation()
	fmt.Printf("Loaded %q (%d messages).\n", rec.Title, len(rec.Messages))
}

func (s *session) renameConversation(id, title string) {
	// The store takes any title; empty ones are rejected here.
	if strings.TrimSpace(title) == "" {
		fmt.Println("Title must not be empty.")
		return
	}
	ok, err := s.store.Rename(id, title)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to rename conversation:", err)
		return
	}
	if !ok {
		fmt.Println("No conversation with id", id)
		return
	}
	if s.conv.ID == id {
		s.conv.Title = title
	}
	fmt.Println("Renamed.")
}

func (s *session) deleteConversation(id string) {
	ok, err := s.store.Delete(id)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to delete conversation:", err)
		return
	}
	if !ok {
		fmt.Println("No conversation with id", id)
		return
	}
	if s.conv.ID == id {
		s.conv = newConversation(s.registry, s.cfg.AssistantType)
	}
	fmt.Println("Deleted.")
}

func (s *session) switchAssistant(id string) {
	t, ok := s.registry.Get(id)
	if !ok {
		fmt.Println("Unknown assistant type:", id)
		return
	}
	s.conv.SetSystemPrompt(t.SystemPrompt)
	s.cfg.AssistantType = t.ID
	fmt.Println("Switched to", t.Name)
}

// =============================================================================
// INPUT HISTORY
// =============================================================================

// inputHistoryPath returns the liner history file path, or "" when the
// config directory cannot be determined.
func inputHistoryPath() string {
	dir, err := config.ConfigDir()
	if err != nil {
		return ""
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return ""
	}
	return filepath.Join(dir, "input_history")
}

func saveInputHistory(line *liner.State, path string) {
	f, err := os.Create(path)
	if err != nil {
		log.Warn().Err(err).Msg("could not save input history")
		return
	}
	defer f.Close()
	line.WriteHistory(f)
}
