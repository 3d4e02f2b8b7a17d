package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/buddyagent/buddy/pkg/config"
	"github.com/buddyagent/buddy/pkg/router"
	"github.com/buddyagent/buddy/pkg/safety"
)

var exitWords = map[string]bool{
	"quit":    true,
	"exit":    true,
	"bye":     true,
	"goodbye": true,
}

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat [message]",
		Short: "Chat with the assistant (interactive when no message is given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return runOnce(strings.Join(args, " "))
			}
			return runChat()
		},
	}
}

func newAssistant(cfg *config.Config) *router.Assistant {
	return router.New(cfg)
}

func runOnce(message string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	assistant := newAssistant(cfg)
	gate := safety.NewGate(cfg.Safety.MaxInputLength)

	clean := gate.Sanitize(message)
	if trigger, ok := gate.Check(clean); !ok {
		fmt.Printf("⚠️  Request contains potentially harmful content: '%s'\n", trigger)
		return nil
	}

	fmt.Println(assistant.ProcessRequest(context.Background(), clean))
	return nil
}

func runChat() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	assistant := newAssistant(cfg)
	gate := safety.NewGate(cfg.Safety.MaxInputLength)

	fmt.Printf("%s Chat with %s - type 'quit' to exit\n", logo, cfg.Name)
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("Try asking about weather, calculations, reminders, emails, or general questions!")
	fmt.Println("Type 'help' to see all available commands.")
	fmt.Println(strings.Repeat("=", 60))

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "You: ",
		HistoryFile:     filepath.Join(os.TempDir(), ".buddy_history"),
		HistoryLimit:    100,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("initializing readline: %w", err)
	}
	defer rl.Close()

	conversations := 0

	for {
		rl.SetPrompt(fmt.Sprintf("\n[%d] You: ", conversations+1))

		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt || err == io.EOF {
				fmt.Printf("\n%s: Goodbye! 👋\n", cfg.Name)
				return nil
			}
			fmt.Printf("Error reading input: %v\n", err)
			continue
		}

		input := strings.TrimSpace(line)
		if input == "" {
			fmt.Printf("%s: I didn't catch that. Could you please say something?\n", cfg.Name)
			continue
		}

		if exitWords[strings.ToLower(input)] {
			fmt.Printf("\n%s: Goodbye! It was great chatting with you! 👋\n", cfg.Name)
			fmt.Printf("We had %d conversations. Come back anytime!\n", conversations)
			return nil
		}

		clean := gate.Sanitize(input)
		if trigger, ok := gate.Check(clean); !ok {
			fmt.Printf("%s: ⚠️  Request contains potentially harmful content: '%s'\n", cfg.Name, trigger)
			continue
		}

		reply := assistant.ProcessRequest(context.Background(), clean)
		fmt.Printf("%s: %s\n", cfg.Name, reply)

		conversations++
		if conversations%5 == 0 {
			fmt.Println("\n💡 Tip: Type 'help' to see everything I can do!")
		}
	}
}
