// Buddy - personal AI assistant with multi-agent coordination
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/buddyagent/buddy/pkg/config"
	"github.com/buddyagent/buddy/pkg/logger"
)

var (
	version   = "dev"
	gitCommit string
	buildTime string
)

const logo = "🤖"

var configPath string

func formatVersion() string {
	v := version
	if gitCommit != "" {
		v += fmt.Sprintf(" (git: %s)", gitCommit)
	}
	return v
}

func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	return config.LoadConfig(path)
}

func main() {
	root := &cobra.Command{
		Use:   "buddy",
		Short: "Personal AI assistant with specialist agents",
		Long:  "Buddy routes your requests to specialist agents for weather, calendar, email, decisions and social media.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat()
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.buddy/config.json)")

	verbose := root.PersistentFlags().Bool("verbose", false, "enable debug logging")
	cobra.OnInitialize(func() {
		if *verbose {
			logger.SetLevel(logger.DEBUG)
		}
	})

	root.AddCommand(newChatCmd(), newStatusCmd(), newVersionCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s buddy %s\n", logo, formatVersion())
			if buildTime != "" {
				fmt.Printf("  Build: %s\n", buildTime)
			}
			fmt.Printf("  Go: %s\n", runtime.Version())
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which services are configured",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			fmt.Println(newAssistant(cfg).GetServiceStatus())
			return nil
		},
	}
}
