package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/masenocturnal/deletecontent/internal/config"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const version string = "1.0.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configDir string

	cmd := &cobra.Command{
		Use:           "deletecontentd",
		Short:         "Runs the content deletion step of the workflow",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&configDir, "config", "c", "", "Directory containing deletecontentd.yaml")

	loadConfig := func() (*config.HostConfig, error) {
		var paths []string
		if configDir != "" {
			paths = append(paths, configDir)
		}
		hostConfig, err := config.ReadApplicationConfig(paths...)
		if err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok {
				log.Error("Unable to find a configuration file")
			} else {
				log.Error("Encountered error: " + err.Error())
			}
			return nil, err
		}
		initLogging(hostConfig.LogLevel, hostConfig.LogFormat)
		return hostConfig, nil
	}

	cmd.AddCommand(newRunCmd(loadConfig))
	cmd.AddCommand(newListenCmd(loadConfig))
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "deletecontentd %s\n", version)
		},
	}
}

func initLogging(lvl string, format string) {
	if strings.ToLower(format) == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{})
	}

	log.SetOutput(os.Stdout)

	switch strings.ToLower(lvl) {
	case "debug":
		log.SetLevel(log.DebugLevel)
	case "warning":
		log.SetLevel(log.WarnLevel)
	case "information":
		log.SetLevel(log.InfoLevel)
	case "error":
		log.SetLevel(log.ErrorLevel)
	}
}
