package main

import (
	"commandcenter/source/utils"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		log.WithError(err).Error("commandcenter exited")
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "commandcenter",
		Short:         "Command Center pipeline board and reporting API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			utils.LoadEnvVariables()
			utils.ConfigureLogger()

			env := os.Getenv(utils.ENV)
			if env == utils.ENV_RELEASE {
				log.Warn("running against the PRODUCTION environment")
			} else {
				log.WithField("env", env).Info("environment loaded")
			}
		},
	}

	serve := newServeCommand()
	root.AddCommand(serve, newMigrateCommand())
	root.RunE = serve.RunE

	root.SetErr(os.Stderr)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w\n%s", err, cmd.UsageString())
	})

	return root
}
