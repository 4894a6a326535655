/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nthplatform/statusync"
	"github.com/nthplatform/statusync/config"
	"github.com/nthplatform/statusync/internal/notification"
)

// Statusync represents the CLI application, encapsulating the root Cobra command.
type Statusync struct {
	cmd *cobra.Command
}

// statusyncInstance holds the runtime instance and its configuration.
type statusyncInstance struct {
	sync *statusync.Statusync
	cnf  *config.Configuration
}

// recoverPanic handles any panics during program execution and logs the error using Logrus.
func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

// preRun sets up the configuration and initializes the Statusync instance
// before running any command.
func preRun(app *statusyncInstance, configFile *string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := config.InitConfig(*configFile)
		if err != nil {
			log.Fatal("error loading config", err)
		}

		cnf, err := config.Fetch()
		if err != nil {
			return err
		}

		newSync, err := statusync.NewStatusync(cmd.Context())
		if err != nil {
			notification.NotifyError(err)
			log.Fatal(err)
		}

		app.sync = newSync
		app.cnf = cnf

		return nil
	}
}

// NewCLI creates the command-line interface for Statusync: a root command
// plus one subcommand per reconciled view so a scheduler can run and track
// them independently.
func NewCLI() *Statusync {
	var configFile string
	b := &statusyncInstance{}

	var rootCmd = &cobra.Command{
		Use:   "statusync",
		Short: "Reconciles delivery status from Confirma Facil into spreadsheets",
		Run:   func(cmd *cobra.Command, args []string) {},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./statusync.json", "Configuration file for statusync")
	rootCmd.PersistentPreRunE = preRun(b, &configFile)

	rootCmd.AddCommand(preventivosCommands(b))
	rootCmd.AddCommand(cobrancaCommands(b))

	return &Statusync{cmd: rootCmd}
}

// executeCLI runs the root command, handling any errors that occur during execution.
func (w Statusync) executeCLI() {
	if err := w.cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	defer recoverPanic()
	cli := NewCLI()
	cli.executeCLI()
}
