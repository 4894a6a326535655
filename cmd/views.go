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
	"encoding/json"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nthplatform/statusync"
	"github.com/nthplatform/statusync/internal/notification"
)

// runView executes one pipeline and turns its outcome into the process
// exit status the external scheduler watches. Per-row lookup failures are
// reported in the printed summary but do not fail the run; fatal pipeline
// errors do.
func runView(b *statusyncInstance, view statusync.View) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		report, err := b.sync.ReconcileView(cmd.Context(), view)
		if err != nil {
			notification.NotifyError(err)
			logrus.WithField("view", view).Error("reconciliation aborted: ", err)
			os.Exit(1)
		}

		summary, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			logrus.Error(err)
			os.Exit(1)
		}
		cmd.Println(string(summary))
	}
}

func preventivosCommands(b *statusyncInstance) *cobra.Command {
	return &cobra.Command{
		Use:   "preventivos",
		Short: "Reconcile the PREVENTIVOS view (keyed by order id)",
		Run:   runView(b, statusync.ViewPreventivos),
	}
}

func cobrancaCommands(b *statusyncInstance) *cobra.Command {
	return &cobra.Command{
		Use:   "cobranca",
		Short: "Reconcile the COBRANCA view (keyed by invoice + tax id)",
		Run:   runView(b, statusync.ViewCobranca),
	}
}
