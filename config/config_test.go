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

package config

import (
	"encoding/json"
	"os"
	"testing"
)

func validConfiguration() Configuration {
	return Configuration{
		Tracking: TrackingConfig{
			Email:    "ops@example.com",
			Password: "secret",
		},
		Spreadsheet: SpreadsheetConfig{
			CredentialsPath: "/etc/statusync/service-account.json",
		},
	}
}

func TestValidateAndAddDefaults(t *testing.T) {
	cnf := Configuration{
		Spreadsheet: SpreadsheetConfig{CredentialsPath: "/tmp/creds.json"},
	}
	err := cnf.validateAndAddDefaults()
	if err == nil || err.Error() != "tracking credentials are required" {
		t.Errorf("Expected tracking credentials required error, got %v", err)
	}

	cnf = Configuration{
		Tracking: TrackingConfig{Email: "ops@example.com", Password: "secret"},
	}
	err = cnf.validateAndAddDefaults()
	if err == nil || err.Error() != "spreadsheet credentials path is required" {
		t.Errorf("Expected spreadsheet credentials path required error, got %v", err)
	}

	// All required fields filled, expect no error and the defaults applied
	cnf = validConfiguration()
	err = cnf.validateAndAddDefaults()
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if cnf.ProjectName != "Statusync" {
		t.Errorf("Expected default project name, got %s", cnf.ProjectName)
	}
	if cnf.Tracking.BaseURL != DEFAULT_TRACKING_URL {
		t.Errorf("Expected default tracking URL, got %s", cnf.Tracking.BaseURL)
	}
	if cnf.Tracking.ClientID != 206 || cnf.Tracking.ProductID != 1 {
		t.Errorf("Expected default tracking ids, got %d/%d", cnf.Tracking.ClientID, cnf.Tracking.ProductID)
	}
	if cnf.Preventivos.InputRange != DEFAULT_INPUT_RANGE_PREVENTIVOS {
		t.Errorf("Expected default preventivos input range, got %s", cnf.Preventivos.InputRange)
	}
	if cnf.Cobranca.OutputRange != DEFAULT_OUTPUT_RANGE_COBRANCA {
		t.Errorf("Expected default cobranca output range, got %s", cnf.Cobranca.OutputRange)
	}
}

func TestValidateRejectsMalformedRanges(t *testing.T) {
	cnf := validConfiguration()
	cnf.Preventivos.InputRange = "no-sheet-qualifier"

	if err := cnf.validateAndAddDefaults(); err == nil {
		t.Error("Expected range validation error, got nil")
	}
}

func TestViewResolution(t *testing.T) {
	cnf := validConfiguration()
	if err := cnf.validateAndAddDefaults(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	preventivos := cnf.PreventivosView()
	if preventivos.SheetID != DEFAULT_SHEET_ID_PREVENTIVOS {
		t.Errorf("Expected default preventivos sheet id, got %s", preventivos.SheetID)
	}
	cobranca := cnf.CobrancaView()
	if cobranca.InputRange != DEFAULT_INPUT_RANGE_COBRANCA {
		t.Errorf("Expected default cobranca input range, got %s", cobranca.InputRange)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "statusync.json")
	if err != nil {
		t.Fatalf("Unable to create temporary file: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	sampleConfig := validConfiguration()
	sampleConfig.ProjectName = "Temp Project"
	if err := json.NewEncoder(tmpFile).Encode(sampleConfig); err != nil {
		t.Fatalf("Unable to write to temporary file: %v", err)
	}
	tmpFile.Close()

	// Environment overrides the file's project name
	os.Setenv("STATUSYNC_PROJECT_NAME", "Env Project")
	defer os.Unsetenv("STATUSYNC_PROJECT_NAME")

	if err := loadConfigFromFile(tmpFile.Name()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	cnf, err := Fetch()
	if err != nil {
		t.Fatalf("Expected config to be loaded, got %v", err)
	}
	if cnf.ProjectName != "Env Project" {
		t.Errorf("Expected env override of project name, got %s", cnf.ProjectName)
	}
	if cnf.Preventivos.SheetID != DEFAULT_SHEET_ID_PREVENTIVOS {
		t.Errorf("Expected default sheet id, got %s", cnf.Preventivos.SheetID)
	}
}

func TestEnvOverridesRanges(t *testing.T) {
	os.Setenv("CF_EMAIL", "env@example.com")
	os.Setenv("CF_SENHA", "env-secret")
	os.Setenv("GOOGLE_CREDENTIALS_PATH", "/tmp/creds.json")
	os.Setenv("SHEET_RANGE_INPUT_PREVENTIVOS", "OUTRA!A:A")
	defer func() {
		os.Unsetenv("CF_EMAIL")
		os.Unsetenv("CF_SENHA")
		os.Unsetenv("GOOGLE_CREDENTIALS_PATH")
		os.Unsetenv("SHEET_RANGE_INPUT_PREVENTIVOS")
	}()

	if err := loadConfigFromFile("this-file-does-not-exist.json"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	cnf, err := Fetch()
	if err != nil {
		t.Fatalf("Expected config to be loaded, got %v", err)
	}
	if cnf.Tracking.Email != "env@example.com" {
		t.Errorf("Expected env tracking email, got %s", cnf.Tracking.Email)
	}
	if cnf.Preventivos.InputRange != "OUTRA!A:A" {
		t.Errorf("Expected env input range override, got %s", cnf.Preventivos.InputRange)
	}
	if cnf.Preventivos.OutputRange != DEFAULT_OUTPUT_RANGE_PREVENTIVOS {
		t.Errorf("Expected default output range, got %s", cnf.Preventivos.OutputRange)
	}
}
