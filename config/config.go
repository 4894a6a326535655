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
	"errors"
	"log"
	"os"
	"strings"
	"sync/atomic"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/kelseyhightower/envconfig"

	"github.com/sirupsen/logrus"
)

// Hardcoded defaults for the two spreadsheet views. Environment variables
// override them; an explicit statusync.json overrides the environment's
// absence but is itself overridable per field by the env.
const (
	DEFAULT_TRACKING_URL = "https://utilities.confirmafacil.com.br"

	DEFAULT_SHEET_ID_PREVENTIVOS     = "1N5kJ4Q99J_yCGNRya8KPP7ZIm7GjYurq-zte5KnUCRM"
	DEFAULT_INPUT_RANGE_PREVENTIVOS  = "PREVENTIVOS!D:D"
	DEFAULT_OUTPUT_RANGE_PREVENTIVOS = "PREVENTIVOS!B:B"

	DEFAULT_SHEET_ID_COBRANCA     = "1CrKT2UxZOuhpg0iWGY0cAthuQxgsYvVanrBBlv2c6ic"
	DEFAULT_INPUT_RANGE_COBRANCA  = "RETORNO!A:B"
	DEFAULT_OUTPUT_RANGE_COBRANCA = "RETORNO!K:K"
)

var ConfigStore atomic.Value

type TrackingConfig struct {
	BaseURL    string `json:"base_url" envconfig:"CF_BASE_URL"`
	Email      string `json:"email" envconfig:"CF_EMAIL"`
	Password   string `json:"password" envconfig:"CF_SENHA"`
	ClientID   int    `json:"client_id" envconfig:"CF_CLIENT_ID"`
	ProductID  int    `json:"product_id" envconfig:"CF_PRODUCT_ID"`
	TimeoutSec int    `json:"timeout_sec" envconfig:"CF_TIMEOUT_SEC"`
	MaxRetries int    `json:"max_retries" envconfig:"CF_MAX_RETRIES"`
}

type SpreadsheetConfig struct {
	CredentialsPath string `json:"credentials_path" envconfig:"GOOGLE_CREDENTIALS_PATH"`
}

// ViewConfig is the merged range configuration one pipeline runs against.
type ViewConfig struct {
	SheetID     string `json:"sheet_id"`
	InputRange  string `json:"input_range"`
	OutputRange string `json:"output_range"`
}

func (v ViewConfig) Validate() error {
	return validation.ValidateStruct(&v,
		validation.Field(&v.SheetID, validation.Required),
		validation.Field(&v.InputRange, validation.Required, validation.By(validA1Range)),
		validation.Field(&v.OutputRange, validation.Required, validation.By(validA1Range)),
	)
}

// validA1Range accepts "TAB!A:B" style range specs.
func validA1Range(value interface{}) error {
	s, _ := value.(string)
	parts := strings.SplitN(s, "!", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return errors.New("must be a sheet-qualified A1 range, e.g. TAB!A:B")
	}
	return nil
}

type SlackWebhook struct {
	WebhookUrl string `json:"webhook_url" envconfig:"SLACK_WEBHOOK_URL"`
}

type Notification struct {
	Slack SlackWebhook `json:"slack"`
}

type ExportConfig struct {
	Enabled bool   `json:"enabled" envconfig:"EXPORT_ENABLED"`
	Dir     string `json:"dir" envconfig:"EXPORT_DIR"`
}

type PreventivosConfig struct {
	SheetID     string `json:"sheet_id" envconfig:"SHEET_ID_PREVENTIVOS"`
	InputRange  string `json:"input_range" envconfig:"SHEET_RANGE_INPUT_PREVENTIVOS"`
	OutputRange string `json:"output_range" envconfig:"SHEET_RANGE_OUTPUT_PREVENTIVOS"`
}

type CobrancaConfig struct {
	SheetID     string `json:"sheet_id" envconfig:"SHEET_ID_COBRANCA"`
	InputRange  string `json:"input_range" envconfig:"SHEET_RANGE_INPUT_COBRANCA"`
	OutputRange string `json:"output_range" envconfig:"SHEET_RANGE_OUTPUT_COBRANCA"`
}

type Configuration struct {
	ProjectName  string            `json:"project_name" envconfig:"STATUSYNC_PROJECT_NAME"`
	Tracking     TrackingConfig    `json:"tracking"`
	Spreadsheet  SpreadsheetConfig `json:"spreadsheet"`
	Preventivos  PreventivosConfig `json:"preventivos"`
	Cobranca     CobrancaConfig    `json:"cobranca"`
	Notification Notification      `json:"notification"`
	Export       ExportConfig      `json:"export"`
}

// PreventivosView resolves the merged view configuration for PREVENTIVOS.
func (cnf *Configuration) PreventivosView() ViewConfig {
	return ViewConfig{
		SheetID:     cnf.Preventivos.SheetID,
		InputRange:  cnf.Preventivos.InputRange,
		OutputRange: cnf.Preventivos.OutputRange,
	}
}

// CobrancaView resolves the merged view configuration for COBRANCA.
func (cnf *Configuration) CobrancaView() ViewConfig {
	return ViewConfig{
		SheetID:     cnf.Cobranca.SheetID,
		InputRange:  cnf.Cobranca.InputRange,
		OutputRange: cnf.Cobranca.OutputRange,
	}
}

func loadConfigFromFile(file string) error {
	var cnf Configuration
	_, err := os.Stat(file)
	if err == nil {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		err = json.NewDecoder(f).Decode(&cnf)
		if err != nil {
			return err
		}

	} else if errors.Is(err, os.ErrNotExist) {
		log.Println("config json not passed, will use env variables")
	}

	// override config from environment variables
	err = envconfig.Process("statusync", &cnf)
	if err != nil {
		return err
	}

	err = cnf.validateAndAddDefaults()
	if err != nil {
		return err
	}

	ConfigStore.Store(&cnf)
	return err
}

func InitConfig(configFile string) error {
	logger()
	return loadConfigFromFile(configFile)
}

func Fetch() (*Configuration, error) {
	config := ConfigStore.Load()
	c, ok := config.(*Configuration)
	if !ok {
		return nil, errors.New("config not loaded from file. Create a json file called statusync.json with your config ❌")
	}
	return c, nil
}

func (cnf *Configuration) validateAndAddDefaults() error {
	if cnf.ProjectName == "" {
		log.Println("Warning: Project name is empty. Setting a default name.")
		cnf.ProjectName = "Statusync"
	}

	if cnf.Tracking.Email == "" || cnf.Tracking.Password == "" {
		log.Println("Error: Tracking credentials are empty. Set CF_EMAIL and CF_SENHA.")
		return errors.New("tracking credentials are required")
	}

	if cnf.Spreadsheet.CredentialsPath == "" {
		log.Println("Error: Spreadsheet credentials path is empty. It's a required field.")
		return errors.New("spreadsheet credentials path is required")
	}

	if cnf.Tracking.BaseURL == "" {
		cnf.Tracking.BaseURL = DEFAULT_TRACKING_URL
	}
	if cnf.Tracking.ClientID == 0 {
		cnf.Tracking.ClientID = 206
	}
	if cnf.Tracking.ProductID == 0 {
		cnf.Tracking.ProductID = 1
	}
	if cnf.Tracking.TimeoutSec == 0 {
		cnf.Tracking.TimeoutSec = 60
	}
	if cnf.Tracking.MaxRetries == 0 {
		cnf.Tracking.MaxRetries = 3
	}

	if cnf.Preventivos.SheetID == "" {
		cnf.Preventivos.SheetID = DEFAULT_SHEET_ID_PREVENTIVOS
	}
	if cnf.Preventivos.InputRange == "" {
		cnf.Preventivos.InputRange = DEFAULT_INPUT_RANGE_PREVENTIVOS
	}
	if cnf.Preventivos.OutputRange == "" {
		cnf.Preventivos.OutputRange = DEFAULT_OUTPUT_RANGE_PREVENTIVOS
	}

	if cnf.Cobranca.SheetID == "" {
		cnf.Cobranca.SheetID = DEFAULT_SHEET_ID_COBRANCA
	}
	if cnf.Cobranca.InputRange == "" {
		cnf.Cobranca.InputRange = DEFAULT_INPUT_RANGE_COBRANCA
	}
	if cnf.Cobranca.OutputRange == "" {
		cnf.Cobranca.OutputRange = DEFAULT_OUTPUT_RANGE_COBRANCA
	}

	// Trim white spaces from fields
	cnf.ProjectName = strings.TrimSpace(cnf.ProjectName)
	cnf.Tracking.BaseURL = strings.TrimSpace(cnf.Tracking.BaseURL)
	cnf.Tracking.Email = strings.TrimSpace(cnf.Tracking.Email)
	cnf.Spreadsheet.CredentialsPath = strings.TrimSpace(cnf.Spreadsheet.CredentialsPath)

	if err := cnf.PreventivosView().Validate(); err != nil {
		log.Println("Error: invalid preventivos view config:", err)
		return err
	}
	if err := cnf.CobrancaView().Validate(); err != nil {
		log.Println("Error: invalid cobranca view config:", err)
		return err
	}

	return nil
}

// MockConfig sets a mock configuration for testing purposes.
func MockConfig(mockConfig *Configuration) {
	ConfigStore.Store(mockConfig)
}

func logger() {
	logger := logrus.New()
	log.SetOutput(logger.Writer())
}
