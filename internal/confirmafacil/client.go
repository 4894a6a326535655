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

// Package confirmafacil is the HTTP client for the Confirma Facil
// utilities API. A client authenticates once per run and reuses the
// session token for every occurrence lookup.
package confirmafacil

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/nthplatform/statusync/config"
	"github.com/nthplatform/statusync/internal/apierror"
	"github.com/nthplatform/statusync/internal/request"
	"github.com/nthplatform/statusync/model"
)

const (
	loginPath      = "/login/login"
	occurrencePath = "/filter/ocorrencia"

	// The carrier keeps at most 600 days of history; anything older is gone
	// from their side, so the order query window matches that.
	lookbackDays = 600

	pageSize = 1000

	// MaxOrderBatch is the largest comma-joined order list one occurrence
	// query accepts without the carrier truncating results.
	MaxOrderBatch = 20
)

// Client talks to the Confirma Facil API with a shared HTTP client and a
// session token acquired by Authenticate.
type Client struct {
	baseURL    string
	email      string
	password   string
	clientID   int
	productID  int
	maxRetries int
	httpClient *http.Client
	token      string
	now        func() time.Time
}

// NewClient builds a client from the tracking section of the configuration.
func NewClient(cnf config.TrackingConfig) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(cnf.BaseURL, "/"),
		email:      cnf.Email,
		password:   cnf.Password,
		clientID:   cnf.ClientID,
		productID:  cnf.ProductID,
		maxRetries: cnf.MaxRetries,
		httpClient: &http.Client{Timeout: time.Duration(cnf.TimeoutSec) * time.Second},
		now:        time.Now,
	}
}

type loginResponse struct {
	Resposta struct {
		Token string `json:"token"`
	} `json:"resposta"`
	Mensagem string `json:"mensagem"`
}

// Authenticate acquires a session token. It must be called once before any
// lookup; a 401 mid-run triggers one transparent re-authentication.
func (c *Client) Authenticate(ctx context.Context) error {
	payload := map[string]interface{}{
		"email":     c.email,
		"senha":     c.password,
		"idcliente": c.clientID,
		"idproduto": c.productID,
	}
	body, err := request.ToJsonReq(payload)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrAuth, "could not encode login payload", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+loginPath, body)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrAuth, "could not build login request", err)
	}

	var login loginResponse
	resp, err := request.Call(c.httpClient, req, &login)
	if err != nil {
		return apierror.NewAPIError(apierror.ErrAuth, "login call failed", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apierror.NewAPIError(apierror.ErrAuth,
			fmt.Sprintf("login rejected with status %d", resp.StatusCode), login.Mensagem)
	}
	if login.Resposta.Token == "" {
		return apierror.NewAPIError(apierror.ErrAuth, "login response carried no token", login.Mensagem)
	}

	c.token = login.Resposta.Token
	return nil
}

type occurrenceType struct {
	Codigo json.Number `json:"codigo"`
}

type orderRef struct {
	Numero json.Number `json:"numero"`
}

type shipmentRef struct {
	Pedido *orderRef `json:"pedido"`
}

type occurrenceRecord struct {
	Pedido         *orderRef       `json:"pedido"`
	Embarque       *shipmentRef    `json:"embarque"`
	TipoOcorrencia *occurrenceType `json:"tipoOcorrencia"`
	DataOcorrencia string          `json:"dataOcorrencia"`
}

type occurrenceResponse struct {
	Respostas  []occurrenceRecord `json:"respostas"`
	TotalPages int                `json:"totalPages"`
}

// orderNumber pulls the order id off a record. Some carrier payloads nest
// it under the shipment instead of the top level.
func (r occurrenceRecord) orderNumber() string {
	if r.Pedido != nil && r.Pedido.Numero.String() != "" {
		return model.NormalizeDocumentNumber(r.Pedido.Numero.String())
	}
	if r.Embarque != nil && r.Embarque.Pedido != nil {
		return model.NormalizeDocumentNumber(r.Embarque.Pedido.Numero.String())
	}
	return ""
}

func (r occurrenceRecord) occurrence() model.Occurrence {
	code := ""
	if r.TipoOcorrencia != nil {
		code = strings.TrimSpace(r.TipoOcorrencia.Codigo.String())
	}
	occ := model.Occurrence{
		Code: code,
		Kind: model.KindForCode(code),
	}
	if ts, err := time.Parse("2006/01/02 15:04:05", r.DataOcorrencia); err == nil {
		occ.RecordedAt = &ts
	}
	return occ
}

// OccurrencesByOrders fetches occurrences for up to MaxOrderBatch order ids
// in one paginated query and groups them per order. Orders with no history
// simply have no entry in the returned map.
func (c *Client) OccurrencesByOrders(ctx context.Context, orders []string) (map[string][]model.Occurrence, error) {
	if len(orders) > MaxOrderBatch {
		return nil, errors.Errorf("order batch too large: %d > %d", len(orders), MaxOrderBatch)
	}

	until := c.now()
	since := until.AddDate(0, 0, -lookbackDays)
	params := url.Values{}
	params.Set("pedido", strings.Join(orders, ","))
	params.Set("page", "0")
	params.Set("size", fmt.Sprintf("%d", pageSize))
	params.Set("de", since.Format("2006/01/02")+" 00:00:00")
	params.Set("ate", until.Format("2006/01/02")+" 23:59:59")
	params.Set("codigoOcorrencia", model.RelevantOccurrenceCodes())
	params.Set("tipoData", "OCORRENCIA")

	first, err := c.queryOccurrences(ctx, params)
	if err != nil {
		if apierror.Is(err, apierror.ErrNotFound) {
			return map[string][]model.Occurrence{}, nil
		}
		return nil, err
	}

	records := first.Respostas
	for page := 1; page < first.TotalPages; page++ {
		params.Set("page", fmt.Sprintf("%d", page))
		next, err := c.queryOccurrences(ctx, params)
		if err != nil {
			if apierror.Is(err, apierror.ErrNotFound) {
				break
			}
			return nil, err
		}
		records = append(records, next.Respostas...)
	}

	grouped := make(map[string][]model.Occurrence)
	for _, record := range records {
		order := record.orderNumber()
		if order == "" {
			continue
		}
		grouped[order] = append(grouped[order], record.occurrence())
	}
	return grouped, nil
}

// OccurrencesByInvoice fetches the occurrences for one invoice + shipper
// tax id pair. A 404 from the carrier means no tracking history and maps to
// an empty slice, not an error.
func (c *Client) OccurrencesByInvoice(ctx context.Context, invoice, taxID string) ([]model.Occurrence, error) {
	params := url.Values{}
	params.Set("numero", invoice)
	params.Set("cnpjEmbarcador", taxID)
	params.Set("codigoOcorrencia", model.RelevantOccurrenceCodes())

	payload, err := c.queryOccurrences(ctx, params)
	if err != nil {
		if apierror.Is(err, apierror.ErrNotFound) {
			return []model.Occurrence{}, nil
		}
		return nil, err
	}

	occurrences := make([]model.Occurrence, 0, len(payload.Respostas))
	for _, record := range payload.Respostas {
		occurrences = append(occurrences, record.occurrence())
	}
	return occurrences, nil
}

// queryOccurrences performs one GET against the occurrence filter endpoint
// with bounded exponential retry on transient failures. A 401 re-acquires
// the session token once and replays the call.
func (c *Client) queryOccurrences(ctx context.Context, params url.Values) (*occurrenceResponse, error) {
	reauthed := false
	var payload *occurrenceResponse

	operation := func() error {
		var opErr error
		payload, opErr = c.doQuery(ctx, params)
		if opErr == nil {
			return nil
		}

		apiErr, ok := opErr.(apierror.APIError)
		if !ok {
			return opErr
		}
		switch apiErr.Code {
		case apierror.ErrNotFound:
			return backoff.Permanent(opErr)
		case apierror.ErrAuth:
			if reauthed {
				return backoff.Permanent(opErr)
			}
			reauthed = true
			logrus.Warn("session token expired, re-authenticating")
			if authErr := c.Authenticate(ctx); authErr != nil {
				return backoff.Permanent(authErr)
			}
			return opErr
		default:
			return opErr
		}
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(c.maxRetries)), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		if apiErr, ok := err.(apierror.APIError); ok {
			return nil, apiErr
		}
		return nil, apierror.NewAPIError(apierror.ErrTransient, "occurrence lookup failed", err)
	}
	return payload, nil
}

func (c *Client) doQuery(ctx context.Context, params url.Values) (*occurrenceResponse, error) {
	endpoint := c.baseURL + occurrencePath + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrTransient, "could not build occurrence request", err)
	}
	req.Header.Set("Authorization", c.token)
	req.Header.Set("accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrTransient, "occurrence call failed", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, apierror.NewAPIError(apierror.ErrAuth, "occurrence call unauthorized", params.Get("pedido"))
	case resp.StatusCode == http.StatusNotFound:
		return nil, apierror.APIError{Code: apierror.ErrNotFound, Message: "no occurrences for key"}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, apierror.NewAPIError(apierror.ErrTransient,
			fmt.Sprintf("occurrence call returned status %d", resp.StatusCode), endpoint)
	}

	var payload occurrenceResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrTransient, "could not decode occurrence response", err)
	}
	return &payload, nil
}
