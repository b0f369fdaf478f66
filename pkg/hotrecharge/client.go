// Package hotrecharge is a client for the Hot Recharge agent web service:
// airtime, data bundle, voucher and prepaid electricity (zesa) recharges,
// plus the matching balance and reconciliation queries.
package hotrecharge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/hotrecharge/hotrecharge-go/pkg/httpclient"
)

const (
	// DefaultBaseURL is the provider's production host.
	DefaultBaseURL = "https://ssl.hot.co.zw"

	apiVersion = "/api/v1/"
	mimeJSON   = "application/json"
)

const (
	HeaderAccessCode     = "x-access-code"
	HeaderAccessPassword = "x-access-password"
	HeaderAgentReference = "x-agent-reference"
)

// endpoint suffixes under /api/v1/
const (
	rechargePinlessEndpoint  = "agents/recharge-pinless"
	rechargeDataEndpoint     = "agents/recharge-data"
	rechargeEVDEndpoint      = "agents/recharge-evd"
	walletBalanceEndpoint    = "agents/wallet-balance"
	getDataBundlesEndpoint   = "agents/get-data-bundles"
	queryEVDEndpoint         = "agents/query-evd"
	endUserBalanceEndpoint   = "agents/enduser-balance?targetmobile="
	queryTransactionEndpoint = "agents/query-transaction?agentReference="
	rechargeZesaEndpoint     = "agents/recharge-zesa"
	zesaCustomerEndpoint     = "agents/check-customer-zesa"
	zesaBalanceEndpoint      = "agents/wallet-balance-zesa"
	queryZesaEndpoint        = "agents/query-zesa-transaction"
)

// Options configure a Client at construction time.
//
// The provider's own behavior around target-number format checks and the
// customer message budget has shifted between revisions; both are therefore
// explicit knobs here rather than hardcoded policy, defaulting to enforced.
type Options struct {
	// BaseURL overrides DefaultBaseURL, e.g. for a staging host or test
	// server. Empty means production.
	BaseURL string

	// UseRandomRef, when true, refreshes the x-agent-reference header with a
	// fresh random token before every call. When false the caller must set a
	// unique reference via UpdateReference before each request; the provider
	// rejects a reused reference.
	UseRandomRef bool

	// ValidateTargetNumber rejects target numbers not matching the
	// provider's two local formats (07..., 086...) before any exchange.
	ValidateTargetNumber bool

	// EnforceMessageLimit rejects customer SMS texts longer than
	// MaxCustomerSMSLength before any exchange.
	EnforceMessageLimit bool
}

// DefaultOptions: production host, auto references, all validations on.
func DefaultOptions() Options {
	return Options{
		UseRandomRef:         true,
		ValidateTargetNumber: true,
		EnforceMessageLimit:  true,
	}
}

// Client issues requests against the recharge web service. It holds one
// transport handle for its lifetime and multiplexes every operation over it;
// an internal mutex serializes the header-refresh-and-exchange sequence, so
// a single Client is safe for concurrent use.
type Client struct {
	mu        sync.Mutex
	auth      *AuthConfig
	opts      Options
	baseURL   string
	reference string
	client    httpclient.HTTPClient
}

// NewClient builds a client over auth and the given transport. The auth
// config is held by reference and never mutated by the client.
func NewClient(auth *AuthConfig, client httpclient.HTTPClient, opts Options) *Client {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		auth:      auth,
		opts:      opts,
		baseURL:   baseURL,
		reference: auth.Reference(),
		client:    client,
	}
}

// UpdateReference replaces the x-agent-reference value used for subsequent
// calls. Required before every request when UseRandomRef is off. The length
// invariant is re-checked on every update.
func (c *Client) UpdateReference(reference string) error {
	if err := checkReferenceLimit(reference); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.reference = reference
	return nil
}

// WalletBalance returns the agent's airtime wallet balance.
func (c *Client) WalletBalance(ctx context.Context) (WalletBalanceResponse, error) {
	reply, err := c.exchange(ctx, http.MethodGet, walletBalanceEndpoint, nil)
	if err != nil {
		return WalletBalanceResponse{}, err
	}

	var res WalletBalanceResponse
	if err := reply.decodeInto(&res); err != nil {
		return WalletBalanceResponse{}, err
	}

	res.Raw = reply
	return res, nil
}

// EndUserBalance returns the airtime balance of a subscriber number.
func (c *Client) EndUserBalance(ctx context.Context, targetMobile string) (EndUserBalanceResponse, error) {
	if err := c.checkTargetNumber(targetMobile); err != nil {
		return EndUserBalanceResponse{}, err
	}

	endpoint := endUserBalanceEndpoint + url.QueryEscape(targetMobile)

	reply, err := c.exchange(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return EndUserBalanceResponse{}, err
	}

	var res EndUserBalanceResponse
	if err := reply.decodeInto(&res); err != nil {
		return EndUserBalanceResponse{}, err
	}

	res.Raw = reply
	return res, nil
}

// QueryTransaction looks up a previous transaction by the agent reference it
// was submitted with, for reconciliation. The provider keeps transactions
// queryable for around 30 days.
func (c *Client) QueryTransaction(ctx context.Context, agentReference string) (QueryTransactionResponse, error) {
	if agentReference == "" {
		return QueryTransactionResponse{}, fmt.Errorf("%w: agent reference is required", ErrInvalidFormat)
	}

	endpoint := queryTransactionEndpoint + url.QueryEscape(agentReference)

	reply, err := c.exchange(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return QueryTransactionResponse{}, err
	}

	var res QueryTransactionResponse
	if err := reply.decodeInto(&res); err != nil {
		return QueryTransactionResponse{}, err
	}

	res.Raw = reply
	return res, nil
}

// RechargePinless tops up airtime directly to the target number.
func (c *Client) RechargePinless(ctx context.Context, request PinlessRechargeRequest) (RechargeResponse, error) {
	if request.Amount <= 0 {
		return RechargeResponse{}, fmt.Errorf("%w: amount must be positive", ErrInvalidFormat)
	}
	if err := c.checkTargetNumber(request.TargetMobile); err != nil {
		return RechargeResponse{}, err
	}
	if err := c.checkCustomerSMS(request.CustomerSMS); err != nil {
		return RechargeResponse{}, err
	}

	return c.recharge(ctx, rechargePinlessEndpoint, request.payload())
}

// RechargeData recharges a data bundle to the target number.
func (c *Client) RechargeData(ctx context.Context, request DataBundleRechargeRequest) (RechargeResponse, error) {
	if request.ProductCode == "" {
		return RechargeResponse{}, fmt.Errorf("%w: product code is required", ErrInvalidFormat)
	}
	if err := c.checkTargetNumber(request.TargetMobile); err != nil {
		return RechargeResponse{}, err
	}
	if err := c.checkCustomerSMS(request.CustomerSMS); err != nil {
		return RechargeResponse{}, err
	}

	return c.recharge(ctx, rechargeDataEndpoint, request.payload())
}

// RechargeEVD purchases electronic voucher pins and sends them to the target
// number for manual redemption.
func (c *Client) RechargeEVD(ctx context.Context, request EVDRechargeRequest) (EVDRechargeResponse, error) {
	if request.BrandID == "" {
		return EVDRechargeResponse{}, fmt.Errorf("%w: brand id is required", ErrInvalidFormat)
	}
	if request.PinValue <= 0 {
		return EVDRechargeResponse{}, fmt.Errorf("%w: pin value must be positive", ErrInvalidFormat)
	}
	if err := c.checkTargetNumber(request.TargetNumber); err != nil {
		return EVDRechargeResponse{}, err
	}

	reply, err := c.exchange(ctx, http.MethodPost, rechargeEVDEndpoint, request.payload())
	if err != nil {
		return EVDRechargeResponse{}, err
	}

	var res EVDRechargeResponse
	if err := reply.decodeInto(&res); err != nil {
		return EVDRechargeResponse{}, err
	}

	res.Raw = reply
	return res, nil
}

// GetDataBundles lists the available data bundles and their product codes.
func (c *Client) GetDataBundles(ctx context.Context) (DataBundlesResponse, error) {
	reply, err := c.exchange(ctx, http.MethodGet, getDataBundlesEndpoint, nil)
	if err != nil {
		return DataBundlesResponse{}, err
	}

	var res DataBundlesResponse
	if err := reply.decodeInto(&res); err != nil {
		return DataBundlesResponse{}, err
	}

	res.Raw = reply
	return res, nil
}

// QueryEVDStock lists voucher brands currently in stock.
func (c *Client) QueryEVDStock(ctx context.Context) (EVDStockResponse, error) {
	reply, err := c.exchange(ctx, http.MethodGet, queryEVDEndpoint, nil)
	if err != nil {
		return EVDStockResponse{}, err
	}

	var res EVDStockResponse
	if err := reply.decodeInto(&res); err != nil {
		return EVDStockResponse{}, err
	}

	res.Raw = reply
	return res, nil
}

// RechargeZesa purchases a prepaid electricity token for a meter. A reply
// classified as ErrPendingZesaTransaction is not terminal: poll
// QueryZesaTransaction with the returned recharge id, no more than a few
// times per minute.
func (c *Client) RechargeZesa(ctx context.Context, request ZesaRechargeRequest) (ZesaRechargeResponse, error) {
	if request.Amount <= 0 {
		return ZesaRechargeResponse{}, fmt.Errorf("%w: amount must be positive", ErrInvalidFormat)
	}
	if request.MeterNumber == "" {
		return ZesaRechargeResponse{}, fmt.Errorf("%w: meter number is required", ErrInvalidFormat)
	}
	if err := c.checkTargetNumber(request.NotifyContact); err != nil {
		return ZesaRechargeResponse{}, err
	}
	if err := c.checkCustomerSMS(request.CustomerSMS); err != nil {
		return ZesaRechargeResponse{}, err
	}

	reply, err := c.exchange(ctx, http.MethodPost, rechargeZesaEndpoint, request.payload())
	if err != nil {
		return ZesaRechargeResponse{}, err
	}

	var res ZesaRechargeResponse
	if err := reply.decodeInto(&res); err != nil {
		return ZesaRechargeResponse{}, err
	}

	res.Raw = reply
	return res, nil
}

// CheckZesaCustomer resolves the customer behind a meter number. Callers are
// advised to confirm the returned details with the user before recharging.
func (c *Client) CheckZesaCustomer(ctx context.Context, meterNumber string) (ZesaCustomerResponse, error) {
	if meterNumber == "" {
		return ZesaCustomerResponse{}, fmt.Errorf("%w: meter number is required", ErrInvalidFormat)
	}

	reply, err := c.exchange(ctx, http.MethodPost, zesaCustomerEndpoint, zesaCustomerPayload{MeterNumber: meterNumber})
	if err != nil {
		return ZesaCustomerResponse{}, err
	}

	var res ZesaCustomerResponse
	if err := reply.decodeInto(&res); err != nil {
		return ZesaCustomerResponse{}, err
	}

	res.Raw = reply
	return res, nil
}

// ZesaWalletBalance returns the agent's zesa wallet balance.
func (c *Client) ZesaWalletBalance(ctx context.Context) (WalletBalanceResponse, error) {
	reply, err := c.exchange(ctx, http.MethodGet, zesaBalanceEndpoint, nil)
	if err != nil {
		return WalletBalanceResponse{}, err
	}

	var res WalletBalanceResponse
	if err := reply.decodeInto(&res); err != nil {
		return WalletBalanceResponse{}, err
	}

	res.Raw = reply
	return res, nil
}

// QueryZesaTransaction looks up a previous zesa recharge by its recharge id,
// for reconciliation or for polling a pending purchase.
func (c *Client) QueryZesaTransaction(ctx context.Context, rechargeID string) (ZesaTransactionResponse, error) {
	if rechargeID == "" {
		return ZesaTransactionResponse{}, fmt.Errorf("%w: recharge id is required", ErrInvalidFormat)
	}

	reply, err := c.exchange(ctx, http.MethodPost, queryZesaEndpoint, zesaQueryPayload{RechargeID: rechargeID})
	if err != nil {
		return ZesaTransactionResponse{}, err
	}

	var res ZesaTransactionResponse
	if err := reply.decodeInto(&res); err != nil {
		return ZesaTransactionResponse{}, err
	}

	res.Raw = reply
	return res, nil
}

func (c *Client) recharge(ctx context.Context, endpoint string, payload any) (RechargeResponse, error) {
	reply, err := c.exchange(ctx, http.MethodPost, endpoint, payload)
	if err != nil {
		return RechargeResponse{}, err
	}

	var res RechargeResponse
	if err := reply.decodeInto(&res); err != nil {
		return RechargeResponse{}, err
	}

	res.Raw = reply
	return res, nil
}

// exchange performs one request/reply round trip: refresh the reference
// header, send, decode, classify. The mutex covers the whole sequence so the
// single transport handle never sees interleaved header state.
func (c *Client) exchange(ctx context.Context, method, endpoint string, payload any) (*Reply, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	requestURL := c.baseURL + apiVersion + endpoint
	headers := c.buildHeaders()

	var resp *http.Response
	var err error

	if method == http.MethodGet {
		resp, err = c.client.Get(ctx, requestURL, headers)
	} else {
		var buf bytes.Buffer
		if encErr := json.NewEncoder(&buf).Encode(payload); encErr != nil {
			return nil, fmt.Errorf("encoding error: %w", encErr)
		}
		resp, err = c.client.Post(ctx, requestURL, &buf, headers)
	}
	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	reply, err := ParseReply(body)
	if err != nil {
		return nil, err
	}

	if err := Classify(reply, resp.StatusCode); err != nil {
		return nil, err
	}

	return reply, nil
}

// buildHeaders derives the full header set from the auth config on every
// call, so credential updates take effect without client surgery. In auto
// mode the reference slot gets a fresh token each time.
func (c *Client) buildHeaders() map[string]string {
	reference := c.reference
	if c.opts.UseRandomRef {
		reference = uuidChunkRef()
	}

	return map[string]string{
		HeaderAccessCode:     c.auth.AccessCode(),
		HeaderAccessPassword: c.auth.AccessPassword(),
		HeaderAgentReference: reference,
		"content-type":       mimeJSON,
		"cache-control":      "no-cache",
	}
}

func (c *Client) checkTargetNumber(number string) error {
	if !c.opts.ValidateTargetNumber {
		if number == "" {
			return fmt.Errorf("%w: target number is required", ErrInvalidFormat)
		}
		return nil
	}
	return validateTargetNumber(number)
}

func (c *Client) checkCustomerSMS(message string) error {
	if !c.opts.EnforceMessageLimit {
		return nil
	}
	return validateCustomerSMS(message)
}

// uuidChunkRef derives a compact reference token from a v4 uuid, keeping only
// the first hyphen group, e.g. c1ce5f4a-0596-49a9-aa28-a118f2888122 ->
// c1ce5f4a.
func uuidChunkRef() string {
	return strings.SplitN(uuid.NewString(), "-", 2)[0]
}
