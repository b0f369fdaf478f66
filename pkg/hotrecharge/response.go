package hotrecharge

// APIResponse carries the fields every provider reply shares. Raw holds the
// full decoded reply for generic key access alongside the typed model.
type APIResponse struct {
	AgentReference string `json:"AgentReference"`
	ReplyCode      int    `json:"ReplyCode"`
	ReplyMsg       string `json:"ReplyMsg"`
	Raw            *Reply `json:"-"`
}

type WalletBalanceResponse struct {
	APIResponse
	WalletBalance float64 `json:"WalletBalance"`
}

type EndUserBalanceResponse struct {
	APIResponse
	InitialBalance float64 `json:"InitialBalance"`
	FinalBalance   float64 `json:"FinalBalance"`
}

type QueryTransactionResponse struct {
	APIResponse
	OriginalAgentReference string `json:"OriginalAgentReference"`
	RawReply               string `json:"RawReply"`
}

// RechargeResponse is shared by pinless and data bundle recharges.
type RechargeResponse struct {
	APIResponse
	Amount         float64 `json:"Amount"`
	Data           string  `json:"Data"`
	Discount       float64 `json:"Discount"`
	InitialBalance float64 `json:"InitialBalance"`
	FinalBalance   float64 `json:"FinalBalance"`
	RechargeID     int64   `json:"RechargeID"`
	SMS            string  `json:"SMS"`
	WalletBalance  float64 `json:"WalletBalance"`
	Window         string  `json:"Window"`
}

// EVDRechargeResponse returns purchased pins. Each entry is a comma separated
// PIN, SerialNumber, BrandID|Denomination, Expiry string as issued by the
// provider.
type EVDRechargeResponse struct {
	APIResponse
	Amount        float64  `json:"Amount"`
	Discount      float64  `json:"Discount"`
	RechargeID    int64    `json:"RechargeID"`
	Pins          []string `json:"Pins"`
	WalletBalance float64  `json:"WalletBalance"`
}

type DataBundle struct {
	BundleID    int64   `json:"BundleId"`
	BrandID     int64   `json:"BrandId"`
	Network     string  `json:"Network"`
	ProductCode string  `json:"ProductCode"`
	Amount      float64 `json:"Amount"`
	Name        string  `json:"Name"`
	Description string  `json:"Description"`
	Validity    string  `json:"Validity"`
}

type DataBundlesResponse struct {
	APIResponse
	Bundles []DataBundle `json:"Bundles"`
}

type EVDStock struct {
	BrandID   int64   `json:"BrandId"`
	BrandName string  `json:"BrandName"`
	PinValue  float64 `json:"PinValue"`
	Stock     int64   `json:"Stock"`
}

type EVDStockResponse struct {
	APIResponse
	InStock []EVDStock `json:"InStock"`
}

type ZesaToken struct {
	Token         string  `json:"Token"`
	Units         string  `json:"Units"`
	NetAmount     float64 `json:"NetAmount"`
	Levy          float64 `json:"Levy"`
	Arrears       float64 `json:"Arrears"`
	TaxAmount     float64 `json:"TaxAmount"`
	ZesaReference string  `json:"ZesaReference"`
}

type ZesaCustomer struct {
	CustomerName string `json:"CustomerName"`
	Address      string `json:"Address"`
	MeterNumber  string `json:"MeterNumber"`
	Reference    string `json:"Reference"`
}

type ZesaRechargeResponse struct {
	APIResponse
	WalletBalance float64     `json:"WalletBalance"`
	Amount        float64     `json:"Amount"`
	Discount      float64     `json:"Discount"`
	Meter         string      `json:"Meter"`
	AccountName   string      `json:"AccountName"`
	Address       string      `json:"Address"`
	Tokens        []ZesaToken `json:"Tokens"`
	RechargeID    int64       `json:"RechargeID"`
}

type ZesaCustomerResponse struct {
	APIResponse
	Meter        string       `json:"Meter"`
	CustomerInfo ZesaCustomer `json:"CustomerInfo"`
}

type ZesaTransactionResponse struct {
	APIResponse
	WalletBalance float64      `json:"WalletBalance"`
	Amount        float64      `json:"Amount"`
	Discount      float64      `json:"Discount"`
	Meter         string       `json:"Meter"`
	AccountName   string       `json:"AccountName"`
	Address       string       `json:"Address"`
	Tokens        []ZesaToken  `json:"Tokens"`
	RechargeID    int64        `json:"RechargeID"`
	CustomerInfo  ZesaCustomer `json:"CustomerInfo"`
}
