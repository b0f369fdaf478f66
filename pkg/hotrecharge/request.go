package hotrecharge

import (
	"fmt"
	"regexp"
	"strconv"
)

// MaxCustomerSMSLength is the provider's budget for a custom customer message.
// Messages may carry placeholder tokens (%AMOUNT%, %BUNDLE%, %COMPANYNAME%,
// ...) that the provider substitutes server-side; placeholders count against
// the budget as written.
const MaxCustomerSMSLength = 135

// targetNumberPattern accepts the provider's two valid local number formats,
// 07xxxxxxxx and 086xxxxxxxx.
var targetNumberPattern = regexp.MustCompile(`^(07|086)\d+$`)

// PinlessRechargeRequest tops up airtime directly to TargetMobile.
// BrandID and CustomerSMS are optional and omitted from the payload when
// empty.
type PinlessRechargeRequest struct {
	Amount       float64
	TargetMobile string
	BrandID      string
	CustomerSMS  string
}

func (r PinlessRechargeRequest) payload() pinlessPayload {
	return pinlessPayload{
		Amount:       r.Amount,
		TargetMobile: r.TargetMobile,
		BrandID:      r.BrandID,
		CustomerSMS:  r.CustomerSMS,
	}
}

// DataBundleRechargeRequest recharges the bundle identified by ProductCode
// (e.g. DWB15) to TargetMobile. Amount and CustomerSMS are optional.
type DataBundleRechargeRequest struct {
	ProductCode  string
	TargetMobile string
	Amount       float64
	CustomerSMS  string
}

func (r DataBundleRechargeRequest) payload() dataBundlePayload {
	return dataBundlePayload{
		ProductCode:  r.ProductCode,
		TargetMobile: r.TargetMobile,
		Amount:       r.Amount,
		CustomerSMS:  r.CustomerSMS,
	}
}

// EVDRechargeRequest purchases voucher pins; the pins are sent to
// TargetNumber. PinValue is the voucher denomination. Quantity defaults to 1.
type EVDRechargeRequest struct {
	BrandID      string
	PinValue     float64
	TargetNumber string
	Quantity     int
}

func (r EVDRechargeRequest) payload() evdPayload {
	quantity := r.Quantity
	if quantity < 1 {
		quantity = 1
	}

	// the provider expects these as strings on this operation
	return evdPayload{
		BrandID:      r.BrandID,
		Denomination: strconv.FormatFloat(r.PinValue, 'f', -1, 64),
		Quantity:     strconv.Itoa(quantity),
		TargetNumber: r.TargetNumber,
	}
}

// ZesaRechargeRequest purchases a prepaid electricity token for MeterNumber;
// the token is sent to NotifyContact. CustomerSMS is optional.
type ZesaRechargeRequest struct {
	Amount        float64
	MeterNumber   string
	NotifyContact string
	CustomerSMS   string
}

func (r ZesaRechargeRequest) payload() zesaPayload {
	return zesaPayload{
		Amount:       r.Amount,
		MeterNumber:  r.MeterNumber,
		TargetNumber: r.NotifyContact,
		CustomerSMS:  r.CustomerSMS,
	}
}

// Wire payloads. Field names are the provider's, standardized to PascalCase;
// optional fields carry omitempty so they are never sent as empty
// placeholders.
type pinlessPayload struct {
	Amount       float64 `json:"Amount"`
	TargetMobile string  `json:"TargetMobile"`
	BrandID      string  `json:"BrandID,omitempty"`
	CustomerSMS  string  `json:"CustomerSMS,omitempty"`
}

type dataBundlePayload struct {
	ProductCode  string  `json:"ProductCode"`
	TargetMobile string  `json:"TargetMobile"`
	Amount       float64 `json:"Amount,omitempty"`
	CustomerSMS  string  `json:"CustomerSMS,omitempty"`
}

type evdPayload struct {
	BrandID      string `json:"BrandID"`
	Denomination string `json:"Denomination"`
	Quantity     string `json:"Quantity"`
	TargetNumber string `json:"TargetNumber"`
}

type zesaPayload struct {
	Amount       float64 `json:"Amount"`
	MeterNumber  string  `json:"MeterNumber"`
	CustomerSMS  string  `json:"CustomerSMS,omitempty"`
	TargetNumber string  `json:"TargetNumber"`
}

type zesaCustomerPayload struct {
	MeterNumber string `json:"MeterNumber"`
}

type zesaQueryPayload struct {
	RechargeID string `json:"RechargeId"`
}

func validateTargetNumber(number string) error {
	if !targetNumberPattern.MatchString(number) {
		return fmt.Errorf("%w: target number %q must be in format 07... or 086...", ErrInvalidFormat, number)
	}
	return nil
}

func validateCustomerSMS(message string) error {
	if len(message) > MaxCustomerSMSLength {
		return fmt.Errorf("%w: customer sms exceeds %d characters", ErrInvalidFormat, MaxCustomerSMSLength)
	}
	return nil
}
