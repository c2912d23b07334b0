package paystack

import "encoding/json"

// InitializeParams starts a hosted checkout. Amount is in pesewas.
type InitializeParams struct {
	Email       string         `json:"email"`
	Amount      int64          `json:"amount"`
	Currency    string         `json:"currency,omitempty"`
	Reference   string         `json:"reference,omitempty"`
	CallbackURL string         `json:"callback_url,omitempty"`
	Channels    []string       `json:"channels,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// InitializedTransaction is the hosted checkout session handle.
type InitializedTransaction struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// MomoDetails identifies the phone and network to charge.
type MomoDetails struct {
	Phone    string `json:"phone"`
	Provider string `json:"provider"`
}

// MomoChargeParams starts a mobile money charge. Amount is in pesewas.
type MomoChargeParams struct {
	Email       string         `json:"email"`
	Amount      int64          `json:"amount"`
	Currency    string         `json:"currency,omitempty"`
	Reference   string         `json:"reference,omitempty"`
	MobileMoney MomoDetails    `json:"mobile_money"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// MomoCharge is the gateway's state for an in-flight mobile money charge.
type MomoCharge struct {
	Reference   string `json:"reference"`
	Status      string `json:"status"`
	DisplayText string `json:"display_text"`
}

// Transaction is the gateway's record returned by verification.
type Transaction struct {
	ID              int64           `json:"id"`
	Reference       string          `json:"reference"`
	Amount          int64           `json:"amount"`
	Currency        string          `json:"currency"`
	Status          string          `json:"status"`
	Channel         string          `json:"channel"`
	GatewayResponse string          `json:"gateway_response"`
	PaidAt          string          `json:"paid_at"`
	Fees            int64           `json:"fees"`
	Authorization   json.RawMessage `json:"authorization,omitempty"`
	Customer        struct {
		Email string `json:"email"`
	} `json:"customer"`
}

// RefundParams requests a refund against a settled transaction.
type RefundParams struct {
	Transaction  string `json:"transaction"`
	Amount       int64  `json:"amount,omitempty"`
	Currency     string `json:"currency,omitempty"`
	MerchantNote string `json:"merchant_note,omitempty"`
}

// Refund is the gateway's refund record.
type Refund struct {
	ID          int64  `json:"id"`
	Status      string `json:"status"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	Transaction string `json:"transaction"`
}

// RecipientParams registers a payout destination. Type is "ghipss" for bank
// accounts or "mobile_money" for wallets; BankCode carries the provider code
// for wallets.
type RecipientParams struct {
	Type          string `json:"type"`
	Name          string `json:"name"`
	AccountNumber string `json:"account_number"`
	BankCode      string `json:"bank_code"`
	Currency      string `json:"currency"`
}

// Recipient is the registered payout destination handle.
type Recipient struct {
	RecipientCode string `json:"recipient_code"`
	Type          string `json:"type"`
	Active        bool   `json:"active"`
}

// TransferParams initiates a payout transfer. Amount is in pesewas.
type TransferParams struct {
	Source    string `json:"source"`
	Amount    int64  `json:"amount"`
	Recipient string `json:"recipient"`
	Reference string `json:"reference"`
	Reason    string `json:"reason,omitempty"`
	Currency  string `json:"currency,omitempty"`
}

// Transfer is the gateway's transfer record.
type Transfer struct {
	Reference    string `json:"reference"`
	TransferCode string `json:"transfer_code"`
	Status       string `json:"status"`
	Amount       int64  `json:"amount"`
}
