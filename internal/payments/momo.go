package payments

import (
	"fmt"

	"github.com/ghbuys/marketplace-backend/pkg/enums"
	"github.com/ghbuys/marketplace-backend/pkg/ghana"
)

var momoInstructions = map[enums.MomoProvider]string{
	enums.MomoProviderMTN: `1. Dial %s on your MTN line
2. Select option 1 (Send Money)
3. Enter Merchant Code when prompted
4. Enter the amount to pay
5. Enter your PIN to complete the transaction
6. You will receive a confirmation SMS`,

	enums.MomoProviderVodafone: `1. Dial %s on your Vodafone line
2. Select option 1 (Transfer Money)
3. Select option 3 (To Business)
4. Enter the Merchant Code
5. Enter the amount to pay
6. Enter your PIN to confirm
7. You will receive a confirmation SMS`,

	enums.MomoProviderAirtelTigo: `1. Dial %s on your AirtelTigo line
2. Select option 3 (Payments)
3. Select option 1 (Pay Merchant)
4. Enter the Merchant Code
5. Enter the amount to pay
6. Enter your PIN to complete
7. You will receive a confirmation SMS`,
}

// MomoDisplayText is the one-line prompt shown while the charge is pending.
func MomoDisplayText(provider enums.MomoProvider, amountPesewas int64) string {
	name := provider.String()
	if info, ok := ghana.MomoProviderByCode(provider); ok {
		name = info.Name
	}
	return fmt.Sprintf("Please complete your %s payment of %s", name, ghana.FormatCurrency(amountPesewas))
}

// MomoInstructions renders the USSD walkthrough for the provider's network.
func MomoInstructions(provider enums.MomoProvider) string {
	template, ok := momoInstructions[provider]
	if !ok {
		return "Follow the prompts on your mobile money app to complete the payment"
	}
	shortCode := ""
	if info, ok := ghana.MomoProviderByCode(provider); ok {
		shortCode = info.ShortCode
	}
	return fmt.Sprintf(template, shortCode)
}
