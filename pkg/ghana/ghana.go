package ghana

import (
	"fmt"
	"strings"

	"github.com/ghbuys/marketplace-backend/pkg/enums"
)

// Region is an administrative region with its delivery pricing. DeliveryFee
// amounts are in pesewas.
type Region struct {
	Code               string   `json:"code"`
	Name               string   `json:"name"`
	Capital            string   `json:"capital"`
	Cities             []string `json:"cities"`
	DeliveryFeePesewas int64    `json:"delivery_fee_pesewas"`
	DeliveryZone       string   `json:"delivery_zone"`
}

// MomoProvider describes a mobile money network customers pay through.
type MomoProvider struct {
	Code      enums.MomoProvider `json:"code"`
	Name      string             `json:"name"`
	ShortCode string             `json:"short_code"`
	Active    bool               `json:"active"`
}

// Bank is a settlement bank vendors can receive payouts into.
type Bank struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Category is a top-level product category with its subcategories.
type Category struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Subcategories []string `json:"subcategories"`
}

// Statutory levies applied on order subtotals, in basis points.
const (
	VATRateBPS     = 1250
	NHILRateBPS    = 250
	GETFundRateBPS = 250
)

var regions = []Region{
	{
		Code:               "greater-accra",
		Name:               "Greater Accra",
		Capital:            "Accra",
		Cities:             []string{"Accra", "Tema", "Kasoa", "Madina", "Adenta", "Teshie", "Nungua"},
		DeliveryFeePesewas: 500,
		DeliveryZone:       "metro",
	},
	{
		Code:               "ashanti",
		Name:               "Ashanti",
		Capital:            "Kumasi",
		Cities:             []string{"Kumasi", "Obuasi", "Ejisu", "Mampong", "Konongo"},
		DeliveryFeePesewas: 1000,
		DeliveryZone:       "regional",
	},
	{
		Code:               "northern",
		Name:               "Northern",
		Capital:            "Tamale",
		Cities:             []string{"Tamale", "Yendi", "Savelugu", "Salaga"},
		DeliveryFeePesewas: 1500,
		DeliveryZone:       "remote",
	},
	{
		Code:               "western",
		Name:               "Western",
		Capital:            "Sekondi-Takoradi",
		Cities:             []string{"Sekondi-Takoradi", "Tarkwa", "Prestea", "Axim"},
		DeliveryFeePesewas: 1200,
		DeliveryZone:       "regional",
	},
	{
		Code:               "eastern",
		Name:               "Eastern",
		Capital:            "Koforidua",
		Cities:             []string{"Koforidua", "Akosombo", "Nkawkaw", "Akim Oda"},
		DeliveryFeePesewas: 800,
		DeliveryZone:       "regional",
	},
	{
		Code:               "volta",
		Name:               "Volta",
		Capital:            "Ho",
		Cities:             []string{"Ho", "Hohoe", "Keta", "Aflao"},
		DeliveryFeePesewas: 1200,
		DeliveryZone:       "regional",
	},
	{
		Code:               "central",
		Name:               "Central",
		Capital:            "Cape Coast",
		Cities:             []string{"Cape Coast", "Elmina", "Winneba", "Kasoa"},
		DeliveryFeePesewas: 1000,
		DeliveryZone:       "regional",
	},
	{
		Code:               "upper-east",
		Name:               "Upper East",
		Capital:            "Bolgatanga",
		Cities:             []string{"Bolgatanga", "Bawku", "Navrongo"},
		DeliveryFeePesewas: 2000,
		DeliveryZone:       "remote",
	},
	{
		Code:               "upper-west",
		Name:               "Upper West",
		Capital:            "Wa",
		Cities:             []string{"Wa", "Tumu", "Lawra"},
		DeliveryFeePesewas: 2000,
		DeliveryZone:       "remote",
	},
	{
		Code:               "brong-ahafo",
		Name:               "Brong Ahafo",
		Capital:            "Sunyani",
		Cities:             []string{"Sunyani", "Techiman", "Berekum", "Dormaa Ahenkro"},
		DeliveryFeePesewas: 1200,
		DeliveryZone:       "regional",
	},
}

var momoProviders = []MomoProvider{
	{Code: enums.MomoProviderMTN, Name: "MTN Mobile Money", ShortCode: "*170#", Active: true},
	{Code: enums.MomoProviderVodafone, Name: "Vodafone Cash", ShortCode: "*110#", Active: true},
	{Code: enums.MomoProviderAirtelTigo, Name: "AirtelTigo Money", ShortCode: "*100#", Active: true},
}

var banks = []Bank{
	{Code: "gcb", Name: "GCB Bank Limited"},
	{Code: "ecobank", Name: "Ecobank Ghana Limited"},
	{Code: "absa", Name: "Absa Bank Ghana Limited"},
	{Code: "stanbic", Name: "Stanbic Bank Ghana Limited"},
	{Code: "standard_chartered", Name: "Standard Chartered Bank Ghana Limited"},
	{Code: "fidelity", Name: "Fidelity Bank Ghana Limited"},
	{Code: "cal_bank", Name: "CAL Bank Limited"},
	{Code: "republic_bank", Name: "Republic Bank Ghana Limited"},
	{Code: "access_bank", Name: "Access Bank Ghana Limited"},
}

var categories = []Category{
	{
		ID:          "groceries",
		Name:        "Groceries & Food",
		Description: "Fresh produce, local foods, beverages, and pantry items",
		Subcategories: []string{
			"Fresh Produce", "Local Foods", "Beverages", "Dairy & Eggs",
			"Meat & Fish", "Pantry Items", "Spices & Seasonings",
		},
	},
	{
		ID:          "electronics",
		Name:        "Electronics",
		Description: "Mobile phones, laptops, home appliances, and tech accessories",
		Subcategories: []string{
			"Mobile Phones", "Laptops & Computers", "TV & Audio",
			"Home Appliances", "Gaming", "Smart Devices",
		},
	},
	{
		ID:          "consumables",
		Name:        "Everyday Consumables",
		Description: "Personal care, health products, and household items",
		Subcategories: []string{
			"Personal Care", "Health & Wellness", "Household Items",
			"Baby Care", "Beauty Products",
		},
	},
	{
		ID:          "fashion",
		Name:        "Fashion & Clothing",
		Description: "Clothing, shoes, accessories, and traditional wear",
		Subcategories: []string{
			"Men's Clothing", "Women's Clothing", "Traditional Wear",
			"Shoes & Footwear", "Bags & Accessories", "Jewelry",
		},
	},
	{
		ID:          "home_garden",
		Name:        "Home & Garden",
		Description: "Furniture, home decor, kitchen items, and garden supplies",
		Subcategories: []string{
			"Furniture", "Kitchen & Dining", "Home Decor", "Garden & Outdoor",
		},
	},
}

// Regions returns every supported region.
func Regions() []Region {
	out := make([]Region, len(regions))
	copy(out, regions)
	return out
}

// RegionByCode looks up a region by its code.
func RegionByCode(code string) (Region, bool) {
	for _, r := range regions {
		if r.Code == code {
			return r, true
		}
	}
	return Region{}, false
}

// IsValidRegion reports whether the code names a supported region.
func IsValidRegion(code string) bool {
	_, ok := RegionByCode(code)
	return ok
}

// MomoProviders returns every supported mobile money provider.
func MomoProviders() []MomoProvider {
	out := make([]MomoProvider, len(momoProviders))
	copy(out, momoProviders)
	return out
}

// MomoProviderByCode looks up a provider by its canonical code.
func MomoProviderByCode(code enums.MomoProvider) (MomoProvider, bool) {
	for _, p := range momoProviders {
		if p.Code == code {
			return p, true
		}
	}
	return MomoProvider{}, false
}

// Banks returns every supported settlement bank.
func Banks() []Bank {
	out := make([]Bank, len(banks))
	copy(out, banks)
	return out
}

// BankByName matches a settlement bank case-insensitively by display name.
func BankByName(name string) (Bank, bool) {
	for _, b := range banks {
		if strings.EqualFold(b.Name, name) {
			return b, true
		}
	}
	return Bank{}, false
}

// Categories returns every product category.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// IsValidCategory reports whether the id names a product category.
func IsValidCategory(id string) bool {
	for _, c := range categories {
		if c.ID == id {
			return true
		}
	}
	return false
}

// TotalTax computes the combined VAT, NHIL, and GETFund levies on a subtotal
// in pesewas, rounding half up.
func TotalTax(subtotalPesewas int64) int64 {
	totalBPS := int64(VATRateBPS + NHILRateBPS + GETFundRateBPS)
	return (subtotalPesewas*totalBPS + 5000) / 10000
}

// FormatCurrency renders a pesewas amount as a cedi string, e.g. GHS 25.00.
func FormatCurrency(amountPesewas int64) string {
	return fmt.Sprintf("GHS %d.%02d", amountPesewas/100, amountPesewas%100)
}
