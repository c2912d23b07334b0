package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration file matching %q", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func TestPaymentsMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_payments.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS payments",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_payments_reference",
		"CHECK (amount_pesewas > 0)",
		"DROP TABLE IF EXISTS payments",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestVendorPayoutsMigrationEnforcesSplitInvariant(t *testing.T) {
	content := readMigration(t, "*_create_vendor_payouts.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS vendor_payouts",
		"CHECK (gross_pesewas = commission_pesewas + net_pesewas)",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_vendor_payouts_reference",
		"DROP TABLE IF EXISTS vendor_payouts",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestWebhookEventsMigrationDeduplicatesByDigest(t *testing.T) {
	content := readMigration(t, "*_create_webhook_events.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS webhook_events",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_webhook_events_digest",
		"DROP TABLE IF EXISTS webhook_events",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestOrdersMigrationEnforcesTotals(t *testing.T) {
	content := readMigration(t, "*_create_orders.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS orders",
		"CHECK (total_pesewas = subtotal_pesewas + tax_pesewas + delivery_fee_pesewas)",
		"CREATE TABLE IF NOT EXISTS order_items",
		"CHECK (total_pesewas = unit_price_pesewas * quantity)",
		"DROP TABLE IF EXISTS order_items",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
