package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/serhattastan/foodfleet/pkg/migrate"
)

func TestCartLinesMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_cart_lines.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no cart_lines migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE cart_lines",
		"line_id     BIGSERIAL PRIMARY KEY",
		"CHECK (quantity >= 1)",
		"CHECK (total_price >= 0)",
		"CREATE INDEX cart_lines_owner_idx ON cart_lines (owner)",
		"DROP TABLE cart_lines",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestMigrationsDirValidates(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}
