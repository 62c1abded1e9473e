package migrate

import "testing"

func TestValidateDirAcceptsShippedMigrations(t *testing.T) {
	t.Parallel()

	if err := ValidateDir("migrations"); err != nil {
		t.Fatalf("migrations dir failed validation: %v", err)
	}
}
