// Package guard is blank-imported by tests of the main packages so that
// main() returns before dialing Redis, Postgres or the backend API.
package guard

import (
	"os"

	"github.com/odyssey-erp/odyssey-admin/internal/app"
)

func init() {
	if os.Getenv(app.TestModeEnv) == "" {
		_ = os.Setenv(app.TestModeEnv, "1")
	}
	app.RefreshTestMode()
}
