package calculation

import "github.com/rpgo/fund-calculator/internal/navdata"

// Logger receives engine progress and per-calculation warnings. The CLI
// hands the same implementation to the NAV store.
type Logger = navdata.Logger

// NopLogger is the engine default.
type NopLogger = navdata.NopLogger
