// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// A compile runs read, parse, render and write in that order. Failures
// carry the stage through domain.StageError; parse fallbacks and missing
// knowledge files are recorded on the result instead of failing it.
package services
