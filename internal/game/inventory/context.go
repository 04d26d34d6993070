// Package inventory holds the live weapon and ammo items an actor carries:
// ammo pools, weapon instances with their dual-pool ammo ledger, and the
// give, pickup, toss, and destroy lifecycle that links sister weapons.
package inventory

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/arsenal/internal/game/ruleset"
)

// Context carries the match-wide collaborators every item consults.
type Context struct {
	Rules  *ruleset.Rules
	Logger *zap.Logger
}

// NewContext returns a Context for rules.
//
// Precondition: rules must not be nil.
// Postcondition: Logger is non-nil.
func NewContext(rules *ruleset.Rules, logger *zap.Logger) *Context {
	if rules == nil {
		panic("inventory: NewContext: rules must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Context{Rules: rules, Logger: logger}
}
