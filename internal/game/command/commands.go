// Package command provides the weapon slot console commands: their
// registry, a line parser, a deferred command buffer, and a dispatcher that
// records, replays, or transmits them.
package command

// Categories for organizing commands.
const (
	CategorySlots  = "slots"
	CategoryConfig = "config"
)

// Handler identifiers mapping commands to dispatcher operations.
const (
	HandlerSetSlot        = "setslot"
	HandlerAddSlot        = "addslot"
	HandlerAddSlotDefault = "addslotdefault"
	HandlerWeaponSection  = "weaponsection"
)

// Command defines a console or configuration-script command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Usage is the one-line usage text printed on malformed input.
	Usage string
	// Help is the short help text.
	Help string
	// Category groups the command.
	Category string
	// Handler maps to the dispatcher operation.
	Handler string
	// Recorded reports whether the command is deferred while a
	// configuration script is being parsed.
	Recorded bool
}

// BuiltinCommands returns the weapon slot commands.
func BuiltinCommands() []Command {
	return []Command{
		{
			Name:     "setslot",
			Usage:    "Usage: setslot [slot] [weapons]",
			Help:     "Replace a slot with the listed weapons; no arguments lists the current slots",
			Category: CategorySlots,
			Handler:  HandlerSetSlot,
			Recorded: true,
		},
		{
			Name:     "addslot",
			Usage:    "Usage: addslot <slot> <weapon>",
			Help:     "Append a weapon to a slot",
			Category: CategorySlots,
			Handler:  HandlerAddSlot,
			Recorded: true,
		},
		{
			Name:     "addslotdefault",
			Usage:    "Usage: addslotdefault <slot> <weapon>",
			Help:     "Add a weapon to a slot unless it is already slotted",
			Category: CategorySlots,
			Handler:  HandlerAddSlotDefault,
			Recorded: true,
		},
		{
			Name:     "weaponsection",
			Usage:    "Usage: weaponsection <ini name>",
			Help:     "Select the user configuration section for weapon slots",
			Category: CategoryConfig,
			Handler:  HandlerWeaponSection,
		},
	}
}
