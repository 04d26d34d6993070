package command

import (
	"fmt"
	"io"
	"strconv"

	"go.uber.org/zap"

	"github.com/cory-johannsen/arsenal/internal/game/slots"
	"github.com/cory-johannsen/arsenal/internal/game/weapon"
	"github.com/cory-johannsen/arsenal/internal/netcode"
)

// Mode selects what the dispatcher does with a valid slot command.
type Mode int

const (
	// ModeLive transmits slot changes as net commands.
	ModeLive Mode = iota
	// ModeRecording defers slot commands into a Buffer.
	ModeRecording
	// ModePlayback applies slot commands directly to a target set.
	ModePlayback
)

func (m Mode) String() string {
	switch m {
	case ModeLive:
		return "live"
	case ModeRecording:
		return "recording"
	case ModePlayback:
		return "playback"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Listing describes the local player for the setslot usage listing.
type Listing struct {
	Slots         *slots.Set
	ClassName     string
	WeaponSection string
	ConfigPath    string
}

// Dispatcher executes slot command lines in one Mode. Usage text and slot
// listings go to the output writer; rejected arguments are logged.
type Dispatcher struct {
	commands *Registry
	resolver slots.Resolver
	out      io.Writer
	mode     Mode

	buffer *Buffer
	target *slots.Set
	net    *netcode.Writer

	// Injected after construction. nil = no-op.
	SetWeaponSection func(name string)
	Local            func() *Listing
}

func newDispatcher(mode Mode, reg *weapon.Registry, logger *zap.Logger, out io.Writer) *Dispatcher {
	if reg == nil {
		panic("command: newDispatcher: reg must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if out == nil {
		out = io.Discard
	}
	return &Dispatcher{
		commands: DefaultRegistry(),
		resolver: slots.Resolver{Registry: reg, Logger: logger},
		out:      out,
		mode:     mode,
	}
}

// NewRecorder returns a dispatcher that validates slot commands and records
// them into buf.
//
// Precondition: reg and buf must not be nil.
func NewRecorder(reg *weapon.Registry, logger *zap.Logger, out io.Writer, buf *Buffer) *Dispatcher {
	if buf == nil {
		panic("command: NewRecorder: buf must not be nil")
	}
	d := newDispatcher(ModeRecording, reg, logger, out)
	d.buffer = buf
	return d
}

// NewPlayback returns a dispatcher that applies slot commands to target
// without feedback.
//
// Precondition: target must not be nil.
func NewPlayback(target *slots.Set) *Dispatcher {
	if target == nil {
		panic("command: NewPlayback: target must not be nil")
	}
	r := target.Resolver()
	d := newDispatcher(ModePlayback, r.Registry, r.Logger, nil)
	d.resolver = r
	d.target = target
	return d
}

// NewLive returns a dispatcher that writes slot commands to net.
//
// Precondition: reg and net must not be nil.
func NewLive(reg *weapon.Registry, logger *zap.Logger, out io.Writer, net *netcode.Writer) *Dispatcher {
	if net == nil {
		panic("command: NewLive: net must not be nil")
	}
	d := newDispatcher(ModeLive, reg, logger, out)
	d.net = net
	return d
}

// Mode returns the dispatcher's mode.
func (d *Dispatcher) Mode() Mode {
	return d.mode
}

// Execute parses and runs one command line. Blank lines are ignored.
// Malformed arguments print usage and are not an error.
//
// Postcondition: Returns an error iff the command name is unknown.
func (d *Dispatcher) Execute(line string) error {
	res := Parse(line)
	if res.Command == "" {
		return nil
	}
	cmd, ok := d.commands.Resolve(res.Command)
	if !ok {
		return fmt.Errorf("Execute: unknown command %q", res.Command)
	}
	switch cmd.Handler {
	case HandlerSetSlot:
		d.setSlot(cmd, line, res.Args)
	case HandlerAddSlot:
		d.addSlot(cmd, line, res.Args, false)
	case HandlerAddSlotDefault:
		d.addSlot(cmd, line, res.Args, true)
	case HandlerWeaponSection:
		d.weaponSection(cmd, res.Args)
	}
	return nil
}

func parseSlot(arg string) (int, bool) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 0 || n >= slots.NumSlots {
		return 0, false
	}
	return n, true
}

func (d *Dispatcher) setSlot(cmd *Command, line string, args []string) {
	var slot int
	ok := len(args) > 0
	if ok {
		slot, ok = parseSlot(args[0])
	}
	if !ok {
		d.printSlotListing(cmd)
		return
	}
	names := args[1:]

	switch d.mode {
	case ModeRecording:
		d.buffer.Record(line)
	case ModePlayback:
		sl := d.target.Slot(slot)
		sl.Clear()
		for _, name := range names {
			sl.AddWeaponByName(d.resolver, name)
		}
	case ModeLive:
		if len(names) > 0xFF {
			d.resolver.Logger.Warn("too many weapons for one slot",
				zap.Int("slot", slot),
				zap.Int("count", len(names)),
			)
			return
		}
		if len(names) == 0 {
			fmt.Fprintf(d.out, "Slot %d cleared\n", slot)
		}
		classes := make([]*weapon.Class, len(names))
		for i, name := range names {
			classes[i] = d.resolver.Registry.Class(name)
		}
		d.net.WriteSetSlot(-1, slot, classes)
	}
}

func (d *Dispatcher) printSlotListing(cmd *Command) {
	fmt.Fprintln(d.out, cmd.Usage)
	fmt.Fprintln(d.out, "Current slot assignments:")
	if d.Local == nil {
		return
	}
	l := d.Local()
	if l == nil || l.Slots == nil {
		return
	}
	section := l.ClassName + ".weapons"
	if l.WeaponSection != "" {
		section = l.WeaponSection + "." + section
	}
	fmt.Fprintf(d.out, "Add the following to %s to retain these bindings:\n[%s]\n", l.ConfigPath, section)
	if err := l.Slots.PrintSettings(d.out); err != nil {
		d.resolver.Logger.Warn("printing slot settings", zap.Error(err))
	}
}

func (d *Dispatcher) addSlot(cmd *Command, line string, args []string, asDefault bool) {
	if len(args) != 2 {
		fmt.Fprintln(d.out, cmd.Usage)
		return
	}
	slot, ok := parseSlot(args[0])
	if !ok {
		fmt.Fprintln(d.out, cmd.Usage)
		return
	}
	c := d.resolver.Registry.Class(args[1])
	if c == nil {
		d.resolver.Logger.Info("not a weapon",
			zap.String("command", cmd.Name),
			zap.String("weapon", args[1]),
		)
		return
	}

	switch d.mode {
	case ModeRecording:
		d.buffer.Record(line)
	case ModePlayback:
		if asDefault {
			d.target.AddSlotDefault(slot, c, false)
		} else {
			d.target.AddSlot(slot, c, false)
		}
	case ModeLive:
		if asDefault {
			d.net.WriteAddSlotDefault(slot, c)
		} else {
			d.net.WriteAddSlot(slot, c)
		}
	}
}

// weaponSection runs in every mode, including while a script is parsed.
func (d *Dispatcher) weaponSection(cmd *Command, args []string) {
	if len(args) == 0 {
		fmt.Fprintln(d.out, cmd.Usage)
		return
	}
	if d.SetWeaponSection != nil {
		d.SetWeaponSection(args[0])
	}
}
