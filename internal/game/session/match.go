package session

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/arsenal/internal/game/command"
	"github.com/cory-johannsen/arsenal/internal/game/inventory"
	"github.com/cory-johannsen/arsenal/internal/game/ruleset"
	"github.com/cory-johannsen/arsenal/internal/game/slots"
	"github.com/cory-johannsen/arsenal/internal/game/weapon"
	"github.com/cory-johannsen/arsenal/internal/netcode"
	"github.com/cory-johannsen/arsenal/internal/scripting"
)

// MaxPlayers bounds the number of players in a match.
const MaxPlayers = 8

// PlayerState is one player of a match.
type PlayerState struct {
	Number int
	Class  *weapon.PlayerClass
	Player *inventory.Player
	Slots  *slots.Set
	Outbox *Outbox
}

// Match is the shared state of one game: content, rules, the weapon index
// table, the deferred configuration commands, the weapon section, and every
// player. mu guards the player list, the weapon section, the console player,
// the user config path and the closed flag. A player's inventory and slots
// are not guarded; Give, LocalSetup, RunTic and the switcher methods must run
// on the tic goroutine.
type Match struct {
	mu sync.RWMutex

	registry *weapon.Registry
	rules    *ruleset.Rules
	ctx      *inventory.Context
	table    *netcode.IndexTable
	buffer   *command.Buffer
	logger   *zap.Logger

	section    string
	userConfig string
	console    int
	players    []*PlayerState
	closed     bool
}

// NewMatch creates a Match with no players. The index table is built from
// reg for the ruleset's game.
//
// Precondition: reg and rules must not be nil.
// Postcondition: ConsolePlayer() == 0.
func NewMatch(reg *weapon.Registry, rules *ruleset.Rules, logger *zap.Logger) *Match {
	if reg == nil || rules == nil {
		panic("session: NewMatch: reg and rules must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Match{
		registry: reg,
		rules:    rules,
		ctx:      inventory.NewContext(rules, logger),
		table:    netcode.BuildIndexTable(reg, rules.Game),
		buffer:   command.NewBuffer(),
		logger:   logger,
	}
}

// Registry returns the content registry.
func (m *Match) Registry() *weapon.Registry { return m.registry }

// Rules returns the ruleset.
func (m *Match) Rules() *ruleset.Rules { return m.rules }

// Context returns the inventory context shared by every player.
func (m *Match) Context() *inventory.Context { return m.ctx }

// Table returns the weapon index table.
func (m *Match) Table() *netcode.IndexTable { return m.table }

// Buffer returns the deferred configuration command buffer.
func (m *Match) Buffer() *command.Buffer { return m.buffer }

// WeaponSection returns the current weapon section name.
func (m *Match) WeaponSection() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.section
}

// SetWeaponSection changes the weapon section used by LocalSetup.
func (m *Match) SetWeaponSection(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.section = name
}

// SetUserConfigPath records the user slot file named in setslot listings.
func (m *Match) SetUserConfigPath(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.userConfig = path
}

// ConsolePlayer returns the number of the local player.
func (m *Match) ConsolePlayer() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.console
}

// SetConsolePlayer selects the local player. Slot commands sent by the
// local player report failures.
func (m *Match) SetConsolePlayer(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.console = n
}

// LoadKeyConf runs the configuration script at path, recording its slot
// commands into the buffer. Usage text of malformed commands goes to out.
//
// Postcondition: the buffer holds every valid slot command of the script;
// weaponsection calls have already taken effect.
func (m *Match) LoadKeyConf(path string, out io.Writer) error {
	rec := command.NewRecorder(m.registry, m.logger, out, m.buffer)
	rec.SetWeaponSection = m.SetWeaponSection
	if err := scripting.NewManager(rec, m.logger, 0).Load(path); err != nil {
		return fmt.Errorf("LoadKeyConf: %w", err)
	}
	m.logger.Info("configuration script loaded",
		zap.String("path", path),
		zap.Int("commands", m.buffer.Len()),
	)
	return nil
}

// AddPlayer joins a player of the named class and gives it the standard
// slot setup.
//
// Postcondition: Returns the new PlayerState numbered by join order, or an
// error if the class is unknown, the match is full, or it is closed.
func (m *Match) AddPlayer(className string) (*PlayerState, error) {
	pc, ok := m.registry.PlayerClass(className)
	if !ok {
		return nil, fmt.Errorf("AddPlayer: unknown player class %q", className)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, errors.New("AddPlayer: match is closed")
	}
	n := len(m.players)
	if n >= MaxPlayers {
		return nil, fmt.Errorf("AddPlayer: match is full (%d players)", MaxPlayers)
	}

	p := inventory.NewPlayer(m.ctx, pc.Name)
	p.Number = n
	p.Switcher = m
	set := slots.NewSet(m.registry, m.logger.With(zap.Int("player", n)))
	set.StandardSetup(pc, m.rules.Game)

	ps := &PlayerState{
		Number: n,
		Class:  pc,
		Player: p,
		Slots:  set,
		Outbox: NewOutbox(n, DefaultOutboxSize),
	}
	m.players = append(m.players, ps)
	m.logger.Debug("player joined", zap.Int("player", n), zap.String("class", pc.Name))
	return ps, nil
}

// Player returns player n.
//
// Postcondition: Returns (state, true) if found, or (nil, false) otherwise.
func (m *Match) Player(n int) (*PlayerState, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ps := m.playerLocked(n)
	return ps, ps != nil
}

// Players returns every player in join order.
func (m *Match) Players() []*PlayerState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*PlayerState, len(m.players))
	copy(out, m.players)
	return out
}

func (m *Match) playerLocked(n int) *PlayerState {
	if n < 0 || n >= len(m.players) {
		return nil
	}
	return m.players[n]
}

// Give hands player n a new weapon of the named type.
func (m *Match) Give(n int, weaponName string) (*inventory.Weapon, error) {
	ps, ok := m.Player(n)
	if !ok {
		return nil, fmt.Errorf("Give: unknown player %d", n)
	}
	c := m.registry.Class(weaponName)
	if c == nil {
		return nil, fmt.Errorf("Give: %q is not a weapon", weaponName)
	}
	if w := ps.Player.Actor.FindWeapon(c); w != nil {
		return w, nil
	}
	w := inventory.NewWeapon(m.ctx, c)
	w.Give(ps.Player.Actor)
	return w, nil
}

// LocalSetup applies player n's own configuration, the recorded script
// commands and the user sections of src, and queues the slots that differ
// from the standard setup for the next tic. Peers learn the local layout
// only through those commands.
func (m *Match) LocalSetup(n int, src slots.SectionSource) error {
	m.mu.RLock()
	ps := m.playerLocked(n)
	section := m.section
	m.mu.RUnlock()
	if ps == nil {
		return fmt.Errorf("LocalSetup: unknown player %d", n)
	}

	local := ps.Slots.Clone()
	local.LocalSetup(m.buffer, src, section, ps.Class.Name)

	w := netcode.NewWriter(m.table)
	local.SendDifferences(w, -1, ps.Slots)
	if w.Len() == 0 {
		return nil
	}
	return ps.Outbox.Push(w.Bytes())
}

// Execute runs a console line typed by player n. Slot changes are queued
// for the next tic; usage text and listings go to out.
func (m *Match) Execute(n int, line string, out io.Writer) error {
	ps, ok := m.Player(n)
	if !ok {
		return fmt.Errorf("Execute: unknown player %d", n)
	}
	w := netcode.NewWriter(m.table)
	d := command.NewLive(m.registry, m.logger, out, w)
	d.SetWeaponSection = m.SetWeaponSection
	d.Local = func() *command.Listing {
		m.mu.RLock()
		defer m.mu.RUnlock()
		return &command.Listing{
			Slots:         ps.Slots,
			ClassName:     ps.Class.Name,
			WeaponSection: m.section,
			ConfigPath:    m.userConfig,
		}
	}
	if err := d.Execute(line); err != nil {
		return err
	}
	if w.Len() == 0 {
		return nil
	}
	return ps.Outbox.Push(w.Bytes())
}

// ApplyNetCommand reads one slot command sent by player sender and applies
// it. A set-slot command may target another player by number; the add
// commands always target the sender.
//
// Postcondition: Returns an error on a malformed command or unknown player.
func (m *Match) ApplyNetCommand(r *netcode.Reader, sender int) error {
	cmd, err := r.ReadCommand()
	if err != nil {
		return fmt.Errorf("ApplyNetCommand: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	target := sender
	if cmd.Op == netcode.CmdSetSlotPNum {
		target = cmd.Player
	}
	ps := m.playerLocked(target)
	if ps == nil {
		return fmt.Errorf("ApplyNetCommand: %s for unknown player %d", cmd.Op, target)
	}
	feedback := sender == m.console

	switch cmd.Op {
	case netcode.CmdSetSlot, netcode.CmdSetSlotPNum:
		ps.Slots.SetSlot(cmd.Slot, cmd.Weapons, feedback)
	case netcode.CmdAddSlot:
		ps.Slots.AddSlot(cmd.Slot, cmd.Weapons[0], feedback)
	case netcode.CmdAddSlotDefault:
		ps.Slots.AddSlotDefault(cmd.Slot, cmd.Weapons[0], feedback)
	}
	return nil
}

// RunTic delivers every queued packet, player by player in join order, and
// applies its commands as sent by the packet's owner.
//
// Postcondition: every outbox is empty. Returns the joined errors of
// malformed packets; the rest of a malformed packet is dropped.
func (m *Match) RunTic() error {
	var errs []error
	for _, ps := range m.Players() {
		for _, packet := range ps.Outbox.Drain() {
			r := netcode.NewReader(packet, m.table)
			for r.Remaining() > 0 {
				if err := m.ApplyNetCommand(r, ps.Number); err != nil {
					errs = append(errs, err)
					break
				}
			}
		}
	}
	return errors.Join(errs...)
}

// Close closes every outbox. Later AddPlayer calls fail.
func (m *Match) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	for _, ps := range m.players {
		_ = ps.Outbox.Close()
	}
}
