package netcode

import (
	"fmt"

	"github.com/cory-johannsen/arsenal/internal/game/weapon"
)

// Command is the leading byte of a replicated slot command.
type Command byte

const (
	// CmdSetSlot replaces a slot of the sending player.
	CmdSetSlot Command = 0x40 + iota
	// CmdSetSlotPNum replaces a slot of the player number that follows.
	CmdSetSlotPNum
	// CmdAddSlot appends one weapon to a slot of the sending player.
	CmdAddSlot
	// CmdAddSlotDefault adds one weapon to a slot unless it is slotted anywhere.
	CmdAddSlotDefault
)

func (c Command) String() string {
	switch c {
	case CmdSetSlot:
		return "setslot"
	case CmdSetSlotPNum:
		return "setslotpnum"
	case CmdAddSlot:
		return "addslot"
	case CmdAddSlotDefault:
		return "addslotdefault"
	}
	return fmt.Sprintf("command(0x%02x)", byte(c))
}

// SlotCommand is a decoded slot command.
type SlotCommand struct {
	Op Command
	// Player is the target player number, or -1 for the sender.
	Player  int
	Slot    int
	Weapons []*weapon.Class
}

// WriteSetSlot writes a slot replacement. player is the target player
// number, or -1 to target the sender.
//
// Precondition: len(classes) <= 255.
func (w *Writer) WriteSetSlot(player, slot int, classes []*weapon.Class) {
	if len(classes) > 0xFF {
		panic(fmt.Sprintf("netcode: WriteSetSlot: %d weapons exceed one slot command", len(classes)))
	}
	if player < 0 {
		w.WriteByte(byte(CmdSetSlot))
	} else {
		w.WriteByte(byte(CmdSetSlotPNum))
		w.WriteByte(byte(player))
	}
	w.WriteByte(byte(slot))
	w.WriteByte(byte(len(classes)))
	for _, c := range classes {
		w.WriteWeapon(c)
	}
}

// WriteAddSlot writes a single-weapon append to slot.
func (w *Writer) WriteAddSlot(slot int, c *weapon.Class) {
	w.WriteByte(byte(CmdAddSlot))
	w.WriteByte(byte(slot))
	w.WriteWeapon(c)
}

// WriteAddSlotDefault writes an add-if-absent of c to slot.
func (w *Writer) WriteAddSlotDefault(slot int, c *weapon.Class) {
	w.WriteByte(byte(CmdAddSlotDefault))
	w.WriteByte(byte(slot))
	w.WriteWeapon(c)
}

// ReadCommand decodes the next slot command. Weapons outside the table
// decode as nil entries.
//
// Postcondition: returns an error for a truncated stream or an unknown command.
func (r *Reader) ReadCommand() (SlotCommand, error) {
	op, err := r.ReadByte()
	if err != nil {
		return SlotCommand{}, err
	}
	cmd := SlotCommand{Op: Command(op), Player: -1}
	switch cmd.Op {
	case CmdSetSlot, CmdSetSlotPNum:
		if cmd.Op == CmdSetSlotPNum {
			pnum, err := r.ReadByte()
			if err != nil {
				return SlotCommand{}, err
			}
			cmd.Player = int(pnum)
		}
		slot, err := r.ReadByte()
		if err != nil {
			return SlotCommand{}, err
		}
		count, err := r.ReadByte()
		if err != nil {
			return SlotCommand{}, err
		}
		cmd.Slot = int(slot)
		cmd.Weapons = make([]*weapon.Class, 0, count)
		for i := 0; i < int(count); i++ {
			c, err := r.ReadWeapon()
			if err != nil {
				return SlotCommand{}, err
			}
			cmd.Weapons = append(cmd.Weapons, c)
		}
	case CmdAddSlot, CmdAddSlotDefault:
		slot, err := r.ReadByte()
		if err != nil {
			return SlotCommand{}, err
		}
		c, err := r.ReadWeapon()
		if err != nil {
			return SlotCommand{}, err
		}
		cmd.Slot = int(slot)
		cmd.Weapons = []*weapon.Class{c}
	default:
		return SlotCommand{}, fmt.Errorf("ReadCommand: unknown command 0x%02x", op)
	}
	return cmd, nil
}
