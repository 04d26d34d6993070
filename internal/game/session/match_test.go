package session_test

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/arsenal/internal/game/ruleset"
	"github.com/cory-johannsen/arsenal/internal/game/session"
	"github.com/cory-johannsen/arsenal/internal/game/weapon"
	"github.com/cory-johannsen/arsenal/internal/netcode"
)

func TestNewMatch_PanicsOnNil(t *testing.T) {
	c := newContent(t)
	assert.Panics(t, func() { session.NewMatch(nil, ruleset.New(ruleset.GameDoom), nil) })
	assert.Panics(t, func() { session.NewMatch(c.reg, nil, nil) })
}

func TestMatch_AddPlayer_StandardSetup(t *testing.T) {
	m, _ := newMatch(t)

	ps, err := m.AddPlayer("doomplayer")
	require.NoError(t, err)
	assert.Equal(t, 0, ps.Number)
	assert.Equal(t, "DoomPlayer", ps.Class.Name)
	assert.Same(t, m, ps.Player.Switcher)
	assert.Equal(t, []string{"Shotgun", "SuperShotgun"}, names(ps.Slots.Slot(3).Weapons()))

	second, err := m.AddPlayer("DoomPlayer")
	require.NoError(t, err)
	assert.Equal(t, 1, second.Number)
	assert.Len(t, m.Players(), 2)

	got, ok := m.Player(1)
	require.True(t, ok)
	assert.Same(t, second, got)
	_, ok = m.Player(2)
	assert.False(t, ok)
}

func TestMatch_AddPlayer_Errors(t *testing.T) {
	m, _ := newMatch(t)
	_, err := m.AddPlayer("HereticPlayer")
	assert.Error(t, err)

	for i := 0; i < session.MaxPlayers; i++ {
		_, err := m.AddPlayer("DoomPlayer")
		require.NoError(t, err)
	}
	_, err = m.AddPlayer("DoomPlayer")
	assert.Error(t, err, "the match is full")
}

func TestMatch_Close(t *testing.T) {
	m, _ := newMatch(t)
	ps, err := m.AddPlayer("DoomPlayer")
	require.NoError(t, err)

	m.Close()
	m.Close()
	assert.True(t, ps.Outbox.IsClosed())
	_, err = m.AddPlayer("DoomPlayer")
	assert.Error(t, err)
}

func TestMatch_LocalSetup_DeliveredOnTic(t *testing.T) {
	m, _ := newMatch(t)
	ps, err := m.AddPlayer("DoomPlayer")
	require.NoError(t, err)

	src := mapSource{"DoomPlayer": {3: "SuperShotgun Shotgun", 5: "Chaingun"}}
	require.NoError(t, m.LocalSetup(0, src))
	assert.Equal(t, 1, ps.Outbox.Len())
	assert.Equal(t, []string{"Shotgun", "SuperShotgun"}, names(ps.Slots.Slot(3).Weapons()), "nothing applies before the tic")

	require.NoError(t, m.RunTic())
	assert.Equal(t, 0, ps.Outbox.Len())
	assert.Equal(t, []string{"SuperShotgun", "Shotgun"}, names(ps.Slots.Slot(3).Weapons()))
	assert.Equal(t, []string{"Chaingun"}, names(ps.Slots.Slot(5).Weapons()))

	require.NoError(t, m.LocalSetup(0, src))
	assert.Equal(t, 0, ps.Outbox.Len(), "an applied layout has no differences")
}

func TestMatch_LocalSetup_WeaponSection(t *testing.T) {
	m, _ := newMatch(t)
	ps, err := m.AddPlayer("DoomPlayer")
	require.NoError(t, err)
	m.SetWeaponSection("legacy")
	assert.Equal(t, "legacy", m.WeaponSection())

	src := mapSource{
		"legacy":     {2: "Fist Pistol"},
		"DoomPlayer": {2: "Chaingun"},
	}
	require.NoError(t, m.LocalSetup(0, src))
	require.NoError(t, m.RunTic())
	assert.Equal(t, []string{"Fist", "Pistol"}, names(ps.Slots.Slot(2).Weapons()))

	assert.Error(t, m.LocalSetup(4, src))
}

func TestMatch_LoadKeyConf(t *testing.T) {
	m, _ := newMatch(t)
	ps, err := m.AddPlayer("DoomPlayer")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "keyconf.lua")
	require.NoError(t, os.WriteFile(path, []byte(`
		weaponsection("legacy")
		setslot(5, "PlasmaRifle")
		addslot(1, "Pistol")
		addslot(1, "Clip")
	`), 0644))

	var out bytes.Buffer
	require.NoError(t, m.LoadKeyConf(path, &out))
	assert.Equal(t, "legacy", m.WeaponSection())
	assert.Equal(t, []string{"setslot 5 PlasmaRifle", "addslot 1 Pistol"}, m.Buffer().Lines())

	require.NoError(t, m.LocalSetup(0, nil))
	require.NoError(t, m.RunTic())
	assert.Equal(t, []string{"PlasmaRifle"}, names(ps.Slots.Slot(5).Weapons()))
	assert.Equal(t, []string{"Fist", "Pistol"}, names(ps.Slots.Slot(1).Weapons()))

	assert.Error(t, m.LoadKeyConf(filepath.Join(t.TempDir(), "absent.lua"), nil))
}

func TestMatch_Execute(t *testing.T) {
	m, _ := newMatch(t)
	ps, err := m.AddPlayer("DoomPlayer")
	require.NoError(t, err)
	m.SetUserConfigPath("user.yaml")

	var out bytes.Buffer
	require.NoError(t, m.Execute(0, "setslot 3 SuperShotgun", &out))
	require.NoError(t, m.Execute(0, "addslot 3 Shotgun", &out))
	require.NoError(t, m.RunTic())
	assert.Equal(t, []string{"SuperShotgun", "Shotgun"}, names(ps.Slots.Slot(3).Weapons()))

	out.Reset()
	require.NoError(t, m.Execute(0, "setslot", &out))
	assert.Contains(t, out.String(), "[DoomPlayer.weapons]")
	assert.Contains(t, out.String(), "Slot[3]=SuperShotgun Shotgun \n")
	assert.Equal(t, 0, ps.Outbox.Len())

	require.NoError(t, m.Execute(0, "weaponsection modern", &out))
	assert.Equal(t, "modern", m.WeaponSection())

	assert.Error(t, m.Execute(0, "give all", &out))
	assert.Error(t, m.Execute(7, "setslot 1", &out))
}

func TestMatch_ApplyNetCommand_TargetsAndFeedback(t *testing.T) {
	c := newContent(t)
	core, logs := observer.New(zapcore.InfoLevel)
	m := session.NewMatch(c.reg, ruleset.New(ruleset.GameDoom), zap.New(core))
	defer m.Close()
	p0, err := m.AddPlayer("DoomPlayer")
	require.NoError(t, err)
	p1, err := m.AddPlayer("DoomPlayer")
	require.NoError(t, err)

	w := netcode.NewWriter(m.Table())
	w.WriteSetSlot(1, 7, []*weapon.Class{c.reg.Class("PlasmaRifle")})
	w.WriteAddSlot(12, c.reg.Class("Pistol"))
	r := netcode.NewReader(w.Bytes(), m.Table())

	require.NoError(t, m.ApplyNetCommand(r, 0))
	assert.Equal(t, []string{"PlasmaRifle"}, names(p1.Slots.Slot(7).Weapons()))
	assert.Equal(t, 0, p0.Slots.Slot(7).Size())

	require.NoError(t, m.ApplyNetCommand(r, 1))
	assert.Equal(t, 0, logs.FilterMessage("could not add weapon to slot").Len(), "only the console player gets feedback")

	r = netcode.NewReader(w.Bytes()[len(w.Bytes())-3:], m.Table())
	require.NoError(t, m.ApplyNetCommand(r, 0))
	assert.Equal(t, 1, logs.FilterMessage("could not add weapon to slot").Len())

	w.Reset()
	w.WriteSetSlot(5, 1, nil)
	assert.Error(t, m.ApplyNetCommand(netcode.NewReader(w.Bytes(), m.Table()), 0), "unknown target player")
	assert.Error(t, m.ApplyNetCommand(netcode.NewReader(nil, m.Table()), 0))
}

func TestMatch_RunTic_MalformedPacket(t *testing.T) {
	m, _ := newMatch(t)
	ps, err := m.AddPlayer("DoomPlayer")
	require.NoError(t, err)
	require.NoError(t, ps.Outbox.Push([]byte{0xFF, 0x01}))

	assert.Error(t, m.RunTic())
	assert.Equal(t, 0, ps.Outbox.Len())
	assert.NoError(t, m.RunTic())
}

func TestMatch_RunTic_SenderScoped(t *testing.T) {
	m, _ := newMatch(t)
	p0, err := m.AddPlayer("DoomPlayer")
	require.NoError(t, err)
	p1, err := m.AddPlayer("DoomPlayer")
	require.NoError(t, err)

	require.NoError(t, m.LocalSetup(1, mapSource{"DoomPlayer": {9: "Fist"}}))
	require.NoError(t, m.RunTic())

	assert.Equal(t, []string{"Fist"}, names(p1.Slots.Slot(9).Weapons()))
	assert.Equal(t, 0, p0.Slots.Slot(9).Size())
}

func TestMatch_Give(t *testing.T) {
	m, _ := newMatch(t)
	ps, err := m.AddPlayer("DoomPlayer")
	require.NoError(t, err)

	w, err := m.Give(0, "Pistol")
	require.NoError(t, err)
	require.NotNil(t, w.Ammo1)
	assert.Equal(t, 20, w.Ammo1.Amount)
	assert.Same(t, w, ps.Player.PendingWeapon)

	again, err := m.Give(0, "pistol")
	require.NoError(t, err)
	assert.Same(t, w, again)

	_, err = m.Give(0, "Clip")
	assert.Error(t, err)
	_, err = m.Give(3, "Pistol")
	assert.Error(t, err)
}

func TestMatch_GuardedFieldsConcurrent(t *testing.T) {
	m, _ := newMatch(t)
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				m.SetWeaponSection("legacy")
				_ = m.WeaponSection()
				m.SetConsolePlayer(0)
				_ = m.ConsolePlayer()
				_ = m.Players()
			}
		}()
	}
	_, err := m.AddPlayer("DoomPlayer")
	require.NoError(t, err)
	wg.Wait()
	assert.Equal(t, "legacy", m.WeaponSection())
	assert.Len(t, m.Players(), 1)
}
