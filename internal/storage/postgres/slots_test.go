package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/arsenal/internal/game/slots"
	"github.com/cory-johannsen/arsenal/internal/game/weapon"
	"github.com/cory-johannsen/arsenal/internal/storage/postgres"
	"github.com/cory-johannsen/arsenal/internal/testutil"
)

var _ slots.SectionSource = postgres.Sections{}

func TestSections_CaseInsensitive(t *testing.T) {
	s := postgres.Sections{"doomplayer": {3: "Shotgun SuperShotgun"}}
	lists, ok := s.Section("DoomPlayer")
	require.True(t, ok)
	assert.Equal(t, "Shotgun SuperShotgun", lists[3])

	_, ok = s.Section("HereticPlayer")
	assert.False(t, ok)
}

func TestSlotSectionRepository_SaveLoad(t *testing.T) {
	repo := postgres.NewSlotSectionRepository(testutil.NewPool(t))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "DoomPlayer", 3, "Shotgun SuperShotgun"))
	require.NoError(t, repo.Save(ctx, "doomplayer", 1, "Fist Chainsaw"))
	require.NoError(t, repo.Save(ctx, "legacy.DoomPlayer", 5, "RocketLauncher"))
	require.NoError(t, repo.Save(ctx, "DoomPlayer", 3, "SuperShotgun"))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	lists, ok := got.Section("DoomPlayer")
	require.True(t, ok)
	assert.Equal(t, map[int]string{1: "Fist Chainsaw", 3: "SuperShotgun"}, lists)
	lists, ok = got.Section("Legacy.DoomPlayer")
	require.True(t, ok)
	assert.Equal(t, map[int]string{5: "RocketLauncher"}, lists)
}

func TestSlotSectionRepository_Delete(t *testing.T) {
	repo := postgres.NewSlotSectionRepository(testutil.NewPool(t))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "legacy", 2, "Pistol"))
	require.NoError(t, repo.Delete(ctx, "Legacy"))
	assert.ErrorIs(t, repo.Delete(ctx, "legacy"), postgres.ErrSectionNotFound)

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSlotSectionRepository_SaveRejects(t *testing.T) {
	repo := postgres.NewSlotSectionRepository(testutil.NewPool(t))
	ctx := context.Background()

	assert.Error(t, repo.Save(ctx, " ", 1, "Fist"))
	assert.Error(t, repo.Save(ctx, "DoomPlayer", 10, "Fist"))
	assert.Error(t, repo.Save(ctx, "DoomPlayer", -1, "Fist"))
	assert.Error(t, repo.Delete(ctx, ""))
}

func TestSlotSectionRepository_RestoresIntoSet(t *testing.T) {
	repo := postgres.NewSlotSectionRepository(testutil.NewPool(t))
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, "DoomPlayer", 4, "Fist Fist"))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	set := slots.NewSet(newRegistry(t), nil)
	assert.Equal(t, 1, set.RestoreSlots(got, "DoomPlayer"))
	assert.Equal(t, 1, set.Slot(4).Size(), "a weapon is slotted once per slot")
}

func TestProperty_SlotSectionRepository_LastSaveWins(t *testing.T) {
	repo := postgres.NewSlotSectionRepository(testutil.NewPool(t))
	ctx := context.Background()

	rapid.Check(t, func(rt *rapid.T) {
		slot := rapid.IntRange(0, postgres.NumWeaponSlots-1).Draw(rt, "slot")
		lists := rapid.SliceOfN(rapid.StringMatching(`[A-Za-z]{1,12}( [A-Za-z]{1,12}){0,3}`), 1, 5).Draw(rt, "lists")
		for _, l := range lists {
			if err := repo.Save(ctx, "prop", slot, l); err != nil {
				rt.Fatalf("Save: %v", err)
			}
		}
		got, err := repo.Load(ctx)
		if err != nil {
			rt.Fatalf("Load: %v", err)
		}
		sec, _ := got.Section("prop")
		if sec[slot] != lists[len(lists)-1] {
			rt.Fatalf("slot %d = %q, want %q", slot, sec[slot], lists[len(lists)-1])
		}
	})
}

func newRegistry(t *testing.T) *weapon.Registry {
	t.Helper()
	reg := weapon.NewRegistry()
	require.NoError(t, reg.RegisterWeapon(weapon.NewClass("Fist", weapon.StateReady, weapon.StateSelect, weapon.StateDeselect, weapon.StateFire)))
	return reg
}

func TestPool_HealthAndSlotSections(t *testing.T) {
	pc := testutil.NewPostgresContainer(t)
	pc.ApplyMigrations(t)
	ctx := context.Background()

	require.NoError(t, pc.Pool.Health(ctx, 5*time.Second))
	repo := pc.Pool.SlotSections()
	require.NoError(t, repo.Save(ctx, "DoomPlayer", 2, "Pistol"))
	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
