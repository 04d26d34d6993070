package inventory

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/cory-johannsen/arsenal/internal/game/weapon"
)

// Ammo is a capped, stacking ammo pool attached to an actor. Several weapons
// of the same actor may reference one pool.
//
// Invariant: 0 <= Amount between mutations; Amount <= MaxAmount unless
// unlimited pickups are enabled.
type Ammo struct {
	ID        uuid.UUID
	Class     *weapon.AmmoClass
	Amount    int
	MaxAmount int
	Owner     *Actor
}

// NewAmmo returns an unattached pool of class holding amount.
//
// Precondition: class must not be nil and class.MaxAmount >= 0 (panics otherwise).
// Postcondition: MaxAmount == class.MaxAmount.
func NewAmmo(class *weapon.AmmoClass, amount int) *Ammo {
	if class == nil {
		panic("inventory: NewAmmo: class must not be nil")
	}
	if class.MaxAmount < 0 {
		panic(fmt.Sprintf("inventory: NewAmmo: capacity of %s must be >= 0, got %d", class.Name, class.MaxAmount))
	}
	return &Ammo{
		ID:        uuid.New(),
		Class:     class,
		Amount:    amount,
		MaxAmount: class.MaxAmount,
	}
}

// Full reports whether the pool is at capacity.
func (a *Ammo) Full() bool {
	return a.Amount >= a.MaxAmount
}
