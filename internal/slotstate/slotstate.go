// Package slotstate holds the slot status transitions. Functions take and return
// slot values and never touch storage; callers persist the result with a
// version-conditional write.
package slotstate

import (
	"github.com/Freeeeeet/slot_swapper/internal/model"
)

// OpenForExchange переводит слот владельца BUSY -> SWAPPABLE
func OpenForExchange(slot model.Slot, userID string) (model.Slot, error) {
	if !slot.IsOwnedBy(userID) {
		return slot, model.NewError(model.KindUnauthorized, "slot %s is not owned by %s", slot.ID, userID)
	}
	if err := requireStatus(slot, model.SlotStatusBusy, "open for exchange"); err != nil {
		return slot, err
	}
	slot.Status = model.SlotStatusSwappable
	return slot, nil
}

// CloseForExchange снимает слот с обмена SWAPPABLE -> BUSY
func CloseForExchange(slot model.Slot, userID string) (model.Slot, error) {
	if !slot.IsOwnedBy(userID) {
		return slot, model.NewError(model.KindUnauthorized, "slot %s is not owned by %s", slot.ID, userID)
	}
	if err := requireStatus(slot, model.SlotStatusSwappable, "close for exchange"); err != nil {
		return slot, err
	}
	slot.Status = model.SlotStatusBusy
	return slot, nil
}

// LockForExchange блокирует слот под заявку SWAPPABLE -> SWAP_PENDING
func LockForExchange(slot model.Slot) (model.Slot, error) {
	if err := requireStatus(slot, model.SlotStatusSwappable, "lock for exchange"); err != nil {
		return slot, err
	}
	slot.Status = model.SlotStatusSwapPending
	return slot, nil
}

// FinalizeAccept меняет владельцев местами, оба слота становятся BUSY
func FinalizeAccept(a, b model.Slot) (model.Slot, model.Slot, error) {
	if err := requireStatus(a, model.SlotStatusSwapPending, "finalize exchange"); err != nil {
		return a, b, err
	}
	if err := requireStatus(b, model.SlotStatusSwapPending, "finalize exchange"); err != nil {
		return a, b, err
	}
	a.OwnerID, b.OwnerID = b.OwnerID, a.OwnerID
	a.Status = model.SlotStatusBusy
	b.Status = model.SlotStatusBusy
	return a, b, nil
}

// ReleaseToSwappable снимает блокировку SWAP_PENDING -> SWAPPABLE (reject/cancel)
func ReleaseToSwappable(slot model.Slot) (model.Slot, error) {
	if err := requireStatus(slot, model.SlotStatusSwapPending, "release"); err != nil {
		return slot, err
	}
	slot.Status = model.SlotStatusSwappable
	return slot, nil
}

// CanDelete проверяет что владелец может удалить слот
func CanDelete(slot model.Slot, userID string) error {
	if !slot.IsOwnedBy(userID) {
		return model.NewError(model.KindUnauthorized, "slot %s is not owned by %s", slot.ID, userID)
	}
	if slot.Status == model.SlotStatusSwapPending {
		return model.NewError(model.KindInvalidTransition, "slot %s is locked by a pending exchange", slot.ID)
	}
	return nil
}

func requireStatus(slot model.Slot, want model.SlotStatus, action string) error {
	if slot.Status != want {
		return model.NewError(model.KindInvalidTransition,
			"cannot %s slot %s: status is %s, want %s", action, slot.ID, slot.Status, want)
	}
	return nil
}
