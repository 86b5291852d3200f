package redis

import (
	"fmt"

	"github.com/ab3d1/moneygrid/internal/model"
)

// Key prefix for all roster data
const keyPrefix = "mgrid"

// slotKey returns the Redis key holding the assignment for a slot number.
// One key per slot makes the conditional insert a single SETNX.
func slotKey(number int) string {
	return fmt.Sprintf("%s:slot:%d", keyPrefix, number)
}

// allSlotKeys returns the keys for every slot in ascending order
func allSlotKeys() []string {
	keys := make([]string, 0, model.SlotCount)
	for n := model.SlotMin; n <= model.SlotMax; n++ {
		keys = append(keys, slotKey(n))
	}
	return keys
}

// adminSessionKey returns the Redis key for a persisted admin session
func adminSessionKey(token string) string {
	return fmt.Sprintf("%s:admin_session:%s", keyPrefix, token)
}
