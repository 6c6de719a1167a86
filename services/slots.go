package services

import (
	"fmt"

	"food-whatsapp/models"
)

// Delivery runs in fixed 20-minute windows from 11:00 to 15:00.
const (
	slotFirstHour   = 11
	slotLastHour    = 15
	slotMinutes     = 20
	slotsPerHour    = 60 / slotMinutes
	deliverySlotNum = (slotLastHour - slotFirstHour) * slotsPerHour
)

// DeliverySlots returns the fixed daily delivery schedule.
func DeliverySlots() []models.DeliverySlot {
	slots := make([]models.DeliverySlot, 0, deliverySlotNum)
	for i := 0; i < deliverySlotNum; i++ {
		hour := slotFirstHour + i/slotsPerHour
		min := (i % slotsPerHour) * slotMinutes
		endMin := min + slotMinutes
		endHour := hour
		if endMin >= 60 {
			endHour++
			endMin -= 60
		}
		start := fmt.Sprintf("%02d:%02d", hour, min)
		end := fmt.Sprintf("%02d:%02d", endHour, endMin)
		slots = append(slots, models.DeliverySlot{
			Start: start,
			End:   end,
			Label: fmt.Sprintf("%s às %s", start, end),
		})
	}
	return slots
}

// ValidSlot reports whether the label names a window of the schedule.
func ValidSlot(label string) bool {
	for _, s := range DeliverySlots() {
		if s.Label == label {
			return true
		}
	}
	return false
}
