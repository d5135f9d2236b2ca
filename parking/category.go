package parking

import "kerbside/models"

// CategoryOf derives the slot category from the identifier prefix.
// Matching is case-sensitive and only inspects the first byte.
func CategoryOf(slotID string) string {
	if slotID == "" {
		return models.CategoryUnknown
	}
	switch slotID[0] {
	case 'C':
		return models.CategoryCar
	case 'B':
		return models.CategoryBike
	case 'A':
		return models.CategoryAbled
	default:
		return models.CategoryUnknown
	}
}
