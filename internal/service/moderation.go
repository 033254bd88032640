package service

// Moderation rules for the hospital verified flag. The machine is two
// states {unverified, verified} with transitions guarded by actor role:
// only admin review (or admin authorship) reaches verified, and a
// non-admin edit sends a verified record back for re-review.

// VerifiedOnCreate: admin-authored records skip review.
func VerifiedOnCreate(isAdmin bool) bool {
	return isAdmin
}

// VerifiedAfterEdit: an admin edit preserves the current state; any other
// edit resets the record to unverified.
func VerifiedAfterEdit(current bool, isAdmin bool) bool {
	if isAdmin {
		return current
	}
	return false
}
