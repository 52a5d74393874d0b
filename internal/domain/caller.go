package domain

// Caller identifies who is invoking an operation. Moderation and bulk
// import require Privileged; intake and own-submission queries only use
// OrganizerID. The auth subsystem that decides Privileged lives outside
// the core.
type Caller struct {
	OrganizerID string
	Privileged  bool
}

// Anonymous is an unauthenticated public caller.
var Anonymous = Caller{}

// Admin returns a privileged caller acting as the given reviewer.
func Admin(reviewerID string) Caller {
	return Caller{OrganizerID: reviewerID, Privileged: true}
}
