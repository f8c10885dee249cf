package models

// Teacher is an approver and presence-tracked staff member. The roster is
// seeded at process start; only IsPresent mutates at runtime.
type Teacher struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
	IsPresent  bool   `json:"is_present"`
}
