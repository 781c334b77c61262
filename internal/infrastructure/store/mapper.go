package store

import "github.com/alkarama/hub/internal/domain"

// Professionals keeps the users that take part in matching, in store order.
// Admin accounts and users without a profession or expertise are skipped.
func Professionals(users []domain.User) []domain.Professional {
	out := make([]domain.Professional, 0, len(users))
	for i := range users {
		if users[i].IsProfessional() {
			out = append(out, users[i])
		}
	}
	return out
}
