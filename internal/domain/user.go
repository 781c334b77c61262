package domain

import "strings"

// Roles assigned by the signup and admin screens
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is a registered account. A Professional is a User whose
// profession/expertise fields are populated.
type User struct {
	ID         RecordID `json:"id"`
	FullName   string   `json:"fullName"`
	Email      string   `json:"email"`
	Country    string   `json:"country,omitempty"`
	Role       string   `json:"role,omitempty"`
	Verified   bool     `json:"verified,omitempty"`
	Profession string   `json:"profession"`
	Expertise  TextList `json:"expertise"`
	Profile    *Profile `json:"profile,omitempty"`
}

// Profile holds the nested profile block written by the profile editor
type Profile struct {
	Profession   string   `json:"profession,omitempty"`
	Expertise    TextList `json:"expertise,omitempty"`
	Availability string   `json:"availability,omitempty"`
}

// Professional is a User with professional fields populated
type Professional = User

// ProfessionText returns the profession, falling back to the nested profile
func (u *User) ProfessionText() string {
	if strings.TrimSpace(u.Profession) != "" {
		return u.Profession
	}
	if u.Profile != nil {
		return u.Profile.Profession
	}
	return ""
}

// ExpertiseList returns the expertise tags, falling back to the nested profile
func (u *User) ExpertiseList() TextList {
	if len(u.Expertise) > 0 {
		return u.Expertise
	}
	if u.Profile != nil && len(u.Profile.Expertise) > 0 {
		return u.Profile.Expertise
	}
	return TextList{}
}

// IsProfessional reports whether the account should appear in matching.
// Admin accounts are excluded even if they filled in a profession.
func (u *User) IsProfessional() bool {
	role := strings.ToLower(strings.TrimSpace(u.Role))
	if role != "" && role != RoleUser {
		return false
	}
	return strings.TrimSpace(u.ProfessionText()) != "" || len(u.ExpertiseList()) > 0
}
