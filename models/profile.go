package models

import (
	"time"
)

// Role tags as stored on a profile. Login routing compares these exactly.
const (
	RoleSuperAdmin = "superadmin"
	RoleTechnician = "technician"
	RoleSupervisor = "supervisor"
	RoleHOD        = "hod"
)

// Roles offered on the signup form. They are stored as submitted.
const (
	SignupRoleSupervisor = "Supervisor"
	SignupRoleTechnician = "Technician"
)

// Technician trade categories
const (
	TechCategoryPlumber     = "Plumber"
	TechCategoryElectrician = "Electrician"
	TechCategoryHVAC        = "HVAC"
	TechCategoryCarpenter   = "Carpenter"
)

// NicknamePlaceholder is shown in listings for a missing nickname
const NicknamePlaceholder = "—"

// SignupRoles lists the roles a user may pick for themselves
var SignupRoles = []string{SignupRoleSupervisor, SignupRoleTechnician}

// TechCategories lists the valid trade categories for technicians
var TechCategories = []string{
	TechCategoryPlumber,
	TechCategoryElectrician,
	TechCategoryHVAC,
	TechCategoryCarpenter,
}

// Profile is the account record kept next to the provider identity.
// ID is the provider's identity id.
type Profile struct {
	ID           string    `gorm:"primaryKey;type:uuid" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	FullName     string    `gorm:"not null" json:"full_name"`
	Nickname     *string   `json:"nickname"`
	Role         *string   `json:"role"`
	TechCategory *string   `json:"tech_category"` // set only for Technician
	Approved     bool      `gorm:"not null;default:false" json:"approved"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for the Profile model
func (Profile) TableName() string {
	return "profiles"
}

// RoleValue returns the role or "" when unset
func (p *Profile) RoleValue() string {
	if p == nil || p.Role == nil {
		return ""
	}
	return *p.Role
}

// ProfileSummary is the admin listing projection of a profile
type ProfileSummary struct {
	ID       string  `json:"id"`
	Role     *string `json:"role"`
	Nickname *string `json:"nickname"`
}

// DisplayNickname returns the nickname, or the placeholder when it is null or empty
func (s ProfileSummary) DisplayNickname() string {
	if s.Nickname == nil || *s.Nickname == "" {
		return NicknamePlaceholder
	}
	return *s.Nickname
}

// DisplayRole returns the role, or "" when unset
func (s ProfileSummary) DisplayRole() string {
	if s.Role == nil {
		return ""
	}
	return *s.Role
}

// IsSignupRole reports whether role may be chosen at signup
func IsSignupRole(role string) bool {
	return contains(SignupRoles, role)
}

// IsTechCategory reports whether category is a known trade
func IsTechCategory(category string) bool {
	return contains(TechCategories, category)
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
