package services

import "github.com/vincebiwott/safari-park-maintenance-v/models"

// DefaultDestination is where any unrecognised or unset role lands
const DefaultDestination = "/dashboard"

var roleDestinations = map[string]string{
	models.RoleSuperAdmin: "/admin",
	models.RoleTechnician: "/techboard",
	models.RoleSupervisor: "/ticket",
	models.RoleHOD:        "/hod",
}

// Destination maps a stored role to its landing page. The match is exact:
// "Technician" is not "technician" and goes to the default.
func Destination(role string) string {
	if dest, ok := roleDestinations[role]; ok {
		return dest
	}
	return DefaultDestination
}

// IsRoutedRole reports whether role has its own destination
func IsRoutedRole(role string) bool {
	_, ok := roleDestinations[role]
	return ok
}

// Destinations returns every landing page, the default included
func Destinations() []string {
	return []string{"/admin", "/techboard", "/ticket", "/hod", DefaultDestination}
}
