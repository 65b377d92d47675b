package handlers

import (
	"errors"

	"github.com/SokThavireak/sushi-store/models"

	"gorm.io/gorm"
)

// ErrNoAssignedLocation is returned when a location-bound principal has no
// assigned location but the flow requires one. This is a configuration
// problem, not a client error.
var ErrNoAssignedLocation = errors.New("account has no assigned location")

// ErrLocationNotFound is returned when a requested or assigned location id
// does not resolve to a location row.
var ErrLocationNotFound = errors.New("location not found")

// Scope is the effective location filter for a query or mutation. All is true
// for head-office principals that did not narrow to a single location; then
// LocationName is empty.
type Scope struct {
	LocationName string
	All          bool
}

// Apply adds the scope's filter to a query over the given location-name
// column.
func (s Scope) Apply(q *gorm.DB, column string) *gorm.DB {
	if s.All {
		return q
	}
	return q.Where(column+" = ?", s.LocationName)
}

// Covers reports whether a record with the given location name is visible
// under this scope.
func (s Scope) Covers(locationName string) bool {
	return s.All || s.LocationName == locationName
}

// ResolveScope determines the effective location filter for a principal.
// Head-office roles are unscoped unless they request a specific location id;
// location-bound roles are always pinned to their assigned location, ignoring
// any client-supplied override. The id-to-name resolution happens here, once
// per request; every subsequent join uses the name.
func ResolveScope(db *gorm.DB, p models.Principal, requestedID string) (Scope, error) {
	if p.Policy().HeadOffice() {
		if requestedID == "" || requestedID == "All" {
			return Scope{All: true}, nil
		}
		name, err := locationNameByID(db, requestedID)
		if err != nil {
			return Scope{}, err
		}
		return Scope{LocationName: name}, nil
	}

	if p.AssignedLocationID == nil {
		return Scope{}, ErrNoAssignedLocation
	}
	name, err := locationNameByUint(db, *p.AssignedLocationID)
	if err != nil {
		return Scope{}, err
	}
	return Scope{LocationName: name}, nil
}

// ResolveScopeRequired is ResolveScope for flows that need one concrete
// location (daily stock). Head-office principals with no requested location
// fall back to the first location ordered by id.
func ResolveScopeRequired(db *gorm.DB, p models.Principal, requestedID string) (Scope, error) {
	if p.Policy().HeadOffice() {
		if requestedID != "" && requestedID != "All" {
			name, err := locationNameByID(db, requestedID)
			if err != nil {
				return Scope{}, err
			}
			return Scope{LocationName: name}, nil
		}
		if p.AssignedLocationID != nil {
			name, err := locationNameByUint(db, *p.AssignedLocationID)
			if err == nil {
				return Scope{LocationName: name}, nil
			}
		}
		var first models.Location
		if err := db.Order("id ASC").First(&first).Error; err != nil {
			return Scope{}, ErrLocationNotFound
		}
		return Scope{LocationName: first.Name}, nil
	}

	if p.AssignedLocationID == nil {
		return Scope{}, ErrNoAssignedLocation
	}
	name, err := locationNameByUint(db, *p.AssignedLocationID)
	if err != nil {
		return Scope{}, err
	}
	return Scope{LocationName: name}, nil
}

func locationNameByID(db *gorm.DB, id string) (string, error) {
	var loc models.Location
	if err := db.Where("id = ?", id).First(&loc).Error; err != nil {
		return "", ErrLocationNotFound
	}
	return loc.Name, nil
}

func locationNameByUint(db *gorm.DB, id uint) (string, error) {
	var loc models.Location
	if err := db.First(&loc, id).Error; err != nil {
		return "", ErrLocationNotFound
	}
	return loc.Name, nil
}
