package domain

import "fmt"

const RoleDriver = "driver"

// Staff member attached to a store. Drivers carry the zone they deliver to.
type Staff struct {
	StaffID string
	StoreID string
	Name    string
	Role    string
	Zone    Zone
}

func NewDriver(id, storeID, name string) *Staff {
	return &Staff{
		StaffID: id,
		StoreID: storeID,
		Name:    name,
		Role:    RoleDriver,
	}
}

func (s *Staff) IsDriver() bool { return s.Role == RoleDriver }

// AssignZone sets the driver's delivery zone.
func (s *Staff) AssignZone(z Zone) error {
	if !s.IsDriver() {
		return fmt.Errorf("assign zone: staff %s is not a driver (role=%q)", s.StaffID, s.Role)
	}
	if !z.Valid() {
		return fmt.Errorf("assign zone: staff %s: invalid zone %d", s.StaffID, z)
	}
	s.Zone = z
	return nil
}

// ZoneFor returns the driver's zone when serving storeID.
func (s *Staff) ZoneFor(storeID string) (Zone, error) {
	if s.StoreID != storeID {
		return ZoneNone, fmt.Errorf("staff %s does not belong to store %s", s.StaffID, storeID)
	}
	if !s.IsDriver() || !s.Zone.Valid() {
		return ZoneNone, fmt.Errorf("staff %s has no delivery zone", s.StaffID)
	}
	return s.Zone, nil
}
