package model

// ServiceType discriminates which catalog collection a booking points at.
// The three kinds are structurally distinct documents, not variants of a
// shared base, so the reference is a tagged union rather than a foreign key.
type ServiceType string

const (
	ServiceHostel ServiceType = "hostel"
	ServiceMess   ServiceType = "mess"
	ServiceGym    ServiceType = "gym"
)

func (t ServiceType) Valid() bool {
	switch t {
	case ServiceHostel, ServiceMess, ServiceGym:
		return true
	}
	return false
}

// ServiceRef pairs the discriminator with the referenced document id.
// All catalog dispatch goes through this type instead of comparing raw
// strings at call sites.
type ServiceRef struct {
	Type ServiceType `json:"service_type" bson:"service_type"`
	ID   string      `json:"service_id" bson:"service_id"`
}

// ServiceTypes lists every known kind, in a stable order.
func ServiceTypes() []ServiceType {
	return []ServiceType{ServiceHostel, ServiceMess, ServiceGym}
}
