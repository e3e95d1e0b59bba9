package model

import "time"

// Image references an externally stored attachment. The backing store
// assigns the opaque id; this service never touches the bytes.
type Image struct {
	PublicID string `json:"public_id" bson:"public_id" validate:"required"`
	URL      string `json:"url" bson:"url" validate:"required,url"`
}

type HostelRoom struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	OwnerID      string    `json:"owner_id" bson:"owner_id" validate:"required"`
	Name         string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Address      string    `json:"address" bson:"address" validate:"required,min=5,max=300"`
	RentPerMonth float64   `json:"rent_per_month" bson:"rent_per_month" validate:"required,gt=0"`
	Capacity     int       `json:"capacity" bson:"capacity" validate:"required,min=1,max=20"`
	RoomType     string    `json:"room_type" bson:"room_type" validate:"required,oneof=single double shared"`
	Amenities    []string  `json:"amenities,omitempty" bson:"amenities,omitempty" validate:"omitempty,dive,min=1,max=50"`
	Availability bool      `json:"availability" bson:"availability"`
	Images       []Image   `json:"images,omitempty" bson:"images,omitempty" validate:"omitempty,dive"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

type Mess struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	OwnerID      string    `json:"owner_id" bson:"owner_id" validate:"required"`
	Name         string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Address      string    `json:"address" bson:"address" validate:"required,min=5,max=300"`
	MonthlyPrice float64   `json:"monthly_price" bson:"monthly_price" validate:"required,gt=0"`
	MealsPerDay  int       `json:"meals_per_day" bson:"meals_per_day" validate:"required,min=1,max=4"`
	MessType     string    `json:"mess_type" bson:"mess_type" validate:"required,oneof=veg nonveg both"`
	Availability bool      `json:"availability" bson:"availability"`
	Images       []Image   `json:"images,omitempty" bson:"images,omitempty" validate:"omitempty,dive"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

type Gym struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	OwnerID      string    `json:"owner_id" bson:"owner_id" validate:"required"`
	Name         string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Address      string    `json:"address" bson:"address" validate:"required,min=5,max=300"`
	MonthlyFee   float64   `json:"monthly_fee" bson:"monthly_fee" validate:"required,gt=0"`
	Equipment    []string  `json:"equipment,omitempty" bson:"equipment,omitempty" validate:"omitempty,dive,min=1,max=50"`
	Timings      string    `json:"timings" bson:"timings" validate:"required,min=2,max=100"`
	Availability bool      `json:"availability" bson:"availability"`
	Images       []Image   `json:"images,omitempty" bson:"images,omitempty" validate:"omitempty,dive"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// ServiceSnapshot is the read-time projection of a catalog document that
// booking responses carry. Kind-specific fields stay empty for the other
// kinds.
type ServiceSnapshot struct {
	Type         ServiceType `json:"service_type"`
	ID           string      `json:"id"`
	OwnerID      string      `json:"owner_id"`
	Name         string      `json:"name"`
	Address      string      `json:"address"`
	Price        float64     `json:"price"`
	Availability bool        `json:"availability"`
	Images       []Image     `json:"images,omitempty"`

	Capacity    int      `json:"capacity,omitempty"`
	RoomType    string   `json:"room_type,omitempty"`
	Amenities   []string `json:"amenities,omitempty"`
	MealsPerDay int      `json:"meals_per_day,omitempty"`
	MessType    string   `json:"mess_type,omitempty"`
	Equipment   []string `json:"equipment,omitempty"`
	Timings     string   `json:"timings,omitempty"`
}

func (h *HostelRoom) Snapshot() *ServiceSnapshot {
	return &ServiceSnapshot{
		Type:         ServiceHostel,
		ID:           h.ID,
		OwnerID:      h.OwnerID,
		Name:         h.Name,
		Address:      h.Address,
		Price:        h.RentPerMonth,
		Availability: h.Availability,
		Images:       h.Images,
		Capacity:     h.Capacity,
		RoomType:     h.RoomType,
		Amenities:    h.Amenities,
	}
}

func (m *Mess) Snapshot() *ServiceSnapshot {
	return &ServiceSnapshot{
		Type:         ServiceMess,
		ID:           m.ID,
		OwnerID:      m.OwnerID,
		Name:         m.Name,
		Address:      m.Address,
		Price:        m.MonthlyPrice,
		Availability: m.Availability,
		Images:       m.Images,
		MealsPerDay:  m.MealsPerDay,
		MessType:     m.MessType,
	}
}

func (g *Gym) Snapshot() *ServiceSnapshot {
	return &ServiceSnapshot{
		Type:         ServiceGym,
		ID:           g.ID,
		OwnerID:      g.OwnerID,
		Name:         g.Name,
		Address:      g.Address,
		Price:        g.MonthlyFee,
		Availability: g.Availability,
		Images:       g.Images,
		Equipment:    g.Equipment,
		Timings:      g.Timings,
	}
}
