package customers

import "time"

// Address is stored as given; a partial address is kept as-is.
type Address struct {
	Street       string `json:"street"`
	Number       string `json:"number"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zipCode,omitempty"`
}

// Customer is a buyer of quotes and orders.
type Customer struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name" validate:"required,max=200"`
	Phone           string    `json:"phone" validate:"required,max=50"`
	Email           *string   `json:"email,omitempty" validate:"omitempty,email"`
	Birthday        *string   `json:"birthday,omitempty" validate:"omitempty,datetime=2006-01-02"`
	AnniversaryDate *string   `json:"anniversaryDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Observations    *string   `json:"observations,omitempty"`
	Address         *Address  `json:"address,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Patch lists the fields an update changes; nil fields are left untouched.
type Patch struct {
	Name            *string  `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Phone           *string  `json:"phone,omitempty" validate:"omitempty,min=1,max=50"`
	Email           *string  `json:"email,omitempty" validate:"omitempty,email"`
	Birthday        *string  `json:"birthday,omitempty" validate:"omitempty,datetime=2006-01-02"`
	AnniversaryDate *string  `json:"anniversaryDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Observations    *string  `json:"observations,omitempty"`
	Address         *Address `json:"address,omitempty"`
}
