package models

import (
	"time"

	"github.com/google/uuid"
)

// Contact attribute names.
const (
	AttrFirstName               = "first_name"
	AttrMiddleName              = "middle_name"
	AttrLastName                = "last_name"
	AttrBirthDate               = "birth_date"
	AttrEmail                   = "email"
	AttrNationalInsuranceNumber = "national_insurance_number"
	AttrAddressLine1            = "address_line1"
	AttrAddressLine2            = "address_line2"
	AttrAddressLine3            = "address_line3"
	AttrAddressCity             = "address_city"
	AttrAddressPostcode         = "address_postcode"
	AttrAddressCountry          = "address_country"
	AttrTrn                     = "trn"
	AttrQtsDate                 = "qts_date"
	AttrEytsDate                = "eyts_date"
	AttrPersonID                = "person_id"
)

// Address is an optional postal address on a contact.
type Address struct {
	Line1    string
	Line2    string
	Line3    string
	City     string
	Postcode string
	Country  string
}

// Contact is the registry's teacher identity record.
type Contact struct {
	ID                      uuid.UUID
	FirstName               string
	MiddleName              string
	LastName                string
	BirthDate               *time.Time
	Email                   string
	NationalInsuranceNumber string
	Address                 *Address
	Trn                     string
	QtsDate                 *time.Time
	EytsDate                *time.Time
	State                   StateCode
}

// ToEntity maps the contact to registry attributes. Empty optional values are omitted
// so an update never blanks fields the caller did not supply.
func (c Contact) ToEntity() Entity {
	e := NewEntity(EntityContact, c.ID)
	setString(e, AttrFirstName, c.FirstName)
	setString(e, AttrMiddleName, c.MiddleName)
	setString(e, AttrLastName, c.LastName)
	e.Set(AttrBirthDate, c.BirthDate)
	setString(e, AttrEmail, c.Email)
	setString(e, AttrNationalInsuranceNumber, c.NationalInsuranceNumber)
	if c.Address != nil {
		setString(e, AttrAddressLine1, c.Address.Line1)
		setString(e, AttrAddressLine2, c.Address.Line2)
		setString(e, AttrAddressLine3, c.Address.Line3)
		setString(e, AttrAddressCity, c.Address.City)
		setString(e, AttrAddressPostcode, c.Address.Postcode)
		setString(e, AttrAddressCountry, c.Address.Country)
	}
	setString(e, AttrTrn, c.Trn)
	e.Set(AttrQtsDate, c.QtsDate)
	e.Set(AttrEytsDate, c.EytsDate)
	e.Set(AttrStateCode, c.State)
	return e
}

// ContactFromEntity converts a registry record into a Contact.
func ContactFromEntity(e Entity) Contact {
	c := Contact{
		ID:                      e.ID,
		FirstName:               AttrString(e.Attributes, AttrFirstName),
		MiddleName:              AttrString(e.Attributes, AttrMiddleName),
		LastName:                AttrString(e.Attributes, AttrLastName),
		BirthDate:               AttrTime(e.Attributes, AttrBirthDate),
		Email:                   AttrString(e.Attributes, AttrEmail),
		NationalInsuranceNumber: AttrString(e.Attributes, AttrNationalInsuranceNumber),
		Trn:                     AttrString(e.Attributes, AttrTrn),
		QtsDate:                 AttrTime(e.Attributes, AttrQtsDate),
		EytsDate:                AttrTime(e.Attributes, AttrEytsDate),
		State:                   e.State(),
	}
	addr := Address{
		Line1:    AttrString(e.Attributes, AttrAddressLine1),
		Line2:    AttrString(e.Attributes, AttrAddressLine2),
		Line3:    AttrString(e.Attributes, AttrAddressLine3),
		City:     AttrString(e.Attributes, AttrAddressCity),
		Postcode: AttrString(e.Attributes, AttrAddressPostcode),
		Country:  AttrString(e.Attributes, AttrAddressCountry),
	}
	if addr != (Address{}) {
		c.Address = &addr
	}
	return c
}

func setString(e Entity, key, value string) {
	if value != "" {
		e.Attributes[key] = value
	}
}
