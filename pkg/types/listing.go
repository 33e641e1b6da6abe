package types

import (
	"fmt"
	"strings"
)

// Currency is the pricing currency accepted by the target site.
type Currency string

const (
	CurrencyUSD Currency = "USD" // CurrencyUSD is US dollars.
	CurrencyNIO Currency = "NIO" // CurrencyNIO is Nicaraguan córdobas.
)

// PropertyType classifies the kind of real estate being listed.
type PropertyType string

const (
	PropertyHouse      PropertyType = "HOUSE"      // PropertyHouse is a standalone house.
	PropertyApartment  PropertyType = "APARTMENT"  // PropertyApartment is an apartment or condo.
	PropertyLand       PropertyType = "LAND"       // PropertyLand is an empty lot or parcel.
	PropertyCommercial PropertyType = "COMMERCIAL" // PropertyCommercial is an office or retail space.
	PropertyFarm       PropertyType = "FARM"       // PropertyFarm is a farm or country estate.
)

// OperationType is the kind of transaction offered.
type OperationType string

const (
	OperationSale OperationType = "SALE" // OperationSale lists the property for sale.
	OperationRent OperationType = "RENT" // OperationRent lists the property for rent.
)

// MeasureUnit is the unit for lot area measurements.
type MeasureUnit string

const (
	UnitSquareMeters MeasureUnit = "M2" // UnitSquareMeters is square meters.
	UnitSquareVaras  MeasureUnit = "V2" // UnitSquareVaras is square varas.
	UnitHectares     MeasureUnit = "HA" // UnitHectares is hectares.
	UnitAcres        MeasureUnit = "AC" // UnitAcres is acres.
)

// Listing is the validated payload describing one publication request.
// It is assembled by the intake layer and treated as read-only by the
// automation pipeline.
type Listing struct {
	// Title is the headline shown on the listing.
	Title string `json:"title"`

	// Description is the long-form body of the listing.
	Description string `json:"description"`

	// Category is the kind of property being listed.
	Category PropertyType `json:"category"`

	// Operation is sale or rent.
	Operation OperationType `json:"operationType"`

	// Price is the asking price (sale) or monthly rent.
	Price float64 `json:"price"`

	// Currency is the currency Price is denominated in.
	Currency Currency `json:"currency"`

	// Location fields.
	CountryID string `json:"countryId"`
	RegionID  string `json:"regionId"`
	CityID    string `json:"cityId,omitempty"`
	Address   string `json:"address"`

	// Contact fields. ContactName and ContactPhone double as the site
	// login identity, see the publisher package.
	ContactName  string `json:"contactName"`
	ContactPhone string `json:"contactPhone"`
	ContactEmail string `json:"contactEmail,omitempty"`
	Whatsapp     string `json:"whatsapp,omitempty"`

	// Optional structural attributes. Nil means "not provided" and the
	// corresponding form field is left untouched.
	Bedrooms      *int     `json:"bedrooms,omitempty"`
	Bathrooms     *float64 `json:"bathrooms,omitempty"`
	ParkingSpaces *int     `json:"parkingSpaces,omitempty"`
	Floors        *int     `json:"floors,omitempty"`
	BuiltArea     *float64 `json:"builtArea,omitempty"`

	// LotArea is the total lot size, required by the target site.
	LotArea float64 `json:"lotArea"`

	// MeasureUnit is the unit LotArea is expressed in.
	MeasureUnit MeasureUnit `json:"measureUnit"`
}

const (
	minTitleLen       = 10
	minDescriptionLen = 20
)

// Validate checks the intake policy for a listing payload. It returns the
// first violation found.
func (l *Listing) Validate() error {
	if len(strings.TrimSpace(l.Title)) < minTitleLen {
		return fmt.Errorf("title must be at least %d characters", minTitleLen)
	}
	if len(strings.TrimSpace(l.Description)) < minDescriptionLen {
		return fmt.Errorf("description must be at least %d characters", minDescriptionLen)
	}
	switch l.Category {
	case PropertyHouse, PropertyApartment, PropertyLand, PropertyCommercial, PropertyFarm:
	default:
		return fmt.Errorf("unknown category %q", l.Category)
	}
	switch l.Operation {
	case OperationSale, OperationRent:
	default:
		return fmt.Errorf("unknown operation type %q", l.Operation)
	}
	switch l.Currency {
	case CurrencyUSD, CurrencyNIO:
	default:
		return fmt.Errorf("unknown currency %q", l.Currency)
	}
	if l.Price <= 0 {
		return fmt.Errorf("price must be positive")
	}
	if l.CountryID == "" {
		return fmt.Errorf("country is required")
	}
	if l.RegionID == "" {
		return fmt.Errorf("region is required")
	}
	if l.Address == "" {
		return fmt.Errorf("address is required")
	}
	if l.ContactName == "" {
		return fmt.Errorf("contact name is required")
	}
	if l.ContactPhone == "" {
		return fmt.Errorf("contact phone is required")
	}
	if l.LotArea <= 0 {
		return fmt.Errorf("lot area must be positive")
	}
	switch l.MeasureUnit {
	case UnitSquareMeters, UnitSquareVaras, UnitHectares, UnitAcres:
	default:
		return fmt.Errorf("unknown measure unit %q", l.MeasureUnit)
	}
	return nil
}

// Photo is one image attached to a publication request. Either Path points
// at a readable local file, or Data holds the raw bytes with Name and
// MimeType describing them.
type Photo struct {
	Name     string
	Path     string
	MimeType string
	Data     []byte
}

// InMemory reports whether the photo is carried as a byte buffer rather
// than a file path.
func (p Photo) InMemory() bool {
	return len(p.Data) > 0
}
