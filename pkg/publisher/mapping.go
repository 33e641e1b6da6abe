package publisher

import (
	"fmt"
	"strconv"

	"github.com/entrhq/adpilot/pkg/types"
)

// topCategory is the fixed top-level category for all real-estate
// listings on the target site.
const topCategory = "bienes-raices"

// Numeric caps above which the site expects its own "N or more" sentinel
// instead of a literal value.
const (
	maxBedrooms  = 15
	maxBathrooms = 20
	maxParking   = 10
)

// operationPath returns the listing-type category value for the
// operation.
func operationPath(op types.OperationType) string {
	if op == types.OperationSale {
		return "bienes-raices-venta-de-propiedades"
	}
	return "bienes-raices-alquiler-vacaciones"
}

// categoryLabel maps the payload category enum to the site's subcategory
// label. An unmapped value is a fatal business error for the attempt.
func categoryLabel(cat types.PropertyType) (string, error) {
	switch cat {
	case types.PropertyHouse:
		return "casas", nil
	case types.PropertyApartment:
		return "apartamentos", nil
	case types.PropertyLand:
		return "Terrenos y Lotes", nil
	case types.PropertyCommercial:
		return "Locales Comerciales", nil
	case types.PropertyFarm:
		return "Fincas / Quintas", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedCategory, cat)
	}
}

// bedroomsValue clamps bedroom counts above the site cap to its "15+"
// sentinel.
func bedroomsValue(n int) string {
	if n > maxBedrooms {
		return "15+"
	}
	return strconv.Itoa(n)
}

// bathroomsValue clamps bathroom counts above the site cap to its "20+"
// sentinel. The site accepts half baths (1.5, 2.5, ...).
func bathroomsValue(v float64) string {
	if v > maxBathrooms {
		return "20+"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// parkingValue clamps parking counts above the site cap to its "Más"
// sentinel.
func parkingValue(n int) string {
	if n > maxParking {
		return "Más"
	}
	return strconv.Itoa(n)
}

func priceValue(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

func areaValue(a float64) string {
	return strconv.FormatFloat(a, 'f', -1, 64)
}
