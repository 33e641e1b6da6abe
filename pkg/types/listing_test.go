package types

import (
	"testing"
)

func validListing() Listing {
	bedrooms := 3
	return Listing{
		Title:        "Casa moderna en Carretera Sur",
		Description:  "Hermosa propiedad de 3 habitaciones con seguridad 24/7",
		Category:     PropertyHouse,
		Operation:    OperationSale,
		Price:        150000,
		Currency:     CurrencyUSD,
		CountryID:    "NI",
		RegionID:     "managua",
		Address:      "Club Terraza 500m al Sur",
		ContactName:  "Maria Gonzales",
		ContactPhone: "8888-8888",
		Bedrooms:     &bedrooms,
		LotArea:      500,
		MeasureUnit:  UnitSquareVaras,
	}
}

func TestListingValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Listing)
		wantErr bool
	}{
		{
			name:    "valid listing",
			mutate:  func(l *Listing) {},
			wantErr: false,
		},
		{
			name:    "title too short",
			mutate:  func(l *Listing) { l.Title = "Casa" },
			wantErr: true,
		},
		{
			name:    "description too short",
			mutate:  func(l *Listing) { l.Description = "Bonita casa" },
			wantErr: true,
		},
		{
			name:    "unknown category",
			mutate:  func(l *Listing) { l.Category = "CASTLE" },
			wantErr: true,
		},
		{
			name:    "unknown operation",
			mutate:  func(l *Listing) { l.Operation = "LEASE" },
			wantErr: true,
		},
		{
			name:    "unknown currency",
			mutate:  func(l *Listing) { l.Currency = "EUR" },
			wantErr: true,
		},
		{
			name:    "zero price",
			mutate:  func(l *Listing) { l.Price = 0 },
			wantErr: true,
		},
		{
			name:    "missing region",
			mutate:  func(l *Listing) { l.RegionID = "" },
			wantErr: true,
		},
		{
			name:    "missing contact name",
			mutate:  func(l *Listing) { l.ContactName = "" },
			wantErr: true,
		},
		{
			name:    "missing contact phone",
			mutate:  func(l *Listing) { l.ContactPhone = "" },
			wantErr: true,
		},
		{
			name:    "zero lot area",
			mutate:  func(l *Listing) { l.LotArea = 0 },
			wantErr: true,
		},
		{
			name:    "unknown measure unit",
			mutate:  func(l *Listing) { l.MeasureUnit = "FT2" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := validListing()
			tt.mutate(&l)
			err := l.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPhotoInMemory(t *testing.T) {
	if (Photo{Path: "/tmp/a.jpg"}).InMemory() {
		t.Error("path-backed photo reported as in-memory")
	}
	if !(Photo{Name: "a.jpg", Data: []byte{0xff}}).InMemory() {
		t.Error("buffer-backed photo not reported as in-memory")
	}
}
