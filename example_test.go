package idfkit_test

import (
	"context"
	"fmt"
	"log"

	"github.com/buildsim/idfkit"
)

const exampleIDD = `\group Thermal Zones and Surfaces

Zone,
  A1, \field Name
      \required-field
  N1, \field Ceiling Height
      \units m
  N2; \field Volume
      \units m3
`

const exampleIDF = `Zone, Basement, 2.5, 300;
Zone, Attic, 3.5, 420;
Zone, Garage, 2.4, 90;
`

func Example() {
	ctx := context.Background()

	m, err := idfkit.Open().
		SchemaString(exampleIDD).
		ModelString(exampleIDF).
		Build()
	if err != nil {
		log.Fatal(err)
	}

	// Select tall zones and read their names. Field identifiers are
	// fuzzy-resolved, so "ceiling_height" finds "Ceiling Height".
	names, err := m.Find("Zone").
		Where("ceiling_height", "2.5..").
		Range().
		Values(ctx, "Name")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(names)

	// Broadcast an edit to every selected record.
	mask, err := m.Find("Zone").Where("Name", "Garage").Mask(ctx)
	if err != nil {
		log.Fatal(err)
	}
	if err := m.SetField(ctx, mask, "Ceiling Height", "2.6"); err != nil {
		log.Fatal(err)
	}

	heights, err := m.GetField(ctx, mask, "Ceiling Height")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(heights)
	// Output:
	// [Basement Attic]
	// [2.6]
}
