package ical

// Address properties of a VVENUE.
const (
	propStreetAddress   = "STREET-ADDRESS"
	propExtendedAddress = "EXTENDED-ADDRESS"
	propLocality        = "LOCALITY"
	propRegion          = "REGION"
	propCountry         = "COUNTRY"
	propPostalCode      = "POSTAL-CODE"
)

// SetStreetAddress sets STREET-ADDRESS. Lines of a multi-line address are
// separated by "\n".
func (c *CalendarComponent) SetStreetAddress(address string) *CalendarComponent {
	return c.setText(propStreetAddress, address)
}

// StreetAddress returns the decoded STREET-ADDRESS.
func (c *CalendarComponent) StreetAddress() string { return c.text(propStreetAddress) }

// SetExtendedAddress sets EXTENDED-ADDRESS, such as a floor or a suite.
func (c *CalendarComponent) SetExtendedAddress(address string) *CalendarComponent {
	return c.setText(propExtendedAddress, address)
}

// ExtendedAddress returns the decoded EXTENDED-ADDRESS.
func (c *CalendarComponent) ExtendedAddress() string { return c.text(propExtendedAddress) }

// SetLocality sets LOCALITY, the city of the venue.
func (c *CalendarComponent) SetLocality(locality string) *CalendarComponent {
	return c.setText(propLocality, locality)
}

func (c *CalendarComponent) Locality() string { return c.text(propLocality) }

// SetRegion sets REGION, such as a state or a province.
func (c *CalendarComponent) SetRegion(region string) *CalendarComponent {
	return c.setText(propRegion, region)
}

func (c *CalendarComponent) Region() string { return c.text(propRegion) }

func (c *CalendarComponent) SetCountry(country string) *CalendarComponent {
	return c.setText(propCountry, country)
}

func (c *CalendarComponent) Country() string { return c.text(propCountry) }

func (c *CalendarComponent) SetPostalCode(code string) *CalendarComponent {
	return c.setText(propPostalCode, code)
}

func (c *CalendarComponent) PostalCode() string { return c.text(propPostalCode) }
