package phonenumbers

// Package-level shortcuts over Default().

// Parse parses number with the embedded metadata. See Util.Parse.
func Parse(number, defaultRegion string) (*PhoneNumber, error) {
	return Default().Parse(number, defaultRegion)
}

// ParseAndKeepRawInput is Util.ParseAndKeepRawInput with the embedded metadata.
func ParseAndKeepRawInput(number, defaultRegion string) (*PhoneNumber, error) {
	return Default().ParseAndKeepRawInput(number, defaultRegion)
}

func Format(n *PhoneNumber, style PhoneNumberFormat) string {
	return Default().Format(n, style)
}

func FormatOutOfCountryCallingNumber(n *PhoneNumber, regionCallingFrom string) string {
	return Default().FormatOutOfCountryCallingNumber(n, regionCallingFrom)
}

func FormatNationalNumberWithCarrierCode(n *PhoneNumber, carrierCode string) string {
	return Default().FormatNationalNumberWithCarrierCode(n, carrierCode)
}

func IsValidNumber(n *PhoneNumber) bool { return Default().IsValidNumber(n) }

func IsValidNumberForRegion(n *PhoneNumber, region string) bool {
	return Default().IsValidNumberForRegion(n, region)
}

func IsPossibleNumber(n *PhoneNumber) bool { return Default().IsPossibleNumber(n) }

func IsPossibleNumberWithReason(n *PhoneNumber) ValidationResult {
	return Default().IsPossibleNumberWithReason(n)
}

func GetNumberType(n *PhoneNumber) PhoneNumberType { return Default().GetNumberType(n) }

func GetRegionCodeForNumber(n *PhoneNumber) string { return Default().GetRegionCodeForNumber(n) }

func CountryCodeForRegion(region string) int { return Default().CountryCodeForRegion(region) }

func RegionCodeForCountryCode(countryCode int) string {
	return Default().RegionCodeForCountryCode(countryCode)
}

func SupportedRegions() []string { return Default().SupportedRegions() }

func ExampleNumber(region string) *PhoneNumber { return Default().ExampleNumber(region) }

func IsNumberMatchWithTwoStrings(first, second string) MatchType {
	return Default().IsNumberMatchWithTwoStrings(first, second)
}

// FindNumbers scans text for valid numbers with the embedded metadata.
func FindNumbers(text, region string) *Matcher { return Default().FindNumbers(text, region) }

// NewAsYouTypeFormatter returns a formatter over the embedded metadata.
func NewAsYouTypeFormatter(region string) *AsYouTypeFormatter {
	return Default().NewAsYouTypeFormatter(region)
}
