package contract

import _ "embed"

//go:embed assets/stamp.png
var companyStampPNG []byte

// CompanyStamp returns the fixed stamp image embedded in every contract's
// left signature box.
func CompanyStamp() []byte {
	return companyStampPNG
}
