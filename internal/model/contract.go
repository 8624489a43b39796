package model

// ContractRecord merges the server-returned booking context with the two
// client-side artifacts embedded in the rental contract. It exists from
// payment confirmation until the document has been downloaded.
type ContractRecord struct {
	Booking   BookingContext
	StampPNG  []byte // fixed company stamp, optional
	Signature []byte // captured customer signature PNG, optional
}
