package store

// Record is one signing decision: a signed-pointer constant the build
// materialized, identified by its content-addressed fingerprint.
type Record struct {
	ID                   string `json:"id"`       // content-addressed fingerprint
	BuildID              string `json:"build_id"` // UUIDv7 of the recording build
	Symbol               string `json:"symbol"`   // cast-stripped base symbol name
	Key                  int    `json:"key"`
	IntegerDiscriminator int64  `json:"integer_discriminator"`
	AddressDiscriminator string `json:"address_discriminator"`
	Seq                  int64  `json:"seq"` // logical clock within the build
}
