package entities

// Customer represents a fairly permanent customer record. Orders reference
// customers by id only; the relation is referential, never ownership.
type Customer struct {
	CustomerID string
	Name       string
	Email      string
	VIP        bool
	Address    string
}
