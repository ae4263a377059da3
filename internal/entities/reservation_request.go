package entities

// ReservationRequest is the POST /reservation body. Pointers distinguish a
// missing field from a zero id.
type ReservationRequest struct {
	CarID         *int64 `json:"car_id"`
	ParkingSpotID *int64 `json:"parking_spot_id"`
}
