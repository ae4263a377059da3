package entities

// ReservationResponse is the flattened reservation view shared by GET and
// POST /reservation.
type ReservationResponse struct {
	CarID             int64  `json:"car_id"`
	CarLicense        string `json:"car_license"`
	ParkingSpotNumber int    `json:"parking_spot_number"`
	ParkingSpotID     int64  `json:"parking_spot_id"`
	AreaName          string `json:"area_name"`
	AreaFloor         int    `json:"area_floor"`
	ParkingLotName    string `json:"parking_lot_name"`
	ReservationTime   string `json:"reservation_time"`
	ExpiredTime       string `json:"expired_time"`
}

type ReservationsList struct {
	Total        int                   `json:"total"`
	Reservations []ReservationResponse `json:"reservations"`
}
