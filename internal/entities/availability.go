package entities

type ParkingLotAvailability struct {
	ParkingLotID    int64  `json:"parkinglot_id"`
	Name            string `json:"name"`
	CurrentCapacity int    `json:"current_capacity"`
	MaximumCapacity int    `json:"maximum_capacity"`
	Priority        bool   `json:"priority"`
}

type SpotUpdateRequest struct {
	Available *bool   `json:"available"`
	Priority  *string `json:"priority"`
}

type SpotResponse struct {
	ParkingSpotID int64  `json:"parking_spot_id"`
	AreaID        int64  `json:"area_id"`
	Number        int    `json:"number"`
	Available     bool   `json:"available"`
	Priority      string `json:"priority"`
}
