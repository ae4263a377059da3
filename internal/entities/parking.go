package entities

type MyCarResponse struct {
	CarID             int64  `json:"car_id"`
	ParkingSpotNumber int    `json:"parking_spot_number"`
	AreaName          string `json:"area_name"`
	AreaFloor         int    `json:"area_floor"`
	ParkingLotName    string `json:"parking_lot_name"`
	StartTime         string `json:"start_time"`
}

type HistoryEntry struct {
	Type      string  `json:"type"`
	UserID    int64   `json:"user_id"`
	License   string  `json:"license"`
	StartTime string  `json:"start_time"`
	EndTime   *string `json:"end_time"`
}

type UserStatusResponse struct {
	Status string `json:"status"`
}

const (
	HistoryAttendance  = "attendance"
	HistoryReservation = "reservation"

	UserStatusParked   = "parked"
	UserStatusReserved = "reserved"
	UserStatusIdle     = "idle"
)
