package entities

type ReservationEmailData struct {
	UserName          string
	CarLicense        string
	ParkingLotName    string
	AreaName          string
	AreaFloor         int
	ParkingSpotNumber int
	ReservationTime   string
	ExpiredTime       string
	Status            string
	CurrentYear       int
}
