package distance

// Coordinates WGS84 point
type Coordinates struct {
	Lat float64
	Lng float64
}

// postcodeResponse body of GET /postcodes/{postcode}
type postcodeResponse struct {
	Status int `json:"status"`
	Result *struct {
		Postcode  string   `json:"postcode"`
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	} `json:"result"`
	Error string `json:"error"`
}
