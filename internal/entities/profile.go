package entities

// ProfileRequest is the body of POST and PUT /profile/{user_id}. On PUT every
// field is optional.
type ProfileRequest struct {
	UserID     *int64  `json:"user_id"`
	Preference *int64  `json:"preference"`
	Role       *string `json:"role"`
	Priority   *string `json:"priority"`
}

// ProfileResponse is GET /profile/{user_id}. Preference is the preferred area id.
type ProfileResponse struct {
	ID                 int64  `json:"id"`
	PreferenceLotID    int64  `json:"preference_lot_id"`
	PreferenceLotName  string `json:"preference_lot_name"`
	PreferenceAreaID   int64  `json:"preference_area_id"`
	PreferenceAreaName string `json:"preference_area_name"`
	Preference         int64  `json:"preference"`
	Role               string `json:"role"`
	Priority           string `json:"priority"`
	Expired            string `json:"expired"`
}

// ProfileWriteResponse is returned by POST and PUT /profile/{user_id}.
type ProfileWriteResponse struct {
	ID         int64  `json:"id"`
	Preference int64  `json:"preference"`
	Role       string `json:"role"`
	Priority   string `json:"priority"`
	Expired    string `json:"expired"`
}
