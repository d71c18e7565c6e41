package models

// TeamPoints is one team's line on the trip scoreboard. Points counts a win
// as the session's points per match and a halved match as half of them.
type TeamPoints struct {
	TeamID   int     `json:"team_id"`
	TeamName string  `json:"team_name"`
	Points   float64 `json:"points"`
	Wins     int     `json:"wins"`
	Halves   int     `json:"halves"`
	Losses   int     `json:"losses"`
}

// PlayerRecord is one player's match record across a trip.
type PlayerRecord struct {
	UserID      int     `json:"user_id"`
	DisplayName string  `json:"display_name"`
	TeamID      *int    `json:"team_id,omitempty"`
	Played      int     `json:"played"`
	Wins        int     `json:"wins"`
	Halves      int     `json:"halves"`
	Losses      int     `json:"losses"`
	Points      float64 `json:"points"`
}

// SessionLine is one session's contribution to the scoreboard.
type SessionLine struct {
	SessionID int           `json:"session_id"`
	RoundNo   int           `json:"round_no"`
	Format    SessionFormat `json:"format"`
	Status    SessionStatus `json:"status"`
	PointsA   float64       `json:"points_a"`
	PointsB   float64       `json:"points_b"`
}

// TripStandings is the whole trip scoreboard in one response.
type TripStandings struct {
	TripID       int            `json:"trip_id"`
	Teams        []TeamPoints   `json:"teams"`
	Sessions     []SessionLine  `json:"sessions"`
	Players      []PlayerRecord `json:"players"`
	PointsToWin  float64        `json:"points_to_win"`
	TotalPoints  float64        `json:"total_points"`
	MatchesTotal int            `json:"matches_total"`
	MatchesDone  int            `json:"matches_done"`
}

// TripStats is the admin dashboard counter block.
type TripStats struct {
	UsersTotal    int `json:"users_total"`
	TripsTotal    int `json:"trips_total"`
	ActiveTrips   int `json:"active_trips"`
	MatchesTotal  int `json:"matches_total"`
	PressesTotal  int `json:"presses_total"`
	SessionsTotal int `json:"sessions_total"`
}
