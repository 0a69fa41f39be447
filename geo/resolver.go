package geo

import (
	"math"

	"bubble_server/model"
)

// EarthRadiusMeters is the spherical-earth radius used by Distance.
const EarthRadiusMeters = 6371000.0

// Config carries the zone radii and movement threshold. Values come from the
// application config so tests can vary them per case.
type Config struct {
	HomeRadiusMeters     float64
	WorkRadiusMeters     float64
	SchoolRadiusMeters   float64
	MovingSpeedThreshold float64 // m/s
}

// DefaultConfig matches the production defaults (200m home, 500m work and
// school, 1.4 m/s ≈ 5 km/h).
func DefaultConfig() Config {
	return Config{
		HomeRadiusMeters:     200,
		WorkRadiusMeters:     500,
		SchoolRadiusMeters:   500,
		MovingSpeedThreshold: 1.4,
	}
}

// Distance returns the great-circle distance in meters between two
// coordinates using the haversine formula.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

// Resolve maps a raw fix to a coarse status against the user's registered
// zones. Evaluation order is fixed and first-match-wins: home, work, school,
// custom zones in registration order, then the movement heuristic. A nil
// user resolves to unknown. The second return value is the matched custom
// zone's name, nil otherwise.
func Resolve(lat, lon float64, speed *float64, user *model.User, cfg Config) (model.LocationStatus, *string) {
	if user == nil {
		return model.StatusUnknown, nil
	}

	if addr := user.HomeAddress; addr != nil {
		if Distance(lat, lon, addr.Latitude, addr.Longitude) <= cfg.HomeRadiusMeters {
			return model.StatusHome, nil
		}
	}
	if addr := user.WorkAddress; addr != nil {
		if Distance(lat, lon, addr.Latitude, addr.Longitude) <= cfg.WorkRadiusMeters {
			return model.StatusWork, nil
		}
	}
	if addr := user.SchoolAddress; addr != nil {
		if Distance(lat, lon, addr.Latitude, addr.Longitude) <= cfg.SchoolRadiusMeters {
			return model.StatusSchool, nil
		}
	}

	for i := range user.CustomLocations {
		zone := &user.CustomLocations[i]
		radius := float64(zone.RadiusMeters)
		if radius <= 0 {
			radius = model.DefaultCustomRadiusMeters
		}
		if Distance(lat, lon, zone.Latitude, zone.Longitude) <= radius {
			name := zone.Name
			return model.StatusCustom, &name
		}
	}

	if speed != nil && *speed > cfg.MovingSpeedThreshold {
		return model.StatusMoving, nil
	}

	return model.StatusUnknown, nil
}
