package location

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const lastKnownTTL = 15 * time.Minute

type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// PermissionChecker gates location reads, mirroring the device-side
// permission prompt. Denial is not an error.
type PermissionChecker interface {
	LocationSharingEnabled(ctx context.Context, userID string) bool
}

type Service struct {
	redis *redis.Client
	perms PermissionChecker
}

func NewService(redisClient *redis.Client, perms PermissionChecker) *Service {
	return &Service{redis: redisClient, perms: perms}
}

// Report stores the device's latest coordinates. Stale fixes expire on
// their own.
func (s *Service) Report(ctx context.Context, userID string, p Point) error {
	if s.redis == nil {
		return nil
	}
	payload, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, lastKnownKey(userID), payload, lastKnownTTL).Err()
}

// Current returns the last known location if sharing is permitted and a
// recent fix exists. Every failure path degrades to "no location".
func (s *Service) Current(ctx context.Context, userID string) (Point, bool) {
	if s.redis == nil || s.perms == nil || !s.perms.LocationSharingEnabled(ctx, userID) {
		return Point{}, false
	}

	raw, err := s.redis.Get(ctx, lastKnownKey(userID)).Bytes()
	if err != nil {
		return Point{}, false
	}

	var p Point
	if err := json.Unmarshal(raw, &p); err != nil {
		return Point{}, false
	}
	return p, true
}

func lastKnownKey(userID string) string {
	return "loc:" + userID + ":last"
}
