// Package geoip resolves an approximate coordinate from the client IP using
// a MaxMind City database. It is the fallback path for browsers that report
// no geolocation capability; accuracy is city-level, which is enough for a
// radius search measured in kilometres.
package geoip

import (
	"fmt"
	"net"

	"github.com/oschwald/geoip2-golang"

	"menufront/internal/domain"
)

type Locator struct {
	db *geoip2.Reader
}

// Open loads the mmdb at path. An empty path yields a Locator that reports
// capability-unavailable for every lookup, so callers need no nil checks.
func Open(path string) (*Locator, error) {
	if path == "" {
		return &Locator{}, nil
	}
	db, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open geoip db: %w", err)
	}
	return &Locator{db: db}, nil
}

func (l *Locator) Locate(ip net.IP) (domain.Coordinate, error) {
	if l.db == nil {
		return domain.Coordinate{}, domain.ErrNoLocationSupport
	}
	if ip == nil || ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() {
		return domain.Coordinate{}, domain.ErrLocationUnknown
	}
	rec, err := l.db.City(ip)
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("%w: %v", domain.ErrLocationUnknown, err)
	}
	if rec.Location.Latitude == 0 && rec.Location.Longitude == 0 {
		return domain.Coordinate{}, domain.ErrLocationUnknown
	}
	return domain.NewCoordinate(rec.Location.Latitude, rec.Location.Longitude)
}

func (l *Locator) Close() error {
	if l.db == nil {
		return nil
	}
	return l.db.Close()
}
