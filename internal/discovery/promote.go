package discovery

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/stagelist/venue-cli/internal/model"
)

// VenueStore is the slice of directory behavior promotion needs.
type VenueStore interface {
	Load() ([]model.Venue, error)
	Save(venues []model.Venue) error
}

// PromoteResult reports the outcome of one promotion pass.
type PromoteResult struct {
	Promoted int
	Skipped  int
}

// Promote copies every approved discovered venue into the main directory,
// skipping identity pairs already present. Discovered records are retained
// unchanged so the triage history stays auditable.
func Promote(discovered DiscoveredStore, venues VenueStore) (*PromoteResult, error) {
	candidates, err := discovered.Load()
	if err != nil {
		return nil, eris.Wrap(err, "discovery: load discovered")
	}

	existing, err := venues.Load()
	if err != nil {
		return nil, eris.Wrap(err, "discovery: load directory")
	}

	seen := make(map[string]bool, len(existing))
	for _, v := range existing {
		seen[v.Key()] = true
	}

	res := &PromoteResult{}
	for _, d := range candidates {
		if d.Status != model.StatusApproved {
			continue
		}
		if seen[d.Key()] {
			res.Skipped++
			continue
		}
		seen[d.Key()] = true
		existing = append(existing, model.Venue{
			Name:      d.Name,
			Location:  d.Location,
			Address:   d.Address,
			VenueType: d.VenueType,
			Website:   d.Website,
		})
		res.Promoted++
	}

	if res.Promoted > 0 {
		if err := venues.Save(existing); err != nil {
			return nil, eris.Wrap(err, "discovery: save directory")
		}
	}

	zap.L().Info("promotion complete",
		zap.Int("promoted", res.Promoted),
		zap.Int("skipped", res.Skipped),
	)
	return res, nil
}
