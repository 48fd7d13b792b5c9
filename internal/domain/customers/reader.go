package customers

import (
	"context"
	"errors"

	"cartrecovery/internal/apperr"
	"cartrecovery/internal/docstore"
)

// Get loads a customer profile by id, filling in defaults for any omitted
// field. Returns apperr.NotFound if the profile does not exist.
func Get(ctx context.Context, store docstore.Store, customerID string) (Profile, error) {
	doc, err := store.GetByID(ctx, docstore.CustomerProfiles, customerID)
	if err != nil {
		if errors.Is(err, apperr.NotFound) {
			return Profile{}, apperr.NotFoundf("customer %s not found", customerID)
		}
		return Profile{}, err
	}

	var p Profile
	if err := doc.Decode(&p); err != nil {
		return Profile{}, apperr.StoreUnavailablef(err, "decode customer profile %s", customerID)
	}
	p.CustomerID = customerID
	p.applyDefaults()
	return p, nil
}
