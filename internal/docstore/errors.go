package docstore

import (
	"fmt"
	"net/http"

	"cartrecovery/internal/apperr"
)

func statusError(collection Collection, status int, body string) error {
	if status == http.StatusNotFound {
		return apperr.NotFoundf("document not found in %s", collection)
	}
	return apperr.StoreUnavailablef(
		fmt.Errorf("unexpected status %d: %s", status, body),
		"store request against %s failed", collection,
	)
}
