package recovery

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"cartrecovery/internal/apperr"
	"cartrecovery/internal/docstore"
	"cartrecovery/internal/domain/cartdetector"
	"cartrecovery/internal/domain/customers"
	"cartrecovery/internal/domain/diagnosis"
	"cartrecovery/internal/domain/policy"
)

// Write persists a new recovery_history document with a fresh recovery_id
// and outcome.status="pending" (spec.md §4.7). recovery_id is
// "rec_" + a 32-hex-char UUID with dashes stripped, grounded on the teacher's
// use of google/uuid for opaque token generation.
func Write(ctx context.Context, store docstore.Store, cart cartdetector.CartCandidate, customer customers.Profile, d diagnosis.Diagnosis, action policy.Action, sentAt time.Time) (string, error) {
	recoveryID := "rec_" + strings.ReplaceAll(uuid.NewString(), "-", "")

	doc := Record{
		Timestamp:  time.Now().UTC(),
		RecoveryID: recoveryID,
		CartID:     cart.CartID,
		CustomerID: cart.CustomerID,
		Segment:    string(customer.Segment),
		CartValue:  cart.CartValue,
		Currency:   cart.Currency,
		Diagnosis: DiagnosisRef{
			RootCause: string(d.RootCause),
			Signals:   d.Signals,
		},
		Action: ActionRef{
			Type:            string(action.Type),
			Channel:         action.Channel,
			DiscountPercent: action.DiscountPercent,
			FreeShipping:    action.FreeShipping,
			Template:        action.Template,
		},
		SentAt:  sentAt,
		Outcome: Outcome{Status: "pending"},
	}

	if err := store.IndexWithID(ctx, docstore.RecoveryHistory, recoveryID, doc); err != nil {
		return "", apperr.StoreUnavailablef(err, "record recovery attempt for cart %s", cart.CartID)
	}
	return recoveryID, nil
}
