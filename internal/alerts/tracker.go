package alerts

import (
	"context"
	"log/slog"
	"os"
	"strconv"

	"github.com/SilverCare-Graduation-Project/Backend/models"
)

// DefaultThreshold is the humidity ceiling in percent.
const DefaultThreshold = 80.0

// statusStore is what the tracker needs from the persistence layer.
type statusStore interface {
	Get(ctx context.Context) (models.AlertStatus, error)
	CompareAndSwap(ctx context.Context, from, to models.AlertStatus) (bool, error)
}

// Tracker owns the humidity threshold policy. Only the rising edge of a
// breach reports a transition; while the status stays alert, repeat breaches
// are debounced so one stuck sensor cannot flood the caregiver's inbox.
type Tracker struct {
	Store     statusStore
	Threshold float64
	Logger    *slog.Logger
}

func NewTracker(store *StatusStore, logger *slog.Logger) *Tracker {
	threshold := DefaultThreshold
	if raw := os.Getenv("HUMIDITY_THRESHOLD"); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil {
			threshold = parsed
		} else {
			logger.Warn("Invalid HUMIDITY_THRESHOLD, using default", "raw", raw)
		}
	}

	return &Tracker{
		Store:     store,
		Threshold: threshold,
		Logger:    logger,
	}
}

// Evaluate runs one reading through the status machine and persists any
// transition. transitioned is true only on normal->alert, and only for the
// invocation whose conditional write won; a lost race reads as no
// transition so two concurrent breaches cannot both notify.
func (t *Tracker) Evaluate(ctx context.Context, humidity float64) (transitioned bool, status models.AlertStatus, err error) {
	current, err := t.Store.Get(ctx)
	if err != nil {
		return false, "", err
	}

	breach := humidity > t.Threshold

	switch {
	case breach && current == models.StatusNormal:
		swapped, err := t.Store.CompareAndSwap(ctx, models.StatusNormal, models.StatusAlert)
		if err != nil {
			return false, current, err
		}
		if !swapped {
			t.Logger.Info("Lost breach race, another invocation already alerted")
			return false, models.StatusAlert, nil
		}
		return true, models.StatusAlert, nil

	case !breach && current == models.StatusAlert:
		if _, err := t.Store.CompareAndSwap(ctx, models.StatusAlert, models.StatusNormal); err != nil {
			return false, current, err
		}
		return false, models.StatusNormal, nil

	default:
		// breach while already alert (debounce) or calm while normal.
		return false, current, nil
	}
}
