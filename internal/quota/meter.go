// Package quota gates metered operations against a tenant's plan limit and
// persists the per-period counter.
package quota

import (
	"context"
	"time"

	"github.com/Max-Caria/Reiterstube-Recensioni/internal/directory"
)

// PeriodPolicy buckets usage counters in time. A new key means a fresh zero
// counter; old counters are neither migrated nor aggregated.
type PeriodPolicy interface {
	Key(t time.Time) string
}

// CalendarMonthPeriod resets usage on the first of every calendar month,
// independent of the tenant's billing anniversary. Usage seen on the last day
// of a month is invisible to a check made the next day; accepted trade-off.
type CalendarMonthPeriod struct{}

func (CalendarMonthPeriod) Key(t time.Time) string {
	return t.Format("2006-01")
}

// UsageStore persists counters.
type UsageStore interface {
	SaveUsage(ctx context.Context, tenantID, periodKey string, value int) error
}

// Meter tracks consumption against the plan limit. The check and the
// increment form a single logical step: callers invoke TryConsume strictly
// before the metered capability, and a denial means the operation must not
// run at all.
type Meter struct {
	store  UsageStore
	policy PeriodPolicy
	now    func() time.Time
}

// NewMeter creates a meter with the given period policy.
func NewMeter(store UsageStore, policy PeriodPolicy) *Meter {
	return &Meter{store: store, policy: policy, now: time.Now}
}

// PeriodKey is the bucket for the current instant.
func (m *Meter) PeriodKey() string {
	return m.policy.Key(m.now())
}

// TryConsume charges one credit if the tenant is under its plan limit.
// When the limit is reached it returns (false, current) without touching
// storage; the caller must block the operation and surface the exhausted
// quota. Otherwise it persists current+1 and returns (true, current+1).
func (m *Meter) TryConsume(ctx context.Context, tenant directory.Tenant, current int) (bool, int, error) {
	if current >= tenant.PlanLimit {
		return false, current, nil
	}
	next := current + 1
	if err := m.store.SaveUsage(ctx, tenant.ID, m.PeriodKey(), next); err != nil {
		return true, next, err
	}
	return true, next, nil
}

// Refund returns one previously consumed credit. Only used when the
// refund-on-failure policy is enabled; the default metering charges before
// the attempt and keeps the credit on failure.
func (m *Meter) Refund(ctx context.Context, tenant directory.Tenant, current int) (int, error) {
	if current <= 0 {
		return 0, nil
	}
	next := current - 1
	if err := m.store.SaveUsage(ctx, tenant.ID, m.PeriodKey(), next); err != nil {
		return next, err
	}
	return next, nil
}
