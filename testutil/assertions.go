package testutil

import (
	"fmt"

	"github.com/lucas874/machine-go/engine/errs"
	"github.com/lucas874/machine-go/engine/label"
	"github.com/lucas874/machine-go/engine/subscription"
)

// AssertReportEmpty returns an error describing the report's contents if it
// is non-empty, for tests that expect a clean check.
func AssertReportEmpty(report *errs.Report) error {
	if report.Empty() {
		return nil
	}
	return fmt.Errorf("expected empty error report, got %d error(s): %v", len(report.Errors), report.Strings())
}

// AssertReportHasKind returns an error if no error in the report has the
// given Kind().
func AssertReportHasKind(report *errs.Report, kind string) error {
	for _, e := range report.Errors {
		if e.Kind() == kind {
			return nil
		}
	}
	return fmt.Errorf("expected an error of kind %q, report had: %v", kind, report.Strings())
}

// AssertSubscriptionContains returns an error if role does not subscribe to
// every one of the given event types.
func AssertSubscriptionContains(subs subscription.Subscriptions, role label.Role, events ...label.EventType) error {
	have := subs[role]
	for _, e := range events {
		if !have.Contains(e) {
			return fmt.Errorf("expected role %q to subscribe to %q, subscription was %v", role, e, have)
		}
	}
	return nil
}

// AssertSubscriptionEquals returns an error if role's subscription is not
// exactly the given event-type set (no more, no fewer).
func AssertSubscriptionEquals(subs subscription.Subscriptions, role label.Role, want label.EventTypeSet) error {
	have := subs[role]
	for e := range want {
		if !have.Contains(e) {
			return fmt.Errorf("role %q missing expected event %q, subscription was %v", role, e, have)
		}
	}
	for e := range have {
		if !want.Contains(e) {
			return fmt.Errorf("role %q has unexpected event %q, subscription was %v", role, e, have)
		}
	}
	return nil
}
