// Package healing contains the watchdog's intervention model. An Action
// records one detected stall (routing or workflow) on one order, the
// remediation chosen for it, and the outcome.
//
// ClassifyRecovery encodes the escalation policy: routing stalls get a
// vendor reassignment, workflow stalls get a retry, and any order that has
// already burned through the automated attempt budget is parked for manual
// intervention with an operator alert.
package healing
