// Package engagement models the durable timer behind the two-phase
// restaurant/courier engagement of an order.
//
// A Job runs one Phase for one order no earlier than its run time. Jobs are
// leased while being processed, completed on success, retried with a backoff
// on transient failures, and abandoned when retrying cannot help.
package engagement
