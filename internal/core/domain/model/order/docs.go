// Package order provides domain entities and business logic for laboratory
// exam orders. It implements the Order aggregate root with its items, results,
// and delivery events.
//
// The package includes:
//   - Order: The aggregate root that owns the items and enforces cross-item rules
//   - Item: One requested exam, with a per-item status state machine
//   - Result: The entered result of an item, locked once signed
//   - Delivery: A record of handing signed results to a recipient
//   - ItemStatus / Status: item-level transitions and the derived order status
//
// Key business rules:
//   - Items move AwaitingCollection -> Collected -> InAnalysis -> ResultEntered
//     -> Signed -> Delivered, with cancellation possible up to ResultEntered
//   - The order-level status is always derived from the item statuses
//   - Signed results are immutable; corrections require a new sign-off cycle
//   - Delivery requires signed items and the facility's verification policy
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package order
