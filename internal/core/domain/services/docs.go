// Package services provides the domain services of the fulfillment lifecycle:
//   - InventoryLedger: all-or-nothing stock reservation and release
//   - AccessPolicy: the static role capability table plus ownership rules
//   - LifecycleEngine: applies lifecycle operations to an order, its
//     shipments and its stock, keeping them jointly consistent
//
// Services are pure: they mutate loaded aggregates and leave transactions and
// persistence to the application layer.
package services
