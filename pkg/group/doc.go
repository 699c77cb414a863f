// Package group keeps the multicast group table of a node.
//
// The table has MaxGroups entries of MaxHandlers handlers each. A group is
// identified by the low 16 bits of its IPv6 multicast address; outbound
// updates go to Prefix::<id>. Joins that find no room are dropped without
// an error, and leaving a group clears the handler but keeps the entry, so
// an identifier once stored occupies its slot for the life of the table.
package group
