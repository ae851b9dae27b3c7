// Package schema holds the authored form: Store keeps the title, ordered
// fields and custom type labels, and Editor applies authoring operations to
// it. Observers subscribe to the Store and receive an Event after every
// applied change, in the order the changes were made.
package schema
