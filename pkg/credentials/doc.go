/*
Package credentials holds the operator's tenant id and API token.

The Store keeps the in-memory values and the persisted values in sync after
every apply, restores them on startup, and mirrors each change onto the shared
status board. Persistence is best effort: a failing key-value backend degrades
to "no cached value" and is logged, it never fails an operator action.
*/
package credentials
