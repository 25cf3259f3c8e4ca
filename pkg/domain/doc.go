/*
Package domain contains the core types shared by every layer of the osl console.

It is kept free of I/O: the HTTP transport, persistence and presentation live in
adapters that depend on this package, never the other way around.

# Key Entities

  - Identity: the operator's tenant id and API token.
  - ActionDescriptor: the static credential policy and route of one backend endpoint.
  - Outcome: the normalized success or failure of one dispatched action.
  - StatusBoard: the shared tenant/API status indicators (last write wins).
  - Hooks: observability callbacks fired around each dispatch.
*/
package domain
