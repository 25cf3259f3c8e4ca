/*
Package ports defines the driven ports (interfaces) of the osl console.

These interfaces decouple the coordination core from concrete persistence and
presentation, so the same session logic runs against a JSON file, Redis, or
memory, and renders to a terminal, NDJSON, or an MCP client.

# Key Interfaces

  - KeyValueStore: durable string key-value storage for client-side state.
  - Presenter: receives each action's Outcome together with its output slot.
*/
package ports
