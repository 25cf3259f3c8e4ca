/*
Package osl is a tenant-scoped operator console for a multi-tenant commerce backend.

It drives the backend (tenants, products, customers, warehouses, orders,
allocation and stock events) through named actions. The console keeps the
operator's tenant id and API token, decides which headers and checks each action
needs, sends exactly one HTTP request per action, normalizes the answer into an
Outcome and copies identifiers produced by one action into the inputs of the next.

# Concept

Every action is a row of a command table: route, credential policy, the form
fields it reads and where its result is shown. Actions never fail with a Go error
for backend or input problems; they produce an Outcome carrying either the
response payload or a classified Failure (missing_tenant, missing_token,
validation, application, transport).

# Usage

	console, err := osl.New("http://localhost:8000",
		osl.WithStore(file.New("")),
		osl.WithPresenter(presenter.NewText(os.Stdout)),
	)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	console.Restore(ctx)
	console.SetTenant(ctx, "11111111-1111-1111-1111-111111111111")

	// create_product fills the order form with the new product id.
	console.Invoke(ctx, "create_product", map[string]string{"sku": "S1", "name": "Widget", "price": "9.90"})
	console.Invoke(ctx, "create_order", map[string]string{"customer_id": "c1", "qty": "2"})
	console.Invoke(ctx, "allocate", nil)

# Packages

  - pkg/domain: shared types (Identity, ActionDescriptor, Outcome, StatusBoard, Hooks).
  - pkg/credentials: the tenant/token store.
  - pkg/dispatch: request building, sending and normalization.
  - pkg/workflow: the command table and the Coordinator.
  - pkg/adapters: key-value stores (memory, file, redis) and the MCP server.
  - pkg/presenter: text and JSON Lines output.
*/
package osl
