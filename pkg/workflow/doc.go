/*
Package workflow holds the command table and the Coordinator that runs it.

Each action is one row of the table: a descriptor (route and credential policy),
the output slot it renders into, the form fields it reads, a builder that turns
those fields into a request (rejecting bad input before anything is sent), and an
optional chain step that copies identifiers from a successful response into the
fields of later actions.

	create_product  -> order.product_id
	create_customer -> order.customer_id
	create_order    -> order.id
	create_warehouse -> stock.warehouse_id
	create_tenant   -> the active tenant

The update actions read the same identifiers back as defaults, so
"update_product price=12.50" edits the product that was just created. They send
only the fields that are set and refuse to send an empty update.

The Coordinator is safe for concurrent use: every Invoke is an independent
request/response cycle and only the form fields, credentials and status board are
shared.
*/
package workflow
